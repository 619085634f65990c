package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-doc-triage/internal/adapters/mailparse"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/ports"
	"go.uber.org/zap"
)

// SMTPIntake accepts mail over SMTP, triages every message and optionally
// relays it downstream with triage headers added
type SMTPIntake struct {
	pipeline       ports.Pipeline
	parser         core.EmailParser
	logger         *zap.Logger
	listenAddr     string
	domain         string
	forwardEnabled bool
	forwardAddr    string
	forwardPort    int
	routeHeader    string
	intentHeader   string
	urgencyHeader  string
	timeout        time.Duration
	server         *smtp.Server
	listener       net.Listener
}

// NewSMTPIntake creates a new SMTP intake
func NewSMTPIntake(
	pipeline ports.Pipeline,
	parser core.EmailParser,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	forwardEnabled bool,
	forwardAddr string,
	forwardPort int,
	routeHeader string,
	intentHeader string,
	urgencyHeader string,
	timeout time.Duration,
) *SMTPIntake {
	if domain == "" {
		domain = "localhost"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SMTPIntake{
		pipeline:       pipeline,
		parser:         parser,
		logger:         logger,
		listenAddr:     listenAddr,
		domain:         domain,
		forwardEnabled: forwardEnabled,
		forwardAddr:    forwardAddr,
		forwardPort:    forwardPort,
		routeHeader:    routeHeader,
		intentHeader:   intentHeader,
		urgencyHeader:  urgencyHeader,
		timeout:        timeout,
	}
}

// Start binds the listen address and serves SMTP in the background
func (i *SMTPIntake) Start() error {
	listener, err := net.Listen("tcp", i.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", i.listenAddr, err)
	}
	i.listener = listener

	i.server = smtp.NewServer(&smtpBackend{intake: i})
	i.server.Addr = listener.Addr().String()
	i.server.Domain = i.domain
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	i.server.MaxRecipients = 50

	i.logger.Info("SMTP intake starting",
		zap.String("address", i.server.Addr),
		zap.Bool("forward", i.forwardEnabled))

	go func() {
		if err := i.server.Serve(listener); err != nil && err != smtp.ErrServerClosed {
			i.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop closes the listener and every open session
func (i *SMTPIntake) Stop() error {
	if i.server != nil {
		return i.server.Close()
	}
	return nil
}

// Addr returns the bound address once started
func (i *SMTPIntake) Addr() net.Addr {
	if i.listener == nil {
		return nil
	}
	return i.listener.Addr()
}

// Handle triages one raw message and returns it with the triage headers prepended
func (i *SMTPIntake) Handle(ctx context.Context, sender string, raw []byte) (core.PipelineResult, []byte) {
	in := core.NewTextInput(mailparse.Render(i.parser.Parse(raw)))
	in.Source = "smtp:" + sender

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	result := i.pipeline.Process(ctx, in)

	route, intent, urgency := Annotations(result)
	var annotated bytes.Buffer
	fmt.Fprintf(&annotated, "%s: %s\r\n", i.routeHeader, route)
	if intent != "" {
		fmt.Fprintf(&annotated, "%s: %s\r\n", i.intentHeader, intent)
	}
	if urgency != "" {
		fmt.Fprintf(&annotated, "%s: %s\r\n", i.urgencyHeader, urgency)
	}
	annotated.Write(raw)

	return result, annotated.Bytes()
}

// forward relays the annotated message to the downstream MTA
func (i *SMTPIntake) forward(sender string, recipients []string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", i.forwardAddr, i.forwardPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			i.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		accepted = true
	}
	if !accepted {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message was already accepted
		i.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// Annotations returns the route and, for agents that produce them, the
// intent and urgency of a pipeline result
func Annotations(result core.PipelineResult) (route, intent, urgency string) {
	route = string(result.Classification.RouteTo)
	switch out := result.Output.(type) {
	case core.EmailResult:
		intent, urgency = out.Metadata.Intent, out.Metadata.Urgency
	case core.TextResult:
		intent, urgency = out.Intent, out.Urgency
	}
	return route, intent, urgency
}

type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		intake:     b.intake,
		recipients: make([]string, 0),
	}, nil
}

type smtpSession struct {
	intake     *SMTPIntake
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data triages the message and relays it when forwarding is enabled
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	result, annotated := s.intake.Handle(context.Background(), s.sender, raw)
	route, intent, urgency := Annotations(result)

	if s.intake.forwardEnabled {
		if err := s.intake.forward(s.sender, s.recipients, annotated); err != nil {
			s.intake.logger.Error("Failed to forward message",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	}

	s.intake.logger.Info("Triaged message",
		zap.String("id", result.ID),
		zap.String("sender", s.sender),
		zap.Int("recipients", len(s.recipients)),
		zap.String("route_to", route),
		zap.String("intent", intent),
		zap.String("urgency", urgency),
		zap.Bool("forwarded", s.intake.forwardEnabled))

	return nil
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}
