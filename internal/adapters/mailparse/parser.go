package mailparse

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/heuristics"
	"go.uber.org/zap"
)

// Parser performs a best-effort structural parse of raw RFC 5322 messages
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a new Parser
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts headers, the text body and attachment names. Parts that
// cannot be decoded are skipped; a message that cannot be read at all is
// returned as a body-only record.
func (p *Parser) Parse(raw []byte) core.ParsedEmail {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		p.logger.Debug("Message is not MIME, treating it as plain text", zap.Error(err))
		return plainText(raw)
	}
	defer mr.Close()

	parsed := core.ParsedEmail{
		From:        firstAddress(mr.Header, "From"),
		To:          addresses(mr.Header, "To"),
		Attachments: []string{},
	}
	if subject, err := mr.Header.Subject(); err == nil {
		parsed.Subject = subject
	}
	if date, err := mr.Header.Date(); err == nil {
		parsed.Date = date
	}

	var htmlBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Debug("Stopped reading message parts", zap.Error(err))
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				p.logger.Debug("Failed to read inline part", zap.String("content_type", contentType), zap.Error(err))
				continue
			}
			switch {
			case (contentType == "" || strings.HasPrefix(contentType, "text/plain")) && parsed.Body == "":
				parsed.Body = string(body)
			case strings.HasPrefix(contentType, "text/html") && htmlBody == "":
				htmlBody = string(body)
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if filename == "" {
				filename = "unnamed"
			}
			parsed.Attachments = append(parsed.Attachments, filename)
		}
	}

	if parsed.Body == "" {
		parsed.Body = htmlBody
	}
	return parsed
}

// Render writes a parsed message back out as the header lines and plain body
// the email agent reads
func Render(email core.ParsedEmail) string {
	var b strings.Builder
	if email.From != "" {
		fmt.Fprintf(&b, "From: %s\n", email.From)
	}
	if len(email.To) > 0 {
		fmt.Fprintf(&b, "To: %s\n", strings.Join(email.To, ", "))
	}
	if email.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	}
	if !email.Date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", email.Date.Format("Mon, 2 Jan 2006 15:04:05 -0700"))
	}
	if len(email.Attachments) > 0 {
		fmt.Fprintf(&b, "Attachments: %s attached\n", strings.Join(email.Attachments, ", "))
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(email.Body))
	return b.String()
}

func firstAddress(h mail.Header, key string) string {
	list := addresses(h, key)
	if len(list) == 0 {
		return strings.TrimSpace(h.Get(key))
	}
	return list[0]
}

func addresses(h mail.Header, key string) []string {
	list, err := h.AddressList(key)
	if err != nil || len(list) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, addr := range list {
		if addr.Name != "" {
			out = append(out, fmt.Sprintf("%s <%s>", addr.Name, addr.Address))
		} else {
			out = append(out, addr.Address)
		}
	}
	return out
}

func plainText(raw []byte) core.ParsedEmail {
	text := string(raw)
	parsed := core.ParsedEmail{
		To:          heuristics.ExtractRecipients(text),
		Body:        text,
		Attachments: []string{},
	}
	if addr, ok := heuristics.ExtractSenderEmail(text); ok {
		parsed.From = addr
	}
	if subject := heuristics.ExtractSubject(text); subject != heuristics.NoSubject {
		parsed.Subject = subject
	}
	return parsed
}
