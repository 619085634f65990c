package emailagent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/domains"
	"github.com/mikey/llm-doc-triage/internal/heuristics"
	"github.com/mikey/llm-doc-triage/internal/utils"
	"go.uber.org/zap"
)

const responsePromptFormat = `You are a customer success representative. Write a short, professional reply to the email below.
Address the sender by their first name (%s), answer every point they raise, and propose a clear next step.
The email was classified as "%s" with %s urgency. Do not include a signature.

Email:
%s`

// Agent extracts metadata from emails and drafts a reply
type Agent struct {
	llm           core.LLMClient
	knownDomains  *domains.Checker
	signature     string
	textProcessor *utils.TextProcessor
	maxInputSize  int
	timeout       time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// NewAgent creates an email agent. A nil llm means replies always come from
// the templates.
func NewAgent(
	llm core.LLMClient,
	knownDomains *domains.Checker,
	signature string,
	textProcessor *utils.TextProcessor,
	maxInputSize int,
	timeout time.Duration,
	logger *zap.Logger,
) *Agent {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Agent{
		llm:           llm,
		knownDomains:  knownDomains,
		signature:     signature,
		textProcessor: textProcessor,
		maxInputSize:  maxInputSize,
		timeout:       timeout,
		now:           time.Now,
		logger:        logger,
	}
}

// Process extracts metadata, intent and urgency and drafts a reply. It never
// fails; internal errors produce an error-flagged record.
func (a *Agent) Process(ctx context.Context, text string) (result core.EmailResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Email agent failed", zap.Any("panic", r))
			result = a.errorResult(fmt.Sprint(r))
		}
	}()

	metadata := a.ExtractMetadata(text)
	body := heuristics.ExtractBody(text)

	response := a.respond(ctx, text, metadata)
	if a.signature != "" {
		response += "\n\n" + a.signature
	}

	a.logger.Info("Processed email",
		zap.String("sender", metadata.SenderEmail),
		zap.String("subject", metadata.Subject),
		zap.String("intent", metadata.Intent),
		zap.String("urgency", metadata.Urgency),
		zap.Bool("known_sender", metadata.KnownSender))

	return core.EmailResult{
		Status:   core.StatusSuccess,
		Metadata: metadata,
		Content: core.EmailContent{
			Body:             body,
			Response:         response,
			SuggestedActions: SuggestedActions(metadata.Intent),
		},
	}
}

// ExtractMetadata runs the pattern extractors and keyword heuristics over text
func (a *Agent) ExtractMetadata(text string) core.EmailMetadata {
	sender, ok := heuristics.ExtractSenderEmail(text)
	if !ok {
		sender = heuristics.UnknownSender
	}
	subject := heuristics.ExtractSubject(text)

	// Header lines would feed addresses like support@ into the keyword match
	signal := subject + "\n" + heuristics.StripHeaders(text)

	return core.EmailMetadata{
		SenderEmail:    sender,
		SenderName:     heuristics.ExtractSenderName(text),
		Subject:        subject,
		Recipients:     heuristics.ExtractRecipients(text),
		HasAttachments: heuristics.MentionsAttachment(text),
		KnownSender:    ok && a.knownDomains.IsKnown(sender),
		Intent:         heuristics.ClassifyIntent(signal),
		Urgency:        heuristics.ClassifyUrgency(signal),
		ReceivedAt:     a.now().UTC(),
	}
}

// TemplateResponse fills the intent's reply template
func TemplateResponse(metadata core.EmailMetadata) string {
	return fmt.Sprintf(ResponseTemplate(metadata.Intent), heuristics.FirstName(metadata.SenderName), metadata.Subject)
}

func (a *Agent) respond(ctx context.Context, text string, metadata core.EmailMetadata) string {
	if a.llm == nil {
		return TemplateResponse(metadata)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf(responsePromptFormat,
		heuristics.FirstName(metadata.SenderName),
		metadata.Intent,
		strings.ToLower(metadata.Urgency),
		a.textProcessor.ProcessText(text, a.maxInputSize))

	reply, err := a.llm.CompleteText(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		a.logger.Warn("Falling back to template response",
			zap.String("backend", a.llm.Name()),
			zap.String("intent", metadata.Intent),
			zap.Error(err))
		return TemplateResponse(metadata)
	}
	return strings.TrimSpace(reply)
}

func (a *Agent) errorResult(message string) core.EmailResult {
	return core.EmailResult{
		Status: core.StatusError,
		Error:  message,
		Metadata: core.EmailMetadata{
			SenderEmail: heuristics.UnknownSender,
			Subject:     heuristics.NoSubject,
			Recipients:  []string{},
			Intent:      heuristics.IntentError,
			Urgency:     heuristics.UrgencyHigh,
			ReceivedAt:  a.now().UTC(),
		},
		Content: core.EmailContent{
			Response:         ApologyResponse,
			SuggestedActions: []string{ActionReviewManually},
		},
	}
}
