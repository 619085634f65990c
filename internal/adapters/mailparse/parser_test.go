package mailparse

import (
	"strings"
	"testing"
	"time"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

const simpleMessage = "From: Jane Doe <jane@acme.com>\r\n" +
	"To: sales@example.com\r\n" +
	"Subject: Pricing question\r\n" +
	"Date: Mon, 02 Jun 2025 10:00:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"How much for 40 seats?\r\n"

const multipartMessage = "From: ops@vendor.io\r\n" +
	"To: billing@example.com, Bob <bob@example.com>\r\n" +
	"Subject: =?utf-8?q?Invoice_=E2=84=96_12?=\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=XYZ\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>html version</p>\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain; charset=iso-8859-1\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Please find the invoice attached. Caf=E9\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"invoice-12.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQK\r\n" +
	"--XYZ--\r\n"

func TestParseSimple(t *testing.T) {
	parsed := NewParser(zaptest.NewLogger(t)).Parse([]byte(simpleMessage))

	assert.Equal(t, "Jane Doe <jane@acme.com>", parsed.From)
	assert.Equal(t, []string{"sales@example.com"}, parsed.To)
	assert.Equal(t, "Pricing question", parsed.Subject)
	assert.Equal(t, 2025, parsed.Date.Year())
	assert.Equal(t, "How much for 40 seats?", strings.TrimSpace(parsed.Body))
	assert.Empty(t, parsed.Attachments)
}

func TestParseMultipart(t *testing.T) {
	parsed := NewParser(zaptest.NewLogger(t)).Parse([]byte(multipartMessage))

	assert.Equal(t, "ops@vendor.io", parsed.From)
	assert.Equal(t, []string{"billing@example.com", "Bob <bob@example.com>"}, parsed.To)
	assert.Equal(t, "Invoice № 12", parsed.Subject)
	assert.Equal(t, "Please find the invoice attached. Café", strings.TrimSpace(parsed.Body))
	assert.Equal(t, []string{"invoice-12.pdf"}, parsed.Attachments)
}

func TestParseNotAMessage(t *testing.T) {
	raw := "just some words\nwith no headers at all"
	parsed := NewParser(zaptest.NewLogger(t)).Parse([]byte(raw))

	assert.Contains(t, parsed.Body, "just some words")
	assert.Empty(t, parsed.Attachments)
}

func TestRender(t *testing.T) {
	email := core.ParsedEmail{
		From:        "Jane Doe <jane@acme.com>",
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "Demo request",
		Date:        time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		Body:        "\nCan we get a demo?\n",
		Attachments: []string{"deck.pdf"},
	}

	assert.Equal(t, "From: Jane Doe <jane@acme.com>\n"+
		"To: a@example.com, b@example.com\n"+
		"Subject: Demo request\n"+
		"Date: Mon, 2 Jun 2025 10:00:00 +0000\n"+
		"Attachments: deck.pdf attached\n"+
		"\n"+
		"Can we get a demo?", Render(email))

	assert.Equal(t, "body only", Render(core.ParsedEmail{Body: "body only"}))
}
