package heuristics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleEmail = "From: Jane Doe <jane@acme.com>\n" +
	"To: sales@example.com, Bob <bob@example.com>\n" +
	"Subject: Demo request\n" +
	"Date: Mon, 2 Jun 2025 10:00:00 +0000\n" +
	"\n" +
	"Hi, can we get a demo?\n" +
	"We have 40 seats.\n" +
	"Thanks"

func TestHasEmailSignals(t *testing.T) {
	assert.True(t, HasEmailSignals(sampleEmail))
	assert.True(t, HasEmailSignals("subject: hi\nping me at a@b.co"))
	assert.False(t, HasEmailSignals("Subject: no address here"))
	assert.False(t, HasEmailSignals("mail jane@acme.com about it"))
	// the header must start a line
	assert.False(t, HasEmailSignals("re Subject: x jane@acme.com"))
}

func TestExtractSenderEmail(t *testing.T) {
	addr, ok := ExtractSenderEmail(sampleEmail)
	assert.True(t, ok)
	assert.Equal(t, "jane@acme.com", addr)

	_, ok = ExtractSenderEmail("nobody here")
	assert.False(t, ok)
}

func TestExtractSenderName(t *testing.T) {
	assert.Equal(t, "Jane Doe", ExtractSenderName(sampleEmail))
	assert.Equal(t, "Max Power", ExtractSenderName("SENT BY: Max Power\nhello"))
	assert.Equal(t, "", ExtractSenderName("no markers"))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Jane", FirstName("Jane Doe"))
	assert.Equal(t, "Jane", FirstName(`"Jane" Doe`))
	assert.Equal(t, "there", FirstName(""))
	assert.Equal(t, "there", FirstName("   "))
}

func TestExtractSubject(t *testing.T) {
	assert.Equal(t, "Demo request", ExtractSubject(sampleEmail))
	assert.Equal(t, NoSubject, ExtractSubject("From: a@b.co"))
	assert.Equal(t, NoSubject, ExtractSubject("Subject:   \nbody"))
}

func TestExtractRecipients(t *testing.T) {
	assert.Equal(t, []string{"sales@example.com", "bob@example.com"}, ExtractRecipients(sampleEmail))
	assert.Equal(t, []string{}, ExtractRecipients("From: a@b.co"))
}

func TestMentionsAttachment(t *testing.T) {
	assert.True(t, MentionsAttachment("see the ATTACHED file"))
	assert.True(t, MentionsAttachment("one attachment"))
	assert.False(t, MentionsAttachment(sampleEmail))
}

func TestExtractBody(t *testing.T) {
	assert.Equal(t, "Hi, can we get a demo?\nWe have 40 seats.\nThanks", ExtractBody(sampleEmail))

	many := "Subject: x\nl1\nl2\nl3\nl4\nl5\nl6"
	assert.Equal(t, "l1\nl2\nl3\nl4\nl5", ExtractBody(many))

	long := "Subject: x\n" + strings.Repeat("a", 800)
	assert.Len(t, ExtractBody(long), BodyLimit)

	// only headers: fall back to the raw text
	headersOnly := "From: a@b.co\nSubject: hi"
	assert.Equal(t, headersOnly, ExtractBody(headersOnly))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "acme.com", DomainOf("Jane@ACME.com"))
	assert.Equal(t, "", DomainOf("nodomain"))
}

func TestStripHeaders(t *testing.T) {
	assert.Equal(t, "Hi, can we get a demo?\nWe have 40 seats.\nThanks", StripHeaders(sampleEmail))
	assert.Equal(t, "", StripHeaders("Subject: only"))
	assert.Equal(t, "Can we meet?", StripHeaders("Attachments: invoice.pdf attached\n\nCan we meet?"))
}
