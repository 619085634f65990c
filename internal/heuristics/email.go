package heuristics

import (
	"regexp"
	"strings"

	"github.com/mikey/llm-doc-triage/internal/utils"
)

// BodyLimit is the maximum number of characters kept from an email body
const BodyLimit = 500

// Default values for fields missing from an email
const (
	NoSubject      = "No Subject"
	UnknownSender  = "unknown"
	DefaultAddress = "there"
)

var (
	emailAddressPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	senderNamePattern   = regexp.MustCompile(`(?i)(?:from|sender|sent by):[ \t]*([^<\r\n]*)`)
	subjectPattern      = regexp.MustCompile(`(?i)subject:[ \t]*([^\r\n]*)`)
	recipientsPattern   = regexp.MustCompile(`(?im)^to:[ \t]*([^\r\n]*)`)
	emailHeaderPattern  = regexp.MustCompile(`(?im)^(subject|from):`)
	headerLinePattern   = regexp.MustCompile(`(?i)^(from|to|subject|date|attachments):`)
	attachmentPattern   = regexp.MustCompile(`(?i)attach(ment|ed)`)
)

// HasEmailSignals reports whether text carries an address together with a
// Subject: or From: header line
func HasEmailSignals(text string) bool {
	return strings.Contains(text, "@") && emailHeaderPattern.MatchString(text)
}

// ExtractSenderEmail returns the first address-like token in text
func ExtractSenderEmail(text string) (string, bool) {
	addr := emailAddressPattern.FindString(text)
	return addr, addr != ""
}

// ExtractSenderName returns the display name after a From:, Sender: or Sent by: marker
func ExtractSenderName(text string) string {
	m := senderNamePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// FirstName returns the first word of a display name
func FirstName(senderName string) string {
	fields := strings.Fields(senderName)
	if len(fields) == 0 {
		return DefaultAddress
	}
	return strings.Trim(fields[0], `"',`)
}

// ExtractSubject returns the Subject: line value or NoSubject
func ExtractSubject(text string) string {
	m := subjectPattern.FindStringSubmatch(text)
	if m == nil {
		return NoSubject
	}
	subject := strings.TrimSpace(m[1])
	if subject == "" {
		return NoSubject
	}
	return subject
}

// ExtractRecipients returns the addresses listed on the To: line
func ExtractRecipients(text string) []string {
	m := recipientsPattern.FindStringSubmatch(text)
	if m == nil {
		return []string{}
	}

	recipients := []string{}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if addr := emailAddressPattern.FindString(part); addr != "" {
			part = addr
		}
		recipients = append(recipients, part)
	}
	return recipients
}

// MentionsAttachment reports whether the text refers to an attachment
func MentionsAttachment(text string) bool {
	return attachmentPattern.MatchString(text)
}

// ExtractBody returns the first non-header line and up to four following
// lines, limited to BodyLimit characters
func ExtractBody(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || headerLinePattern.MatchString(trimmed) {
			continue
		}
		end := i + 5
		if end > len(lines) {
			end = len(lines)
		}
		body := strings.TrimSpace(strings.Join(lines[i:end], "\n"))
		return utils.TruncateRunes(body, BodyLimit)
	}
	return utils.TruncateRunes(text, BodyLimit)
}

// DomainOf returns the lower-cased domain part of an address
func DomainOf(address string) string {
	at := strings.LastIndexByte(address, '@')
	if at < 0 {
		return ""
	}
	return strings.ToLower(address[at+1:])
}

// StripHeaders drops the header lines (From:, To:, Subject:, Date: and
// Attachments:) from text
func StripHeaders(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if headerLinePattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
