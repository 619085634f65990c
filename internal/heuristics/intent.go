package heuristics

import (
	"regexp"
)

// Intent labels, in the order they are matched
const (
	IntentDemoRequest        = "Demo Request"
	IntentInformationRequest = "Information Request"
	IntentInvoicePayment     = "Invoice/Payment"
	IntentPricingInquiry     = "Pricing Inquiry"
	IntentSupportComplaint   = "Support/Complaint"
	IntentMeetingRequest     = "Meeting Request"
	IntentPartnershipInquiry = "Partnership Inquiry"
	IntentGeneralInquiry     = "General Inquiry"
	// IntentError marks a record produced after an internal failure
	IntentError = "Error"
)

// Urgency labels
const (
	UrgencyHigh   = "High"
	UrgencyMedium = "Medium"
	UrgencyLow    = "Low"
)

// Rule pairs a label with the patterns that select it
type Rule struct {
	Label    string
	Patterns []*regexp.Regexp
}

// Matches reports whether any of the rule's patterns occur in text
func (r Rule) Matches(text string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Keyword tables. Buckets share vocabulary, so order is priority: first match wins.
var (
	intentRules = []Rule{
		{Label: IntentDemoRequest, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bdemo(s)?\b`),
			regexp.MustCompile(`(?i)\bdemonstration\b`),
			regexp.MustCompile(`(?i)\b(free\s+)?trial\b`),
			regexp.MustCompile(`(?i)\bwalk\s*-?\s*through\b`),
		}},
		{Label: IntentInformationRequest, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\binformation\b`),
			regexp.MustCompile(`(?i)\bmore\s+info\b`),
			regexp.MustCompile(`(?i)\bdetails\s+(about|on)\b`),
			regexp.MustCompile(`(?i)\blearn\s+more\b`),
			regexp.MustCompile(`(?i)\bbrochure\b`),
			regexp.MustCompile(`(?i)\bdocumentation\b`),
		}},
		{Label: IntentInvoicePayment, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\binvoices?\b`),
			regexp.MustCompile(`(?i)\bpayments?\b`),
			regexp.MustCompile(`(?i)\bbilling\b`),
			regexp.MustCompile(`(?i)\breceipts?\b`),
			regexp.MustCompile(`(?i)\brefunds?\b`),
			regexp.MustCompile(`(?i)\bcharged?\b`),
		}},
		{Label: IntentPricingInquiry, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bpric(e|es|ing)\b`),
			regexp.MustCompile(`(?i)\bquotes?\b`),
			regexp.MustCompile(`(?i)\bcosts?\b`),
			regexp.MustCompile(`(?i)\bhow\s+much\b`),
			regexp.MustCompile(`(?i)\brates\b`),
		}},
		{Label: IntentSupportComplaint, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsupport\b`),
			regexp.MustCompile(`(?i)\bissues?\b`),
			regexp.MustCompile(`(?i)\bproblems?\b`),
			regexp.MustCompile(`(?i)\berrors?\b`),
			regexp.MustCompile(`(?i)\bbugs?\b`),
			regexp.MustCompile(`(?i)\bcomplain(t|ts)?\b`),
			regexp.MustCompile(`(?i)\bnot\s+working\b`),
			regexp.MustCompile(`(?i)\bbroken\b`),
			regexp.MustCompile(`(?i)\bhelp\b`),
		}},
		{Label: IntentMeetingRequest, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmeet(ing)?s?\b`),
			regexp.MustCompile(`(?i)\bschedule\b`),
			regexp.MustCompile(`(?i)\bcall\b`),
			regexp.MustCompile(`(?i)\bappointment\b`),
			regexp.MustCompile(`(?i)\bcalendar\b`),
		}},
		{Label: IntentPartnershipInquiry, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bpartner(s|ship|ships)?\b`),
			regexp.MustCompile(`(?i)\bcollaborat(e|ion|ing)\b`),
			regexp.MustCompile(`(?i)\bjoint\s+venture\b`),
			regexp.MustCompile(`(?i)\bresellers?\b`),
		}},
	}

	urgencyRules = []Rule{
		{Label: UrgencyHigh, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\burgent(ly)?\b`),
			regexp.MustCompile(`(?i)\basap\b`),
			regexp.MustCompile(`(?i)\bimmediately\b`),
			regexp.MustCompile(`(?i)\bemergency\b`),
			regexp.MustCompile(`(?i)\bcritical\b`),
			regexp.MustCompile(`(?i)\bright\s+away\b`),
			regexp.MustCompile(`(?i)\bas\s+soon\s+as\s+possible\b`),
		}},
		{Label: UrgencyMedium, Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsoon\b`),
			regexp.MustCompile(`(?i)\bimportant\b`),
			regexp.MustCompile(`(?i)\bpriority\b`),
			regexp.MustCompile(`(?i)\bthis\s+week\b`),
			regexp.MustCompile(`(?i)\bat\s+your\s+earliest\s+convenience\b`),
		}},
	}
)

// IntentRules returns the ordered intent table
func IntentRules() []Rule {
	return append([]Rule(nil), intentRules...)
}

// UrgencyRules returns the ordered urgency table
func UrgencyRules() []Rule {
	return append([]Rule(nil), urgencyRules...)
}

// IntentLabels returns every intent label the heuristics can produce
func IntentLabels() []string {
	labels := make([]string, 0, len(intentRules)+1)
	for _, r := range intentRules {
		labels = append(labels, r.Label)
	}
	return append(labels, IntentGeneralInquiry)
}

// ClassifyIntent returns the first intent whose keywords occur in text
func ClassifyIntent(text string) string {
	return firstMatch(intentRules, Normalize(text), IntentGeneralInquiry)
}

// ClassifyUrgency returns High, Medium or Low for text
func ClassifyUrgency(text string) string {
	return firstMatch(urgencyRules, Normalize(text), UrgencyLow)
}

func firstMatch(rules []Rule, text, fallback string) string {
	for _, r := range rules {
		if r.Matches(text) {
			return r.Label
		}
	}
	return fallback
}
