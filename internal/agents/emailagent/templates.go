package emailagent

import (
	h "github.com/mikey/llm-doc-triage/internal/heuristics"
)

// ApologyResponse is sent back when an email could not be processed
const ApologyResponse = "I apologize, but I encountered an error processing this email. Please try again or contact support."

// ActionReviewManually is the fallback suggested action
const ActionReviewManually = "Review manually"

// Response templates take the first name as %[1]s and the subject as %[2]s
var responseTemplates = map[string]string{
	h.IntentDemoRequest: "Hi %[1]s,\n\n" +
		"Thank you for your interest in a demo. We would be glad to walk you through the product " +
		"and tailor the session to what you described in \"%[2]s\".\n\n" +
		"Could you share a few times that work for you over the next week?",
	h.IntentInformationRequest: "Hi %[1]s,\n\n" +
		"Thanks for reaching out about \"%[2]s\". We are putting together the information you asked for " +
		"and will follow up shortly with the details and any relevant documentation.",
	h.IntentInvoicePayment: "Hi %[1]s,\n\n" +
		"Thank you for your message regarding \"%[2]s\". We have forwarded it to our billing team, " +
		"who will review the invoice details and get back to you.",
	h.IntentPricingInquiry: "Hi %[1]s,\n\n" +
		"Thanks for your interest in our pricing. Regarding \"%[2]s\", we will prepare a quote based on " +
		"your requirements. Could you tell us roughly how many users or units you need?",
	h.IntentSupportComplaint: "Hi %[1]s,\n\n" +
		"We are sorry to hear you are running into trouble. We have opened a support ticket for \"%[2]s\" " +
		"and an engineer will be in touch. Any screenshots or error messages you can share will help us resolve it faster.",
	h.IntentMeetingRequest: "Hi %[1]s,\n\n" +
		"Thanks for suggesting a meeting about \"%[2]s\". We are checking calendar availability and will send " +
		"over a few options shortly.",
	h.IntentPartnershipInquiry: "Hi %[1]s,\n\n" +
		"Thank you for your interest in partnering with us. We have shared \"%[2]s\" with our partnerships team, " +
		"who will reach out to set up an introductory call.",
	h.IntentGeneralInquiry: "Hi %[1]s,\n\n" +
		"Thank you for your email regarding \"%[2]s\". We have received your message and will get back to you soon.",
}

var suggestedActions = map[string][]string{
	h.IntentDemoRequest:        {"Schedule demo", "Send calendar invite", "Prepare demo environment"},
	h.IntentInformationRequest: {"Gather relevant information", "Prepare detailed response"},
	h.IntentInvoicePayment:     {"Forward to billing team", "Verify invoice details"},
	h.IntentPricingInquiry:     {"Prepare custom quote", "Send pricing sheet"},
	h.IntentSupportComplaint:   {"Create support ticket", "Assign to support engineer"},
	h.IntentMeetingRequest:     {"Check calendar availability", "Prepare meeting agenda"},
	h.IntentPartnershipInquiry: {"Forward to partnerships team", "Schedule introductory call"},
}

// ResponseTemplate returns the template for an intent, falling back to the
// General Inquiry one
func ResponseTemplate(intent string) string {
	if tmpl, ok := responseTemplates[intent]; ok {
		return tmpl
	}
	return responseTemplates[h.IntentGeneralInquiry]
}

// SuggestedActions returns a copy of the action list for an intent
func SuggestedActions(intent string) []string {
	actions, ok := suggestedActions[intent]
	if !ok {
		return []string{ActionReviewManually}
	}
	return append([]string(nil), actions...)
}
