package llm

import (
	"fmt"
	"strings"

	"github.com/jask/sevadesk/internal/catalog"
)

// SynonymHint primes the model with domain-specific query variants that
// should map to a given catalog title.
type SynonymHint struct {
	Terms []string
	Title string
}

// DefaultSynonymHints is the stock hint set for the government-services
// catalog. Callers may pass their own set to BuildTaskPrompt; the hints
// are prompt data, not model behavior.
var DefaultSynonymHints = []SynonymHint{
	{Terms: []string{"aadhar", "aadhaar", "adhaar"}, Title: "Aadhaar Card Registration"},
	{Terms: []string{"pan card"}, Title: "PAN Card Application"},
	{Terms: []string{"marriage"}, Title: "Marriage Registration"},
	{Terms: []string{"passport"}, Title: "Passport Application"},
	{Terms: []string{"driving license"}, Title: "Driving License Application"},
	{Terms: []string{"company registration", "register company", "new company"}, Title: "Private Limited Company Registration"},
	{Terms: []string{"gst registration"}, Title: "GST Registration"},
}

var workedExamples = []struct{ query, title string }{
	{"i was thinking to make my aadhar card", "Aadhaar Card Registration"},
	{"apply for aadhar card", "Aadhaar Card Registration"},
	{"get pan card", "PAN Card Application"},
	{"register my marriage", "Marriage Registration"},
	{"how do I register a new company", "Private Limited Company Registration"},
	{"company registration", "Private Limited Company Registration"},
}

// BuildTaskPrompt assembles the resolver prompt: the literal user
// query, the enumerated catalog, the synonym hints, worked examples,
// and the NO_MATCH abstention instruction.
func BuildTaskPrompt(query string, tasks []catalog.Task, hints []SynonymHint) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant helping users find the most relevant legal/government task from a list of available tasks.\n\n")
	fmt.Fprintf(&b, "User Query: %q\n\n", query)

	b.WriteString("Available Tasks:\n")
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, t.Title, t.Description)
	}
	b.WriteString("\n")

	if len(hints) > 0 {
		b.WriteString("IMPORTANT MATCHING RULES:\n")
		for _, h := range hints {
			quoted := make([]string, len(h.Terms))
			for i, term := range h.Terms {
				quoted[i] = fmt.Sprintf("%q", term)
			}
			fmt.Fprintf(&b, "- %s should match %q\n", strings.Join(quoted, ", "), h.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("Instructions:\n")
	b.WriteString("1. Analyze the user's query carefully\n")
	b.WriteString("2. Look for the MOST RELEVANT task from the list above\n")
	b.WriteString("3. Pay special attention to common misspellings and variations\n")
	b.WriteString("4. Respond with ONLY the exact task title (not the number or description)\n")
	fmt.Fprintf(&b, "5. If no task is clearly relevant, respond with %q\n\n", NoMatch)

	b.WriteString("Examples:\n")
	for _, ex := range workedExamples {
		fmt.Fprintf(&b, "- %q -> %q\n", ex.query, ex.title)
	}
	b.WriteString("\nTask Title:")

	return b.String()
}
