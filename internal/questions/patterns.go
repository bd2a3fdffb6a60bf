package questions

import (
	"regexp"

	"formassist/pkg/models"
)

// Rule maps a field label, as OCR tends to render it, to a canonical question.
type Rule struct {
	Pattern   *regexp.Regexp
	Question  string
	FieldType models.FieldType
	Required  bool
}

// rules is evaluated in order; each rule contributes at most one question.
// The patterns deliberately accept common OCR misreadings (Namo, Gonder, Addeoss).
var rules = []Rule{
	{regexp.MustCompile(`(?i)(nam[eo]|name)`), "Name", models.FieldText, true},
	{regexp.MustCompile(`(?i)(mobile|phone|contact)`), "Mobile Number", models.FieldPhone, true},
	{regexp.MustCompile(`(?i)(email|emailid|e-mail)`), "Email Address", models.FieldEmail, true},
	{regexp.MustCompile(`(?i)(father.*nam[eo]|fathor.*nam[eo])`), "Father's Name", models.FieldText, true},
	{regexp.MustCompile(`(?i)(gender|gonder|sex)`), "Gender", models.FieldText, true},
	{regexp.MustCompile(`(?i)(date.*birth|dob|date.*bich)`), "Date of Birth", models.FieldDate, true},
	{regexp.MustCompile(`(?i)(marital.*status|martial.*status)`), "Marital Status", models.FieldText, false},
	{regexp.MustCompile(`(?i)(religion)`), "Religion", models.FieldText, false},
	{regexp.MustCompile(`(?i)(language.*known)`), "Languages Known", models.FieldText, false},
	{regexp.MustCompile(`(?i)(qualification|qualitication|education)`), "Qualification", models.FieldText, false},
	{regexp.MustCompile(`(?i)(experience)`), "Experience", models.FieldText, false},
	{regexp.MustCompile(`(?i)(address|addeoss)`), "Address", models.FieldText, true},
	{regexp.MustCompile(`(?i)(place)`), "Place", models.FieldText, false},
	{regexp.MustCompile(`(?i)(signature)`), "Signature", models.FieldText, false},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// MatchPatterns emits one question per rule whose pattern occurs anywhere in
// text. Questions follow table order, not the order labels appear on the form,
// and are numbered from 1.
func MatchPatterns(text string) []models.Question {
	var matched []models.Question
	for _, rule := range rules {
		if !rule.Pattern.MatchString(text) {
			continue
		}
		matched = append(matched, models.Question{
			ID:        len(matched) + 1,
			Question:  rule.Question,
			FieldType: rule.FieldType,
			Required:  rule.Required,
		})
	}
	return matched
}
