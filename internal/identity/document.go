package identity

import (
	"regexp"
	"strings"

	"formassist/pkg/models"
)

var (
	aadhaarSpaced = regexp.MustCompile(`\b\d{4}\s\d{4}\s\d{4}\b`)
	aadhaarPlain  = regexp.MustCompile(`\b\d{12}\b`)
	panNumber     = regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// classify determines the document type and, for Aadhaar and PAN cards, the
// document number. upper is the uppercased OCR text.
func classify(text, upper string) (models.DocumentType, *string) {
	switch {
	case strings.Contains(upper, "AADHAAR") || strings.Contains(text, "आधार"):
		return models.DocumentAadhaar, aadhaarNumber(text)
	case strings.Contains(upper, "INCOME TAX") || strings.Contains(upper, "PAN"):
		return models.DocumentPAN, firstMatch(panNumber, text)
	case strings.Contains(upper, "VOTER") || strings.Contains(upper, "ELECTION"):
		return models.DocumentVoterID, nil
	case strings.Contains(upper, "DRIVING") || strings.Contains(upper, "LICENSE"):
		return models.DocumentDrivingLicense, nil
	default:
		return models.DocumentGenericID, nil
	}
}

// aadhaarNumber returns the 12 digit number with its grouping spaces removed.
func aadhaarNumber(text string) *string {
	for _, re := range []*regexp.Regexp{aadhaarSpaced, aadhaarPlain} {
		if m := re.FindString(text); m != "" {
			return ptr(whitespace.ReplaceAllString(m, ""))
		}
	}
	return nil
}

func firstMatch(re *regexp.Regexp, text string) *string {
	if m := re.FindString(text); m != "" {
		return ptr(m)
	}
	return nil
}

func ptr(s string) *string {
	return &s
}
