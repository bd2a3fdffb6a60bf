package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nameLabel   = regexp.MustCompile(`(?i)name\s*:?`)
	nonLetters  = regexp.MustCompile(`[^A-Za-z\s]`)
	hasLetter   = regexp.MustCompile(`[A-Za-z]`)
	headerWords = []string{"GOVERNMENT", "INDIA", "CARD", "REPUBLIC"}

	dobLabel = regexp.MustCompile(`(?i)(dob|birth|date of birth)`)

	// datePatterns are tried in order: DD/MM/YYYY, DD/MM/YY, YYYY/MM/DD.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{2}[-/]\d{2}[-/]\d{4})\b`),
		regexp.MustCompile(`\b(\d{2}[-/]\d{2}[-/]\d{2})\b`),
		regexp.MustCompile(`\b(\d{4}[-/]\d{2}[-/]\d{2})\b`),
	}

	mobileNumber = regexp.MustCompile(`\b[6-9]\d{9}\b`)
	intlMobile   = regexp.MustCompile(`\+91[\s-]?[6-9]\d{9}\b`)
	phoneJunk    = regexp.MustCompile(`[^\d+]`)
	emailAddress = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	genderMale   = regexp.MustCompile(`\bMALE\b`)
	genderFemale = regexp.MustCompile(`\bFEMALE\b`)
	genderOther  = regexp.MustCompile(`\bOTHER\b`)
)

// extractName prefers the value of a "Name" label, on the same line after a
// colon or on the line below. Without a label the first line that looks like
// a person's name, rather than a card header, is used.
func extractName(lines []string) *string {
	for i, line := range lines {
		if !nameLabel.MatchString(line) {
			continue
		}
		if _, after, ok := strings.Cut(line, ":"); ok {
			if value := strings.TrimSpace(after); utf8.RuneCountInString(value) > 2 {
				return cleanName(value)
			}
		}
		if i+1 < len(lines) {
			if next := strings.TrimSpace(lines[i+1]); utf8.RuneCountInString(next) > 2 {
				return cleanName(next)
			}
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > 2 && hasLetter.MatchString(line) && !isHeader(line) {
			return cleanName(line)
		}
	}
	return nil
}

func isHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, word := range headerWords {
		if strings.Contains(upper, word) {
			return true
		}
	}
	return false
}

// cleanName keeps ASCII letters and single spaces. Results of two characters
// or fewer are discarded.
func cleanName(raw string) *string {
	name := nonLetters.ReplaceAllString(raw, "")
	name = strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
	if len(name) <= 2 {
		return nil
	}
	return &name
}

// extractDOB tries every date shape on lines mentioning a birth date first
// and only then on the whole text.
func extractDOB(lines []string, text string) *string {
	var labelled []string
	for _, line := range lines {
		if dobLabel.MatchString(line) {
			labelled = append(labelled, line)
		}
	}

	for _, line := range labelled {
		if dob := firstDate(line); dob != nil {
			return dob
		}
	}
	return firstDate(text)
}

func firstDate(s string) *string {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return ptr(m[1])
		}
	}
	return nil
}

// extractPhone finds an Indian mobile number and strips everything but digits
// and the leading plus.
func extractPhone(text string) *string {
	for _, re := range []*regexp.Regexp{mobileNumber, intlMobile} {
		if m := re.FindString(text); m != "" {
			return ptr(phoneJunk.ReplaceAllString(m, ""))
		}
	}
	return nil
}

func extractEmail(text string) *string {
	return firstMatch(emailAddress, text)
}

func extractGender(upper string) *string {
	switch {
	case genderMale.MatchString(upper) && !genderFemale.MatchString(upper):
		return ptr("Male")
	case genderFemale.MatchString(upper):
		return ptr("Female")
	case genderOther.MatchString(upper):
		return ptr("Other")
	default:
		return nil
	}
}
