package render

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"formassist/pkg/models"
)

const (
	pageHeight   = 842.0 // A4 portrait, points
	marginLeft   = 50.0
	marginTop    = 60.0
	marginBottom = 60.0
	indentWidth  = 18.0
	wrapColumns  = 85

	fontRegular = "Helvetica"
	fontBold    = "Helvetica-Bold"
)

// line is one rendered row of text before pagination.
type line struct {
	text   string
	font   string
	size   int
	indent float64
	// space is the extra gap above the line, in points.
	space float64
}

func (l line) height() float64 {
	return float64(l.size)*1.4 + l.space
}

// buildLines lays out the completed form: title, applicant profile,
// numbered answers and attached documents.
func buildLines(req models.FillRequest) []line {
	lines := []line{{text: "Completed Application Form", font: fontBold, size: 18}}

	if len(req.UserProfile) > 0 {
		lines = append(lines, heading("Applicant"))
		for _, key := range sortedKeys(req.UserProfile) {
			if key == "documents" {
				continue
			}
			lines = append(lines, body(fmt.Sprintf("%s: %s", labelize(key), valueText(req.UserProfile[key])), 0)...)
		}
	}

	lines = append(lines, heading("Responses"))
	if len(req.Answers) == 0 {
		lines = append(lines, body("No answers were provided.", 0)...)
	}
	for i, ans := range req.OrderedAnswers() {
		answer := strings.TrimSpace(ans.Answer)
		if answer == "" {
			answer = "-"
		}
		q := line{text: fmt.Sprintf("%d. %s", i+1, ans.Question), font: fontBold, size: 11, space: 4}
		lines = append(lines, q)
		lines = append(lines, body(answer, indentWidth)...)
	}

	if len(req.Documents) > 0 {
		lines = append(lines, heading("Attached Documents"))
		for _, name := range sortedKeys(req.Documents) {
			lines = append(lines, body("- "+labelize(name), 0)...)
		}
	}

	return lines
}

func heading(text string) line {
	return line{text: text, font: fontBold, size: 13, space: 14}
}

func body(text string, indent float64) []line {
	var out []line
	for _, row := range wrap(text, wrapColumns) {
		out = append(out, line{text: row, font: fontRegular, size: 11, indent: indent})
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// labelize turns "date_of_birth" or "dateOfBirth" into "Date Of Birth".
func labelize(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			continue
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func valueText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if strings.TrimSpace(val) == "" {
			return "-"
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}

// wrap breaks text into rows of at most width runes, splitting on spaces
// where possible.
func wrap(text string, width int) []string {
	var rows []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		current := ""
		for _, w := range words {
			for len([]rune(w)) > width {
				if current != "" {
					rows = append(rows, current)
					current = ""
				}
				r := []rune(w)
				rows = append(rows, string(r[:width]))
				w = string(r[width:])
			}
			switch {
			case current == "":
				current = w
			case len([]rune(current))+1+len([]rune(w)) <= width:
				current += " " + w
			default:
				rows = append(rows, current)
				current = w
			}
		}
		if current != "" {
			rows = append(rows, current)
		}
	}
	if len(rows) == 0 {
		rows = []string{"-"}
	}
	return rows
}
