package identity

import (
	"regexp"
	"strings"
)

const maxAddressLines = 4

var (
	addressLabel = regexp.MustCompile(`(?i)address\s*:?`)
	addressStop  = regexp.MustCompile(`(?i)(phone|mobile|email|pin|signature)`)
)

// extractAddress collects the text following an "Address" label. Capture ends
// at a contact or signature line, or once four lines have been gathered.
func extractAddress(lines []string) *string {
	var parts []string
	capturing := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if addressLabel.MatchString(line) {
			capturing = true
			if _, after, ok := strings.Cut(line, ":"); ok {
				if value := strings.TrimSpace(after); value != "" {
					parts = append(parts, value)
				}
			}
			continue
		}

		if !capturing {
			continue
		}
		if addressStop.MatchString(line) {
			break
		}
		if len(line) > 3 {
			parts = append(parts, line)
		}
		if len(parts) >= maxAddressLines {
			break
		}
	}

	if len(parts) == 0 {
		return nil
	}
	return ptr(strings.Join(parts, ", "))
}
