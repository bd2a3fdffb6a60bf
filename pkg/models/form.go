package models

import (
	"sort"
	"strconv"
)

// Answer pairs a question with what the user replied.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FillRequest carries everything needed to produce a completed form.
type FillRequest struct {
	// Answers is keyed by question ID ("1", "2", ...).
	Answers     map[string]Answer      `json:"answers"`
	Documents   map[string]interface{} `json:"documents,omitempty"`
	UserProfile map[string]interface{} `json:"user_profile,omitempty"`
}

// UserProfile is the reusable personal data a user keeps between forms.
type UserProfile struct {
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Phone     string                 `json:"phone"`
	Address   string                 `json:"address"`
	DOB       string                 `json:"dob"`
	Documents map[string]interface{} `json:"documents"`
}

// OrderedAnswers returns the answers sorted by numeric question ID. Keys that
// are not numbers follow in lexical order.
func (r FillRequest) OrderedAnswers() []Answer {
	keys := make([]string, 0, len(r.Answers))
	for k := range r.Answers {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	out := make([]Answer, len(keys))
	for i, k := range keys {
		out[i] = r.Answers[k]
	}
	return out
}

// ProfileString returns a string-valued entry of UserProfile, or "" when it
// is absent or not a string.
func (r FillRequest) ProfileString(key string) string {
	if s, ok := r.UserProfile[key].(string); ok {
		return s
	}
	return ""
}
