package llm

import (
	"regexp"
	"strings"
)

const codeFence = "```"

// languageTag matches an info string such as "json" right after an opening fence.
var languageTag = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_+-]*`)

// ExtractJSONArray recovers a JSON array from a model reply that may wrap it in
// prose or markdown. When the reply contains a fence, the segments between
// fences are scanned in order and the first one holding both brackets wins;
// otherwise the whole reply is searched. The result spans from the first "[" to
// the last "]" of the chosen text. Replies with nothing to recover come back
// trimmed but otherwise unchanged, leaving the parse error to the caller.
func ExtractJSONArray(reply string) string {
	text := strings.TrimSpace(reply)

	if strings.Contains(text, codeFence) {
		for _, segment := range strings.Split(text, codeFence) {
			segment = dropLanguageTag(strings.TrimSpace(segment))
			if array, ok := bracketed(segment); ok {
				return array
			}
		}
		return text
	}

	if array, ok := bracketed(text); ok {
		return array
	}
	return text
}

// StripCodeFence unwraps a reply enclosed in a single code fence, dropping the
// language tag. Unfenced replies are returned trimmed.
func StripCodeFence(reply string) string {
	text := strings.TrimSpace(reply)
	if !strings.HasPrefix(text, codeFence) {
		return text
	}

	segments := strings.Split(text, codeFence)
	if len(segments) < 2 {
		return text
	}
	return strings.TrimSpace(dropLanguageTag(strings.TrimSpace(segments[1])))
}

func dropLanguageTag(segment string) string {
	if strings.HasPrefix(segment, "[") || strings.HasPrefix(segment, "{") {
		return segment
	}
	return strings.TrimSpace(languageTag.ReplaceAllString(segment, ""))
}

// bracketed returns the text from the first "[" to the last "]". An inverted
// pair yields an empty string, which never parses.
func bracketed(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < 0 {
		return "", false
	}
	if end < start {
		return "", true
	}
	return text[start : end+1], true
}
