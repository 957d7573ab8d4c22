package estimator

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?[ \\t]*\\r?\\n?(.*?)```")

// ExtractJSON pulls a JSON object out of model output that may be wrapped in
// prose or a markdown fence. It is a heuristic: when nothing looks like JSON
// the trimmed input comes back unchanged and the caller's decode fails.
func ExtractJSON(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		return raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}
