// Package intake runs the two-stage model pipeline that turns a raw
// chat transcript into structured intent and a salesperson brief.
package intake

import "strings"

// CleanJSON strips markdown code fences and surrounding prose from a
// model response, isolating the outermost JSON object.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// Models sometimes preface the object with prose. Isolate the
	// first '{' to the last '}'.
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return strings.TrimSpace(s)
}
