package labanalysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe   = regexp.MustCompile("(?is)```(?:json)?(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{\s,])([A-Za-z0-9_]+)\s*:`)
	bareStatusRe    = regexp.MustCompile(`:\s*(normal|warning|danger)\b`)
	singleQuotedRe  = regexp.MustCompile(`'([^'\\]*(?:\\.[^'\\]*)*)'`)

	typographicQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`, "«", `"`, "»", `"`,
		"‘", "'", "’", "'",
	)
)

// SafeParseJSON recovers a JSON object from an arbitrary model response:
// prose around the object, markdown fencing, and near-JSON syntax
// (single quotes, bare keys, bare status enums, trailing commas) are all
// tolerated. Structurally incomplete JSON is not: unbalanced braces never
// produce a candidate. Returns nil when nothing parses to an object.
func SafeParseJSON(input string) map[string]any {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	var candidates []string
	if m := fencedBlockRe.FindStringSubmatch(trimmed); m != nil && strings.TrimSpace(m[1]) != "" {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, balancedSpans(trimmed)...)

	for _, candidate := range candidates {
		if obj := parseObject(candidate); obj != nil {
			return obj
		}
		if obj := parseObject(repairJSON(candidate)); obj != nil {
			return obj
		}
	}
	return nil
}

// balancedSpans collects every brace/bracket-delimited substring whose
// delimiters balance, in left-to-right order of their opening position.
func balancedSpans(s string) []string {
	var spans []string
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		if end := scanBalanced(s, i); end > i {
			spans = append(spans, s[i:end])
		}
	}
	return spans
}

// scanBalanced walks from an opening brace/bracket until depth returns to
// zero, skipping over quoted-string contents. Returns the exclusive end
// offset, or -1 when the span never closes.
func scanBalanced(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func parseObject(candidate string) map[string]any {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &v); err != nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

// repairJSON applies the normalization pass for near-JSON model output.
func repairJSON(candidate string) string {
	out := typographicQuotes.Replace(strings.TrimSpace(candidate))
	out = trailingCommaRe.ReplaceAllString(out, "$1")
	out = bareKeyRe.ReplaceAllString(out, `$1"$2":`)
	out = bareStatusRe.ReplaceAllString(out, `: "$1"`)
	out = singleQuotedRe.ReplaceAllStringFunc(out, func(m string) string {
		inner := m[1 : len(m)-1]
		return `"` + strings.ReplaceAll(inner, `"`, `\"`) + `"`
	})
	return out
}
