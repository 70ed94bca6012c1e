package labanalysis

import (
	"regexp"
	"strings"
)

const DefaultMaxChars = 5000

var (
	digitRe      = regexp.MustCompile(`\d`)
	unitRe       = regexp.MustCompile(`(?i)ммоль|мкг|нг|мг|г/л|ед/л|iu|%`)
	horizontalRe = regexp.MustCompile(`[ \t]+`)
)

type SanitizeOptions struct {
	// MaxChars caps the output length in runes; 0 means DefaultMaxChars.
	MaxChars int
}

// Sanitize reduces a noisy OCR transcript to the lines likely to carry
// metric values: lines with digits, unit mentions, or catalog pattern
// matches, plus one neighboring line on each side (OCR often splits a
// label from its value). When nothing qualifies all lines are kept, so a
// non-empty input never sanitizes to empty.
func Sanitize(text string, opts SanitizeOptions) string {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = horizontalRe.ReplaceAllString(normalized, " ")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	keep := make([]bool, len(lines))
	any := false
	for i, line := range lines {
		if !interestingLine(line) {
			continue
		}
		any = true
		keep[i] = true
		if i > 0 {
			keep[i-1] = true
		}
		if i+1 < len(lines) {
			keep[i+1] = true
		}
	}
	if !any {
		for i := range keep {
			keep[i] = true
		}
	}

	seen := map[string]bool{}
	var kept []string
	for i, line := range lines {
		if !keep[i] {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, line)
	}

	return clipRunes(strings.Join(kept, "\n"), maxChars, false)
}

func interestingLine(line string) bool {
	if digitRe.MatchString(line) || unitRe.MatchString(line) {
		return true
	}
	for _, entry := range Catalog {
		for _, pattern := range entry.Patterns {
			if pattern.MatchString(line) {
				return true
			}
		}
	}
	return false
}
