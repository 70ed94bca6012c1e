package labanalysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// searchWindow bounds how far around a pattern match the extractor looks
// for the metric's own value.
const searchWindow = 140

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numberRe     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

	// Substrings that contain numbers but are never the metric's value:
	// printed reference intervals ("3,9 - 5,5") and scientific-unit
	// exponents ("10 ^ 9 /л", "10^12").
	compoundRangeRe = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*[-–—]\s*\d+(?:[.,]\d+)?`)
	exponentUnitRe  = regexp.MustCompile(`\d+\s*\^\s*\d+\s*/\s*[^\s\d]+`)
	exponentRe      = regexp.MustCompile(`\d+\s*\^\s*\d+`)

	// Digits glued to a letter or an opening paren are label text
	// ("HbA1c", "B12", "(25(OH)D"), not a measured value.
	gluedDigitsRe = regexp.MustCompile(`[\p{L}(]\d+(?:[.,]\d+)?`)
)

// ExtractMetrics scans free text for every catalog entry and classifies
// each recognized value against the entry's reference range. Entries whose
// value cannot be located are omitted; the result never contains two
// metrics for the same catalog id.
func ExtractMetrics(text string) []ExtractedMetric {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	normalized := whitespaceRe.ReplaceAllString(text, " ")

	var metrics []ExtractedMetric
	for _, entry := range Catalog {
		value, ok := extractValue(normalized, entry)
		if !ok {
			continue
		}
		metrics = append(metrics, ExtractedMetric{
			ID:          entry.ID,
			Name:        entry.Name,
			Value:       formatNumber(value),
			Unit:        entry.Unit,
			Range:       FormatRange(entry.Range),
			Status:      ResolveStatus(value, entry.Range),
			Note:        resolveNote(value, entry),
			Description: entry.Description,
		})
	}
	return metrics
}

// extractValue tries each recognition pattern in priority order and stops
// at the first pattern that yields a number. Matches that fall inside one
// of the entry's stop spans are ignored.
func extractValue(text string, entry ReferenceEntry) (float64, bool) {
	stops := stopSpans(text, entry.Stop)
	for _, pattern := range entry.Patterns {
		loc := firstAllowedMatch(text, pattern, stops)
		if loc == nil {
			continue
		}
		if v, ok := nearestNumber(text, loc[0], loc[1]); ok {
			return v, true
		}
	}
	return 0, false
}

func stopSpans(text string, stops []*regexp.Regexp) [][]int {
	var spans [][]int
	for _, stop := range stops {
		spans = append(spans, stop.FindAllStringIndex(text, -1)...)
	}
	return spans
}

func firstAllowedMatch(text string, pattern *regexp.Regexp, stops [][]int) []int {
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		blocked := false
		for _, span := range stops {
			if loc[0] >= span[0] && loc[1] <= span[1] {
				blocked = true
				break
			}
		}
		if !blocked {
			return loc
		}
	}
	return nil
}

// nearestNumber looks for the metric value in a bounded window around the
// pattern match: first number after the label, else last number before it
// (OCR output often puts the value ahead of a trailing label).
func nearestNumber(text string, start, end int) (float64, bool) {
	forward := clipRunes(text[end:], searchWindow, false)
	if m := numberRe.FindString(stripNonValues(forward)); m != "" {
		return parseNumber(m)
	}
	backward := clipRunes(text[:start], searchWindow, true)
	matches := numberRe.FindAllString(stripNonValues(backward), -1)
	if len(matches) > 0 {
		return parseNumber(matches[len(matches)-1])
	}
	return 0, false
}

// clipRunes keeps at most n runes from the front (or the back, for the
// backward window) of s. The window is measured in characters so Cyrillic
// input gets the same reach as Latin.
func clipRunes(s string, n int, fromEnd bool) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if fromEnd {
		return string(runes[len(runes)-n:])
	}
	return string(runes[:n])
}

// stripNonValues blanks out range-like and exponent-like substrings so
// their digits are not mistaken for the metric's value. Replacement keeps
// offsets stable by padding with spaces.
func stripNonValues(window string) string {
	blank := func(s string) string { return strings.Repeat(" ", len(s)) }
	window = compoundRangeRe.ReplaceAllStringFunc(window, blank)
	window = exponentUnitRe.ReplaceAllStringFunc(window, blank)
	window = exponentRe.ReplaceAllStringFunc(window, blank)
	window = gluedDigitsRe.ReplaceAllStringFunc(window, blank)
	return window
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ResolveStatus classifies a value against a reference range. A miss below
// min or above max is a warning; past 20% beyond the bound it is danger.
func ResolveStatus(value float64, r Range) Status {
	if r.Min == nil && r.Max == nil {
		return StatusNormal
	}
	if r.Min != nil && value < *r.Min {
		if value < *r.Min*0.8 {
			return StatusDanger
		}
		return StatusWarning
	}
	if r.Max != nil && value > *r.Max {
		if value > *r.Max*1.2 {
			return StatusDanger
		}
		return StatusWarning
	}
	return StatusNormal
}

func resolveNote(value float64, entry ReferenceEntry) string {
	r := entry.Range
	if r.Min == nil && r.Max == nil {
		return "См. комментарий"
	}
	if r.Min != nil && value < *r.Min {
		if entry.LowNote != "" {
			return entry.LowNote
		}
		return "Ниже нормы"
	}
	if r.Max != nil && value > *r.Max {
		if entry.HighNote != "" {
			return entry.HighNote
		}
		return "Выше нормы"
	}
	return "В норме"
}

// FormatRange renders a reference range for display: "3.9–5.5",
// "от 30", "до 5.2", or "" when no bound is set.
func FormatRange(r Range) string {
	switch {
	case r.Min != nil && r.Max != nil:
		return formatNumber(*r.Min) + "–" + formatNumber(*r.Max)
	case r.Min != nil:
		return "от " + formatNumber(*r.Min)
	case r.Max != nil:
		return "до " + formatNumber(*r.Max)
	}
	return ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
