package labanalysis

import (
	"fmt"
	"time"
)

var russianMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatUpdatedAt renders the report timestamp in the fixed
// day-longmonth-hour:minute form, e.g. "07 марта 14:05".
func FormatUpdatedAt(t time.Time) string {
	return fmt.Sprintf("%02d %s %02d:%02d", t.Day(), russianMonths[t.Month()-1], t.Hour(), t.Minute())
}

// timeNow is swapped in tests.
var timeNow = time.Now

// Normalize coerces an untrusted structured value into the canonical
// Analysis. It never fails: wrong-typed fields get their defaults, metric
// entries are rebuilt field by field, and UpdatedAt always reflects call
// time rather than anything the input claims.
func Normalize(raw any, meta Source) Analysis {
	data, _ := raw.(map[string]any)

	return Analysis{
		Title:        asString(data["title"], DefaultTitle),
		UpdatedAt:    FormatUpdatedAt(timeNow()),
		Summary:      asString(data["summary"], ""),
		Metrics:      normalizeMetrics(data["metrics"]),
		Explanations: normalizeExplanations(data["explanations"]),
		Diet:         stringList(data["diet"]),
		Lifestyle:    stringList(data["lifestyle"]),
		Vitamins:     stringList(data["vitamins"]),
		DietPlan:     stringList(data["dietPlan"]),
		Caution:      asString(data["caution"], Disclaimer),
		Source:       meta,
	}
}

// normalizeMetrics rebuilds every entry; a malformed entry becomes a fully
// defaulted metric rather than being dropped, so the output length always
// matches the input's.
func normalizeMetrics(raw any) []AnalysisMetric {
	items, _ := raw.([]any)
	metrics := make([]AnalysisMetric, 0, len(items))
	for _, item := range items {
		entry, _ := item.(map[string]any)
		status := StatusNormal
		if s, ok := entry["status"].(string); ok && ValidStatus(s) {
			status = Status(s)
		}
		metrics = append(metrics, AnalysisMetric{
			Name:   asString(entry["name"], "Показатель"),
			Value:  asString(entry["value"], ""),
			Unit:   asString(entry["unit"], ""),
			Range:  asString(entry["range"], ""),
			Status: status,
			Note:   asString(entry["note"], ""),
		})
	}
	return metrics
}

func normalizeExplanations(raw any) []Explanation {
	items, _ := raw.([]any)
	explanations := make([]Explanation, 0, len(items))
	for _, item := range items {
		entry, _ := item.(map[string]any)
		explanations = append(explanations, Explanation{
			Title: asString(entry["title"], ""),
			Text:  asString(entry["text"], ""),
		})
	}
	return explanations
}

func stringList(raw any) []string {
	items, _ := raw.([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asString keeps any string as-is (including empty); only a missing or
// non-string value falls back.
func asString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
