package labanalysis

import (
	"encoding/json"
	"testing"
)

func TestSafeParseJSONValidObject(t *testing.T) {
	got := SafeParseJSON(`{"title": "Анализ", "metrics": []}`)
	if got == nil {
		t.Fatal("valid object not parsed")
	}
	if got["title"] != "Анализ" {
		t.Fatalf("title = %v", got["title"])
	}
}

func TestSafeParseJSONRepairsNearJSON(t *testing.T) {
	input := `Here is the result: {"title":'X', metrics: [], summary: "ok"} extra text`
	got := SafeParseJSON(input)
	if got == nil {
		t.Fatal("near-JSON not recovered")
	}
	if got["title"] != "X" || got["summary"] != "ok" {
		t.Fatalf("fields = %v", got)
	}
	metrics, ok := got["metrics"].([]any)
	if !ok || len(metrics) != 0 {
		t.Fatalf("metrics = %v", got["metrics"])
	}
}

func TestSafeParseJSONFencedBlock(t *testing.T) {
	input := "Вот разбор:\n```json\n{\"metrics\": [{\"name\": \"Глюкоза\", \"status\": warning,}]}\n```"
	got := SafeParseJSON(input)
	if got == nil {
		t.Fatal("fenced block not parsed")
	}
	metrics := got["metrics"].([]any)
	entry := metrics[0].(map[string]any)
	if entry["status"] != "warning" {
		t.Fatalf("status = %v", entry["status"])
	}
}

func TestSafeParseJSONTypographicQuotes(t *testing.T) {
	got := SafeParseJSON(`{«title»: «Расшифровка»}`)
	if got == nil || got["title"] != "Расшифровка" {
		t.Fatalf("got %v", got)
	}
}

func TestSafeParseJSONSingleQuotedWithInnerQuotes(t *testing.T) {
	got := SafeParseJSON(`{'summary': 'врач сказал "норма"'}`)
	if got == nil {
		t.Fatal("single-quoted object not recovered")
	}
	if got["summary"] != `врач сказал "норма"` {
		t.Fatalf("summary = %q", got["summary"])
	}
}

func TestSafeParseJSONBracesInsideStrings(t *testing.T) {
	got := SafeParseJSON(`{"note": "скобки } внутри \" строки"}`)
	if got == nil {
		t.Fatal("quoted braces broke the scan")
	}
}

func TestSafeParseJSONRejectsUnbalanced(t *testing.T) {
	if got := SafeParseJSON(`{"title": "X", "metrics": [`); got != nil {
		t.Fatalf("unbalanced input parsed to %v", got)
	}
}

func TestSafeParseJSONRejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[1, 2, 3]`, `"строка"`, `42`, `true`} {
		if got := SafeParseJSON(input); got != nil {
			t.Fatalf("%q parsed to %v, want nil", input, got)
		}
	}
}

func TestSafeParseJSONGarbageNeverPanics(t *testing.T) {
	inputs := []string{
		"", "   ", "нет тут никакого json",
		"{{{{", "}}}}", "```json\n```", `{"a": "\`,
		"{'':}", "[{]}",
	}
	for _, input := range inputs {
		if got := SafeParseJSON(input); got != nil {
			if _, err := json.Marshal(got); err != nil {
				t.Fatalf("%q produced unmarshalable result", input)
			}
		}
	}
}

func TestSafeParseJSONPrefersFirstParsableSpan(t *testing.T) {
	got := SafeParseJSON(`мусор {"title": "первый"} и еще {"title": "второй"}`)
	if got == nil || got["title"] != "первый" {
		t.Fatalf("got %v", got)
	}
}
