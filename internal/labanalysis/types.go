package labanalysis

import "regexp"

const DefaultTitle = "Расшифровка анализов"

const Disclaimer = "Рекомендации носят информационный характер и не заменяют консультацию врача."

type Status string

const (
	StatusNormal  Status = "normal"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusNormal, StatusWarning, StatusDanger:
		return true
	}
	return false
}

// Range is the inclusive reference band for a metric. Either bound may be
// absent (nil), but catalog entries always carry at least one.
type Range struct {
	Min *float64
	Max *float64
}

type ReferenceEntry struct {
	ID       string
	Name     string
	Unit     string
	Range    Range
	Patterns []*regexp.Regexp
	// Stop spans mask pattern hits that belong to a different label
	// (e.g. "гемоглобин" inside "гликированный гемоглобин").
	Stop        []*regexp.Regexp
	LowNote     string
	HighNote    string
	Description string
}

// ExtractedMetric is one catalog entry matched against the input text.
// Description is carried for explanation building and dropped from the
// final metrics list.
type ExtractedMetric struct {
	ID          string
	Name        string
	Value       string
	Unit        string
	Range       string
	Status      Status
	Note        string
	Description string
}

type AnalysisMetric struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Unit   string `json:"unit"`
	Range  string `json:"range"`
	Status Status `json:"status"`
	Note   string `json:"note"`
}

type Explanation struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Source struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Analysis is the canonical record handed to rendering and export.
// Every field is type-correct and defaulted; consumers only ever need
// to check whether a slice is empty.
type Analysis struct {
	Title        string           `json:"title"`
	UpdatedAt    string           `json:"updatedAt"`
	Summary      string           `json:"summary"`
	Metrics      []AnalysisMetric `json:"metrics"`
	Explanations []Explanation    `json:"explanations"`
	Diet         []string         `json:"diet"`
	Lifestyle    []string         `json:"lifestyle"`
	Vitamins     []string         `json:"vitamins"`
	DietPlan     []string         `json:"dietPlan,omitempty"`
	Caution      string           `json:"caution"`
	Source       Source           `json:"source"`
}
