package report

import (
	"fmt"
	"strings"

	"github.com/analizai/labreport/internal/labanalysis"
)

var statusLabels = map[labanalysis.Status]string{
	labanalysis.StatusNormal:  "норма",
	labanalysis.StatusWarning: "внимание",
	labanalysis.StatusDanger:  "отклонение",
}

// BuildMarkdown renders a completed analysis as the markdown report fed to
// the PDF renderer and the CLI.
func BuildMarkdown(a labanalysis.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	if a.UpdatedAt != "" {
		fmt.Fprintf(&b, "Обновлено: %s\n\n", a.UpdatedAt)
	}
	if a.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", a.Summary)
	}

	if len(a.Metrics) > 0 {
		b.WriteString("## Показатели\n\n")
		b.WriteString("| Показатель | Значение | Ед. | Норма | Статус | Комментарий |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, m := range a.Metrics {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				cell(m.Name), cell(m.Value), cell(m.Unit), cell(m.Range),
				statusLabel(m.Status), cell(m.Note))
		}
		b.WriteString("\n")
	}

	if len(a.Explanations) > 0 {
		b.WriteString("## Что это значит\n\n")
		for _, e := range a.Explanations {
			fmt.Fprintf(&b, "**%s.** %s\n\n", e.Title, e.Text)
		}
	}

	writeList(&b, "Питание", a.Diet)
	writeList(&b, "Образ жизни", a.Lifestyle)
	writeList(&b, "Витамины", a.Vitamins)
	writeList(&b, "План питания на неделю", a.DietPlan)

	if a.Caution != "" {
		fmt.Fprintf(&b, "> %s\n\n", a.Caution)
	}
	if a.Source.Provider != "" {
		fmt.Fprintf(&b, "Источник анализа: %s / %s\n", a.Source.Provider, a.Source.Model)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func statusLabel(s labanalysis.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// cell keeps table rows well-formed when a value carries pipes or breaks.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
