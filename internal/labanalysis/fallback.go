package labanalysis

import "strings"

type tips struct {
	diet      []string
	lifestyle []string
	vitamins  []string
}

// BuildFallback produces a complete analysis from raw text with no AI
// involvement. It always succeeds; the caller decides what to put in
// Source (the orchestrator tags it Fallback/Rule-based on the last-resort
// path).
func BuildFallback(text string) Analysis {
	metrics := ExtractMetrics(text)
	advice := buildTips(metrics)

	return Analysis{
		Title:        DefaultTitle,
		UpdatedAt:    FormatUpdatedAt(timeNow()),
		Summary:      buildSummary(metrics),
		Metrics:      toAnalysisMetrics(metrics),
		Explanations: buildExplanations(metrics),
		Diet:         advice.diet,
		Lifestyle:    advice.lifestyle,
		Vitamins:     advice.vitamins,
		DietPlan:     selectDietPlan(metrics),
		Caution:      Disclaimer,
	}
}

func toAnalysisMetrics(metrics []ExtractedMetric) []AnalysisMetric {
	out := make([]AnalysisMetric, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, AnalysisMetric{
			Name:   m.Name,
			Value:  m.Value,
			Unit:   m.Unit,
			Range:  m.Range,
			Status: m.Status,
			Note:   m.Note,
		})
	}
	return out
}

func buildSummary(metrics []ExtractedMetric) string {
	if len(metrics) == 0 {
		return "Мы не смогли уверенно распознать показатели. Проверьте ввод или загрузите более четкий файл."
	}

	if danger := namesWithStatus(metrics, StatusDanger); len(danger) > 0 {
		return "Выраженные отклонения: " + strings.Join(danger, ", ") +
			". Рекомендуем обсудить результаты с врачом в ближайшее время."
	}
	if warning := namesWithStatus(metrics, StatusWarning); len(warning) > 0 {
		return "Обнаружены отклонения: " + strings.Join(warning, ", ") +
			". Рекомендуем обратить внимание на питание и образ жизни."
	}
	return "Все распознанные показатели находятся в пределах нормы. Продолжайте поддерживать текущий режим."
}

func namesWithStatus(metrics []ExtractedMetric, status Status) []string {
	var names []string
	for _, m := range metrics {
		if m.Status != status {
			continue
		}
		names = append(names, m.Name)
		if len(names) == 3 {
			break
		}
	}
	return names
}

// buildTips runs the fixed condition-to-advice table. Rules fire
// independently; every abnormal metric contributes its own block, and the
// generic baseline fills any list no rule touched.
func buildTips(metrics []ExtractedMetric) tips {
	index := map[string]ExtractedMetric{}
	for _, m := range metrics {
		if _, ok := index[m.ID]; !ok {
			index[m.ID] = m
		}
	}
	abnormal := func(id string) bool {
		m, ok := index[id]
		return ok && m.Status != StatusNormal
	}
	inDanger := func(id string) bool {
		m, ok := index[id]
		return ok && m.Status == StatusDanger
	}

	var t tips

	if abnormal("vitamin-d") {
		t.vitamins = append(t.vitamins, "Витамин D3 — 2000 МЕ в день 8 недель.")
		t.diet = append(t.diet, "Добавьте жирную рыбу 2 раза в неделю (форель, скумбрия) и яйца.")
		t.lifestyle = append(t.lifestyle, "10–15 минут дневного света в первой половине дня.")
	}

	if abnormal("cholesterol") {
		t.diet = append(t.diet, "Снизьте количество сахара и выпечки, добавьте клетчатку.")
		t.lifestyle = append(t.lifestyle, "Ходьба 30 минут в день или 8–10 тыс. шагов.")
	}

	if abnormal("glucose") || abnormal("hba1c") {
		t.diet = append(t.diet, "Сделайте упор на овощи и белок, уберите сладкие напитки и частые перекусы.")
		t.lifestyle = append(t.lifestyle, "Стабилизируйте сон: 7–8 часов ежедневно.")
		if inDanger("glucose") || inDanger("hba1c") {
			t.lifestyle = append(t.lifestyle, "Запишитесь на консультацию эндокринолога.")
		}
	}

	if abnormal("ferritin") || abnormal("hemoglobin") {
		t.diet = append(t.diet, "Добавьте источники железа: говядина, печень, бобовые.")
		t.diet = append(t.diet, "Сочетайте железо с витамином C: овощи и цитрусовые к основным блюдам.")
		t.vitamins = append(t.vitamins, "Железо — по назначению врача после консультации.")
		if abnormal("ferritin") && abnormal("hemoglobin") {
			t.lifestyle = append(t.lifestyle, "Обсудите с врачом исключение анемии.")
		}
	}

	if abnormal("b12") {
		t.vitamins = append(t.vitamins, "Витамин B12 — 500 мкг в день 4–6 недель.")
	}

	if abnormal("tsh") {
		t.diet = append(t.diet, "Добавьте йодсодержащие продукты: морская рыба, морская капуста.")
		t.lifestyle = append(t.lifestyle, "Запишитесь на консультацию эндокринолога по щитовидной железе.")
	}

	if abnormal("crp") {
		t.diet = append(t.diet, "Противовоспалительный рацион: овощи, ягоды, рыба, меньше переработанных продуктов.")
		t.lifestyle = append(t.lifestyle, "Снижайте уровень стресса: прогулки, дыхательные практики.")
	}

	if abnormal("creatinine") || abnormal("uric-acid") || abnormal("ast") || abnormal("alt") {
		t.lifestyle = append(t.lifestyle, "Пейте 1,5–2 литра воды в день.")
		t.diet = append(t.diet, "Умерьте количество белка и жирной пищи на 2–3 недели.")
		t.lifestyle = append(t.lifestyle, "Исключите алкоголь до нормализации показателей.")
		t.lifestyle = append(t.lifestyle, "Пересдайте анализ через 2–4 недели.")
	}

	if len(t.diet) == 0 {
		t.diet = append(t.diet, "Овощи 400–500 г в день и достаточное количество воды.")
	}
	if len(t.lifestyle) == 0 {
		t.lifestyle = append(t.lifestyle, "Легкая ежедневная активность и контроль стресса.")
	}
	if len(t.vitamins) == 0 {
		t.vitamins = append(t.vitamins, "Поддерживающий поливитаминный комплекс по согласованию с врачом.")
	}

	return t
}

func buildExplanations(metrics []ExtractedMetric) []Explanation {
	var out []Explanation
	for _, m := range metrics {
		if m.Status == StatusNormal {
			continue
		}
		text := m.Description
		if text == "" {
			text = "Отклонение требует внимания специалиста."
		}
		out = append(out, Explanation{Title: m.Name, Text: text})
		if len(out) == 4 {
			break
		}
	}
	return out
}
