package aianalysis

const systemMessage = "Ты медицинский аналитик. Отвечай структурированно и по существу, без диагнозов. Выдавай только JSON."

const strictSystemMessage = systemMessage + " Результат должен быть один JSON-объект без текста до или после него."

// BuildPrompt embeds the sanitized report text in the fixed instruction
// with the strict output-schema description.
func BuildPrompt(text string) string {
	return `Ты медицинский аналитик для массовой аудитории.
Верни СТРОГО валидный JSON без markdown и пояснений. Язык ответа: русский.
Используй только двойные кавычки. Никаких комментариев или текста вне JSON.

Сформируй структуру:
{
  "title": string,
  "summary": string,
  "metrics": [
    {
      "name": string,
      "value": string,
      "unit": string,
      "range": string,
      "status": "normal" | "warning" | "danger",
      "note": string
    }
  ],
  "explanations": [{ "title": string, "text": string }],
  "diet": [string],
  "lifestyle": [string],
  "vitamins": [string],
  "dietPlan": [string],
  "caution": string
}

Правила:
- Распознавай показатели из текста анализов, не придумывай новые.
- range всегда строка; если диапазон не указан, ставь "".
- status вычисляй по диапазону; если диапазона нет, ставь "normal".
- note: кратко ("в норме", "выше нормы", "ниже нормы", "требует внимания").
- summary: 2–3 предложения — общая картина, ключевые отклонения, следующий шаг.
- explanations: до 4 пунктов, только по отклонениям.
- diet/lifestyle/vitamins: по 3–5 конкретных, выполнимых рекомендаций.
- dietPlan: 5–7 пунктов вида "День N: ...".
- Не ставь диагнозы и не назначай лечение.

Входной текст анализов:
"""` + text + `"""
`
}
