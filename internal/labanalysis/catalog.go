package labanalysis

import "regexp"

func f(v float64) *float64 { return &v }

func pats(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile("(?i)"+e))
	}
	return out
}

// Catalog is the reference table of recognizable metrics. It is built once
// at init and never mutated; sharing it across requests needs no locking.
var Catalog = []ReferenceEntry{
	{
		ID:       "glucose",
		Name:     "Глюкоза",
		Unit:     "ммоль/л",
		Range:    Range{Min: f(3.9), Max: f(5.5)},
		Patterns: pats(`глюкоз`, `glucose`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Глюкоза показывает, как организм справляется с сахаром. " +
			"Повышение может быть связано с питанием, стрессом или инсулинорезистентностью.",
	},
	{
		ID:       "hba1c",
		Name:     "Гликированный гемоглобин (HbA1c)",
		Unit:     "%",
		Range:    Range{Max: f(6)},
		// hb a1c first: its match swallows the "1" so the window search
		// does not pick it up as the value.
		Patterns: pats(`hb\s*a1c`, `гликированн`),
		HighNote: "Выше нормы",
		Description: "HbA1c отражает средний уровень сахара за последние 2–3 месяца. " +
			"Повышение — повод пересмотреть питание и обсудить результат с врачом.",
	},
	{
		ID:       "vitamin-d",
		Name:     "Витамин D (25(OH)D)",
		Unit:     "нг/мл",
		Range:    Range{Min: f(30), Max: f(60)},
		Patterns: pats(`25\s*\(?oh\)?\s*d`, `витамин\s*d(?:3)?`, `vitamin\s*d`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Витамин D влияет на иммунитет, энергию и настроение. " +
			"Низкие значения часто встречаются в зимний период.",
	},
	{
		ID:       "b12",
		Name:     "Витамин B12",
		Unit:     "пг/мл",
		Range:    Range{Min: f(200), Max: f(900)},
		Patterns: pats(`витамин\s*b\s*12`, `b12`, `кобаламин`, `cobalamin`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "B12 нужен для крови и нервной системы. " +
			"Дефицит встречается при растительном питании и проблемах с усвоением.",
	},
	{
		ID:       "cholesterol",
		Name:     "Общий холестерин",
		Unit:     "ммоль/л",
		Range:    Range{Max: f(5.2)},
		Patterns: pats(`холестерин`, `cholesterol`),
		HighNote: "Слегка повышен",
		Description: "Повышенный холестерин важно корректировать питанием, " +
			"активностью и контролем веса.",
	},
	{
		ID:       "ferritin",
		Name:     "Ферритин",
		Unit:     "мкг/л",
		Range:    Range{Min: f(30), Max: f(150)},
		Patterns: pats(`ферритин`, `ferritin`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Ферритин показывает запас железа. " +
			"Низкие значения могут давать усталость и снижение энергии.",
	},
	{
		ID:       "hemoglobin",
		Name:     "Гемоглобин",
		Unit:     "г/л",
		Range:    Range{Min: f(120), Max: f(160)},
		Patterns: pats(`гемоглобин`, `hemoglobin`, `hgb`),
		Stop:     pats(`гликированн[а-яё]*\s+гемоглобин`, `glycated\s+hemoglobin`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Гемоглобин отвечает за перенос кислорода. " +
			"Низкие значения могут указывать на анемию.",
	},
	{
		ID:       "tsh",
		Name:     "ТТГ",
		Unit:     "мМЕ/л",
		Range:    Range{Min: f(0.4), Max: f(4)},
		Patterns: pats(`ттг`, `tsh`, `тиреотропн`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "ТТГ отражает работу щитовидной железы. " +
			"Отклонения влияют на вес, сон и энергию.",
	},
	{
		ID:       "crp",
		Name:     "С-реактивный белок",
		Unit:     "мг/л",
		Range:    Range{Max: f(5)},
		Patterns: pats(`с-?реактивн`, `crp`, `срб`),
		HighNote: "Выше нормы",
		Description: "С-реактивный белок — маркер воспаления. " +
			"Повышение бывает при инфекциях, стрессе и хроническом воспалении.",
	},
	{
		ID:       "creatinine",
		Name:     "Креатинин",
		Unit:     "мкмоль/л",
		Range:    Range{Min: f(62), Max: f(106)},
		Patterns: pats(`креатинин`, `creatinine`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Креатинин отражает работу почек. " +
			"Повышение требует контроля питьевого режима и повторной сдачи.",
	},
	{
		ID:       "uric-acid",
		Name:     "Мочевая кислота",
		Unit:     "мкмоль/л",
		Range:    Range{Min: f(150), Max: f(420)},
		Patterns: pats(`мочев[а-яё]*\s+кислот`, `uric\s*acid`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Мочевая кислота связана с обменом пуринов. " +
			"Повышение корректируется питанием и достаточным количеством воды.",
	},
	{
		ID:       "alt",
		Name:     "ALT",
		Unit:     "Ед/л",
		Range:    Range{Max: f(35)},
		Patterns: pats(`\balt\b`, `алт`, `аланинаминотрансфераз`),
		HighNote: "Выше нормы",
		Description: "ALT отражает состояние печени. " +
			"Повышение может быть связано с нагрузкой на печень или лекарствами.",
	},
	{
		ID:          "ast",
		Name:        "AST",
		Unit:        "Ед/л",
		Range:       Range{Max: f(35)},
		Patterns:    pats(`\bast\b`, `аст`, `аспартатаминотрансфераз`),
		Stop:        pats(`возраст`, `част[а-яё]*`),
		HighNote:    "Выше нормы",
		Description: "AST также связан с состоянием печени и мышечной нагрузкой.",
	},
	{
		ID:       "wbc",
		Name:     "Лейкоциты",
		Unit:     "10^9/л",
		Range:    Range{Min: f(4), Max: f(9)},
		Patterns: pats(`лейкоцит`, `wbc`, `leukocyte`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Лейкоциты отражают иммунный ответ. Повышение бывает при " +
			"воспалении, понижение — при снижении иммунитета.",
	},
	{
		ID:       "platelets",
		Name:     "Тромбоциты",
		Unit:     "10^9/л",
		Range:    Range{Min: f(150), Max: f(400)},
		Patterns: pats(`тромбоцит`, `plt`, `platelet`),
		LowNote:  "Ниже нормы",
		HighNote: "Выше нормы",
		Description: "Тромбоциты важны для свертывания крови. " +
			"Отклонения требуют консультации специалиста.",
	},
}

// CatalogEntry returns the entry with the given id.
func CatalogEntry(id string) (ReferenceEntry, bool) {
	for _, entry := range Catalog {
		if entry.ID == id {
			return entry, true
		}
	}
	return ReferenceEntry{}, false
}
