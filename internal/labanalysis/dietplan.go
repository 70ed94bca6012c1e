package labanalysis

// The four canned weekly plans. Exactly one is chosen per analysis, by the
// first matching category: iron, then thyroid, then metabolic, then the
// generic default. Categories are not combined.

var ironDietPlan = []string{
	"День 1: говядина с гречкой, салат с болгарским перцем.",
	"День 2: печень куриная с овощами, апельсин.",
	"День 3: чечевичный суп, цельнозерновой хлеб.",
	"День 4: индейка с киноа, шпинат с лимонным соком.",
	"День 5: говяжьи тефтели, тушеная капуста.",
	"День 6: фасоль с томатами, зелень, киви.",
	"День 7: рыба, запеченные овощи, горсть кураги.",
}

var thyroidDietPlan = []string{
	"День 1: морская рыба, салат с морской капустой.",
	"День 2: творог, грецкие орехи, овощи.",
	"День 3: треска с картофелем, зелень.",
	"День 4: яйца, гречка, салат с фейхоа.",
	"День 5: креветки с рисом, овощи.",
	"День 6: индейка, тушеные овощи, йогурт.",
	"День 7: скумбрия, киноа, свежий салат.",
}

var metabolicDietPlan = []string{
	"День 1: овсянка без сахара, курица с овощами.",
	"День 2: яйца, салат, рыба с брокколи.",
	"День 3: гречка, индейка, тушеные овощи.",
	"День 4: творог, орехи, овощной суп.",
	"День 5: рыба на пару, киноа, зелень.",
	"День 6: курица, чечевица, свежие овощи.",
	"День 7: омлет с овощами, говядина с салатом.",
}

var defaultDietPlan = []string{
	"День 1: овсянка с ягодами, курица с овощами.",
	"День 2: творог с орехами, рыба с гречкой.",
	"День 3: омлет с зеленью, индейка с салатом.",
	"День 4: йогурт с фруктами, овощной суп.",
	"День 5: гречка с яйцом, рыба с брокколи.",
	"День 6: сырники, курица с киноа.",
	"День 7: каша на выбор, говядина с овощами.",
}

func selectDietPlan(metrics []ExtractedMetric) []string {
	abnormal := map[string]bool{}
	for _, m := range metrics {
		if m.Status != StatusNormal {
			abnormal[m.ID] = true
		}
	}

	switch {
	case abnormal["ferritin"] || abnormal["hemoglobin"]:
		return ironDietPlan
	case abnormal["tsh"]:
		return thyroidDietPlan
	case abnormal["glucose"] || abnormal["cholesterol"] || abnormal["hba1c"]:
		return metabolicDietPlan
	}
	return defaultDietPlan
}
