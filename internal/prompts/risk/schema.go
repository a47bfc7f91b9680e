package risk

// Step keys in display order.
var StepKeys = []string{"step1", "step2", "step3", "step4", "step5", "step6"}

var optionKeys = []string{"optionA", "optionB", "optionC"}

func str() map[string]any { return map[string]any{"type": "string"} }

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{"type": "object", "properties": props, "required": required}
}

func headedList() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": object(map[string]any{"header": str(), "text": str()}, "header", "text"),
	}
}

func step(content map[string]any) map[string]any {
	return object(map[string]any{"title": str(), "content": content}, "title", "content")
}

func options(fields ...string) map[string]any {
	props := map[string]any{"title": str()}
	for _, f := range fields {
		props[f] = str()
	}
	option := object(props, append([]string{"title"}, fields...)...)

	set := map[string]any{}
	for _, k := range optionKeys {
		set[k] = option
	}
	return object(set, optionKeys...)
}

// Schema returns the JSON schema for the six-step report.
func Schema() map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "risk_assessment",
			"strict": true,
			"schema": object(map[string]any{
				"step1": step(headedList()),
				"step2": step(headedList()),
				"step3": step(headedList()),
				"step4": step(options("suggestedLanguage", "policyMatch", "riskScore", "legalReference", "recommendation")),
				"step5": step(options("likelyResponse", "schoolRisk", "legalReference")),
				"step6": step(object(map[string]any{
					"recommendationSummary": str(),
					"implementationSteps":   map[string]any{"type": "array", "items": str()},
				}, "recommendationSummary", "implementationSteps")),
			}, StepKeys...),
		},
	}
}
