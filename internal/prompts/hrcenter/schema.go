package hrcenter

// Section keys of an HR solution, in display order.
var SectionKeys = []string{
	"executiveSummary",
	"documentAnalysis",
	"handbookPolicyAnalysis",
	"legalAndComplianceFramework",
	"actionableRecommendations",
}

// Schema returns the JSON schema for an HR solution.
func Schema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "hr_solution",
			"strict": true,
			"schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"executiveSummary":            str,
					"documentAnalysis":            str,
					"handbookPolicyAnalysis":      str,
					"legalAndComplianceFramework": str,
					"actionableRecommendations":   map[string]any{"type": "array", "items": str},
				},
				"required": SectionKeys,
			},
		},
	}
}
