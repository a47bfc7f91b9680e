package legalqa

// Schema returns the JSON schema for a legal answer.
func Schema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "legal_answer",
			"strict": true,
			"schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"guidance": str,
					"references": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"citation":  str,
							"relevance": str,
						},
						"required": []string{"citation", "relevance"},
					},
					"risk": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"level":          str,
							"analysis":       str,
							"recommendation": map[string]any{"type": "array", "items": str},
						},
						"required": []string{"level", "analysis", "recommendation"},
					},
				},
				"required": []string{"guidance", "references", "risk"},
			},
		},
	}
}
