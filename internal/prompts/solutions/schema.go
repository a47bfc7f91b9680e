package solutions

// Schema returns the JSON schema for a solution answer: an array of headed
// sections. Strict mode is off because the root is an array.
func Schema() map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "solution_sections",
			"strict": false,
			"schema": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"header": map[string]any{"type": "string"},
						"text":   map[string]any{"type": "string"},
					},
					"required": []string{"header", "text"},
				},
			},
		},
	}
}
