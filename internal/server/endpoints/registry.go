package endpoints

import (
	"github.com/navigationiq/navigator/internal/api"
)

// All returns all endpoint instances. The static catch-all is last.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Flows
		&ListFlowsEndpoint{},
		&GetFlowEndpoint{},
		&ToggleFlowEndpoint{},
		&CloseFlowEndpoint{},

		// Risk analysis
		&AnalyzeRiskEndpoint{},
		&RiskDemoEndpoint{},
		&ListReportsEndpoint{},
		&OpenReportEndpoint{},

		// Question answering
		NewAskLegalEndpoint(),
		NewAskHeadOfSchoolEndpoint(),
		&QuestionsEndpoint{},
		&AnalyzeSolutionEndpoint{},
		&ModulesEndpoint{},

		// HR center
		&AnalyzeHREndpoint{},
		&CardsEndpoint{},
		&ArchiveEndpoint{},
		&DownloadArchiveEndpoint{},
		&ExportArchiveEndpoint{},

		// Reference modal
		&GetModalEndpoint{},
		&OpenSectionEndpoint{},
		&OpenReferenceEndpoint{},
		&CloseModalEndpoint{},

		// Handbook
		&HandbookEndpoint{},
		&GetSectionEndpoint{},

		// Rendering
		&ScanEndpoint{},
		&RenderEndpoint{},

		// Settings
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},

		// LLM call history
		&ListLLMCallsEndpoint{},
		&LLMCallCountsEndpoint{},
		&GetLLMCallEndpoint{},

		// Prompts
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&SetPromptEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
