package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/providers"
	"github.com/navigationiq/navigator/internal/svcctx"
	"github.com/navigationiq/navigator/internal/workspace"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server      string                      `json:"server"`
	Initialized bool                        `json:"initialized"`
	ConfigFile  string                      `json:"config_file,omitempty"`
	Providers   []providers.ProviderStatus  `json:"providers"`
	Sections    int                         `json:"handbook_sections"`
	Flows       map[string]workspace.Status `json:"flows,omitempty"`
	LLMCalls    int                         `json:"llm_calls"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Providers, handbook and flow status
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:    "running",
		Providers: []providers.ProviderStatus{},
	}

	ctx := r.Context()
	if registry := svcctx.RegistryFrom(ctx); registry != nil {
		resp.Providers = registry.Status()
	}
	if cm := svcctx.ConfigManagerFrom(ctx); cm != nil {
		resp.ConfigFile = cm.ConfigFile()
	}
	if store := svcctx.LLMCallStoreFrom(ctx); store != nil {
		resp.LLMCalls = store.Len()
	}
	if ws := svcctx.WorkspaceFrom(ctx); ws != nil {
		resp.Initialized = true
		resp.Sections = len(ws.Handbook().Sections())
		resp.Flows = make(map[string]workspace.Status)
		for _, name := range ws.Flows() {
			f, _ := ws.Flow(name)
			resp.Flows[name] = f.Status()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() != api.OutputFormatText {
				return api.Output(resp)
			}
			fmt.Printf("Server:      %s\n", resp.Server)
			fmt.Printf("Initialized: %t\n", resp.Initialized)
			if resp.ConfigFile != "" {
				fmt.Printf("Config:      %s\n", resp.ConfigFile)
			}
			fmt.Printf("Handbook:    %d sections\n", resp.Sections)
			fmt.Printf("LLM calls:   %d\n", resp.LLMCalls)
			fmt.Printf("Providers:\n")
			for _, p := range resp.Providers {
				fmt.Printf("  %s (%s) %s\n", p.Name, p.Type, p.Model)
			}
			fmt.Printf("Flows:\n")
			for name, st := range resp.Flows {
				fmt.Printf("  %-10s %s\n", name, st)
			}
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
