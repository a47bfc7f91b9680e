package api

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// initMiddleware wraps handlers that require full server initialization.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Commands are grouped by the first path segment after /api/, so
// /api/prompts/{key} becomes "api prompts get". Flow-specific routes
// such as /api/flows/risk/analyze group under the flow name instead.
// Endpoints with nil commands are skipped.
// getServerURL is called at runtime to get the server URL.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running Navigator server via HTTP.

These commands require a running server (navigator serve).
Use --server to specify a custom server URL.

Examples:
  navigator api health                          # Check server health
  navigator api risk analyze "A parent..." --wait
  navigator api flows get risk -o text          # Draw the risk flow
  navigator api hr download`,
	}

	type entry struct {
		cmd   *cobra.Command
		group string
		leaf  bool
	}
	var entries []entry
	sizes := map[string]int{}
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		_, path, _ := ep.Route()
		group := CommandGroup(path)
		entries = append(entries, entry{cmd: cmd, group: group, leaf: path == "/api/"+group})
		sizes[group]++
	}

	groups := map[string]*cobra.Command{}
	for _, e := range entries {
		// A lone route like /api/scan is just a command.
		if e.group == "" || (e.leaf && sizes[e.group] == 1) {
			apiCmd.AddCommand(e.cmd)
			continue
		}
		parent, ok := groups[e.group]
		if !ok {
			parent = &cobra.Command{
				Use:   e.group,
				Short: strings.ToUpper(e.group[:1]) + e.group[1:] + " commands",
			}
			groups[e.group] = parent
			apiCmd.AddCommand(parent)
		}
		parent.AddCommand(e.cmd)
	}

	return apiCmd
}

// CommandGroup returns the CLI group for an API path, or "" for routes
// outside /api/. Flow routes with a literal flow segment group under the
// flow name.
func CommandGroup(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	segments := strings.Split(rest, "/")
	if segments[0] == "flows" && len(segments) > 1 && !strings.HasPrefix(segments[1], "{") {
		return segments[1]
	}
	return segments[0]
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
