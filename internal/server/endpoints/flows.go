package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/prompts/hrcenter"
	"github.com/navigationiq/navigator/internal/svcctx"
	"github.com/navigationiq/navigator/internal/workspace"
)

// FlowResponse is a flow snapshot with its current render tree.
type FlowResponse struct {
	workspace.Snapshot `yaml:",inline"`
	Tree               *content.Node `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// RenderTree implements api.Treer.
func (r FlowResponse) RenderTree() *content.Node { return r.Tree }

// FlowsResponse lists flows and their status.
type FlowsResponse struct {
	Flows []FlowSummary `json:"flows"`
}

// FlowSummary is one row of FlowsResponse.
type FlowSummary struct {
	Name   string           `json:"name"`
	Status workspace.Status `json:"status"`
}

// ToggleRequest addresses a panel by the scope and key on its node.
type ToggleRequest struct {
	Scope string `json:"scope"`
	Key   string `json:"key"`
}

// ToggleResponse reports the panel's new state and the re-rendered flow.
type ToggleResponse struct {
	Expanded bool         `json:"expanded"`
	Flow     FlowResponse `json:"flow"`
}

// RenderTree implements api.Treer.
func (r ToggleResponse) RenderTree() *content.Node { return r.Flow.Tree }

// ListFlowsEndpoint handles GET /api/flows.
type ListFlowsEndpoint struct{}

func (e *ListFlowsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows", e.handler
}

func (e *ListFlowsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List flows
//	@Tags		flows
//	@Produce	json
//	@Success	200	{object}	FlowsResponse
//	@Router		/api/flows [get]
func (e *ListFlowsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	resp := FlowsResponse{Flows: []FlowSummary{}}
	for _, name := range ws.Flows() {
		f, _ := ws.Flow(name)
		resp.Flows = append(resp.Flows, FlowSummary{Name: name, Status: f.Status()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListFlowsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List flows and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FlowsResponse
			if err := client.Get(cmd.Context(), "/api/flows", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetFlowEndpoint handles GET /api/flows/{flow}.
type GetFlowEndpoint struct{}

func (e *GetFlowEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/{flow}", e.handler
}

func (e *GetFlowEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a flow
//	@Description	Snapshot and render tree; format=html returns the rendered markup
//	@Tags			flows
//	@Produce		json,html
//	@Param			flow	path		string	true	"Flow name"
//	@Param			format	query		string	false	"json (default) or html"
//	@Success		200		{object}	FlowResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/flows/{flow} [get]
func (e *GetFlowEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	resp, err := flowResponse(ws, r.PathValue("flow"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if r.URL.Query().Get("format") == "html" {
		writeHTML(w, resp.Tree)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *GetFlowEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <flow>",
		Short: "Show a flow's state and rendered result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FlowResponse
			if err := client.Get(cmd.Context(), "/api/flows/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ToggleFlowEndpoint handles POST /api/flows/{flow}/toggle.
type ToggleFlowEndpoint struct{}

func (e *ToggleFlowEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/{flow}/toggle", e.handler
}

func (e *ToggleFlowEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Toggle a panel
//	@Description	Flips the expanded flag of the panel at scope/key
//	@Tags			flows
//	@Accept			json
//	@Produce		json
//	@Param			flow	path		string			true	"Flow name"
//	@Param			body	body		ToggleRequest	true	"Panel address"
//	@Success		200		{object}	ToggleResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/flows/{flow}/toggle [post]
func (e *ToggleFlowEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req ToggleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Scope == "" || req.Key == "" {
		writeError(w, http.StatusBadRequest, "scope and key are required")
		return
	}

	name := r.PathValue("flow")
	f, err := ws.Flow(name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	expanded := f.Toggle(req.Scope, req.Key)

	resp, err := flowResponse(ws, name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Expanded: expanded, Flow: resp})
}

func (e *ToggleFlowEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <flow> <scope> <key>",
		Short: "Expand or collapse a panel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ToggleResponse
			req := ToggleRequest{Scope: args[1], Key: args[2]}
			if err := client.Post(cmd.Context(), "/api/flows/"+args[0]+"/toggle", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// CloseFlowEndpoint handles POST /api/flows/{flow}/close.
type CloseFlowEndpoint struct{}

func (e *CloseFlowEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/{flow}/close", e.handler
}

func (e *CloseFlowEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Close a flow
//	@Description	Clears the result and drops any response still in flight
//	@Tags			flows
//	@Produce		json
//	@Param			flow	path		string	true	"Flow name"
//	@Success		200		{object}	FlowResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/flows/{flow}/close [post]
func (e *CloseFlowEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	name := r.PathValue("flow")
	if err := ws.CloseFlow(name); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	resp, err := flowResponse(ws, name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *CloseFlowEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "close <flow>",
		Short: "Close a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FlowResponse
			if err := client.Post(cmd.Context(), "/api/flows/"+args[0]+"/close", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// workspaceFrom returns the workspace or answers 503.
func workspaceFrom(w http.ResponseWriter, r *http.Request) *workspace.Workspace {
	ws := svcctx.WorkspaceFrom(r.Context())
	if ws == nil {
		writeError(w, http.StatusServiceUnavailable, "workspace not initialized")
	}
	return ws
}

// flowResponse snapshots a flow and renders it.
func flowResponse(ws *workspace.Workspace, name string) (FlowResponse, error) {
	f, err := ws.Flow(name)
	if err != nil {
		return FlowResponse{}, err
	}
	tree, err := ws.Render(name)
	if err != nil {
		return FlowResponse{}, err
	}
	return FlowResponse{Snapshot: f.Snapshot(), Tree: tree}, nil
}

// respondRun answers a submission: 202 with the loading snapshot, or with
// wait set, 200 once the run settles.
func respondRun(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, flow string, wait bool, run *workspace.Run, err error) {
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	status := http.StatusAccepted
	if wait {
		if err := run.Wait(r.Context()); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				writeError(w, http.StatusGatewayTimeout, "timed out waiting for "+flow)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		status = http.StatusOK
	}
	resp, err := flowResponse(ws, flow)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, status, resp)
}

// statusFor maps workspace errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, workspace.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, workspace.ErrEmptyInput), errors.Is(err, hrcenter.ErrEmptyScenario):
		return http.StatusBadRequest
	case errors.Is(err, workspace.ErrNotFound), errors.Is(err, workspace.ErrUnknownFlow):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON body into v, answering 400 on failure. An empty
// body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeHTML writes a render tree as an HTML fragment.
func writeHTML(w http.ResponseWriter, tree *content.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	content.WriteHTML(w, tree)
}

// addWaitFlag registers the --wait flag shared by submission commands.
func addWaitFlag(cmd *cobra.Command, wait *bool) {
	cmd.Flags().BoolVar(wait, "wait", true, "Block until the flow settles")
}
