package endpoints

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/workspace"
)

// ModalResponse is the modal state with its render tree.
type ModalResponse struct {
	workspace.ModalView `yaml:",inline"`
	// Opened is false when a section lookup missed and the modal was left as is.
	Opened *bool         `json:"opened,omitempty" yaml:"opened,omitempty"`
	Tree   *content.Node `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// RenderTree implements api.Treer.
func (r ModalResponse) RenderTree() *content.Node { return r.Tree }

// OpenSectionRequest is the request body for opening a handbook section.
type OpenSectionRequest struct {
	ID string `json:"id"`
}

// OpenReferenceRequest is the request body for a case or statute lookup.
type OpenReferenceRequest struct {
	Name string `json:"name"`
	Wait bool   `json:"wait,omitempty"`
}

func modalResponse(ws *workspace.Workspace) ModalResponse {
	return ModalResponse{ModalView: ws.Modal(), Tree: ws.RenderModal()}
}

// GetModalEndpoint handles GET /api/modal.
type GetModalEndpoint struct{}

func (e *GetModalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/modal", e.handler
}

func (e *GetModalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get the open modal
//	@Tags		modal
//	@Produce	json,html
//	@Param		format	query		string	false	"json (default) or html"
//	@Success	200		{object}	ModalResponse
//	@Router		/api/modal [get]
func (e *GetModalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	resp := modalResponse(ws)
	if r.URL.Query().Get("format") == "html" {
		writeHTML(w, resp.Tree)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *GetModalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the open modal",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModalResponse
			if err := client.Get(cmd.Context(), "/api/modal", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// OpenSectionEndpoint handles POST /api/modal/section.
type OpenSectionEndpoint struct{}

func (e *OpenSectionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/modal/section", e.handler
}

func (e *OpenSectionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Open a handbook section
//	@Description	A missing section leaves the modal unchanged and reports opened=false
//	@Tags			modal
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenSectionRequest	true	"Section id (e.g. 3 or 5.2)"
//	@Success		200		{object}	ModalResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/modal/section [post]
func (e *OpenSectionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req OpenSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	opened := ws.OpenSection(req.ID)
	resp := modalResponse(ws)
	resp.Opened = &opened
	writeJSON(w, http.StatusOK, resp)
}

func (e *OpenSectionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "section <id>",
		Short: "Open a handbook section in the modal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModalResponse
			if err := client.Post(cmd.Context(), "/api/modal/section", OpenSectionRequest{ID: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// OpenReferenceEndpoint handles POST /api/modal/reference.
type OpenReferenceEndpoint struct{}

func (e *OpenReferenceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/modal/reference", e.handler
}

func (e *OpenReferenceEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Look up a case or statute
//	@Description	Opens the reference modal and generates a summary; concurrent lookups of one name share a call
//	@Tags			modal
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenReferenceRequest	true	"Case or statute name"
//	@Success		200		{object}	ModalResponse
//	@Success		202		{object}	ModalResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/modal/reference [post]
func (e *OpenReferenceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req OpenReferenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := ws.OpenReference(r.Context(), req.Name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	status := http.StatusAccepted
	if req.Wait {
		if err := run.Wait(r.Context()); err != nil {
			writeError(w, http.StatusGatewayTimeout, "timed out waiting for reference")
			return
		}
		status = http.StatusOK
	}
	writeJSON(w, status, modalResponse(ws))
}

func (e *OpenReferenceEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "reference <name>",
		Short: "Look up a case or statute",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := OpenReferenceRequest{Name: strings.Join(args, " "), Wait: wait}
			var resp ModalResponse
			if err := client.Post(cmd.Context(), "/api/modal/reference", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	addWaitFlag(cmd, &wait)
	return cmd
}

// CloseModalEndpoint handles DELETE /api/modal.
type CloseModalEndpoint struct{}

func (e *CloseModalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/modal", e.handler
}

func (e *CloseModalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Close the modal
//	@Tags		modal
//	@Success	204
//	@Router		/api/modal [delete]
func (e *CloseModalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	ws.CloseModal()
	w.WriteHeader(http.StatusNoContent)
}

func (e *CloseModalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the modal",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			return client.Delete(cmd.Context(), "/api/modal")
		},
	}
}
