package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/prompts/hrcenter"
	"github.com/navigationiq/navigator/internal/workspace"
)

// AnalyzeHRRequest is the request body for an HR Solutions Center run.
type AnalyzeHRRequest struct {
	Card     string `json:"card"`
	Query    string `json:"query,omitempty"`
	Document string `json:"document,omitempty"`
	Wait     bool   `json:"wait,omitempty"`
}

// CardsResponse lists the HR solution cards.
type CardsResponse struct {
	Cards []hrcenter.Card `json:"cards"`
}

// ArchiveResponse lists archived HR analyses, newest first.
type ArchiveResponse struct {
	Entries []workspace.HRArchive `json:"entries"`
}

// ExportRequest selects the archive entry to export. Empty means newest.
type ExportRequest struct {
	ID string `json:"id,omitempty"`
}

// ExportResponse reports where the export was written.
type ExportResponse struct {
	Path string `json:"path"`
}

// AnalyzeHREndpoint handles POST /api/flows/hr/analyze.
type AnalyzeHREndpoint struct{}

func (e *AnalyzeHREndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/hr/analyze", e.handler
}

func (e *AnalyzeHREndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Analyze an HR scenario
//	@Description	Needs a query, a document, or both. Successful results are archived
//	@Tags			hr
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeHRRequest	true	"Card and scenario"
//	@Success		200		{object}	FlowResponse
//	@Success		202		{object}	FlowResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/flows/hr/analyze [post]
func (e *AnalyzeHREndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req AnalyzeHRRequest
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := ws.AnalyzeHR(r.Context(), req.Card, req.Query, req.Document)
	respondRun(w, r, ws, workspace.FlowHR, req.Wait, run, err)
}

func (e *AnalyzeHREndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait, demo bool
	var document string
	cmd := &cobra.Command{
		Use:   "analyze <card-title> [query]",
		Short: "Analyze an HR scenario against a solution card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := AnalyzeHRRequest{Card: args[0], Query: strings.Join(args[1:], " "), Wait: wait}
			switch {
			case demo:
				req.Document = hrcenter.DemoFileContent
			case document != "":
				data, err := os.ReadFile(document)
				if err != nil {
					return fmt.Errorf("failed to read document: %w", err)
				}
				req.Document = string(data)
			}

			client := api.NewClient(getServerURL())
			var resp FlowResponse
			if err := client.Post(cmd.Context(), "/api/flows/hr/analyze", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	addWaitFlag(cmd, &wait)
	cmd.Flags().StringVar(&document, "document", "", "Path to a text document to analyze")
	cmd.Flags().BoolVar(&demo, "demo", false, "Attach the demo "+hrcenter.DemoFileName)
	return cmd
}

// CardsEndpoint handles GET /api/flows/hr/cards.
type CardsEndpoint struct{}

func (e *CardsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/hr/cards", e.handler
}

func (e *CardsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List HR solution cards
//	@Tags		hr
//	@Produce	json
//	@Success	200	{object}	CardsResponse
//	@Router		/api/flows/hr/cards [get]
func (e *CardsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, CardsResponse{Cards: ws.Cards()})
}

func (e *CardsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List HR solution cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CardsResponse
			if err := client.Get(cmd.Context(), "/api/flows/hr/cards", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ArchiveEndpoint handles GET /api/flows/hr/archive.
type ArchiveEndpoint struct{}

func (e *ArchiveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/hr/archive", e.handler
}

func (e *ArchiveEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List archived HR analyses
//	@Tags		hr
//	@Produce	json
//	@Success	200	{object}	ArchiveResponse
//	@Router		/api/flows/hr/archive [get]
func (e *ArchiveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	entries := ws.Archive()
	if entries == nil {
		entries = []workspace.HRArchive{}
	}
	writeJSON(w, http.StatusOK, ArchiveResponse{Entries: entries})
}

func (e *ArchiveEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "List archived HR analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ArchiveResponse
			if err := client.Get(cmd.Context(), "/api/flows/hr/archive", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DownloadArchiveEndpoint handles GET /api/flows/hr/archive/download.
type DownloadArchiveEndpoint struct{}

func (e *DownloadArchiveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/hr/archive/download", e.handler
}

func (e *DownloadArchiveEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download an HR archive entry
//	@Description	Plain-text export; without id the newest entry is used
//	@Tags			hr
//	@Produce		plain
//	@Param			id	query		string	false	"Archive entry ID"
//	@Success		200	{string}	string
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/flows/hr/archive/download [get]
func (e *DownloadArchiveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	name, text, err := ws.Download(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (e *DownloadArchiveEndpoint) Command(getServerURL func() string) *cobra.Command {
	var id, out string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download an HR archive entry as text",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/flows/hr/archive/download"
			if id != "" {
				path += "?id=" + url.QueryEscape(id)
			}
			body, name, err := client.GetRaw(cmd.Context(), path)
			if err != nil {
				return err
			}
			if out == "" {
				_, err := os.Stdout.Write(body)
				return err
			}
			if out == "." {
				out = name
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(os.Stderr, "Saved %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Archive entry ID (default newest)")
	cmd.Flags().StringVar(&out, "out", "", "Write to a file; '.' uses the server's file name")
	return cmd
}

// ExportArchiveEndpoint handles POST /api/flows/hr/archive/export.
type ExportArchiveEndpoint struct{}

func (e *ExportArchiveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/hr/archive/export", e.handler
}

func (e *ExportArchiveEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Export an HR archive entry
//	@Description	Writes the text export into the server's exports directory
//	@Tags			hr
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ExportRequest	false	"Entry (default newest)"
//	@Success		200		{object}	ExportResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/flows/hr/archive/export [post]
func (e *ExportArchiveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req ExportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	path, err := ws.Export(req.ID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Path: path})
}

func (e *ExportArchiveEndpoint) Command(getServerURL func() string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an HR archive entry to the server's exports directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ExportResponse
			if err := client.Post(cmd.Context(), "/api/flows/hr/archive/export", ExportRequest{ID: id}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Archive entry ID (default newest)")
	return cmd
}
