package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/handbook"
)

// HandbookResponse lists the handbook sections.
type HandbookResponse struct {
	Sections []handbook.Section `json:"sections"`
}

// SectionResponse is a single handbook section.
type SectionResponse struct {
	Section handbook.Section `json:"section"`
}

// HandbookEndpoint handles GET /api/handbook.
type HandbookEndpoint struct{}

func (e *HandbookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/handbook", e.handler
}

func (e *HandbookEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List handbook sections
//	@Tags		handbook
//	@Produce	json
//	@Success	200	{object}	HandbookResponse
//	@Router		/api/handbook [get]
func (e *HandbookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, HandbookResponse{Sections: ws.Handbook().Sections()})
}

func (e *HandbookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List handbook sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HandbookResponse
			if err := client.Get(cmd.Context(), "/api/handbook", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				for _, s := range resp.Sections {
					fmt.Printf("%-6s %s\n", s.Key, s.Title)
				}
				return nil
			}
			return api.Output(resp)
		},
	}
}

// GetSectionEndpoint handles GET /api/handbook/sections/{id}.
type GetSectionEndpoint struct{}

func (e *GetSectionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/handbook/sections/{id}", e.handler
}

func (e *GetSectionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get a handbook section
//	@Tags		handbook
//	@Produce	json
//	@Param		id	path		string	true	"Section id (e.g. 3 or 5.2)"
//	@Success	200	{object}	SectionResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/handbook/sections/{id} [get]
func (e *GetSectionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	id := r.PathValue("id")
	section, ok := ws.Handbook().Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "section not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, SectionResponse{Section: section})
}

func (e *GetSectionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a handbook section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SectionResponse
			if err := client.Get(cmd.Context(), "/api/handbook/sections/"+args[0], &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				fmt.Printf("%s %s\n\n%s\n", resp.Section.Number, resp.Section.Title, resp.Section.Text)
				return nil
			}
			return api.Output(resp)
		},
	}
}
