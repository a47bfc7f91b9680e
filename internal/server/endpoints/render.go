package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/annotate"
	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/disclosure"
)

// renderScope names the disclosure scope for ad hoc renders.
const renderScope = "render"

// ScanRequest is the request body for POST /api/scan.
type ScanRequest struct {
	Text               string `json:"text"`
	StandaloneDecimals bool   `json:"standalone_decimals,omitempty"`
}

// ScanResponse is the token sequence for the scanned text.
type ScanResponse struct {
	Tokens []annotate.Token `json:"tokens"`
}

// RenderRequest is the request body for POST /api/render.
type RenderRequest struct {
	// Value is any JSON document; key order is preserved.
	Value              json.RawMessage `json:"value"`
	Format             string          `json:"format,omitempty"`
	// Expanded lists panel flags to open. Nested panels are addressed by
	// their path below the value, e.g. "step4-content-optionA".
	Expanded           []string        `json:"expanded,omitempty"`
	StandaloneDecimals bool            `json:"standalone_decimals,omitempty"`
}

// RenderResponse carries the classified shape and the render tree.
type RenderResponse struct {
	Shape content.Kind  `json:"shape"`
	Tree  *content.Node `json:"tree,omitempty"`
}

// RenderTree implements api.Treer.
func (r RenderResponse) RenderTree() *content.Node { return r.Tree }

func scannerFor(standaloneDecimals bool) *annotate.Scanner {
	if standaloneDecimals {
		return annotate.New(annotate.WithStandaloneDecimals())
	}
	return annotate.New()
}

// ScanEndpoint handles POST /api/scan.
type ScanEndpoint struct{}

func (e *ScanEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/scan", e.handler
}

func (e *ScanEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Scan text for annotations
//	@Description	Splits text into plain, bold, section and case/statute tokens
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ScanRequest	true	"Text"
//	@Success		200		{object}	ScanResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/scan [post]
func (e *ScanEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tokens := scannerFor(req.StandaloneDecimals).Scan(req.Text)
	if tokens == nil {
		tokens = []annotate.Token{}
	}
	writeJSON(w, http.StatusOK, ScanResponse{Tokens: tokens})
}

func (e *ScanEndpoint) Command(getServerURL func() string) *cobra.Command {
	var decimals bool
	cmd := &cobra.Command{
		Use:   "scan <text>",
		Short: "Scan text for section, case and statute annotations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := ScanRequest{Text: strings.Join(args, " "), StandaloneDecimals: decimals}
			var resp ScanResponse
			if err := client.Post(cmd.Context(), "/api/scan", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&decimals, "standalone-decimals", false, "Treat bare numbers like 5.2 as section references")
	return cmd
}

// RenderEndpoint handles POST /api/render.
type RenderEndpoint struct{}

func (e *RenderEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/render", e.handler
}

func (e *RenderEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Render a JSON value
//	@Description	Classifies and renders any value. Panels listed in expanded render open
//	@Tags			content
//	@Accept			json
//	@Produce		json,html
//	@Param			body	body		RenderRequest	true	"Value"
//	@Success		200		{object}	RenderResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/render [post]
func (e *RenderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var v any
	if len(req.Value) > 0 {
		decoded, err := content.Decode(req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid value: "+err.Error())
			return
		}
		v = decoded
	}

	store := disclosure.New()
	for _, key := range req.Expanded {
		store.Set(renderScope, key, true)
	}
	renderer := content.NewRenderer(content.WithScanner(scannerFor(req.StandaloneDecimals)))
	tree := renderer.RenderResult(v, content.Links{}, store.Scope(renderScope))

	switch req.Format {
	case "", "json":
		writeJSON(w, http.StatusOK, RenderResponse{Shape: content.Classify(v), Tree: tree})
	case "html":
		writeHTML(w, tree)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q (json, html)", req.Format))
	}
}

func (e *RenderEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	var expanded []string
	var decimals bool
	cmd := &cobra.Command{
		Use:   "render [json]",
		Short: "Render a JSON value (argument, --file, or - for stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				raw = data
			case len(args) == 1 && args[0] != "-":
				raw = []byte(args[0])
			default:
				data, err := readAll(cmd)
				if err != nil {
					return err
				}
				raw = data
			}
			if !json.Valid(raw) {
				return fmt.Errorf("input is not valid JSON")
			}

			client := api.NewClient(getServerURL())
			req := RenderRequest{Value: raw, Expanded: expanded, StandaloneDecimals: decimals}
			var resp RenderResponse
			if err := client.Post(cmd.Context(), "/api/render", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the value from a file")
	cmd.Flags().StringSliceVar(&expanded, "expand", nil, "Panel flags to render expanded, e.g. step4-content-optionA")
	cmd.Flags().BoolVar(&decimals, "standalone-decimals", false, "Treat bare numbers like 5.2 as section references")
	return cmd
}

func readAll(cmd *cobra.Command) ([]byte, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}
