package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/prompts"
	"github.com/navigationiq/navigator/internal/svcctx"
)

// PromptResponse represents a single prompt with its active text.
type PromptResponse struct {
	Key         string   `json:"key"`
	Text        string   `json:"text"`
	Description string   `json:"description,omitempty"`
	Variables   []string `json:"variables,omitempty"`
	Hash        string   `json:"hash,omitempty"`
	IsOverride  bool     `json:"is_override"`
	CID         string   `json:"cid,omitempty"`
}

// PromptsListResponse contains all prompts.
type PromptsListResponse struct {
	Prompts []PromptResponse `json:"prompts"`
}

// SetPromptRequest is the request body for setting a prompt override.
// An empty text clears the override.
type SetPromptRequest struct {
	Text string `json:"text"`
}

func promptResponse(resolver *prompts.Resolver, p prompts.EmbeddedPrompt) (PromptResponse, error) {
	resolved, err := resolver.Resolve(p.Key)
	if err != nil {
		return PromptResponse{}, err
	}
	return PromptResponse{
		Key:         p.Key,
		Text:        resolved.Text,
		Description: p.Description,
		Variables:   resolved.Variables,
		Hash:        p.Hash,
		IsOverride:  resolved.IsOverride,
		CID:         resolved.CID,
	}, nil
}

func resolverFrom(w http.ResponseWriter, r *http.Request) *prompts.Resolver {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusInternalServerError, "prompt resolver not available")
	}
	return resolver
}

// ListPromptsEndpoint handles GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List all prompts
//	@Description	Get all registered prompts with overrides applied
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	PromptsListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := resolverFrom(w, r)
	if resolver == nil {
		return
	}

	embedded := resolver.AllEmbedded()
	resp := PromptsListResponse{Prompts: make([]PromptResponse, 0, len(embedded))}
	for _, p := range embedded {
		pr, err := promptResponse(resolver, p)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Prompts = append(resp.Prompts, pr)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptsListResponse
			if err := client.Get(cmd.Context(), "/api/prompts", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				for _, p := range resp.Prompts {
					marker := ""
					if p.IsOverride {
						marker = " (override)"
					}
					fmt.Printf("%-24s %s%s\n", p.Key, p.Description, marker)
				}
				return nil
			}
			return api.Output(resp)
		},
	}
}

// GetPromptEndpoint handles GET /api/prompts/{key}.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts/{key}", e.handler
}

func (e *GetPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a prompt
//	@Description	Get a specific prompt by key
//	@Tags			prompts
//	@Produce		json
//	@Param			key	path		string	true	"Prompt key (e.g., flows.risk.user)"
//	@Success		200	{object}	PromptResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts/{key} [get]
func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid prompt key")
		return
	}

	resolver := resolverFrom(w, r)
	if resolver == nil {
		return
	}

	embedded, ok := resolver.GetEmbedded(key)
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found: "+key)
		return
	}
	resp, err := promptResponse(resolver, *embedded)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *GetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a prompt by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Get(cmd.Context(), "/api/prompts/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				fmt.Println(resp.Text)
				return nil
			}
			return api.Output(resp)
		},
	}
}

// SetPromptEndpoint handles PUT /api/prompts/{key}.
type SetPromptEndpoint struct{}

func (e *SetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/prompts/{key}", e.handler
}

func (e *SetPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Override a prompt
//	@Description	Replaces the prompt text for this server process; empty text restores the default
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string				true	"Prompt key"
//	@Param			body	body		SetPromptRequest	true	"Override text"
//	@Success		200		{object}	PromptResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/prompts/{key} [put]
func (e *SetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid prompt key")
		return
	}
	var req SetPromptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resolver := resolverFrom(w, r)
	if resolver == nil {
		return
	}
	embedded, ok := resolver.GetEmbedded(key)
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found: "+key)
		return
	}
	if err := resolver.SetOverride(key, req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("prompt override updated", "key", key, "cleared", req.Text == "")
	}

	resp, err := promptResponse(resolver, *embedded)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *SetPromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	var clear bool
	cmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Override a prompt from a file, or --clear to restore the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req SetPromptRequest
			if !clear {
				if file == "" {
					return fmt.Errorf("--file or --clear is required")
				}
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				req.Text = string(data)
			}
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Put(cmd.Context(), "/api/prompts/"+url.PathEscape(args[0]), req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Template file with the override text")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the override")
	return cmd
}
