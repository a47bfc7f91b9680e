package endpoints

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/prompts/solutions"
	"github.com/navigationiq/navigator/internal/workspace"
)

// AskRequest is the request body for the question flows.
type AskRequest struct {
	Question string `json:"question"`
	Wait     bool   `json:"wait,omitempty"`
}

// QuestionsResponse lists archived head-of-school questions.
type QuestionsResponse struct {
	Categories []string             `json:"categories"`
	Questions  []workspace.Question `json:"questions"`
}

// AnalyzeSolutionRequest is the request body for a solution module run.
type AnalyzeSolutionRequest struct {
	Module           string `json:"module"`
	OrganizationType string `json:"organization_type,omitempty"`
	Query            string `json:"query"`
	Wait             bool   `json:"wait,omitempty"`
}

// ModulesResponse lists the solution modules.
type ModulesResponse struct {
	Modules []solutions.Module `json:"modules"`
}

// AskEndpoint handles the question flows: POST /api/flows/legal/ask and
// POST /api/flows/hosqa/ask.
type AskEndpoint struct {
	Flow  string
	Path  string
	Short string
	Ask   func(ws *workspace.Workspace, ctx context.Context, question string) (*workspace.Run, error)
}

// NewAskLegalEndpoint returns the legal question endpoint.
func NewAskLegalEndpoint() *AskEndpoint {
	return &AskEndpoint{
		Flow:  workspace.FlowLegal,
		Path:  "/api/flows/legal/ask",
		Short: "Ask a legal question",
		Ask:   (*workspace.Workspace).AskLegal,
	}
}

// NewAskHeadOfSchoolEndpoint returns the head-of-school question endpoint.
func NewAskHeadOfSchoolEndpoint() *AskEndpoint {
	return &AskEndpoint{
		Flow:  workspace.FlowHOSQA,
		Path:  "/api/flows/hosqa/ask",
		Short: "Ask the head-of-school assistant",
		Ask:   (*workspace.Workspace).AskHeadOfSchool,
	}
}

func (e *AskEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", e.Path, e.handler
}

func (e *AskEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Ask a question
//	@Description	legal: guidance, key references and a risk analysis. hosqa: headed sections, archived on success
//	@Tags			legal,hosqa
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AskRequest	true	"Question"
//	@Success		200		{object}	FlowResponse
//	@Success		202		{object}	FlowResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/flows/legal/ask [post]
//	@Router			/api/flows/hosqa/ask [post]
func (e *AskEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req AskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := e.Ask(ws, r.Context(), req.Question)
	respondRun(w, r, ws, e.Flow, req.Wait, run, err)
}

func (e *AskEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: e.Short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := AskRequest{Question: strings.Join(args, " "), Wait: wait}
			var resp FlowResponse
			if err := client.Post(cmd.Context(), e.Path, req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	addWaitFlag(cmd, &wait)
	return cmd
}

// QuestionsEndpoint handles GET /api/flows/hosqa/questions.
type QuestionsEndpoint struct{}

func (e *QuestionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/hosqa/questions", e.handler
}

func (e *QuestionsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List archived questions
//	@Tags		hosqa
//	@Produce	json
//	@Param		category	query		string	false	"Filter by category"
//	@Success	200			{object}	QuestionsResponse
//	@Router		/api/flows/hosqa/questions [get]
func (e *QuestionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, QuestionsResponse{
		Categories: ws.QuestionCategories(),
		Questions:  ws.Questions(r.URL.Query().Get("category")),
	})
}

func (e *QuestionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List archived questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/flows/hosqa/questions"
			if category != "" {
				path += "?category=" + url.QueryEscape(category)
			}
			var resp QuestionsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	return cmd
}

// AnalyzeSolutionEndpoint handles POST /api/flows/solutions/analyze.
type AnalyzeSolutionEndpoint struct{}

func (e *AnalyzeSolutionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/solutions/analyze", e.handler
}

func (e *AnalyzeSolutionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Run a solution module
//	@Description	Unknown modules use the general analysis instruction
//	@Tags			solutions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeSolutionRequest	true	"Module and query"
//	@Success		200		{object}	FlowResponse
//	@Success		202		{object}	FlowResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/flows/solutions/analyze [post]
func (e *AnalyzeSolutionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req AnalyzeSolutionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := ws.AnalyzeSolution(r.Context(), req.Module, req.OrganizationType, req.Query)
	respondRun(w, r, ws, workspace.FlowSolutions, req.Wait, run, err)
}

func (e *AnalyzeSolutionEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait bool
	var orgType string
	cmd := &cobra.Command{
		Use:   "analyze <module> <query>",
		Short: "Run a solution module",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := AnalyzeSolutionRequest{
				Module:           args[0],
				OrganizationType: orgType,
				Query:            strings.Join(args[1:], " "),
				Wait:             wait,
			}
			var resp FlowResponse
			if err := client.Post(cmd.Context(), "/api/flows/solutions/analyze", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	addWaitFlag(cmd, &wait)
	cmd.Flags().StringVar(&orgType, "org", "", "Organization type (school, nonprofit)")
	return cmd
}

// ModulesEndpoint handles GET /api/flows/solutions/modules.
type ModulesEndpoint struct{}

func (e *ModulesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/solutions/modules", e.handler
}

func (e *ModulesEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List solution modules
//	@Tags		solutions
//	@Produce	json
//	@Success	200	{object}	ModulesResponse
//	@Router		/api/flows/solutions/modules [get]
func (e *ModulesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, ModulesResponse{Modules: ws.Modules()})
}

func (e *ModulesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List solution modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModulesResponse
			if err := client.Get(cmd.Context(), "/api/flows/solutions/modules", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
