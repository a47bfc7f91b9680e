package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/workspace"
)

// AnalyzeRiskRequest is the request body for a risk assessment.
type AnalyzeRiskRequest struct {
	Issue string `json:"issue"`
	// Update keeps the current panels expanded while the new result loads.
	Update bool `json:"update,omitempty"`
	Wait   bool `json:"wait,omitempty"`
}

// RiskDemoRequest selects a pre-built scenario.
type RiskDemoRequest struct {
	Scenario string `json:"scenario"`
}

// ReportsResponse lists archived risk reports and demo scenarios.
type ReportsResponse struct {
	Reports   []workspace.Report `json:"reports"`
	Scenarios []string           `json:"scenarios"`
}

// AnalyzeRiskEndpoint handles POST /api/flows/risk/analyze.
type AnalyzeRiskEndpoint struct{}

func (e *AnalyzeRiskEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/risk/analyze", e.handler
}

func (e *AnalyzeRiskEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Run a risk assessment
//	@Description	Generates the six-step assessment for an issue
//	@Tags			risk
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeRiskRequest	true	"Issue"
//	@Success		200		{object}	FlowResponse
//	@Success		202		{object}	FlowResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/flows/risk/analyze [post]
func (e *AnalyzeRiskEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req AnalyzeRiskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := ws.Analyze(r.Context(), req.Issue, req.Update)
	respondRun(w, r, ws, workspace.FlowRisk, req.Wait, run, err)
}

func (e *AnalyzeRiskEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait, update bool
	cmd := &cobra.Command{
		Use:   "analyze <issue>",
		Short: "Run a risk assessment for an issue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := AnalyzeRiskRequest{Issue: strings.Join(args, " "), Update: update, Wait: wait}
			var resp FlowResponse
			if err := client.Post(cmd.Context(), "/api/flows/risk/analyze", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	addWaitFlag(cmd, &wait)
	cmd.Flags().BoolVar(&update, "update", false, "Keep expanded panels from the current result")
	return cmd
}

// RiskDemoEndpoint handles POST /api/flows/risk/demo.
type RiskDemoEndpoint struct{}

func (e *RiskDemoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/risk/demo", e.handler
}

func (e *RiskDemoEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Show a demo scenario
//	@Description	Shows a pre-built assessment without calling a provider
//	@Tags			risk
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RiskDemoRequest	false	"Scenario (default parentComplaint)"
//	@Success		200		{object}	FlowResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/flows/risk/demo [post]
func (e *RiskDemoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	var req RiskDemoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Scenario == "" {
		req.Scenario = workspace.ScenarioParentComplaint
	}
	if err := ws.Demo(req.Scenario); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	resp, err := flowResponse(ws, workspace.FlowRisk)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *RiskDemoEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [scenario]",
		Short: "Show a pre-built scenario (parentComplaint, facultyLeave)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var req RiskDemoRequest
			if len(args) == 1 {
				req.Scenario = args[0]
			}
			var resp FlowResponse
			if err := client.Post(cmd.Context(), "/api/flows/risk/demo", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListReportsEndpoint handles GET /api/flows/risk/reports.
type ListReportsEndpoint struct{}

func (e *ListReportsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/flows/risk/reports", e.handler
}

func (e *ListReportsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List archived risk reports
//	@Tags		risk
//	@Produce	json
//	@Success	200	{object}	ReportsResponse
//	@Router		/api/flows/risk/reports [get]
func (e *ListReportsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, ReportsResponse{Reports: ws.Reports(), Scenarios: ws.Scenarios()})
}

func (e *ListReportsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List archived risk reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ReportsResponse
			if err := client.Get(cmd.Context(), "/api/flows/risk/reports", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// OpenReportEndpoint handles POST /api/flows/risk/reports/{id}/open.
type OpenReportEndpoint struct{}

func (e *OpenReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/flows/risk/reports/{id}/open", e.handler
}

func (e *OpenReportEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Open an archived report
//	@Tags		risk
//	@Produce	json
//	@Param		id	path		int	true	"Report ID"
//	@Success	200	{object}	FlowResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/flows/risk/reports/{id}/open [post]
func (e *OpenReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(w, r)
	if ws == nil {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "report id must be an integer")
		return
	}
	if err := ws.OpenReport(id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	resp, err := flowResponse(ws, workspace.FlowRisk)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *OpenReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "open <report-id>",
		Short: "Open an archived risk report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FlowResponse
			if err := client.Post(cmd.Context(), "/api/flows/risk/reports/"+args[0]+"/open", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
