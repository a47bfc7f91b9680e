package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/config"
	"github.com/navigationiq/navigator/internal/svcctx"
)

// SettingsResponse contains all config entries sorted by key.
type SettingsResponse struct {
	Settings []config.Entry `json:"settings"`
}

// SettingResponse contains a single config entry.
type SettingResponse struct {
	Entry *config.Entry `json:"entry,omitempty"`
	Error string        `json:"error,omitempty"`
}

// UpdateSettingRequest is the request body for updating a setting.
type UpdateSettingRequest struct {
	Value any `json:"value"`
}

func configManagerFrom(w http.ResponseWriter, r *http.Request) *config.Manager {
	cm := svcctx.ConfigManagerFrom(r.Context())
	if cm == nil {
		writeError(w, http.StatusInternalServerError, "config manager not available")
	}
	return cm
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *ListSettingsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List all settings
//	@Description	Get all configuration settings with secrets masked
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	cm := configManagerFrom(w, r)
	if cm == nil {
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{Settings: config.Entries(cm.Get())})
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingsResponse
			if err := client.Get(cmd.Context(), "/api/settings", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatText {
				for _, e := range resp.Settings {
					fmt.Printf("%-40s %v\n", e.Key, e.Value)
				}
				return nil
			}
			return api.Output(resp)
		},
	}
}

// GetSettingEndpoint handles GET /api/settings/{key}.
type GetSettingEndpoint struct{}

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{key}", e.handler
}

func (e *GetSettingEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Get a setting
//	@Description	Get a specific configuration setting by key
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key (e.g., defaults.llm_provider)"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/settings/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := config.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cm := configManagerFrom(w, r)
	if cm == nil {
		return
	}

	entry, ok := cm.Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, "setting not found: "+key)
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{Entry: &entry})
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingResponse
			if err := client.Get(cmd.Context(), "/api/settings/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}

// UpdateSettingEndpoint handles PUT /api/settings/{key}.
type UpdateSettingEndpoint struct{}

func (e *UpdateSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/settings/{key}", e.handler
}

func (e *UpdateSettingEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Update a setting
//	@Description	Apply a runtime override to a setting. Overrides are not written to the config file.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string					true	"Setting key"
//	@Param			body	body		UpdateSettingRequest	true	"New value"
//	@Success		200		{object}	SettingResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/settings/{key} [put]
func (e *UpdateSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req UpdateSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	cm := configManagerFrom(w, r)
	if cm == nil {
		return
	}

	if err := cm.Set(key, req.Value); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidKey) || errors.Is(err, config.ErrUnknownKey) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	entry, ok := cm.Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, "setting not found: "+key)
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{Entry: &entry})
}

func (e *UpdateSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Override a setting for the running server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingResponse
			if err := client.Put(cmd.Context(), "/api/settings/"+args[0], UpdateSettingRequest{Value: parseValue(args[1])}, &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}

// parseValue turns CLI text into a bool or number when it looks like one.
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
