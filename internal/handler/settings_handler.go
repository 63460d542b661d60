package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pcp-service/internal/settings"
	"pcp-service/pkg/logger"
)

// SettingsHandler backs the dashboard's configuration screen
type SettingsHandler struct {
	Settings *settings.Store
}

// NewSettingsHandler builds a settings handler over the config store
func NewSettingsHandler(st *settings.Store) *SettingsHandler {
	return &SettingsHandler{Settings: st}
}

// settingsRequest carries one save from the configuration screen. Empty
// fields are ignored so each card on the screen can be saved independently.
type settingsRequest struct {
	Backend       string `json:"db_type" validate:"omitempty,oneof=google_sheets supabase"`
	SheetsAPIKey  string `json:"sheets_api_key"`
	SpreadsheetID string `json:"sheets_spreadsheet_id"`
	SupabaseURL   string `json:"supabase_url" validate:"omitempty,url"`
	SupabaseKey   string `json:"supabase_anon_key"`
	DriveAPIKey   string `json:"drive_api_key"`
	DriveFolderID string `json:"drive_folder_id"`
	OAuthToken    string `json:"google_oauth_token"`
}

// Get returns the saved settings with secrets masked
func (h *SettingsHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		settings.KeyBackend:       h.Settings.Backend(),
		settings.KeySheetsAPIKey:  mask(h.Settings.Get(settings.KeySheetsAPIKey)),
		settings.KeySpreadsheetID: h.Settings.Get(settings.KeySpreadsheetID),
		settings.KeySupabaseURL:   h.Settings.Get(settings.KeySupabaseURL),
		settings.KeySupabaseKey:   mask(h.Settings.Get(settings.KeySupabaseKey)),
		settings.KeyDriveAPIKey:   mask(h.Settings.Get(settings.KeyDriveAPIKey)),
		settings.KeyDriveFolderID: h.Settings.Get(settings.KeyDriveFolderID),
		settings.KeyOAuthToken:    mask(h.Settings.OAuthToken()),
	})
}

// Update persists the non-empty fields of the request
func (h *SettingsHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse settings update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates := map[string]string{
		settings.KeyBackend:       req.Backend,
		settings.KeySheetsAPIKey:  req.SheetsAPIKey,
		settings.KeySpreadsheetID: req.SpreadsheetID,
		settings.KeySupabaseURL:   req.SupabaseURL,
		settings.KeySupabaseKey:   req.SupabaseKey,
		settings.KeyDriveAPIKey:   req.DriveAPIKey,
		settings.KeyDriveFolderID: req.DriveFolderID,
		settings.KeyOAuthToken:    req.OAuthToken,
	}

	saved := 0
	for key, value := range updates {
		if value == "" {
			continue
		}
		if err := h.Settings.Set(key, value); err != nil {
			log.Error("Failed to persist setting", zap.String("key", key), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save settings"})
		}
		saved++
	}

	log.Info("Settings saved", zap.Int("fields", saved))
	return c.JSON(http.StatusOK, echo.Map{"message": "settings saved", "fields": saved})
}

// Status reports which backends have usable credentials
func (h *SettingsHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"backend":  h.Settings.Backend(),
		"sheets":   h.Settings.IsConfigured(settings.KindSheets),
		"supabase": h.Settings.IsConfigured(settings.KindSupabase),
		"drive":    h.Settings.IsConfigured(settings.KindDrive),
	})
}

// mask hides a secret while showing whether it is set
func mask(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}
