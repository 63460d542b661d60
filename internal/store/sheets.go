package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pcp-service/internal/model"
	"pcp-service/internal/settings"
)

const sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsDriver stores entities in a Google spreadsheet, one tab per entity.
// Row 0 of each tab is the header row; data rows are addressed positionally.
type SheetsDriver struct {
	BaseURL    string
	HTTPClient *http.Client
	Settings   *settings.Store
	Logger     *zap.Logger
}

// valueRange mirrors the spreadsheets.values wire format
type valueRange struct {
	Values [][]string `json:"values"`
}

// NewSheetsDriver creates a driver reading credentials from st on every call
func NewSheetsDriver(st *settings.Store, logger *zap.Logger) *SheetsDriver {
	return &SheetsDriver{
		BaseURL:    sheetsBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Settings:   st,
		Logger:     logger,
	}
}

// credentials resolves the auth material for one call. A previously obtained
// OAuth token always wins over the raw API key so an authenticated user is
// never downgraded to key-based access.
func (d *SheetsDriver) credentials() (token, apiKey, spreadsheetID string, err error) {
	token = d.Settings.OAuthToken()
	apiKey = d.Settings.Get(settings.KeySheetsAPIKey)
	spreadsheetID = d.Settings.Get(settings.KeySpreadsheetID)

	if token == "" && (apiKey == "" || spreadsheetID == "") {
		return "", "", "", &NotConfiguredError{Service: "Google Sheets"}
	}
	return token, apiKey, spreadsheetID, nil
}

// List fetches every row of the entity's tab and zips the header row into
// each data row. Missing trailing cells default to the empty string.
func (d *SheetsDriver) List(ctx context.Context, entity model.Entity) ([]Record, error) {
	if entity.Sheet == "" {
		return nil, ErrNotSupported
	}

	token, apiKey, spreadsheetID, err := d.credentials()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s", d.BaseURL, spreadsheetID, url.PathEscape(entity.Sheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	applyAuth(req, token, apiKey)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		d.Logger.Error("Sheet fetch failed", zap.String("sheet", entity.Sheet), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		d.Logger.Error("Sheet fetch returned error status",
			zap.String("sheet", entity.Sheet),
			zap.Int("status", resp.StatusCode))
		return nil, &RemoteError{Status: resp.StatusCode, Message: string(body)}
	}

	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, err
	}

	records := []Record{}
	if len(vr.Values) < 2 {
		return records, nil
	}

	headers := vr.Values[0]
	for _, row := range vr.Values[1:] {
		record := Record{}
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	d.Logger.Info("Sheet rows fetched",
		zap.String("sheet", entity.Sheet),
		zap.Int("count", len(records)))
	return records, nil
}

// Insert appends one row of positional values in the entity's column order.
// A record without an ID gets a client-generated one; the sheets backend has
// no server-side identifiers.
func (d *SheetsDriver) Insert(ctx context.Context, entity model.Entity, record Record) (Record, error) {
	if entity.Sheet == "" {
		return nil, ErrNotSupported
	}

	token, apiKey, spreadsheetID, err := d.credentials()
	if err != nil {
		return nil, err
	}

	if len(entity.Columns) > 0 && entity.Columns[0] == "ID" {
		if cellValue(record["ID"]) == "" {
			record["ID"] = uuid.New().String()
		}
	}

	row := make([]string, len(entity.Columns))
	for i, column := range entity.Columns {
		row[i] = cellValue(record[column])
	}

	payload, err := json.Marshal(valueRange{Values: [][]string{row}})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED",
		d.BaseURL, spreadsheetID, url.PathEscape(entity.Sheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	applyAuth(req, token, apiKey)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		d.Logger.Error("Sheet append failed", zap.String("sheet", entity.Sheet), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.Logger.Error("Sheet append returned error status",
			zap.String("sheet", entity.Sheet),
			zap.Int("status", resp.StatusCode))
		return nil, &RemoteError{Status: resp.StatusCode, Message: string(body)}
	}

	d.Logger.Info("Sheet row appended", zap.String("sheet", entity.Sheet))
	return record, nil
}

// Update is not available against the spreadsheet backend
func (d *SheetsDriver) Update(ctx context.Context, entity model.Entity, id string, patch Record) (Record, error) {
	return nil, ErrNotSupported
}

// Delete is not available against the spreadsheet backend
func (d *SheetsDriver) Delete(ctx context.Context, entity model.Entity, id string) error {
	return ErrNotSupported
}

// applyAuth attaches the bearer token when present, else the API key query
// parameter.
func applyAuth(req *http.Request, token, apiKey string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		return
	}
	query := req.URL.Query()
	query.Set("key", apiKey)
	req.URL.RawQuery = query.Encode()
}

// cellValue renders a record value as a spreadsheet cell
func cellValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		// JSON numbers decode as float64; keep integers unpadded
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
