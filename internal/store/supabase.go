package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"pcp-service/internal/model"
	"pcp-service/internal/settings"
)

// SupabaseDriver stores entities in a hosted Postgres reached over its REST
// surface. Rows carry server-managed id, created_at and updated_at columns.
type SupabaseDriver struct {
	HTTPClient *http.Client
	Settings   *settings.Store
	Logger     *zap.Logger
}

// NewSupabaseDriver creates a driver reading the project URL and anon key
// from st on every call, so settings changes apply without a restart.
func NewSupabaseDriver(st *settings.Store, logger *zap.Logger) *SupabaseDriver {
	return &SupabaseDriver{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Settings:   st,
		Logger:     logger,
	}
}

func (d *SupabaseDriver) endpoint(entity model.Entity) (base string, key string, err error) {
	projectURL := d.Settings.Get(settings.KeySupabaseURL)
	key = d.Settings.Get(settings.KeySupabaseKey)
	if projectURL == "" || key == "" {
		return "", "", &NotConfiguredError{Service: "Supabase"}
	}
	return strings.TrimRight(projectURL, "/") + "/rest/v1/" + entity.Table, key, nil
}

func (d *SupabaseDriver) do(ctx context.Context, method, rawURL, key string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Ask PostgREST to echo affected rows so zero-row writes are visible
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		d.Logger.Error("Supabase request failed",
			zap.String("method", method),
			zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.Logger.Error("Supabase request returned error status",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode))
		return nil, resp.StatusCode, &RemoteError{Status: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, resp.StatusCode, nil
}

// List returns every row of the entity's table, oldest first
func (d *SupabaseDriver) List(ctx context.Context, entity model.Entity) ([]Record, error) {
	base, key, err := d.endpoint(entity)
	if err != nil {
		return nil, err
	}

	body, _, err := d.do(ctx, http.MethodGet, base+"?select=*&order=created_at.asc", key, nil)
	if err != nil {
		return nil, err
	}

	records := []Record{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}

	d.Logger.Info("Table rows fetched",
		zap.String("table", entity.Table),
		zap.Int("count", len(records)))
	return records, nil
}

// Insert sends a structured insert of named fields; the service generates
// the identifier and timestamps and echoes the stored row back.
func (d *SupabaseDriver) Insert(ctx context.Context, entity model.Entity, record Record) (Record, error) {
	base, key, err := d.endpoint(entity)
	if err != nil {
		return nil, err
	}

	body, status, err := d.do(ctx, http.MethodPost, base, key, record)
	if err != nil {
		return nil, err
	}

	rows := []Record{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &RemoteError{Status: status, Message: "insert returned no rows"}
	}

	d.Logger.Info("Row inserted", zap.String("table", entity.Table))
	return rows[0], nil
}

// Update patches exactly one row by identifier equality
func (d *SupabaseDriver) Update(ctx context.Context, entity model.Entity, id string, patch Record) (Record, error) {
	base, key, err := d.endpoint(entity)
	if err != nil {
		return nil, err
	}

	target := fmt.Sprintf("%s?id=eq.%s", base, url.QueryEscape(id))
	body, status, err := d.do(ctx, http.MethodPatch, target, key, patch)
	if err != nil {
		return nil, err
	}

	rows := []Record{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		d.Logger.Warn("Update matched no rows",
			zap.String("table", entity.Table),
			zap.String("id", id))
		return nil, &RemoteError{Status: status, Message: "update matched no rows"}
	}

	d.Logger.Info("Row updated", zap.String("table", entity.Table), zap.String("id", id))
	return rows[0], nil
}

// Delete removes exactly one row by identifier equality
func (d *SupabaseDriver) Delete(ctx context.Context, entity model.Entity, id string) error {
	base, key, err := d.endpoint(entity)
	if err != nil {
		return err
	}

	target := fmt.Sprintf("%s?id=eq.%s", base, url.QueryEscape(id))
	body, status, err := d.do(ctx, http.MethodDelete, target, key, nil)
	if err != nil {
		return err
	}

	rows := []Record{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		d.Logger.Warn("Delete matched no rows",
			zap.String("table", entity.Table),
			zap.String("id", id))
		return &RemoteError{Status: status, Message: "delete matched no rows"}
	}

	d.Logger.Info("Row deleted", zap.String("table", entity.Table), zap.String("id", id))
	return nil
}
