package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pcp-service/internal/settings"
)

const driveUploadURL = "https://www.googleapis.com/upload/drive/v3/files"

// DriveUploader stores product images in a Google Drive folder. It shares
// the sheets credential rules: a stored OAuth token is preferred, a Drive
// API key plus folder id is the fallback.
type DriveUploader struct {
	UploadURL  string
	HTTPClient *http.Client
	Settings   *settings.Store
	Logger     *zap.Logger
}

// NewDriveUploader creates an uploader reading credentials from st per call
func NewDriveUploader(st *settings.Store, logger *zap.Logger) *DriveUploader {
	return &DriveUploader{
		UploadURL:  driveUploadURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Settings:   st,
		Logger:     logger,
	}
}

// Upload sends one file to the configured folder and returns its file id
func (u *DriveUploader) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	token := u.Settings.OAuthToken()
	apiKey := u.Settings.Get(settings.KeyDriveAPIKey)
	folderID := u.Settings.Get(settings.KeyDriveFolderID)

	if token == "" && (apiKey == "" || folderID == "") {
		return "", &NotConfiguredError{Service: "Google Drive"}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", err
	}
	if err := writer.WriteField("parents", folderID); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := u.UploadURL + "?uploadType=multipart"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	applyAuth(req, token, apiKey)

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		u.Logger.Error("Drive upload failed", zap.String("filename", filename), zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.Logger.Error("Drive upload returned error status",
			zap.String("filename", filename),
			zap.Int("status", resp.StatusCode))
		return "", &RemoteError{Status: resp.StatusCode, Message: string(respBody)}
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", err
	}

	u.Logger.Info("Image uploaded to Drive",
		zap.String("filename", filename),
		zap.String("file_id", uploaded.ID))
	return uploaded.ID, nil
}

// ViewURL returns the public view URL for an uploaded file id
func (u *DriveUploader) ViewURL(fileID string) string {
	base := "https://drive.google.com/uc?export=view&id=" + fileID
	if u.Settings.OAuthToken() == "" {
		if apiKey := u.Settings.Get(settings.KeyDriveAPIKey); apiKey != "" {
			return base + "&key=" + apiKey
		}
	}
	return base
}
