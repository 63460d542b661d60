package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pcp-service/internal/store"
	"pcp-service/pkg/logger"
)

// UploadHandler forwards product images to the configured Drive folder
type UploadHandler struct {
	Uploader *store.DriveUploader
}

// NewUploadHandler builds an upload handler over the Drive uploader
func NewUploadHandler(uploader *store.DriveUploader) *UploadHandler {
	return &UploadHandler{Uploader: uploader}
}

// Upload accepts one multipart file under the "file" field
func (h *UploadHandler) Upload(c echo.Context) error {
	log := logger.FromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Error("Upload request without file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	defer file.Close()

	fileID, err := h.Uploader.Upload(c.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		var notConfigured *store.NotConfiguredError
		if errors.As(err, &notConfigured) {
			return c.JSON(http.StatusPreconditionFailed, echo.Map{"error": err.Error()})
		}
		var remote *store.RemoteError
		if errors.As(err, &remote) {
			log.Error("Drive upload rejected", zap.Int("upstream_status", remote.Status))
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":           "upload failed",
				"upstream_status": remote.Status,
			})
		}
		log.Error("Drive upload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	log.Info("Image uploaded",
		zap.String("filename", fileHeader.Filename),
		zap.String("file_id", fileID))
	return c.JSON(http.StatusCreated, echo.Map{
		"id":  fileID,
		"url": h.Uploader.ViewURL(fileID),
	})
}
