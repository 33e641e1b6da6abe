package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/publisher"
	"github.com/entrhq/adpilot/pkg/types"
)

// Coordinator is the slice of the task coordinator the handlers need.
type Coordinator interface {
	Submit(req publisher.Request) string
	Status(taskID string) (types.TaskStatus, bool)
}

// Handler serves the publication intake and progress stream endpoints.
type Handler struct {
	coordinator Coordinator
	hub         *progress.Hub
	uploadsDir  string
}

// NewHandler creates the HTTP handler set.
func NewHandler(coordinator Coordinator, hub *progress.Hub, uploadsDir string) *Handler {
	return &Handler{coordinator: coordinator, hub: hub, uploadsDir: uploadsDir}
}

type createResponse struct {
	TaskID  string `json:"taskId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreatePublication accepts a multipart request carrying a JSON listing
// payload and at least one photo, stages the photos on disk and queues the
// publication. The response is an immediate acknowledgment; the real
// outcome is only observable on the task's event stream.
func (h *Handler) CreatePublication(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing payload part"})
		return
	}

	var listing types.Listing
	if err := json.Unmarshal([]byte(payload), &listing); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid payload: %v", err)})
		return
	}
	if err := listing.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid multipart form: %v", err)})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "at least one photo is required"})
		return
	}

	photos, err := h.stagePhotos(files)
	if err != nil {
		logging.Error("failed to stage photos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to store photos"})
		return
	}

	taskID := h.coordinator.Submit(publisher.Request{Listing: listing, Photos: photos})

	c.JSON(http.StatusAccepted, createResponse{
		TaskID:  taskID,
		Status:  string(types.StatusQueued),
		Message: "the publication is being processed in the background",
	})
}

// GetStatus returns the current lifecycle status of a task.
func (h *Handler) GetStatus(c *gin.Context) {
	taskID := c.Param("id")
	status, ok := h.coordinator.Status(taskID)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"taskId": taskID, "status": status})
}

// StreamEvents streams the task's progress events over SSE. Only events
// emitted after the subscription are delivered; the stream ends after the
// terminal event or when the client disconnects.
func (h *Handler) StreamEvents(c *gin.Context) {
	taskID := c.Param("id")
	if _, ok := h.coordinator.Status(taskID); !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown task"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	sub := h.hub.Subscribe(taskID)
	defer h.hub.Unsubscribe(sub)

	for {
		select {
		case event, ok := <-sub.Send:
			if !ok {
				return
			}
			c.SSEvent(string(event.Type), event)
			c.Writer.Flush()
			if event.Terminal() {
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}

// stagePhotos persists uploaded files under the uploads directory with
// collision-free names and returns path-backed photo references in the
// order they were submitted.
func (h *Handler) stagePhotos(files []*multipart.FileHeader) ([]types.Photo, error) {
	if err := os.MkdirAll(h.uploadsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	photos := make([]types.Photo, 0, len(files))
	for _, file := range files {
		name := uuid.New().String() + "_" + filepath.Base(file.Filename)
		dst := filepath.Join(h.uploadsDir, name)

		if err := saveUploadedFile(file, dst); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", file.Filename, err)
		}

		photos = append(photos, types.Photo{
			Name:     file.Filename,
			Path:     dst,
			MimeType: file.Header.Get("Content-Type"),
		})
	}
	return photos, nil
}

func saveUploadedFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
