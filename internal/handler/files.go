package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"docvault/internal/domain/models"
	"docvault/internal/httputil"
	"docvault/internal/service"
)

// streamChunkSize is the copy buffer used when streaming downloads.
const streamChunkSize = 64 * 1024

// maxUploadBytes bounds the multipart body. The per-role limits are tighter
// and enforced by the validator; this only stops abusive bodies before they
// are buffered.
const maxUploadBytes = 101 * models.BytesInMiB

// FileHandler handles file HTTP requests.
type FileHandler struct {
	fileService *service.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler.
func NewFileHandler(fileService *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// Upload stores a file. The multipart form carries a "visibility" field and
// a "file" part.
// POST /api/files
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read file part")
		return
	}

	req := &service.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Visibility:  models.Visibility(r.FormValue("visibility")),
		Data:        data,
	}

	rec, err := h.fileService.Upload(r.Context(), actor, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rec)
}

// Get returns a file record.
// GET /api/files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	rec, err := h.fileService.Get(r.Context(), actor, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rec)
}

// List returns the files visible to the actor. An optional department query
// parameter narrows the listing for MANAGER and ADMIN.
// GET /api/files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	var departmentFilter *int64
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid department_id")
			return
		}
		departmentFilter = &id
	}

	records, err := h.fileService.List(r.Context(), actor, departmentFilter)
	if err != nil {
		handleError(w, err)
		return
	}
	if records == nil {
		records = []models.FileRecord{}
	}

	httputil.RespondJSON(w, http.StatusOK, records)
}

// Download streams a file's bytes. The storage handle is released on every
// exit path, including client disconnects mid-stream.
// GET /api/files/{id}/download
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	download, err := h.fileService.OpenDownload(r.Context(), actor, id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer download.Body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", download.Record.Filename))

	buf := make([]byte, streamChunkSize)
	if _, err := io.CopyBuffer(w, download.Body, buf); err != nil {
		// Headers are already out; nothing to send but worth recording.
		h.logger.Debug("download stream aborted",
			"file_id", id,
			"error", err,
		)
	}
}

// Delete removes a file. A missing id still answers 204.
// DELETE /api/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	if err := h.fileService.Delete(r.Context(), actor, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health answers liveness probes.
// GET /health
func (h *FileHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
