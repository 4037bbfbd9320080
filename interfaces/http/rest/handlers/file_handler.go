package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexusboard/infrastructure/persistence/sqlite"
	"nexusboard/pkg/auth"
	"nexusboard/pkg/common"
)

// FileHandler serves uploaded-file CRUD and the study-material import
// endpoint with its text extraction heuristics.
type FileHandler struct {
	files          *sqlite.FileRepository
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewFileHandler(files *sqlite.FileRepository, maxUploadBytes int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{files: files, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Upload attaches a file to a project and stores its content.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	content, name, err := h.readFormFile(r)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file := &sqlite.UploadedFile{
		ID:        uuid.New().String(),
		ProjectID: r.FormValue("project_id"),
		UserID:    user.UserID,
		Name:      name,
		FileType:  r.FormValue("file_type"),
		Size:      int64(len(content)),
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := h.files.SaveUploaded(file); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("file uploaded", zap.String("file_id", file.ID), zap.Int64("size", file.Size))
	common.RespondSuccess(w, http.StatusCreated, common.Payload{
		"file": common.Payload{
			"id":       file.ID,
			"name":     file.Name,
			"fileType": file.FileType,
			"size":     file.Size,
		},
	})
}

// List returns uploaded-file metadata, optionally scoped to a project.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.ListUploaded(r.URL.Query().Get("project_id"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]common.Payload, len(files))
	for i, f := range files {
		out[i] = common.Payload{
			"id":       f.ID,
			"name":     f.Name,
			"fileType": f.FileType,
			"size":     f.Size,
		}
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"files": out})
}

// Delete removes an uploaded file owned by the caller.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.files.DeleteUploaded(chi.URLParam(r, "fileID"), user.UserID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"message": "file deleted"})
}

// Import ingests one study material: extracts its text, counts structured
// study items, and records the import.
func (h *FileHandler) Import(w http.ResponseWriter, r *http.Request) {
	content, name, err := h.readFormFile(r)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := ""
	if user, err := auth.GetUserFromContext(r.Context()); err == nil {
		userID = user.UserID
	}

	text := extractText(content)
	terms, definitions, examples := countStructuredItems(text)

	record := &sqlite.FileImport{
		FileID:        uuid.New().String(),
		UserID:        userID,
		Name:          name,
		FileType:      r.FormValue("file_type"),
		ExtractedText: text,
		Terms:         terms,
		Definitions:   definitions,
		Examples:      examples,
		CreatedAt:     time.Now(),
	}
	if err := h.files.SaveImport(record); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("file imported",
		zap.String("file_id", record.FileID),
		zap.Int("extracted_chars", len(text)),
		zap.Int("terms", terms),
	)
	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"database_record_id":    record.ID,
		"file_id":               record.FileID,
		"storage_type":          "database",
		"extracted_text":        text,
		"extracted_text_length": len(text),
		"structured_items": common.Payload{
			"terms":       terms,
			"definitions": definitions,
			"examples":    examples,
		},
	})
}

func (h *FileHandler) readFormFile(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, "", errBadUpload
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errBadUpload
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		return nil, "", errBadUpload
	}
	return content, header.Filename, nil
}

var errBadUpload = errString("a multipart 'file' field is required")

type errString string

func (e errString) Error() string { return string(e) }

// extractText keeps valid UTF-8 content as-is and strips everything else, a
// best-effort stand-in for format-specific extraction.
func extractText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "")
}

// countStructuredItems applies the study-structure heuristics: a "term:
// definition" line counts one term and one definition; lines opening with an
// example marker count as examples.
func countStructuredItems(text string) (terms, definitions, examples int) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "example") || strings.HasPrefix(lower, "e.g.") {
			examples++
			continue
		}
		if idx := strings.Index(line, ":"); idx > 0 && idx < len(line)-1 {
			terms++
			definitions++
		}
	}
	return terms, definitions, examples
}
