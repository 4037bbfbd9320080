package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nexusboard/infrastructure/persistence/sqlite"
	"nexusboard/pkg/auth"
	"nexusboard/pkg/common"
)

// StateHandler persists full project snapshots, latest-wins per project. The
// snapshot body is stored verbatim so the client round-trips exactly what it
// pushed.
type StateHandler struct {
	states *sqlite.StateRepository
	logger *zap.Logger
}

func NewStateHandler(states *sqlite.StateRepository, logger *zap.Logger) *StateHandler {
	return &StateHandler{states: states, logger: logger}
}

func (h *StateHandler) Save(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	var head struct {
		ProjectID string `json:"projectId"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.ProjectID == "" {
		common.RespondError(w, http.StatusBadRequest, "snapshot must carry a projectId")
		return
	}

	userID := ""
	if user, err := auth.GetUserFromContext(r.Context()); err == nil {
		userID = user.UserID
	}

	state := &sqlite.ProjectState{
		ProjectID: head.ProjectID,
		UserID:    userID,
		Payload:   raw,
		UpdatedAt: time.Now(),
	}
	if err := h.states.Save(state); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("project state saved",
		zap.String("project_id", head.ProjectID),
		zap.Int("bytes", len(raw)),
	)
	common.RespondSuccess(w, http.StatusOK, common.Payload{"message": "project state saved"})
}

func (h *StateHandler) Load(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		common.RespondError(w, http.StatusBadRequest, "project id is required")
		return
	}

	state, err := h.states.Load(projectID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"state":     json.RawMessage(state.Payload),
		"updatedAt": state.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
