package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexusboard/infrastructure/persistence/sqlite"
	"nexusboard/pkg/auth"
	"nexusboard/pkg/common"
	"nexusboard/pkg/utils"
)

// ProjectHandler serves project CRUD for the authenticated owner.
type ProjectHandler struct {
	projects *sqlite.ProjectRepository
	logger   *zap.Logger
}

func NewProjectHandler(projects *sqlite.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type createProjectRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Subject     string `json:"subject" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := &sqlite.Project{
		ID:          uuid.New().String(),
		UserID:      user.UserID,
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := h.projects.Create(project); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("project created", zap.String("project_id", project.ID), zap.String("user_id", user.UserID))
	common.RespondSuccess(w, http.StatusCreated, common.Payload{"project": projectPayload(project)})
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	projects, err := h.projects.ListByUser(user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]common.Payload, len(projects))
	for i := range projects {
		out[i] = projectPayload(&projects[i])
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"projects": out})
}

func projectPayload(p *sqlite.Project) common.Payload {
	return common.Payload{
		"id":          p.ID,
		"title":       p.Title,
		"subject":     p.Subject,
		"description": p.Description,
		"createdAt":   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
