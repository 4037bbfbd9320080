package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
	"nexusboard/infrastructure/llm"
	"nexusboard/pkg/common"
	"nexusboard/pkg/utils"
)

// Generator is the LLM surface the AI endpoints call.
type Generator interface {
	Summarize(ctx context.Context, label, description string) (string, error)
	DevelopNotes(ctx context.Context, label, description, summary string) (string, error)
	StudyGuide(ctx context.Context, materials []string) (llm.Board, error)
	GenerateTest(ctx context.Context, materials []string) (string, string, error)
	Arrange(ctx context.Context, board llm.Board) (map[string]valueobjects.Position, error)
	ExecuteTool(ctx context.Context, tool string, params map[string]interface{}) (string, error)
}

// AIHandler serves the generation endpoints.
type AIHandler struct {
	generator Generator
	logger    *zap.Logger
}

func NewAIHandler(generator Generator, logger *zap.Logger) *AIHandler {
	return &AIHandler{generator: generator, logger: logger}
}

type autofillRequest struct {
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
}

func (h *AIHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	var req autofillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.generator.Summarize(r.Context(), req.Label, req.Description)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"summary": summary})
}

type notesRequest struct {
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
	AISummary   string `json:"aiSummary"`
}

func (h *AIHandler) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	notes, err := h.generator.DevelopNotes(r.Context(), req.Label, req.Description, req.AISummary)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"notes": notes})
}

type materialFile struct {
	Name          string `json:"name"`
	ExtractedText string `json:"extractedText"`
}

type materialsRequest struct {
	Files []materialFile `json:"files" validate:"required,min=1"`
}

func (r materialsRequest) texts() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.ExtractedText
	}
	return out
}

func (h *AIHandler) StudyGuide(w http.ResponseWriter, r *http.Request) {
	var req materialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.generator.StudyGuide(r.Context(), req.texts())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("study guide generated", zap.Int("nodes", len(board.Nodes)))
	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"nodes": board.Nodes,
		"edges": board.Edges,
	})
}

func (h *AIHandler) GenerateTest(w http.ResponseWriter, r *http.Request) {
	var req materialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	title, content, err := h.generator.GenerateTest(r.Context(), req.texts())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{
		"title":   title,
		"content": content,
	})
}

type arrangeRequest struct {
	Nodes []entities.Node `json:"nodes" validate:"required,min=1"`
	Edges []entities.Edge `json:"edges"`
}

func (h *AIHandler) Arrange(w http.ResponseWriter, r *http.Request) {
	var req arrangeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	positions, err := h.generator.Arrange(r.Context(), llm.Board{Nodes: req.Nodes, Edges: req.Edges})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"positions": positions})
}

type toolRequest struct {
	Tool   string                 `json:"tool" validate:"required"`
	Params map[string]interface{} `json:"params"`
}

func (h *AIHandler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	var req toolRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	output, err := h.generator.ExecuteTool(r.Context(), req.Tool, req.Params)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, common.Payload{"output": output})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := utils.ValidateStruct(out); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
