// Package llm backs the AI endpoints with an OpenAI-compatible chat
// completion API. The base URL and model are configurable; the default
// deployment targets a hosted gemma2 model.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
	"nexusboard/infrastructure/config"
	apperrors "nexusboard/pkg/errors"
)

// Board is a model-generated node/edge set.
type Board struct {
	Nodes []entities.Node `json:"nodes"`
	Edges []entities.Edge `json:"edges"`
}

// Service issues chat completions. Safe for concurrent use.
type Service struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewService builds the service from configuration.
func NewService(cfg *config.Config, logger *zap.Logger) *Service {
	clientCfg := openai.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		clientCfg.BaseURL = cfg.AIBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.AIModel,
		logger: logger,
	}
}

func (s *Service) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Warn("chat completion failed", zap.String("model", s.model), zap.Error(err))
		return "", apperrors.NewExternalError("ai", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewExternalError("ai", fmt.Errorf("empty completion"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Summarize produces a short summary of a node's content.
func (s *Service) Summarize(ctx context.Context, label, description string) (string, error) {
	return s.complete(ctx,
		"You are a study assistant. Reply with a concise 2-3 sentence summary of the concept. No preamble.",
		fmt.Sprintf("Concept: %s\n\nNotes: %s", label, description))
}

// DevelopNotes expands a node's notes into fuller study material.
func (s *Service) DevelopNotes(ctx context.Context, label, description, summary string) (string, error) {
	return s.complete(ctx,
		"You are a study assistant. Expand the given notes into clear, structured study notes. Reply with the notes only.",
		fmt.Sprintf("Concept: %s\n\nExisting notes: %s\n\nSummary: %s", label, description, summary))
}

// StudyGuide generates a full board from study materials. The model is asked
// for strict JSON; anything unparseable is an external error.
func (s *Service) StudyGuide(ctx context.Context, materials []string) (Board, error) {
	out, err := s.complete(ctx,
		`You are a study assistant. Build a concept map from the materials. Reply with strict JSON only, shaped as {"nodes":[{"id":"...","type":"default","data":{"label":"...","description":"..."},"position":{"x":0,"y":0}}],"edges":[{"id":"...","source":"...","target":"..."}]}.`,
		strings.Join(materials, "\n\n---\n\n"))
	if err != nil {
		return Board{}, err
	}

	var board Board
	if err := json.Unmarshal([]byte(stripFences(out)), &board); err != nil {
		return Board{}, apperrors.NewExternalError("ai", fmt.Errorf("unparseable study guide: %w", err))
	}
	board.Nodes = entities.NormalizeNodes(board.Nodes)
	return board, nil
}

// GenerateTest produces a practice test from study materials.
func (s *Service) GenerateTest(ctx context.Context, materials []string) (string, string, error) {
	content, err := s.complete(ctx,
		"You are a study assistant. Write a short practice test (5-10 questions) from the materials. Reply with the test only.",
		strings.Join(materials, "\n\n---\n\n"))
	if err != nil {
		return "", "", err
	}
	return "Generated Test", content, nil
}

// Arrange asks the model for a readable layout of the current board.
func (s *Service) Arrange(ctx context.Context, board Board) (map[string]valueobjects.Position, error) {
	encoded, err := json.Marshal(board)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("encode board: %v", err))
	}

	out, err := s.complete(ctx,
		`You arrange concept maps. Given nodes and edges, reply with strict JSON only: {"positions":{"<nodeId>":{"x":0,"y":0}}}. Spread nodes out, connected nodes near each other.`,
		string(encoded))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Positions map[string]valueobjects.Position `json:"positions"`
	}
	if err := json.Unmarshal([]byte(stripFences(out)), &parsed); err != nil {
		return nil, apperrors.NewExternalError("ai", fmt.Errorf("unparseable layout: %w", err))
	}
	return parsed.Positions, nil
}

// ExecuteTool runs a named free-form tool prompt.
func (s *Service) ExecuteTool(ctx context.Context, tool string, params map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Sprintf("encode params: %v", err))
	}
	return s.complete(ctx,
		"You are a study assistant executing a named tool. Perform the requested operation and reply with the result only.",
		fmt.Sprintf("Tool: %s\nParameters: %s", tool, string(encoded)))
}

// stripFences removes a surrounding markdown code fence, which chat models
// add even when asked for raw JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
