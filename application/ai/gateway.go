// Package ai wraps the remote AI operations. Each wrapper validates its
// preconditions before any request, lands results through the engine, and
// emits a completed or failed event. No retries.
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nexusboard/application/board"
	"nexusboard/application/ports"
	"nexusboard/domain/core/entities"
	"nexusboard/domain/events"
	apperrors "nexusboard/pkg/errors"
)

// AutofillFailureMarker is written into the selected node's aiSummary when an
// autofill request fails, so the failure is visible on the board itself.
const AutofillFailureMarker = "Autofill failed."

// Gateway is the stateless per-operation AI surface.
type Gateway struct {
	engine    *board.Engine
	api       ports.AIAPI
	publisher events.Publisher
	logger    *zap.Logger
}

// NewGateway wires the gateway.
func NewGateway(engine *board.Engine, api ports.AIAPI, publisher events.Publisher, logger *zap.Logger) *Gateway {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{engine: engine, api: api, publisher: publisher, logger: logger}
}

// Autofill generates a summary for the selected node and writes it through to
// shape memory. On failure the marker summary lands instead.
func (g *Gateway) Autofill(ctx context.Context) error {
	node, ok := g.engine.Selected()
	if !ok {
		return apperrors.NewValidationError("select a node to autofill")
	}

	result, err := g.api.Autofill(ctx, ports.AutofillRequest{
		Label:       node.Data.Label,
		Description: node.Data.Description,
	})
	if err != nil {
		marker := AutofillFailureMarker
		if _, markErr := g.engine.UpdateSelectedData(entities.ShapeMemoryPatch{AISummary: &marker}); markErr != nil {
			g.logger.Warn("autofill failure marker not written", zap.String("node_id", node.ID), zap.Error(markErr))
		}
		g.publisher.Publish(events.NewOperationEvent(node.ID, events.ActionAutofillFailed,
			fmt.Sprintf("Autofill failed for node %q: %s", node.Data.Label, errMessage(err))))
		return err
	}

	patch := entities.ShapeMemoryPatch{AISummary: &result.Summary}
	if result.Description != "" {
		patch.Description = &result.Description
	}
	if _, err := g.engine.UpdateSelectedData(patch); err != nil {
		return err
	}

	g.publisher.Publish(events.NewOperationEvent(node.ID, events.ActionAutofillCompleted,
		fmt.Sprintf("Autofilled info for node %q", node.Data.Label)))
	return nil
}

// DevelopNotes expands the selected node's description.
func (g *Gateway) DevelopNotes(ctx context.Context) error {
	node, ok := g.engine.Selected()
	if !ok {
		return apperrors.NewValidationError("select a node to develop notes for")
	}

	result, err := g.api.DevelopNotes(ctx, ports.NotesRequest{
		Label:       node.Data.Label,
		Description: node.Data.Description,
		AISummary:   node.Data.AISummary,
	})
	if err != nil {
		g.publisher.Publish(events.NewOperationEvent(node.ID, events.ActionNotesDevelopmentFailed,
			fmt.Sprintf("Notes development failed for node %q: %s", node.Data.Label, errMessage(err))))
		return err
	}

	if _, err := g.engine.UpdateSelectedData(entities.ShapeMemoryPatch{Description: &result.Notes}); err != nil {
		return err
	}

	g.publisher.Publish(events.NewOperationEvent(node.ID, events.ActionNotesDeveloped,
		fmt.Sprintf("Developed notes for node %q", node.Data.Label)))
	return nil
}

// StudyGuide generates a replacement board from the imported materials.
func (g *Gateway) StudyGuide(ctx context.Context) error {
	files := g.engine.ImportedFiles()
	if len(files) == 0 {
		return apperrors.NewValidationError("import study materials before generating a study guide")
	}

	projectID := g.engine.Project().ID
	result, err := g.api.StudyGuide(ctx, ports.StudyGuideRequest{Files: files})
	if err != nil {
		g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionStudyGuideFailed,
			fmt.Sprintf("Study guide generation failed: %s", errMessage(err))))
		return err
	}

	if err := g.engine.ReplaceBoard(result.Nodes, result.Edges); err != nil {
		return err
	}

	g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionStudyGuideGenerated,
		fmt.Sprintf("Generated study guide with %d nodes", len(result.Nodes))))
	return nil
}

// GenerateTest creates a practice test node from the imported materials.
func (g *Gateway) GenerateTest(ctx context.Context) error {
	files := g.engine.ImportedFiles()
	if len(files) == 0 {
		return apperrors.NewValidationError("import study materials before generating a test")
	}

	projectID := g.engine.Project().ID
	result, err := g.api.GenerateTest(ctx, ports.TestRequest{Files: files})
	if err != nil {
		g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionTestGenerationFailed,
			fmt.Sprintf("Test generation failed: %s", errMessage(err))))
		return err
	}

	title := result.Title
	if title == "" {
		title = "Generated Test"
	}
	if _, err := g.engine.AddTestNode(title, result.Content); err != nil {
		return err
	}

	g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionTestGenerated,
		fmt.Sprintf("Generated test %q", title)))
	return nil
}

// Arrange asks the backend for a layout and applies the returned positions.
func (g *Gateway) Arrange(ctx context.Context) error {
	nodes := g.engine.Nodes()
	if len(nodes) == 0 {
		return apperrors.NewValidationError("nothing to arrange")
	}

	projectID := g.engine.Project().ID
	result, err := g.api.Arrange(ctx, ports.ArrangeRequest{
		Nodes: nodes,
		Edges: g.engine.Edges(),
	})
	if err != nil {
		g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionArrangeFailed,
			fmt.Sprintf("AI arrange failed: %s", errMessage(err))))
		return err
	}

	if err := g.engine.ApplyPositions(result.Positions); err != nil {
		return err
	}

	g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionArrangeCompleted,
		fmt.Sprintf("Arranged %d nodes", len(result.Positions))))
	return nil
}

// ExecuteTool invokes a named AI tool and returns its output.
func (g *Gateway) ExecuteTool(ctx context.Context, tool string, params map[string]interface{}) (string, error) {
	if tool == "" {
		return "", apperrors.NewValidationError("tool name is required")
	}

	projectID := g.engine.Project().ID
	result, err := g.api.ExecuteTool(ctx, ports.ToolRequest{Tool: tool, Params: params})
	if err != nil {
		action := events.ActionAIToolFailed
		if apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
			action = events.ActionAIToolError
		}
		g.publisher.Publish(events.NewOperationEvent(projectID, action,
			fmt.Sprintf("AI tool %q failed: %s", tool, errMessage(err))))
		return "", err
	}

	g.publisher.Publish(events.NewOperationEvent(projectID, events.ActionAIToolExecuted,
		fmt.Sprintf("Executed AI tool %q", tool)))
	return result.Output, nil
}

func errMessage(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
