package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexusboard/application/board"
	"nexusboard/application/ports"
	"nexusboard/domain/config"
	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/changelog"
	"nexusboard/infrastructure/persistence/memory"
	"nexusboard/infrastructure/persistence/shapememory"
	apperrors "nexusboard/pkg/errors"
)

type fakeAIAPI struct {
	calls int

	autofill    ports.AutofillResult
	notes       ports.NotesResult
	studyGuide  ports.StudyGuideResult
	test        ports.TestResult
	arrange     ports.ArrangeResult
	tool        ports.ToolResult
	err         error
}

func (f *fakeAIAPI) Autofill(ctx context.Context, req ports.AutofillRequest) (ports.AutofillResult, error) {
	f.calls++
	return f.autofill, f.err
}

func (f *fakeAIAPI) DevelopNotes(ctx context.Context, req ports.NotesRequest) (ports.NotesResult, error) {
	f.calls++
	return f.notes, f.err
}

func (f *fakeAIAPI) StudyGuide(ctx context.Context, req ports.StudyGuideRequest) (ports.StudyGuideResult, error) {
	f.calls++
	return f.studyGuide, f.err
}

func (f *fakeAIAPI) GenerateTest(ctx context.Context, req ports.TestRequest) (ports.TestResult, error) {
	f.calls++
	return f.test, f.err
}

func (f *fakeAIAPI) Arrange(ctx context.Context, req ports.ArrangeRequest) (ports.ArrangeResult, error) {
	f.calls++
	return f.arrange, f.err
}

func (f *fakeAIAPI) ExecuteTool(ctx context.Context, req ports.ToolRequest) (ports.ToolResult, error) {
	f.calls++
	return f.tool, f.err
}

type actionSink struct {
	actions []string
}

func (s *actionSink) Publish(e events.DomainEvent) { s.actions = append(s.actions, e.GetAction()) }

func newGateway(t *testing.T, api *fakeAIAPI) (*Gateway, *board.Engine, *actionSink) {
	t.Helper()
	store := memory.NewStore()
	cfg := config.DefaultDomainConfig()
	sink := &actionSink{}
	mem := shapememory.NewStore(store, "p1", sink)
	log := changelog.NewLog(store, cfg, "current_user")
	engine := board.NewEngine(cfg, store, mem, log, sink, zap.NewNop(), board.ProjectDetails{ID: "p1", Title: "Project"})
	return NewGateway(engine, api, sink, zap.NewNop()), engine, sink
}

func selectShape(t *testing.T, engine *board.Engine) entities.Node {
	t.Helper()
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	_, err = engine.SelectNode(node.ID)
	require.NoError(t, err)
	return node
}

func TestAutofillRequiresSelection(t *testing.T) {
	api := &fakeAIAPI{}
	gw, _, _ := newGateway(t, api)

	err := gw.Autofill(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	// fails fast, no request issued
	assert.Zero(t, api.calls)
}

func TestAutofillWritesSummaryThrough(t *testing.T) {
	api := &fakeAIAPI{autofill: ports.AutofillResult{Summary: "A four-sided shape"}}
	gw, engine, sink := newGateway(t, api)
	selectShape(t, engine)

	require.NoError(t, gw.Autofill(context.Background()))

	node, ok := engine.Selected()
	require.True(t, ok)
	assert.Equal(t, "A four-sided shape", node.Data.AISummary)
	assert.Contains(t, sink.actions, events.ActionAutofillCompleted)
}

func TestAutofillFailureWritesMarker(t *testing.T) {
	api := &fakeAIAPI{err: apperrors.NewExternalError("ai", assert.AnError)}
	gw, engine, sink := newGateway(t, api)
	selectShape(t, engine)

	require.Error(t, gw.Autofill(context.Background()))

	node, ok := engine.Selected()
	require.True(t, ok)
	assert.Equal(t, AutofillFailureMarker, node.Data.AISummary)
	assert.Contains(t, sink.actions, events.ActionAutofillFailed)
}

func TestDevelopNotes(t *testing.T) {
	api := &fakeAIAPI{notes: ports.NotesResult{Notes: "Expanded notes"}}
	gw, engine, sink := newGateway(t, api)
	selectShape(t, engine)

	require.NoError(t, gw.DevelopNotes(context.Background()))

	node, _ := engine.Selected()
	assert.Equal(t, "Expanded notes", node.Data.Description)
	assert.Contains(t, sink.actions, events.ActionNotesDeveloped)
}

func TestStudyGuideRequiresImportedFiles(t *testing.T) {
	api := &fakeAIAPI{}
	gw, _, _ := newGateway(t, api)

	err := gw.StudyGuide(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, api.calls)
}

func TestStudyGuideReplacesBoardWholesale(t *testing.T) {
	api := &fakeAIAPI{studyGuide: ports.StudyGuideResult{
		Nodes: []entities.Node{
			{ID: "g1", Type: entities.TypeDefault, Data: entities.NodeData{Label: "Chapter 1"}},
			{ID: "g2", Type: entities.TypeDefault, Data: entities.NodeData{Label: "Chapter 2"}},
		},
		Edges: []entities.Edge{{ID: "ge1", Source: "g1", Target: "g2"}},
	}}
	gw, engine, sink := newGateway(t, api)
	_, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	engine.AddImportedFile(board.ImportedFile{ID: "f1", Name: "notes.txt", FileType: "notes"})

	require.NoError(t, gw.StudyGuide(context.Background()))

	assert.Len(t, engine.Nodes(), 2)
	assert.Len(t, engine.Edges(), 1)
	assert.Contains(t, sink.actions, events.ActionStudyGuideGenerated)
}

func TestGenerateTestAddsTestNode(t *testing.T) {
	api := &fakeAIAPI{test: ports.TestResult{Title: "Biology Quiz", Content: "1. What is a cell?"}}
	gw, engine, sink := newGateway(t, api)
	engine.AddImportedFile(board.ImportedFile{ID: "f1", Name: "chapter.pdf", FileType: "test"})

	require.NoError(t, gw.GenerateTest(context.Background()))

	nodes := engine.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, entities.TypeTest, nodes[0].Type)
	assert.Equal(t, "Biology Quiz", nodes[0].Data.Label)
	assert.Equal(t, "1. What is a cell?", nodes[0].Data.Description)
	assert.Contains(t, sink.actions, events.ActionTestGenerated)
}

func TestGenerateTestFailure(t *testing.T) {
	api := &fakeAIAPI{err: apperrors.NewExternalError("ai", assert.AnError)}
	gw, engine, sink := newGateway(t, api)
	engine.AddImportedFile(board.ImportedFile{ID: "f1", Name: "chapter.pdf", FileType: "test"})

	require.Error(t, gw.GenerateTest(context.Background()))
	assert.Empty(t, engine.Nodes())
	assert.Contains(t, sink.actions, events.ActionTestGenerationFailed)
}

func TestArrangeAppliesPositions(t *testing.T) {
	gw, engine, sink := newGateway(t, &fakeAIAPI{})
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	api := &fakeAIAPI{arrange: ports.ArrangeResult{Positions: map[string]valueobjects.Position{
		node.ID: {X: 400, Y: 500},
	}}}
	gw = NewGateway(engine, api, sink, zap.NewNop())

	require.NoError(t, gw.Arrange(context.Background()))

	assert.True(t, engine.Positions()[node.ID].Equals(valueobjects.Position{X: 400, Y: 500}))
	assert.Contains(t, sink.actions, events.ActionArrangeCompleted)
}

func TestArrangeRequiresNodes(t *testing.T) {
	api := &fakeAIAPI{}
	gw, _, _ := newGateway(t, api)

	err := gw.Arrange(context.Background())
	require.Error(t, err)
	assert.Zero(t, api.calls)
}

func TestExecuteTool(t *testing.T) {
	api := &fakeAIAPI{tool: ports.ToolResult{Output: "done"}}
	gw, _, sink := newGateway(t, api)

	out, err := gw.ExecuteTool(context.Background(), "summarize", map[string]interface{}{"depth": 2})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Contains(t, sink.actions, events.ActionAIToolExecuted)
}

func TestExecuteToolErrorActions(t *testing.T) {
	api := &fakeAIAPI{err: apperrors.NewNetworkError("connection refused", assert.AnError)}
	gw, _, sink := newGateway(t, api)

	_, err := gw.ExecuteTool(context.Background(), "summarize", nil)
	require.Error(t, err)
	assert.Contains(t, sink.actions, events.ActionAIToolError)

	api.err = apperrors.NewExternalError("ai", assert.AnError)
	_, err = gw.ExecuteTool(context.Background(), "summarize", nil)
	require.Error(t, err)
	assert.Contains(t, sink.actions, events.ActionAIToolFailed)

	_, err = gw.ExecuteTool(context.Background(), "", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
