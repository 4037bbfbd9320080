package board

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexusboard/domain/config"
	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/changelog"
	"nexusboard/infrastructure/persistence/memory"
	"nexusboard/infrastructure/persistence/shapememory"
)

type eventSink struct {
	events []events.DomainEvent
}

func (s *eventSink) Publish(e events.DomainEvent) { s.events = append(s.events, e) }

func (s *eventSink) actions() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.GetAction()
	}
	return out
}

func newTestEngine(t *testing.T) (*Engine, *eventSink, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	sink := &eventSink{}
	cfg := config.DefaultDomainConfig()

	mem := shapememory.NewStore(store, "p1", sink)
	mem.SetClock(func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) })
	log := changelog.NewLog(store, cfg, "current_user")

	engine := NewEngine(cfg, store, mem, log, sink, zap.NewNop(), ProjectDetails{
		ID:      "p1",
		Title:   "My Study Project",
		Subject: "Biology",
	})
	engine.SetClock(func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) })
	engine.SetRand(func() float64 { return 0.5 })
	return engine, sink, store
}

func TestAddShapeRapidCreationsGetDistinctIDs(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	// both creations land in the same millisecond; ids must still differ and
	// the projection must track each node separately
	first, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	second, err := engine.AddShape(entities.KindCircle)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, engine.Nodes(), 2)
	assert.Len(t, engine.Positions(), 2)
}

func TestAddShapeRectangle(t *testing.T) {
	engine, sink, _ := newTestEngine(t)

	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	assert.Equal(t, "Rectangle", node.Data.Label)
	assert.Equal(t, "default", node.Type)
	// rand() == 0.5 places both coordinates at 50 + 0.5*300 = 200
	assert.Equal(t, valueobjects.Position{X: 200, Y: 200}, node.Position)
	assert.Equal(t, "4px", node.Style.BorderRadius)

	assert.Contains(t, sink.actions(), events.ActionShapeCreated)
	assert.Contains(t, sink.actions(), events.ActionShapeMemorySaved)

	// creation seeds the memory record with createdAt and position
	record, found, err := engine.memory.Load(node.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Rectangle", record.Label)
	require.NotNil(t, record.Position)
	assert.True(t, record.Position.Equals(node.Position))
	require.NotNil(t, record.CreatedAt)

	// projection tracks the new node
	assert.Contains(t, engine.Positions(), node.ID)
}

func TestShapeCreatedDetailLine(t *testing.T) {
	engine, sink, _ := newTestEngine(t)

	_, err := engine.AddShape(entities.KindCircle)
	require.NoError(t, err)

	var created events.ShapeCreated
	for _, e := range sink.events {
		if c, ok := e.(events.ShapeCreated); ok {
			created = c
		}
	}
	assert.Equal(t, `Created circle shape "Circle" at position (200, 200)`, created.GetDetails())
}

func TestDragBelowThresholdLogsNothing(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	// per-axis delta of exactly 2 does not exceed the threshold
	pos := valueobjects.Position{X: node.Position.X + 2, Y: node.Position.Y + 2}
	err = engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, NodeID: node.ID, Position: &pos, Dragging: false},
	})
	require.NoError(t, err)

	assert.Empty(t, sink.events)
	// visual position still updated
	assert.True(t, engine.Positions()[node.ID].Equals(pos))
}

func TestDragAboveThresholdLogsMove(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	pos := valueobjects.Position{X: node.Position.X + 3, Y: node.Position.Y}
	err = engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, NodeID: node.ID, Position: &pos, Dragging: false},
	})
	require.NoError(t, err)

	assert.Contains(t, sink.actions(), events.ActionNodeMoved)
	var moved events.NodeMoved
	for _, e := range sink.events {
		if m, ok := e.(events.NodeMoved); ok {
			moved = m
		}
	}
	assert.Equal(t, `Moved node "Rectangle" from (200, 200) to (203, 200)`, moved.GetDetails())

	// the move updates the record's position and lastMoved
	record, found, err := engine.memory.Load(node.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, record.Position)
	assert.True(t, record.Position.Equals(pos))
	assert.NotNil(t, record.LastMoved)
}

func TestInFlightDragDoesNotLog(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	pos := valueobjects.Position{X: node.Position.X + 50, Y: node.Position.Y + 50}
	err = engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, NodeID: node.ID, Position: &pos, Dragging: true},
	})
	require.NoError(t, err)

	assert.Empty(t, sink.events)
	assert.True(t, engine.Positions()[node.ID].Equals(pos))
}

func TestUntrackedNodeLogsPositioned(t *testing.T) {
	engine, sink, _ := newTestEngine(t)

	// load a board with one node that has never been tracked
	require.NoError(t, engine.ReplaceBoard([]entities.Node{
		{ID: "n1", Type: entities.TypeDefault, Data: entities.NodeData{Label: "Cell"}},
	}, nil))

	// drop the projection entry to simulate a node appearing mid-batch
	engine.mu.Lock()
	delete(engine.positions, "n1")
	engine.mu.Unlock()
	sink.events = nil

	pos := valueobjects.Position{X: 10, Y: 20}
	err := engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, NodeID: "n1", Position: &pos, Dragging: false},
	})
	require.NoError(t, err)

	assert.Contains(t, sink.actions(), events.ActionNodePositioned)
	assert.NotContains(t, sink.actions(), events.ActionNodeMoved)
}

func TestMalformedPositionNormalizedToOrigin(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	bad := valueobjects.Position{X: math.NaN(), Y: 5}
	err = engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, NodeID: node.ID, Position: &bad, Dragging: true},
	})
	require.NoError(t, err)

	assert.Equal(t, valueobjects.Position{}, engine.Positions()[node.ID])
}

func TestRemoveDeltaDeletesNodeAndMemory(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	err = engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangeRemove, NodeID: node.ID},
	})
	require.NoError(t, err)

	assert.Empty(t, engine.Nodes())
	assert.Contains(t, sink.actions(), events.ActionNodeDeleted)
	assert.NotContains(t, engine.Positions(), node.ID)

	_, found, err := engine.memory.Load(node.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResizeLogsRoundedDimensions(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	err = engine.ApplyNodeChanges([]NodeChange{
		{Type: ChangeDimensions, NodeID: node.ID, Width: 150.6, Height: 80.2},
	})
	require.NoError(t, err)

	require.Contains(t, sink.actions(), events.ActionNodeResized)
	assert.Equal(t, `Resized node "Rectangle" to 151x80`, sink.events[0].GetDetails())
}

func TestConnectAllowsDuplicates(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	a, _ := engine.AddShape(entities.KindRectangle)
	b, _ := engine.AddShape(entities.KindCircle)
	sink.events = nil

	e1, err := engine.Connect(a.ID, b.ID)
	require.NoError(t, err)
	e2, err := engine.Connect(a.ID, b.ID)
	require.NoError(t, err)

	assert.NotEqual(t, e1.ID, e2.ID)
	assert.Len(t, engine.Edges(), 2)
	assert.Equal(t, []string{events.ActionConnectionCreated, events.ActionConnectionCreated}, sink.actions())
}

func TestConnectRejectsEmptyEndpoints(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.Connect("", "b")
	assert.Error(t, err)
}

func TestApplyEdgeChangesRemoval(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	a, _ := engine.AddShape(entities.KindRectangle)
	b, _ := engine.AddShape(entities.KindCircle)
	edge, err := engine.Connect(a.ID, b.ID)
	require.NoError(t, err)
	sink.events = nil

	err = engine.ApplyEdgeChanges([]EdgeChange{{Type: ChangeRemove, EdgeID: edge.ID}})
	require.NoError(t, err)

	assert.Empty(t, engine.Edges())
	require.Len(t, sink.events, 1)
	assert.Equal(t, events.ActionConnectionDeleted, sink.events[0].GetAction())
}

func TestSelectNodeMergesMemoryRecord(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	desc := "Mitochondria are the powerhouse of the cell"
	_, err = engine.memory.Save(node.ID, entities.ShapeMemoryPatch{Description: &desc})
	require.NoError(t, err)
	sink.events = nil

	selected, err := engine.SelectNode(node.ID)
	require.NoError(t, err)

	assert.Equal(t, desc, selected.Data.Description)
	require.Len(t, sink.events, 1)
	assert.Equal(t, events.ActionNodeSelected, sink.events[0].GetAction())

	got, ok := engine.Selected()
	require.True(t, ok)
	assert.Equal(t, node.ID, got.ID)
}

func TestUpdateLabelNoOpEmitsNothing(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	require.NoError(t, engine.UpdateLabel(node.ID, "Rectangle"))
	require.NoError(t, engine.UpdateLabel(node.ID, "  Rectangle  "))
	assert.Empty(t, sink.events)
}

func TestUpdateLabelChangeEmitsEvent(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	sink.events = nil

	require.NoError(t, engine.UpdateLabel(node.ID, "Nucleus"))

	assert.Contains(t, sink.actions(), events.ActionNodeLabelUpdated)
	var updated events.NodeLabelUpdated
	for _, e := range sink.events {
		if u, ok := e.(events.NodeLabelUpdated); ok {
			updated = u
		}
	}
	assert.Equal(t, `Updated node label from "Rectangle" to "Nucleus"`, updated.GetDetails())

	record, found, err := engine.memory.Load(node.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Nucleus", record.Label)
}

func TestDeleteSelectedRemovesEdgesAndRecord(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	a, _ := engine.AddShape(entities.KindRectangle)
	b, _ := engine.AddShape(entities.KindCircle)
	_, err := engine.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = engine.Connect(b.ID, a.ID)
	require.NoError(t, err)
	_, err = engine.SelectNode(a.ID)
	require.NoError(t, err)
	sink.events = nil

	deleted, err := engine.DeleteSelected()
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Len(t, engine.Nodes(), 1)
	assert.Empty(t, engine.Edges())
	_, selectedStill := engine.Selected()
	assert.False(t, selectedStill)

	require.Len(t, sink.events, 1)
	assert.Equal(t, events.ActionNodeDeleted, sink.events[0].GetAction())
	assert.Contains(t, sink.events[0].GetDetails(), "and its connections")

	_, found, err := engine.memory.Load(a.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteSelectedNoSelection(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	deleted, err := engine.DeleteSelected()
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, sink.events)
}

func TestUploadedFileLifecycleIsLogged(t *testing.T) {
	engine, sink, _ := newTestEngine(t)

	engine.AddUploadedFile(UploadedFile{ID: "f1", Name: "syllabus.pdf", FileType: "notes", Size: 42})
	require.Error(t, engine.RemoveUploadedFile("ghost"))
	require.NoError(t, engine.RemoveUploadedFile("f1"))

	actions := sink.actions()
	assert.Contains(t, actions, events.ActionFileUploaded)
	assert.Contains(t, actions, events.ActionFileDeleted)

	snap, err := engine.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.UploadedFiles)
}

func TestExportFilenameFromTitle(t *testing.T) {
	engine, sink, _ := newTestEngine(t)

	doc, filename, err := engine.Export()
	require.NoError(t, err)

	assert.Equal(t, "My.Study.Project.json", filename)
	assert.Equal(t, "My Study Project", doc.ProjectDetails.Title)
	assert.Contains(t, sink.actions(), "project_exported")
}

func TestSnapshotCarriesFullState(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	a, _ := engine.AddShape(entities.KindRectangle)
	b, _ := engine.AddShape(entities.KindCircle)
	_, err := engine.Connect(a.ID, b.ID)
	require.NoError(t, err)
	engine.AddImportedFile(ImportedFile{ID: "f1", Name: "notes.txt", FileType: "notes"})

	snap, err := engine.Snapshot()
	require.NoError(t, err)

	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Edges, 1)
	assert.Len(t, snap.ShapeMemory, 2)
	assert.Len(t, snap.NodePositions, 2)
	assert.Len(t, snap.ImportFiles, 1)
	assert.Equal(t, "p1", snap.ProjectID)
	assert.Equal(t, "My Study Project", snap.ProjectTitle)
	assert.Equal(t, "2026-08-28T12:00:00Z", snap.Timestamp)
}

func TestApplySnapshotOverwritesWholesale(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	local, _ := engine.AddShape(entities.KindRectangle)
	_, err := engine.SelectNode(local.ID)
	require.NoError(t, err)

	remote := Snapshot{
		Nodes: []entities.Node{
			{ID: "r1", Type: entities.TypeDefault, Data: entities.NodeData{Label: "Remote"}, Position: valueobjects.Position{X: 1, Y: 2}},
		},
		Edges: []entities.Edge{{ID: "e1", Source: "r1", Target: "r1"}},
		ShapeMemory: map[string]entities.ShapeMemoryRecord{
			"r1": {NodeID: "r1", Label: "Remote"},
		},
	}
	require.NoError(t, engine.ApplySnapshot(remote))

	nodes := engine.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "r1", nodes[0].ID)
	assert.Len(t, engine.Edges(), 1)
	_, stillSelected := engine.Selected()
	assert.False(t, stillSelected)

	// the local node's record is gone, the remote one is present
	_, found, err := engine.memory.Load(local.ID)
	require.NoError(t, err)
	assert.False(t, found)
	record, found, err := engine.memory.Load("r1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Remote", record.Label)
}

func TestLoadMergesMemoryOverNodes(t *testing.T) {
	engine, _, store := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	desc := "recovered description"
	_, err = engine.memory.Save(node.ID, entities.ShapeMemoryPatch{Description: &desc})
	require.NoError(t, err)

	// a second engine over the same store simulates a fresh session
	sink := &eventSink{}
	mem := shapememory.NewStore(store, "p1", sink)
	log := changelog.NewLog(store, config.DefaultDomainConfig(), "current_user")
	fresh := NewEngine(config.DefaultDomainConfig(), store, mem, log, sink, zap.NewNop(), ProjectDetails{ID: "p1", Title: "My Study Project"})

	require.NoError(t, fresh.Load())

	nodes := fresh.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, node.ID, nodes[0].ID)
	assert.Equal(t, desc, nodes[0].Data.Description)
	assert.Contains(t, fresh.Positions(), node.ID)
}

func TestSetImportFileType(t *testing.T) {
	engine, sink, _ := newTestEngine(t)
	engine.AddImportedFile(ImportedFile{ID: "f1", Name: "chapter1.pdf", FileType: "notes"})
	sink.events = nil

	require.NoError(t, engine.SetImportFileType("f1", "test"))
	assert.Equal(t, "test", engine.ImportedFiles()[0].FileType)
	require.Len(t, sink.events, 1)
	assert.Equal(t, events.ActionFileTypeChanged, sink.events[0].GetAction())

	assert.Error(t, engine.SetImportFileType("f1", "bogus"))
	assert.Error(t, engine.SetImportFileType("missing", "test"))
}

func TestUpdateSelectedData(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	node, err := engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	_, err = engine.SelectNode(node.ID)
	require.NoError(t, err)

	summary := "A four-sided shape"
	updated, err := engine.UpdateSelectedData(entities.ShapeMemoryPatch{AISummary: &summary})
	require.NoError(t, err)
	assert.Equal(t, summary, updated.Data.AISummary)

	record, found, err := engine.memory.Load(node.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, summary, record.AISummary)
}
