// Package board implements the graph state engine: nodes, edges, selection,
// and the tracked position projection, with every mutation emitting a typed
// domain event.
package board

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexusboard/domain/config"
	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/abstractions"
	"nexusboard/infrastructure/persistence/changelog"
	"nexusboard/infrastructure/persistence/shapememory"
	apperrors "nexusboard/pkg/errors"
)

// persistedState is the locally durable node/edge working set, written
// synchronously after every mutation.
type persistedState struct {
	Nodes []entities.Node `json:"nodes"`
	Edges []entities.Edge `json:"edges"`
}

// Engine owns the board working set. All mutations take the engine mutex, so
// each operation observes a consistent state and batches are atomic.
type Engine struct {
	cfg       *config.DomainConfig
	logger    *zap.Logger
	publisher events.Publisher
	store     abstractions.ProjectStore
	memory    *shapememory.Store
	log       *changelog.Log
	project   ProjectDetails

	mu            sync.Mutex
	nodes         []entities.Node
	edges         []entities.Edge
	positions     map[string]valueobjects.Position
	selected      string
	uploadedFiles []UploadedFile
	importFiles   []ImportedFile

	now       func() time.Time
	randFloat func() float64
}

// NewEngine assembles an engine for one project. The publisher receives every
// mutation event; wire a changelog.Recorder to it for history.
func NewEngine(
	cfg *config.DomainConfig,
	store abstractions.ProjectStore,
	memory *shapememory.Store,
	log *changelog.Log,
	publisher events.Publisher,
	logger *zap.Logger,
	project ProjectDetails,
) *Engine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		logger:    logger,
		publisher: publisher,
		store:     store,
		memory:    memory,
		log:       log,
		project:   project,
		positions: make(map[string]valueobjects.Position),
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// SetClock and SetRand override the time and randomness sources. Tests only.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }
func (e *Engine) SetRand(f func() float64)      { e.randFloat = f }

// Load restores the locally persisted working set, merging each node's memory
// record back over its data (record wins per non-empty field).
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var state persistedState
	if _, err := e.store.Get(e.project.ID, abstractions.KeyProjectData, &state); err != nil {
		return err
	}

	nodes := entities.NormalizeNodes(state.Nodes)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	records := e.memory.LoadAll(ids)
	for i, n := range nodes {
		if record, ok := records[n.ID]; ok {
			nodes[i].Data = record.MergeIntoNode(n.Data)
		}
	}

	e.nodes = nodes
	e.edges = state.Edges
	e.selected = ""
	e.recomputePositions()
	return nil
}

// AddShape creates a node of the given kind at a random spawn position,
// records its memory, and emits shape_created.
func (e *Engine) AddShape(kind entities.NodeKind) (entities.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := valueobjects.NewPosition(
		e.cfg.SpawnMin+e.randFloat()*e.cfg.SpawnSpan,
		e.cfg.SpawnMin+e.randFloat()*e.cfg.SpawnSpan,
	)
	node := entities.NewShape(valueobjects.NewNodeID(), kind, pos)
	e.nodes = append(e.nodes, node)
	e.recomputePositions()

	if err := e.persistLocked(); err != nil {
		return entities.Node{}, err
	}

	created := e.now()
	if _, err := e.memory.Save(node.ID, entities.ShapeMemoryPatch{
		Label:     &node.Data.Label,
		Position:  &pos,
		CreatedAt: &created,
	}); err != nil {
		e.logger.Warn("shape memory save failed", zap.String("node_id", node.ID), zap.Error(err))
	}

	e.publisher.Publish(events.NewShapeCreated(node.ID, string(kind), node.Data.Label, pos))
	return node, nil
}

// ApplyNodeChanges folds a batch of node deltas into the working set. The
// move/position decision compares against the tracked projection as of batch
// start; the projection is recomputed from the full node list afterwards.
func (e *Engine) ApplyNodeChanges(changes []NodeChange) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tracked := make(map[string]valueobjects.Position, len(e.positions))
	for id, p := range e.positions {
		tracked[id] = p
	}

	for _, change := range changes {
		switch change.Type {
		case ChangePosition:
			e.applyPositionLocked(change, tracked)
		case ChangeDimensions:
			e.applyDimensionsLocked(change)
		case ChangeRemove:
			e.removeNodeLocked(change.NodeID, tracked)
		case ChangeSelect:
			if change.Selected {
				e.selected = change.NodeID
			} else if e.selected == change.NodeID {
				e.selected = ""
			}
		}
	}

	e.recomputePositions()
	return e.persistLocked()
}

func (e *Engine) applyPositionLocked(change NodeChange, tracked map[string]valueobjects.Position) {
	if change.Position == nil {
		return
	}
	idx := e.indexOfLocked(change.NodeID)
	if idx < 0 {
		return
	}
	newPos := change.Position.Normalized()
	e.nodes[idx].Position = newPos

	if change.Dragging {
		// In-flight drag: visual update only.
		return
	}

	label := e.nodes[idx].Data.Label
	prev, had := tracked[change.NodeID]
	if !had {
		e.publisher.Publish(events.NewNodePositioned(change.NodeID, label, newPos))
		e.saveMovedMemoryLocked(change.NodeID, newPos)
		return
	}
	if newPos.DeltaExceeds(prev, e.cfg.MoveThreshold) {
		e.publisher.Publish(events.NewNodeMoved(change.NodeID, label, prev, newPos))
		e.saveMovedMemoryLocked(change.NodeID, newPos)
	}
}

func (e *Engine) saveMovedMemoryLocked(nodeID string, pos valueobjects.Position) {
	moved := e.now()
	if _, err := e.memory.Save(nodeID, entities.ShapeMemoryPatch{
		Position:  &pos,
		LastMoved: &moved,
	}); err != nil {
		e.logger.Warn("shape memory save failed", zap.String("node_id", nodeID), zap.Error(err))
	}
}

func (e *Engine) applyDimensionsLocked(change NodeChange) {
	idx := e.indexOfLocked(change.NodeID)
	if idx < 0 {
		return
	}
	e.nodes[idx].Style.Width = change.Width
	e.nodes[idx].Style.Height = change.Height
	e.publisher.Publish(events.NewNodeResized(change.NodeID, e.nodes[idx].Data.Label, change.Width, change.Height))
}

func (e *Engine) removeNodeLocked(nodeID string, tracked map[string]valueobjects.Position) {
	idx := e.indexOfLocked(nodeID)
	if idx < 0 {
		return
	}
	node := e.nodes[idx]
	pos, had := tracked[nodeID]
	if !had {
		pos = node.Position
	}

	e.nodes = append(e.nodes[:idx], e.nodes[idx+1:]...)
	if e.selected == nodeID {
		e.selected = ""
	}
	if err := e.memory.Delete(nodeID); err != nil {
		e.logger.Warn("shape memory delete failed", zap.String("node_id", nodeID), zap.Error(err))
	}

	e.publisher.Publish(events.NewNodeDeleted(nodeID, node.Data.Label, pos, false))
}

// Connect appends an edge between two nodes and emits connection_created.
// Duplicate source/target pairs are permitted.
func (e *Engine) Connect(source, target string) (entities.Edge, error) {
	if source == "" || target == "" {
		return entities.Edge{}, apperrors.NewValidationError("connection requires a source and a target")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	edge := entities.Edge{ID: valueobjects.NewEdgeID(), Source: source, Target: target}
	e.edges = append(e.edges, edge)
	if err := e.persistLocked(); err != nil {
		return entities.Edge{}, err
	}

	e.publisher.Publish(events.NewConnectionCreated(edge.ID, source, target))
	return edge, nil
}

// ApplyEdgeChanges folds a batch of edge deltas; each removal emits
// connection_deleted.
func (e *Engine) ApplyEdgeChanges(changes []EdgeChange) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, change := range changes {
		if change.Type != ChangeRemove {
			continue
		}
		for i, edge := range e.edges {
			if edge.ID == change.EdgeID {
				e.edges = append(e.edges[:i], e.edges[i+1:]...)
				e.publisher.Publish(events.NewConnectionDeleted(edge.ID, edge.Source, edge.Target))
				break
			}
		}
	}

	return e.persistLocked()
}

// SelectNode makes a node the selection, merging its memory record over node
// data first so stale in-memory values never mask recovered content.
func (e *Engine) SelectNode(nodeID string) (entities.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOfLocked(nodeID)
	if idx < 0 {
		return entities.Node{}, apperrors.NewNotFoundError(fmt.Sprintf("node %s", nodeID))
	}

	if record, found, err := e.memory.Load(nodeID); err == nil && found {
		e.nodes[idx].Data = record.MergeIntoNode(e.nodes[idx].Data)
	}

	e.selected = nodeID
	node := e.nodes[idx]
	e.publisher.Publish(events.NewNodeSelected(nodeID, node.Data.Label, node.Position))
	return node, nil
}

// UpdateLabel writes a node's label through to the memory record. A no-op
// edit (same label after trimming) changes nothing; the event fires only when
// the trimmed value is non-empty and differs.
func (e *Engine) UpdateLabel(nodeID, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOfLocked(nodeID)
	if idx < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("node %s", nodeID))
	}

	old := e.nodes[idx].Data.Label
	trimmed := strings.TrimSpace(value)
	if trimmed == strings.TrimSpace(old) {
		return nil
	}

	e.nodes[idx].Data.Label = value
	if err := e.persistLocked(); err != nil {
		return err
	}
	if _, err := e.memory.Save(nodeID, entities.ShapeMemoryPatch{Label: &value}); err != nil {
		e.logger.Warn("shape memory save failed", zap.String("node_id", nodeID), zap.Error(err))
	}

	if trimmed != "" {
		e.publisher.Publish(events.NewNodeLabelUpdated(nodeID, old, value))
	}
	return nil
}

// UpdateSelectedData patches the selected node's content fields and writes
// them through to shape memory. Used by the AI gateway to land results.
func (e *Engine) UpdateSelectedData(patch entities.ShapeMemoryPatch) (entities.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == "" {
		return entities.Node{}, apperrors.NewValidationError("no node selected")
	}
	idx := e.indexOfLocked(e.selected)
	if idx < 0 {
		return entities.Node{}, apperrors.NewNotFoundError(fmt.Sprintf("node %s", e.selected))
	}

	if patch.Label != nil {
		e.nodes[idx].Data.Label = *patch.Label
	}
	if patch.Description != nil {
		e.nodes[idx].Data.Description = *patch.Description
	}
	if patch.AISummary != nil {
		e.nodes[idx].Data.AISummary = *patch.AISummary
	}
	if err := e.persistLocked(); err != nil {
		return entities.Node{}, err
	}
	if _, err := e.memory.Save(e.selected, patch); err != nil {
		e.logger.Warn("shape memory save failed", zap.String("node_id", e.selected), zap.Error(err))
	}
	return e.nodes[idx], nil
}

// DeleteSelected removes the selected node, every edge touching it, and its
// memory record. Returns false when nothing is selected.
func (e *Engine) DeleteSelected() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == "" {
		return false, nil
	}
	idx := e.indexOfLocked(e.selected)
	if idx < 0 {
		e.selected = ""
		return false, nil
	}

	node := e.nodes[idx]
	pos, had := e.positions[node.ID]
	if !had {
		pos = node.Position
	}

	before := len(e.edges)
	e.edges = entities.EdgesWithout(e.edges, node.ID)
	withConnections := len(e.edges) < before

	e.nodes = append(e.nodes[:idx], e.nodes[idx+1:]...)
	e.selected = ""
	e.recomputePositions()

	if err := e.memory.Delete(node.ID); err != nil {
		e.logger.Warn("shape memory delete failed", zap.String("node_id", node.ID), zap.Error(err))
	}
	if err := e.persistLocked(); err != nil {
		return true, err
	}

	e.publisher.Publish(events.NewNodeDeleted(node.ID, node.Data.Label, pos, withConnections))
	return true, nil
}

// AddTestNode places a generated-test node next to the current content.
func (e *Engine) AddTestNode(label, content string) (entities.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := valueobjects.NewPosition(
		e.cfg.SpawnMin+e.randFloat()*e.cfg.SpawnSpan,
		e.cfg.SpawnMin+e.randFloat()*e.cfg.SpawnSpan,
	)
	node := entities.NewTestNode(valueobjects.NewTestNodeID(), label, content, pos)
	e.nodes = append(e.nodes, node)
	e.recomputePositions()
	if err := e.persistLocked(); err != nil {
		return entities.Node{}, err
	}
	return node, nil
}

// ReplaceBoard overwrites nodes and edges wholesale. Used by pull and the
// AI operations that return a full board. Selection is cleared and the
// projection recomputed.
func (e *Engine) ReplaceBoard(nodes []entities.Node, edges []entities.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nodes = entities.NormalizeNodes(nodes)
	e.edges = edges
	e.selected = ""
	e.recomputePositions()
	return e.persistLocked()
}

// ApplyPositions overwrites the positions of the named nodes, leaving others
// untouched. Used by the arrange operation.
func (e *Engine) ApplyPositions(positions map[string]valueobjects.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, n := range e.nodes {
		if p, ok := positions[n.ID]; ok {
			e.nodes[i].Position = p.Normalized()
		}
	}
	e.recomputePositions()
	return e.persistLocked()
}

// ApplySnapshot overwrites the whole working set from a remote snapshot. The
// remote copy is authoritative; nothing local survives except what it carries.
func (e *Engine) ApplySnapshot(snap Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nodes = entities.NormalizeNodes(snap.Nodes)
	e.edges = snap.Edges
	e.uploadedFiles = snap.UploadedFiles
	e.importFiles = snap.ImportFiles
	e.selected = ""
	e.recomputePositions()

	if err := e.memory.Replace(snap.ShapeMemory); err != nil {
		return err
	}
	return e.persistLocked()
}

// Snapshot assembles the full serializable project state.
func (e *Engine) Snapshot() (Snapshot, error) {
	e.mu.Lock()
	nodes := append([]entities.Node(nil), e.nodes...)
	edges := append([]entities.Edge(nil), e.edges...)
	positions := e.copyPositionsLocked()
	uploaded := append([]UploadedFile(nil), e.uploadedFiles...)
	imported := append([]ImportedFile(nil), e.importFiles...)
	e.mu.Unlock()

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	records := e.memory.LoadAll(ids)

	logs, err := e.log.List(e.project.ID)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Nodes:          nodes,
		Edges:          edges,
		ShapeMemory:    records,
		NodePositions:  positions,
		ChangeLogs:     logs,
		UploadedFiles:  uploaded,
		ImportFiles:    imported,
		Timestamp:      e.now().UTC().Format(time.RFC3339),
		ProjectID:      e.project.ID,
		ProjectTitle:   e.project.Title,
		ProjectSubject: e.project.Subject,
	}, nil
}

// Export produces the downloadable project document and its filename, with
// whitespace in the title collapsed to dots.
func (e *Engine) Export() (ExportDocument, string, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return ExportDocument{}, "", err
	}

	doc := ExportDocument{
		Nodes:          snap.Nodes,
		Edges:          snap.Edges,
		UploadedFiles:  snap.UploadedFiles,
		ProjectDetails: e.project,
		ShapeMemory:    snap.ShapeMemory,
		NodePositions:  snap.NodePositions,
		ChangeLogs:     snap.ChangeLogs,
	}

	name := strings.Join(strings.Fields(e.project.Title), ".")
	if name == "" {
		name = "project"
	}
	e.publisher.Publish(events.NewOperationEvent(e.project.ID, events.ActionExport,
		fmt.Sprintf("Exported project %q", e.project.Title)))
	return doc, name + ".json", nil
}

// SetImportFileType reassigns an imported file's category.
func (e *Engine) SetImportFileType(fileID, fileType string) error {
	valid := false
	for _, t := range ImportFileTypes {
		if t == fileType {
			valid = true
			break
		}
	}
	if !valid {
		return apperrors.NewValidationError(fmt.Sprintf("invalid file type %q", fileType))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, f := range e.importFiles {
		if f.ID == fileID {
			e.importFiles[i].FileType = fileType
			e.publisher.Publish(events.NewOperationEvent(fileID, events.ActionFileTypeChanged,
				fmt.Sprintf("Changed file type of %q to %q", f.Name, fileType)))
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("imported file %s", fileID))
}

// AddImportedFile commits a successfully imported file to the working set.
func (e *Engine) AddImportedFile(file ImportedFile) {
	e.mu.Lock()
	e.importFiles = append(e.importFiles, file)
	e.mu.Unlock()
}

// AddUploadedFile records an attached file's metadata.
func (e *Engine) AddUploadedFile(file UploadedFile) {
	e.mu.Lock()
	e.uploadedFiles = append(e.uploadedFiles, file)
	e.mu.Unlock()

	e.publisher.Publish(events.NewOperationEvent(e.project.ID, events.ActionFileUploaded,
		fmt.Sprintf("Uploaded file %q", file.Name)))
}

// RemoveUploadedFile detaches a previously uploaded file.
func (e *Engine) RemoveUploadedFile(fileID string) error {
	e.mu.Lock()
	found := false
	name := ""
	kept := e.uploadedFiles[:0]
	for _, f := range e.uploadedFiles {
		if f.ID == fileID {
			found = true
			name = f.Name
			continue
		}
		kept = append(kept, f)
	}
	e.uploadedFiles = kept
	e.mu.Unlock()

	if !found {
		return apperrors.NewNotFoundError(fmt.Sprintf("uploaded file %s", fileID))
	}
	e.publisher.Publish(events.NewOperationEvent(e.project.ID, events.ActionFileDeleted,
		fmt.Sprintf("Deleted file %q", name)))
	return nil
}

// Accessors return copies; callers never see internal slices.

func (e *Engine) Nodes() []entities.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]entities.Node(nil), e.nodes...)
}

func (e *Engine) Edges() []entities.Edge {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]entities.Edge(nil), e.edges...)
}

func (e *Engine) ImportedFiles() []ImportedFile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ImportedFile(nil), e.importFiles...)
}

func (e *Engine) Positions() map[string]valueobjects.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyPositionsLocked()
}

// Selected returns the selected node, if any.
func (e *Engine) Selected() (entities.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOfLocked(e.selected)
	if idx < 0 {
		return entities.Node{}, false
	}
	return e.nodes[idx], true
}

// Project returns the project details.
func (e *Engine) Project() ProjectDetails { return e.project }

func (e *Engine) indexOfLocked(nodeID string) int {
	if nodeID == "" {
		return -1
	}
	for i, n := range e.nodes {
		if n.ID == nodeID {
			return i
		}
	}
	return -1
}

// recomputePositions rebuilds the projection from the full node list. Nodes
// no longer present simply vanish from the map.
func (e *Engine) recomputePositions() {
	positions := make(map[string]valueobjects.Position, len(e.nodes))
	for _, n := range e.nodes {
		positions[n.ID] = n.Position
	}
	e.positions = positions
}

func (e *Engine) copyPositionsLocked() map[string]valueobjects.Position {
	out := make(map[string]valueobjects.Position, len(e.positions))
	for id, p := range e.positions {
		out[id] = p
	}
	return out
}

func (e *Engine) persistLocked() error {
	return e.store.Set(e.project.ID, abstractions.KeyProjectData, persistedState{
		Nodes: e.nodes,
		Edges: e.edges,
	})
}
