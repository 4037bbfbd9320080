package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexusboard/application/board"
	"nexusboard/domain/config"
	"nexusboard/domain/core/entities"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/changelog"
	"nexusboard/infrastructure/persistence/memory"
	"nexusboard/infrastructure/persistence/shapememory"
	apperrors "nexusboard/pkg/errors"
)

type fakeStateAPI struct {
	saved    []board.Snapshot
	saveErr  error
	snapshot *board.Snapshot
	loadErr  error
	block    chan struct{}
}

func (f *fakeStateAPI) SaveProjectState(ctx context.Context, snap board.Snapshot) error {
	if f.block != nil {
		<-f.block
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeStateAPI) LoadProjectState(ctx context.Context, projectID string) (board.Snapshot, bool, error) {
	if f.loadErr != nil {
		return board.Snapshot{}, false, f.loadErr
	}
	if f.snapshot == nil {
		return board.Snapshot{}, false, nil
	}
	return *f.snapshot, true, nil
}

type recordingSink struct {
	actions []string
	details []string
}

func (s *recordingSink) Publish(e events.DomainEvent) {
	s.actions = append(s.actions, e.GetAction())
	s.details = append(s.details, e.GetDetails())
}

type fixture struct {
	engine *board.Engine
	log    *changelog.Log
	sink   *recordingSink
	resets []func()
}

func newFixture(t *testing.T, api *fakeStateAPI) (*Controller, *fixture) {
	t.Helper()
	store := memory.NewStore()
	cfg := config.DefaultDomainConfig()
	sink := &recordingSink{}
	mem := shapememory.NewStore(store, "p1", sink)
	log := changelog.NewLog(store, cfg, "current_user")
	engine := board.NewEngine(cfg, store, mem, log, sink, zap.NewNop(), board.ProjectDetails{
		ID: "p1", Title: "Project", Subject: "Math",
	})

	f := &fixture{engine: engine, log: log, sink: sink}
	ctrl := NewController(engine, log, api, sink, zap.NewNop(), cfg)
	ctrl.SetScheduler(func(d time.Duration, fn func()) {
		assert.Equal(t, 3*time.Second, d)
		f.resets = append(f.resets, fn)
	})
	return ctrl, f
}

func TestPushSuccess(t *testing.T) {
	api := &fakeStateAPI{}
	ctrl, f := newFixture(t, api)
	_, err := f.engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	pushed, err := ctrl.Push(context.Background())
	require.NoError(t, err)
	assert.True(t, pushed)
	assert.Equal(t, StatusSuccess, ctrl.Status())

	require.Len(t, api.saved, 1)
	assert.Equal(t, "p1", api.saved[0].ProjectID)
	assert.Len(t, api.saved[0].Nodes, 1)

	assert.Contains(t, f.sink.actions, events.ActionBackendSyncSuccess)

	// terminal state resets to idle when the timer fires
	require.Len(t, f.resets, 1)
	f.resets[0]()
	assert.Equal(t, StatusIdle, ctrl.Status())
}

func TestPushFailure(t *testing.T) {
	api := &fakeStateAPI{saveErr: apperrors.NewExternalError("backend", assert.AnError)}
	ctrl, f := newFixture(t, api)

	pushed, err := ctrl.Push(context.Background())
	require.Error(t, err)
	assert.True(t, pushed)
	assert.Equal(t, StatusError, ctrl.Status())
	assert.Contains(t, f.sink.actions, events.ActionBackendSyncFailed)

	require.Len(t, f.resets, 1)
	f.resets[0]()
	assert.Equal(t, StatusIdle, ctrl.Status())
}

func TestPushNetworkErrorAction(t *testing.T) {
	api := &fakeStateAPI{saveErr: apperrors.NewNetworkError("connection refused", assert.AnError)}
	ctrl, f := newFixture(t, api)

	_, err := ctrl.Push(context.Background())
	require.Error(t, err)
	assert.Contains(t, f.sink.actions, events.ActionBackendSyncError)
	assert.NotContains(t, f.sink.actions, events.ActionBackendSyncFailed)
}

func TestPushWhileSyncingIsDropped(t *testing.T) {
	api := &fakeStateAPI{block: make(chan struct{})}
	ctrl, _ := newFixture(t, api)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ctrl.Push(context.Background())
	}()

	// wait for the first push to enter syncing
	require.Eventually(t, func() bool {
		return ctrl.Status() == StatusSyncing
	}, time.Second, time.Millisecond)

	pushed, err := ctrl.Push(context.Background())
	require.NoError(t, err)
	assert.False(t, pushed)

	close(api.block)
	<-done
	assert.Len(t, api.saved, 1)
}

func TestPullOverwritesWholesale(t *testing.T) {
	remote := board.Snapshot{
		Nodes: []entities.Node{{ID: "r1", Type: entities.TypeDefault, Data: entities.NodeData{Label: "Remote"}}},
		Edges: []entities.Edge{{ID: "e1", Source: "r1", Target: "r1"}},
		ShapeMemory: map[string]entities.ShapeMemoryRecord{
			"r1": {NodeID: "r1", Label: "Remote"},
		},
		ChangeLogs: []changelog.Entry{
			{ID: "1_aaaaaaaaa", Action: "shape_created", Details: "remote history", User: "current_user"},
		},
		ProjectID: "p1",
	}
	api := &fakeStateAPI{snapshot: &remote}
	ctrl, f := newFixture(t, api)
	_, err := f.engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	require.NoError(t, ctrl.Pull(context.Background()))

	nodes := f.engine.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "r1", nodes[0].ID)

	entries, err := f.log.List("p1")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "remote history", entries[0].Details)

	assert.Contains(t, f.sink.actions, events.ActionBackendLoadSuccess)
}

func TestPullFailureLeavesLocalStateUntouched(t *testing.T) {
	api := &fakeStateAPI{loadErr: apperrors.NewNetworkError("connection refused", assert.AnError)}
	ctrl, f := newFixture(t, api)
	local, err := f.engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)

	require.Error(t, ctrl.Pull(context.Background()))

	nodes := f.engine.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, local.ID, nodes[0].ID)
	assert.Contains(t, f.sink.actions, events.ActionBackendLoadError)
}

func TestPushPullRoundTrip(t *testing.T) {
	api := &fakeStateAPI{}
	ctrl, f := newFixture(t, api)
	a, err := f.engine.AddShape(entities.KindRectangle)
	require.NoError(t, err)
	b, err := f.engine.AddShape(entities.KindCircle)
	require.NoError(t, err)
	_, err = f.engine.Connect(a.ID, b.ID)
	require.NoError(t, err)

	pushed, err := ctrl.Push(context.Background())
	require.NoError(t, err)
	require.True(t, pushed)
	require.Len(t, api.saved, 1)
	api.snapshot = &api.saved[0]

	// wipe local state, then pull the pushed snapshot back
	require.NoError(t, f.engine.ReplaceBoard(nil, nil))
	require.NoError(t, ctrl.Pull(context.Background()))

	nodes := f.engine.Nodes()
	assert.Len(t, nodes, 2)
	assert.Len(t, f.engine.Edges(), 1)

	mem := map[string]bool{}
	for _, n := range nodes {
		mem[n.ID] = true
	}
	assert.True(t, mem[a.ID])
	assert.True(t, mem[b.ID])
}
