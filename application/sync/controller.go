// Package sync pushes and pulls full project snapshots against the backend.
// Local writes stay synchronous and immediate; the remote push is an explicit
// save with at most one request in flight.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexusboard/application/board"
	"nexusboard/application/ports"
	"nexusboard/domain/config"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/changelog"
	apperrors "nexusboard/pkg/errors"
)

// Status is the controller's observable state. Terminal states auto-reset to
// idle after a fixed delay.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Controller drives the idle → syncing → {success, error} → idle machine.
type Controller struct {
	engine    *board.Engine
	log       *changelog.Log
	api       ports.StateAPI
	publisher events.Publisher
	logger    *zap.Logger

	resetDelay time.Duration
	schedule   func(d time.Duration, f func())

	mu     sync.Mutex
	status Status
}

// NewController wires the sync machine for one project.
func NewController(
	engine *board.Engine,
	log *changelog.Log,
	api ports.StateAPI,
	publisher events.Publisher,
	logger *zap.Logger,
	cfg *config.DomainConfig,
) *Controller {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		engine:     engine,
		log:        log,
		api:        api,
		publisher:  publisher,
		logger:     logger,
		resetDelay: cfg.SyncResetDelay,
		schedule:   func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		status:     StatusIdle,
	}
}

// SetScheduler overrides the reset timer. Tests only.
func (c *Controller) SetScheduler(schedule func(d time.Duration, f func())) {
	c.schedule = schedule
}

// Status returns the current machine state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Push serializes the full project snapshot and saves it on the backend. A
// push requested while one is in flight is dropped, not queued; the first
// return reports whether this call actually pushed.
func (c *Controller) Push(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.status == StatusSyncing {
		c.mu.Unlock()
		return false, nil
	}
	c.status = StatusSyncing
	c.mu.Unlock()

	snap, err := c.engine.Snapshot()
	if err != nil {
		c.finish(StatusError, events.ActionBackendSyncError,
			fmt.Sprintf("Backend sync error: %s", errMessage(err)))
		return true, err
	}

	if err := c.api.SaveProjectState(ctx, snap); err != nil {
		action := events.ActionBackendSyncFailed
		detail := fmt.Sprintf("Backend sync failed: %s", errMessage(err))
		if apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
			action = events.ActionBackendSyncError
			detail = fmt.Sprintf("Backend sync error: %s", errMessage(err))
		}
		c.logger.Warn("backend sync failed", zap.String("project_id", snap.ProjectID), zap.Error(err))
		c.finish(StatusError, action, detail)
		return true, err
	}

	c.logger.Info("backend sync complete", zap.String("project_id", snap.ProjectID))
	c.finish(StatusSuccess, events.ActionBackendSyncSuccess, "Project data synced to backend")
	return true, nil
}

// Pull fetches the latest backend snapshot and overwrites local state
// wholesale. On any failure local state is untouched.
func (c *Controller) Pull(ctx context.Context) error {
	projectID := c.engine.Project().ID

	snap, found, err := c.api.LoadProjectState(ctx, projectID)
	if err != nil {
		c.logger.Warn("backend load failed", zap.String("project_id", projectID), zap.Error(err))
		c.publisher.Publish(events.NewOperationEvent(projectID, events.ActionBackendLoadError,
			fmt.Sprintf("Backend load error: %s", errMessage(err))))
		return err
	}
	if !found {
		err := apperrors.NewNotFoundError(fmt.Sprintf("project state for %s", projectID))
		c.publisher.Publish(events.NewOperationEvent(projectID, events.ActionBackendLoadError,
			fmt.Sprintf("Backend load error: %s", err.Message)))
		return err
	}

	if err := c.engine.ApplySnapshot(snap); err != nil {
		return err
	}
	// the remote change log is authoritative too
	if err := c.log.Replace(projectID, snap.ChangeLogs); err != nil {
		return err
	}

	c.publisher.Publish(events.NewOperationEvent(projectID, events.ActionBackendLoadSuccess,
		"Project data loaded from backend"))
	return nil
}

func (c *Controller) finish(status Status, action, detail string) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	c.publisher.Publish(events.NewOperationEvent(c.engine.Project().ID, action, detail))

	c.schedule(c.resetDelay, func() {
		c.mu.Lock()
		if c.status == status {
			c.status = StatusIdle
		}
		c.mu.Unlock()
	})
}

func errMessage(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
