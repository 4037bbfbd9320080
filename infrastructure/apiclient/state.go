package apiclient

import (
	"context"

	"nexusboard/application/board"
	"nexusboard/application/ports"
	apperrors "nexusboard/pkg/errors"
)

var _ ports.StateAPI = (*Client)(nil)

type saveStateResponse struct {
	envelope
}

type loadStateResponse struct {
	envelope
	State *board.Snapshot `json:"state"`
}

// SaveProjectState pushes a full snapshot; the backend keeps the latest per
// project.
func (c *Client) SaveProjectState(ctx context.Context, snapshot board.Snapshot) error {
	var resp saveStateResponse
	return c.postJSON(ctx, "/api/project-state/save", snapshot, &resp)
}

// LoadProjectState fetches the latest snapshot for a project. The second
// return is false when the backend holds none.
func (c *Client) LoadProjectState(ctx context.Context, projectID string) (board.Snapshot, bool, error) {
	var resp loadStateResponse
	err := c.getJSON(ctx, "/api/project-state/load/"+projectID, &resp)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return board.Snapshot{}, false, nil
		}
		return board.Snapshot{}, false, err
	}
	if resp.State == nil {
		return board.Snapshot{}, false, nil
	}
	return *resp.State, true, nil
}
