package apiclient

import "context"

// Project is a board owned by the authenticated user.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

type projectResponse struct {
	envelope
	Project Project `json:"project"`
}

type projectListResponse struct {
	envelope
	Projects []Project `json:"projects"`
}

// CreateProject creates a board for the authenticated user.
func (c *Client) CreateProject(ctx context.Context, title, subject, description string) (Project, error) {
	var resp projectResponse
	err := c.postJSON(ctx, "/api/projects", map[string]string{
		"title":       title,
		"subject":     subject,
		"description": description,
	}, &resp)
	if err != nil {
		return Project{}, err
	}
	return resp.Project, nil
}

// ListProjects returns the authenticated user's boards.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var resp projectListResponse
	if err := c.getJSON(ctx, "/api/projects", &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}
