package apiclient

import (
	"context"

	"nexusboard/application/ports"
)

var _ ports.AIAPI = (*Client)(nil)

type autofillResponse struct {
	envelope
	ports.AutofillResult
}

func (c *Client) Autofill(ctx context.Context, req ports.AutofillRequest) (ports.AutofillResult, error) {
	var resp autofillResponse
	if err := c.postJSON(ctx, "/autofill-info", req, &resp); err != nil {
		return ports.AutofillResult{}, err
	}
	return resp.AutofillResult, nil
}

type notesResponse struct {
	envelope
	ports.NotesResult
}

func (c *Client) DevelopNotes(ctx context.Context, req ports.NotesRequest) (ports.NotesResult, error) {
	var resp notesResponse
	if err := c.postJSON(ctx, "/generate-notes", req, &resp); err != nil {
		return ports.NotesResult{}, err
	}
	return resp.NotesResult, nil
}

type studyGuideResponse struct {
	envelope
	ports.StudyGuideResult
}

func (c *Client) StudyGuide(ctx context.Context, req ports.StudyGuideRequest) (ports.StudyGuideResult, error) {
	var resp studyGuideResponse
	if err := c.postJSON(ctx, "/generate-study-guide", req, &resp); err != nil {
		return ports.StudyGuideResult{}, err
	}
	return resp.StudyGuideResult, nil
}

type testResponse struct {
	envelope
	ports.TestResult
}

func (c *Client) GenerateTest(ctx context.Context, req ports.TestRequest) (ports.TestResult, error) {
	var resp testResponse
	if err := c.postJSON(ctx, "/generate-test", req, &resp); err != nil {
		return ports.TestResult{}, err
	}
	return resp.TestResult, nil
}

type arrangeResponse struct {
	envelope
	ports.ArrangeResult
}

func (c *Client) Arrange(ctx context.Context, req ports.ArrangeRequest) (ports.ArrangeResult, error) {
	var resp arrangeResponse
	if err := c.postJSON(ctx, "/ai-arrange", req, &resp); err != nil {
		return ports.ArrangeResult{}, err
	}
	return resp.ArrangeResult, nil
}

type toolResponse struct {
	envelope
	ports.ToolResult
}

func (c *Client) ExecuteTool(ctx context.Context, req ports.ToolRequest) (ports.ToolResult, error) {
	var resp toolResponse
	if err := c.postJSON(ctx, "/api/ai-tools/execute", req, &resp); err != nil {
		return ports.ToolResult{}, err
	}
	return resp.ToolResult, nil
}
