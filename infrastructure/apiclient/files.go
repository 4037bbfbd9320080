package apiclient

import (
	"context"

	"nexusboard/application/board"
	"nexusboard/application/ports"
)

var _ ports.FileAPI = (*Client)(nil)

type importResponse struct {
	envelope
	ports.FileImportResult
}

// ImportFile submits one study material for server-side text extraction.
func (c *Client) ImportFile(ctx context.Context, upload ports.FileUpload) (ports.FileImportResult, error) {
	var resp importResponse
	err := c.postMultipart(ctx, "/import-file", map[string]string{
		"file_type": upload.FileType,
	}, "file", upload.Name, upload.Content, &resp)
	if err != nil {
		return ports.FileImportResult{}, err
	}
	return resp.FileImportResult, nil
}

type uploadFileResponse struct {
	envelope
	File board.UploadedFile `json:"file"`
}

// UploadFile attaches a file to a project and returns its metadata.
func (c *Client) UploadFile(ctx context.Context, projectID, name string, content []byte) (board.UploadedFile, error) {
	var resp uploadFileResponse
	err := c.postMultipart(ctx, "/api/files", map[string]string{
		"project_id": projectID,
	}, "file", name, content, &resp)
	if err != nil {
		return board.UploadedFile{}, err
	}
	return resp.File, nil
}

type listFilesResponse struct {
	envelope
	Files []board.UploadedFile `json:"files"`
}

// ListFiles returns the uploaded-file metadata for a project.
func (c *Client) ListFiles(ctx context.Context, projectID string) ([]board.UploadedFile, error) {
	var resp listFilesResponse
	if err := c.getJSON(ctx, "/api/files?project_id="+projectID, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// DeleteFile removes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	var resp envelope
	return c.deleteJSON(ctx, "/api/files/"+fileID, &resp)
}
