// Package ports declares the remote capabilities the application layer
// depends on. Implementations live in infrastructure/apiclient.
package ports

import (
	"context"

	"nexusboard/application/board"
	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
)

// StateAPI persists and retrieves full project snapshots on the backend.
type StateAPI interface {
	SaveProjectState(ctx context.Context, snapshot board.Snapshot) error
	// LoadProjectState returns the latest snapshot for a project; the second
	// return is false when the backend holds none.
	LoadProjectState(ctx context.Context, projectID string) (board.Snapshot, bool, error)
}

// AutofillRequest carries the selected node's content to the autofill
// endpoint.
type AutofillRequest struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AutofillResult is the generated summary, plus an expanded description when
// the model produced one.
type AutofillResult struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// NotesRequest asks for the selected node's notes to be developed further.
type NotesRequest struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	AISummary   string `json:"aiSummary"`
}

// NotesResult is the developed notes text.
type NotesResult struct {
	Notes string `json:"notes"`
}

// StudyGuideRequest carries the imported study materials.
type StudyGuideRequest struct {
	Files []board.ImportedFile `json:"files"`
}

// StudyGuideResult is a full replacement board generated from the materials.
type StudyGuideResult struct {
	Nodes []entities.Node `json:"nodes"`
	Edges []entities.Edge `json:"edges"`
}

// TestRequest carries the materials a practice test is generated from.
type TestRequest struct {
	Files []board.ImportedFile `json:"files"`
}

// TestResult is the generated test content.
type TestResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ArrangeRequest carries the current board for layout.
type ArrangeRequest struct {
	Nodes []entities.Node `json:"nodes"`
	Edges []entities.Edge `json:"edges"`
}

// ArrangeResult maps node ids to their new positions.
type ArrangeResult struct {
	Positions map[string]valueobjects.Position `json:"positions"`
}

// ToolRequest invokes a named AI tool with free-form parameters.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResult is the tool's output.
type ToolResult struct {
	Output string `json:"output"`
}

// AIAPI is the remote AI generation surface. Every call is a single request;
// there are no retries.
type AIAPI interface {
	Autofill(ctx context.Context, req AutofillRequest) (AutofillResult, error)
	DevelopNotes(ctx context.Context, req NotesRequest) (NotesResult, error)
	StudyGuide(ctx context.Context, req StudyGuideRequest) (StudyGuideResult, error)
	GenerateTest(ctx context.Context, req TestRequest) (TestResult, error)
	Arrange(ctx context.Context, req ArrangeRequest) (ArrangeResult, error)
	ExecuteTool(ctx context.Context, req ToolRequest) (ToolResult, error)
}

// FileUpload is one file submitted for import.
type FileUpload struct {
	Name     string
	FileType string
	Content  []byte
}

// FileImportResult is the backend's per-file ingest response.
type FileImportResult struct {
	DatabaseRecordID    int64                 `json:"database_record_id"`
	FileID              string                `json:"file_id"`
	StorageType         string                `json:"storage_type"`
	ExtractedText       string                `json:"extracted_text"`
	ExtractedTextLength int                   `json:"extracted_text_length"`
	StructuredItems     board.StructuredItems `json:"structured_items"`
}

// FileAPI ingests study materials on the backend.
type FileAPI interface {
	ImportFile(ctx context.Context, upload FileUpload) (FileImportResult, error)
}
