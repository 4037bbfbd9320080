package board

import (
	"nexusboard/domain/core/entities"
	"nexusboard/domain/core/valueobjects"
	"nexusboard/infrastructure/persistence/changelog"
)

// ProjectDetails identifies the project the board belongs to.
type ProjectDetails struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
}

// UploadedFile is metadata for a file attached to the project through the
// files endpoint. Content lives server-side.
type UploadedFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileType string `json:"fileType"`
	Size     int64  `json:"size"`
}

// ImportedFile is a study material ingested through the import endpoint,
// with its extracted text and structured-item counts.
type ImportedFile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	FileType      string          `json:"fileType"`
	ExtractedText string          `json:"extractedText"`
	Structured    StructuredItems `json:"structuredItems"`
}

// StructuredItems counts the study structures recognized in an imported file.
type StructuredItems struct {
	Terms       int `json:"terms"`
	Definitions int `json:"definitions"`
	Examples    int `json:"examples"`
}

// ImportFileTypes are the categories an imported file can be assigned to.
var ImportFileTypes = []string{"test", "practice", "notes"}

// Snapshot is the full serialized project state pushed to and pulled from the
// backend. The remote copy is authoritative on pull: it overwrites local state
// wholesale, no field merge.
type Snapshot struct {
	Nodes          []entities.Node                        `json:"nodes"`
	Edges          []entities.Edge                        `json:"edges"`
	ShapeMemory    map[string]entities.ShapeMemoryRecord  `json:"shapeMemory"`
	NodePositions  map[string]valueobjects.Position       `json:"nodePositions"`
	ChangeLogs     []changelog.Entry                      `json:"changeLogs"`
	UploadedFiles  []UploadedFile                         `json:"uploadedFiles"`
	ImportFiles    []ImportedFile                         `json:"importFiles"`
	Timestamp      string                                 `json:"timestamp"`
	ProjectID      string                                 `json:"projectId"`
	ProjectTitle   string                                 `json:"projectTitle"`
	ProjectSubject string                                 `json:"projectSubject"`
}

// ExportDocument is the downloadable project file.
type ExportDocument struct {
	Nodes          []entities.Node                       `json:"nodes"`
	Edges          []entities.Edge                       `json:"edges"`
	UploadedFiles  []UploadedFile                        `json:"uploadedFiles"`
	ProjectDetails ProjectDetails                        `json:"projectDetails"`
	ShapeMemory    map[string]entities.ShapeMemoryRecord `json:"shapeMemory"`
	NodePositions  map[string]valueobjects.Position      `json:"nodePositions"`
	ChangeLogs     []changelog.Entry                     `json:"changeLogs"`
}

// ChangeType discriminates the deltas in a node or edge change batch.
type ChangeType string

const (
	ChangePosition   ChangeType = "position"
	ChangeDimensions ChangeType = "dimensions"
	ChangeRemove     ChangeType = "remove"
	ChangeSelect     ChangeType = "select"
)

// NodeChange is one delta in a node change batch. Position deltas carry a
// Dragging flag: in-flight drags update visual state only, the completed drag
// decides whether a move is recorded.
type NodeChange struct {
	Type     ChangeType
	NodeID   string
	Position *valueobjects.Position
	Dragging bool
	Width    float64
	Height   float64
	Selected bool
}

// EdgeChange is one delta in an edge change batch.
type EdgeChange struct {
	Type   ChangeType
	EdgeID string
}
