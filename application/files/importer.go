// Package files ingests study materials through the import endpoint with
// per-item failure isolation: one bad file never aborts the rest.
package files

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nexusboard/application/board"
	"nexusboard/application/ports"
	"nexusboard/domain/events"
	apperrors "nexusboard/pkg/errors"
)

// Importer drives multi-file imports against the backend.
type Importer struct {
	engine    *board.Engine
	api       ports.FileAPI
	publisher events.Publisher
	logger    *zap.Logger
}

// NewImporter wires the importer.
func NewImporter(engine *board.Engine, api ports.FileAPI, publisher events.Publisher, logger *zap.Logger) *Importer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{engine: engine, api: api, publisher: publisher, logger: logger}
}

// Import submits each upload independently. Successes are committed to the
// working set as they land; the returned error, if any, names only the files
// that failed.
func (i *Importer) Import(ctx context.Context, uploads []ports.FileUpload) ([]board.ImportedFile, error) {
	if len(uploads) == 0 {
		return nil, apperrors.NewValidationError("no files to import")
	}

	var imported []board.ImportedFile
	var failed []string

	for _, upload := range uploads {
		result, err := i.api.ImportFile(ctx, upload)
		if err != nil {
			i.logger.Warn("file import failed", zap.String("file", upload.Name), zap.Error(err))
			i.publisher.Publish(events.NewOperationEvent(upload.Name, events.ActionFileImportFailed,
				fmt.Sprintf("Import failed for %q: %s", upload.Name, importErrMessage(err))))
			failed = append(failed, upload.Name)
			continue
		}

		fileType := upload.FileType
		if fileType == "" {
			fileType = "notes"
		}
		file := board.ImportedFile{
			ID:            result.FileID,
			Name:          upload.Name,
			FileType:      fileType,
			ExtractedText: result.ExtractedText,
			Structured:    result.StructuredItems,
		}
		i.engine.AddImportedFile(file)
		imported = append(imported, file)

		i.publisher.Publish(events.NewOperationEvent(file.ID, events.ActionFileImported,
			fmt.Sprintf("Imported file %q (%d characters, %d terms, %d definitions)",
				upload.Name, result.ExtractedTextLength, result.StructuredItems.Terms, result.StructuredItems.Definitions)))
	}

	if len(failed) > 0 {
		return imported, apperrors.NewExternalError("file import", nil).WithDetails(map[string]interface{}{
			"failed_files": failed,
		})
	}
	return imported, nil
}

// SetFileType reassigns an imported file's category.
func (i *Importer) SetFileType(fileID, fileType string) error {
	return i.engine.SetImportFileType(fileID, fileType)
}

func importErrMessage(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
