package events

// Action tags for operational outcomes. These are emitted as OperationEvents
// by the sync controller, the file importer, and the AI gateway.
const (
	ActionExport = "project_exported"

	ActionBackendSyncSuccess = "backend_sync_success"
	ActionBackendSyncFailed  = "backend_sync_failed"
	ActionBackendSyncError   = "backend_sync_error"
	ActionBackendLoadSuccess = "backend_load_success"
	ActionBackendLoadError   = "backend_load_error"

	ActionFileImported     = "file_imported"
	ActionFileImportFailed = "file_import_failed"
	ActionFileTypeChanged  = "file_type_changed"
	ActionFileUploaded     = "file_uploaded"
	ActionFileDeleted      = "file_deleted"

	ActionAutofillCompleted      = "ai_autofill_completed"
	ActionAutofillFailed         = "ai_autofill_failed"
	ActionNotesDeveloped         = "notes_developed"
	ActionNotesDevelopmentFailed = "notes_development_failed"
	ActionStudyGuideGenerated    = "study_guide_generated"
	ActionStudyGuideFailed       = "study_guide_generation_failed"
	ActionTestGenerated          = "test_generated"
	ActionTestGenerationFailed   = "test_generation_failed"
	ActionArrangeCompleted       = "ai_arrange_completed"
	ActionArrangeFailed          = "ai_arrange_failed"
	ActionAIToolExecuted         = "ai_tool_executed"
	ActionAIToolFailed           = "ai_tool_failed"
	ActionAIToolError            = "ai_tool_error"
)
