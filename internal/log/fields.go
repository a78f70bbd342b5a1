package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldFile      = "file"
	FieldFormat    = "format"
	FieldBatchID   = "batch_id"
	FieldImported  = "imported"
	FieldErrors    = "errors"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldCategory  = "category"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentImporter = "importer"
	ComponentStore    = "store"
	ComponentReport   = "report"
	ComponentAMQP     = "amqp"
)
