package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpDuplicateRecordError = "duplicate_record"
	HttpArchiveDisabledError = "archive_disabled"
)

// ErrorResponse is the error response body for feed and query errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
