package errors

// ErrorCode is a stable machine-readable error identifier returned to clients
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004

	// Recording session
	ErrorCode_SESSION_ALREADY_ACTIVE ErrorCode = 2000
	ErrorCode_NO_ACTIVE_SESSION      ErrorCode = 2001
	ErrorCode_SESSION_INVALID_STATE  ErrorCode = 2002

	// Meeting store
	ErrorCode_MEETING_NOT_FOUND   ErrorCode = 3000
	ErrorCode_DUPLICATE_MEETING   ErrorCode = 3001
	ErrorCode_PERSISTENCE_FAILED  ErrorCode = 3002
	ErrorCode_PERSISTENCE_CORRUPT ErrorCode = 3003

	// Analysis
	ErrorCode_ANALYSIS_FAILED ErrorCode = 4000

	// Auth
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = 5000
	ErrorCode_AUTH_USER_ALREADY_EXISTS ErrorCode = 5001
	ErrorCode_AUTH_USER_NOT_FOUND      ErrorCode = 5002
	ErrorCode_AUTH_OAUTH_FAILED        ErrorCode = 5003
	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = 5004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 6000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_SESSION_ALREADY_ACTIVE:     "SESSION_ALREADY_ACTIVE",
	ErrorCode_NO_ACTIVE_SESSION:          "NO_ACTIVE_SESSION",
	ErrorCode_SESSION_INVALID_STATE:      "SESSION_INVALID_STATE",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_DUPLICATE_MEETING:          "DUPLICATE_MEETING",
	ErrorCode_PERSISTENCE_FAILED:         "PERSISTENCE_FAILED",
	ErrorCode_PERSISTENCE_CORRUPT:        "PERSISTENCE_CORRUPT",
	ErrorCode_ANALYSIS_FAILED:            "ANALYSIS_FAILED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:   "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:   "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
