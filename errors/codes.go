package errors

// ErrorCode is the machine-readable code carried by every AppError
type ErrorCode int32

const (
	ErrorCode_HTTP_OK           ErrorCode = 0
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1006

	ErrorCode_INTEGRATION_AUTH_FAILED         ErrorCode = 3000
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 3001
	ErrorCode_INTEGRATION_NOT_CONFIGURED      ErrorCode = 3002

	ErrorCode_AI_MALFORMED_RESPONSE ErrorCode = 4000
	ErrorCode_AI_SCHEMA_VIOLATION   ErrorCode = 4001

	ErrorCode_TRANSCRIPT_ALREADY_SYNCED    ErrorCode = 5000
	ErrorCode_TRANSCRIPT_TOO_SHORT         ErrorCode = 5001
	ErrorCode_TRANSCRIPT_INVALID_SIGNATURE ErrorCode = 5002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_INTEGRATION_AUTH_FAILED:         "INTEGRATION_AUTH_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_INTEGRATION_NOT_CONFIGURED:      "INTEGRATION_NOT_CONFIGURED",
	ErrorCode_AI_MALFORMED_RESPONSE:           "AI_MALFORMED_RESPONSE",
	ErrorCode_AI_SCHEMA_VIOLATION:             "AI_SCHEMA_VIOLATION",
	ErrorCode_TRANSCRIPT_ALREADY_SYNCED:       "TRANSCRIPT_ALREADY_SYNCED",
	ErrorCode_TRANSCRIPT_TOO_SHORT:            "TRANSCRIPT_TOO_SHORT",
	ErrorCode_TRANSCRIPT_INVALID_SIGNATURE:    "TRANSCRIPT_INVALID_SIGNATURE",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
