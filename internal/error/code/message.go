package code

// Error code to message mapping
var codeMessageMap = map[int]string{
	// Common error codes
	ErrSuccess:      "success",
	ErrUnknown:      "unknown error",
	ErrBind:         "request binding error",
	ErrValidation:   "request validation error",
	ErrInvalidID:    "invalid device id",
	ErrInvalidRange: "invalid range filter",

	// Device error codes
	ErrDeviceNotFound:     "device not found",
	ErrDeviceAlreadyExist: "device already exists",

	// Reading error codes
	ErrReadingInvalid:    "invalid reading",
	ErrReadingScoreRange: "score must be within [0,1]",

	// Store error codes
	ErrDatabase:       "telemetry store error",
	ErrRecordNotFound: "record not found",
}

// Error code to HTTP status mapping
var codeStatusMap = map[int]int{
	ErrSuccess:      StatusOK,
	ErrUnknown:      StatusInternalServerError,
	ErrBind:         StatusBadRequest,
	ErrValidation:   StatusBadRequest,
	ErrInvalidID:    StatusBadRequest,
	ErrInvalidRange: StatusBadRequest,

	ErrDeviceNotFound:     StatusNotFound,
	ErrDeviceAlreadyExist: StatusBadRequest,

	ErrReadingInvalid:    StatusBadRequest,
	ErrReadingScoreRange: StatusBadRequest,

	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage returns the message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
