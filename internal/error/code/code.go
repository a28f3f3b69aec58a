package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: malformed request.
	StatusBadRequest = 400
	// StatusNotFound - 404: resource does not exist.
	StatusNotFound = 404
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrInvalidID - 400: malformed device id.
	ErrInvalidID
	// ErrInvalidRange - 400: range filter with min above max.
	ErrInvalidRange
)

// Device error codes (102xxx).
const (
	// ErrDeviceNotFound - 404: device does not exist.
	ErrDeviceNotFound int = iota + 102000
	// ErrDeviceAlreadyExist - 400: device already exists.
	ErrDeviceAlreadyExist
)

// Reading error codes (103xxx).
const (
	// ErrReadingInvalid - 400: reading failed validation.
	ErrReadingInvalid int = iota + 103000
	// ErrReadingScoreRange - 400: score outside [0,1].
	ErrReadingScoreRange
)

// Store error codes (105xxx).
const (
	// ErrDatabase - 500: telemetry store error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record does not exist.
	ErrRecordNotFound
)
