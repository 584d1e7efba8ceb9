package errors

import "net/http"

var (
	ErrTypeError = New(
		"TYPE_ERROR",
		"Contract violation",
		http.StatusUnprocessableEntity,
	)

	ErrFeatureNotFound = New(
		"FEATURE_NOT_FOUND",
		"Feature not found",
		http.StatusNotFound,
	)

	ErrInvalidPath = New(
		"INVALID_PATH",
		"Invalid vertex path",
		http.StatusBadRequest,
	)

	ErrDuplicateVertex = New(
		"DUPLICATE_VERTEX",
		"Ring contains the same vertex twice",
		http.StatusBadRequest,
	)

	ErrInvalidGeometry = New(
		"INVALID_GEOMETRY",
		"Invalid geometry",
		http.StatusBadRequest,
	)

	ErrInvalidValue = New(
		"INVALID_VALUE",
		"Invalid property value",
		http.StatusBadRequest,
	)

	ErrPropertyNotFound = New(
		"PROPERTY_NOT_FOUND",
		"Property not found",
		http.StatusNotFound,
	)

	ErrDuplicateProperty = New(
		"DUPLICATE_PROPERTY",
		"Property already declared in type hierarchy",
		http.StatusConflict,
	)

	ErrEmptyEnum = New(
		"EMPTY_ENUM",
		"Enumeration has no values",
		http.StatusBadRequest,
	)

	ErrInvalidRange = New(
		"INVALID_RANGE",
		"Minimum is greater than maximum",
		http.StatusBadRequest,
	)

	ErrOverlappingValue = New(
		"OVERLAPPING_VALUE",
		"Existence interval overlaps an existing value",
		http.StatusConflict,
	)

	ErrTypeNotFound = New(
		"TYPE_NOT_FOUND",
		"Object type not found",
		http.StatusNotFound,
	)

	ErrMissingHost = New(
		"MISSING_HOST",
		"Editor has no map host",
		http.StatusInternalServerError,
	)

	ErrSourceNotFound = New(
		"SOURCE_NOT_FOUND",
		"Map source not found",
		http.StatusNotFound,
	)

	ErrLayerNotFound = New(
		"LAYER_NOT_FOUND",
		"Map layer not found",
		http.StatusNotFound,
	)

	ErrAlreadyExists = New(
		"ALREADY_EXISTS",
		"Map source or layer already exists",
		http.StatusConflict,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Editor session not found",
		http.StatusNotFound,
	)

	ErrUnknownAction = New(
		"UNKNOWN_ACTION",
		"Unknown editor action",
		http.StatusBadRequest,
	)

	ErrActionNotAvailable = New(
		"ACTION_NOT_AVAILABLE",
		"Action is not available for the current selection",
		http.StatusConflict,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
