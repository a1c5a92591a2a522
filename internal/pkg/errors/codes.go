package errors

import "net/http"

var (
	ErrNetwork = New(
		"NETWORK_ERROR",
		"Open-geodata service request failed",
		http.StatusBadGateway,
	)

	ErrTimeout = New(
		"TIMEOUT_ERROR",
		"Open-geodata query timed out",
		http.StatusGatewayTimeout,
	)

	// ErrMalformedResponse никогда не возвращается наружу: клиент деградирует к пустому результату
	ErrMalformedResponse = New(
		"MALFORMED_RESPONSE",
		"Response is missing the expected shape",
		http.StatusBadGateway,
	)

	// ErrNoPosition - запрос без позиции пользователя, обрабатывается как no-op
	ErrNoPosition = New(
		"NO_POSITION",
		"User position is not set",
		http.StatusConflict,
	)

	ErrUnknownLayer = New(
		"UNKNOWN_LAYER",
		"Unknown layer",
		http.StatusNotFound,
	)

	ErrFilterCooldown = New(
		"FILTER_COOLDOWN",
		"Filter was applied recently, try again later",
		http.StatusTooManyRequests,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Session not found",
		http.StatusNotFound,
	)

	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"Place not found",
		http.StatusNotFound,
	)

	ErrEntityStore = New(
		"ENTITY_STORE_ERROR",
		"Custom entity store request failed",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
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
