package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid email, username or password",
	}

	ErrAccountDisabled = ErrorResponse{
		Status:  "error",
		Error:   "account_disabled",
		Details: "This account is deactivated",
	}

	ErrNotFound = ErrorResponse{
		Status:  "error",
		Error:   "not_found",
		Details: "Resource not found",
	}

	ErrConflict = ErrorResponse{
		Status:  "error",
		Error:   "conflict",
		Details: "A record with the same unique value already exists",
	}

	ErrInUse = ErrorResponse{
		Status:  "error",
		Error:   "in_use",
		Details: "The record is still referenced by other records",
	}

	ErrRateLimited = ErrorResponse{
		Status:  "error",
		Error:   "rate_limited",
		Details: "Too many requests, try again later",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)

func Validation(details interface{}) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   "validation_failed",
		Details: details,
	}
}
