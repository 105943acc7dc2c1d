package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the body of every failed request. Details is either a
// message or a map of field names to messages.
type ErrorResponse struct {
	Status  string      `json:"status"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func Message(msg string) Response {
	return Response{
		Status:  "success",
		Message: msg,
	}
}

func ErrorResponseWithDetails(err string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}
