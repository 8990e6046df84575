package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx answer of the HTTP API.
type ErrorResponse struct {
	Message      string    `json:"message" example:"failed to fetch ranking"`
	ErrorDetails string    `json:"error,omitempty" example:"kiwoom API error [401] code=8005: token invalid"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the response can travel through gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
