package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Response Types ---

// MessageResponse is the data of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message" example:"password has been reset successfully"`
}

// URLResponse carries a presigned download URL.
type URLResponse struct {
	URL string `json:"url" example:"https://vetcare-attachments.s3.amazonaws.com/tenants/t1/patients/p1/a1.pdf?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// ListFailureResponse is a list error that still carries an empty data array.
type ListFailureResponse struct {
	Success bool          `json:"success" example:"false"`
	Data    []interface{} `json:"data"`
	Error   *APIError     `json:"error"`
}
