package response

// StandardApiResponse is the envelope every JSON endpoint writes
type StandardApiResponse struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	RequestID  string      `json:"request_id,omitempty"` // echoes X-Request-ID
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"` // validation or error details
}
