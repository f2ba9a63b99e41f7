package models

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// FieldErrorResponse is the body of every 400 carrying per-field
// validation failures.
type FieldErrorResponse struct {
	Errors []FieldErrorMessage `json:"errors"`
}

// FieldErrorMessage pairs the stable error key with its mapped human
// sentence so clients can localize from the key or display the message
// as-is.
type FieldErrorMessage struct {
	Field   string `json:"field"`
	Key     string `json:"key"`
	Message string `json:"message"`
}
