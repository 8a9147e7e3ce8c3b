package models

// ContactSubmission is the public contact form payload.
type ContactSubmission struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	StudyField string `json:"studyField"`
	Country    string `json:"country"`
	Message    string `json:"message"`
}

// Contact form error codes
const (
	ContactValidationError = "VALIDATION_ERROR"
	ContactInvalidEmail    = "INVALID_EMAIL"
	ContactServerError     = "SERVER_ERROR"
	ContactRateLimited     = "RATE_LIMITED"
)

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
