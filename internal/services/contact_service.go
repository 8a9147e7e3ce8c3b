package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"studyabroad-backend/internal/content"
	"studyabroad-backend/internal/metrics"
	"studyabroad-backend/internal/models"

	"go.uber.org/zap"
)

const (
	msgContactThanks   = "Thank you for reaching out! We will get back to you soon."
	msgContactRequired = "Please fill in all required fields."
	msgContactEmail    = "Please enter a valid email address."
	msgContactFailed   = "Something went wrong. Please try again later."
	msgContactLimited  = "Too many submissions. Please try again later."

	DefaultContactRateLimit = 10
	contactRateWindow       = time.Hour
	maxContactField         = 5000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactService turns public form submissions into NEW leads.
type ContactService struct {
	Leads     LeadStore
	Limiter   RateLimiter
	Publisher LeadPublisher
	RateLimit int
	Log       *zap.Logger
}

func NewContactService(leads LeadStore, limiter RateLimiter, publisher LeadPublisher, rateLimit int, log *zap.Logger) *ContactService {
	if rateLimit <= 0 {
		rateLimit = DefaultContactRateLimit
	}
	return &ContactService{
		Leads:     leads,
		Limiter:   limiter,
		Publisher: publisher,
		RateLimit: rateLimit,
		Log:       log,
	}
}

// Submit never returns an error: the outcome is encoded in the response so the
// public form can render it.
func (s *ContactService) Submit(ctx context.Context, sub models.ContactSubmission, ip string) models.ContactResponse {
	if s.Limiter != nil && ip != "" {
		if !s.Limiter.Allow(ctx, "ratelimit:contact:"+ip, s.RateLimit, contactRateWindow) {
			metrics.ContactSubmissions.WithLabelValues("rate_limited").Inc()
			return models.ContactResponse{Message: msgContactLimited, Error: models.ContactRateLimited}
		}
	}

	name := content.StripTags(sub.Name)
	email := strings.ToLower(strings.TrimSpace(sub.Email))
	phone := content.StripTags(sub.Phone)

	if name == "" || (email == "" && phone == "") {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return models.ContactResponse{Message: msgContactRequired, Error: models.ContactValidationError}
	}
	if email != "" && !emailPattern.MatchString(email) {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return models.ContactResponse{Message: msgContactEmail, Error: models.ContactInvalidEmail}
	}

	lead := &models.Lead{
		Name:    limit(name, maxContactField),
		Email:   email,
		Message: limit(ComposeMessage(sub), maxContactField),
		Status:  models.LeadStatusNew,
	}
	if phone != "" {
		lead.Phone = &phone
	}

	if err := s.Leads.Create(ctx, lead); err != nil {
		s.Log.Error("failed to save contact submission", zap.Error(err))
		metrics.ContactSubmissions.WithLabelValues("error").Inc()
		return models.ContactResponse{Message: msgContactFailed, Error: models.ContactServerError}
	}

	metrics.ContactSubmissions.WithLabelValues("ok").Inc()
	if s.Publisher != nil {
		s.Publisher.PublishLeadCreated(*lead)
	}
	return models.ContactResponse{Success: true, Message: msgContactThanks}
}

// ComposeMessage folds the optional study field and country into the stored message.
func ComposeMessage(sub models.ContactSubmission) string {
	var header []string
	if f := content.StripTags(sub.StudyField); f != "" {
		header = append(header, "Study field: "+f)
	}
	if c := content.StripTags(sub.Country); c != "" {
		header = append(header, "Country: "+c)
	}

	body := content.StripTags(sub.Message)
	switch {
	case len(header) == 0:
		return body
	case body == "":
		return strings.Join(header, "\n")
	}
	return strings.Join(header, "\n") + "\n\n" + body
}

func limit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
