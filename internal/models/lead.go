package models

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

// Valid reports whether s is one of the five triage states.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a contact-form submission.
type Lead struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	Message      string     `json:"message"`
	Status       LeadStatus `json:"status"`
	AssignedToID *string    `json:"assignedToId"`
	AssignedTo   *AdminRef  `json:"assignedTo"`
	CreatedAt    time.Time  `json:"createdAt"`
	Notes        []Note     `json:"notes"`
}

type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ContactID string    `json:"contactId"`
	AuthorID  string    `json:"authorId"`
	Author    AdminRef  `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadIDsRequest carries a bulk selection from the lead table.
type LeadIDsRequest struct {
	LeadIDs []string `json:"leadIds"`
}

type AssignLeadsRequest struct {
	LeadIDs    []string `json:"leadIds"`
	OperatorID string   `json:"operatorId"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

type AddNoteRequest struct {
	Content string `json:"content"`
}
