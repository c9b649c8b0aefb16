package models

import (
	"fmt"
	"strings"
	"time"
)

// ComplaintStatus is the lifecycle state of a complaint
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

// AllStatuses lists the lifecycle states in lifecycle order
var AllStatuses = []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved}

// ParseStatus returns the status matching s exactly, or ErrValidation
func ParseStatus(s string) (ComplaintStatus, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: status must be one of Pending, In Progress, Resolved", ErrValidation)
}

// CanTransitionTo reports whether an admin may move a complaint from s to next.
// The only forbidden move is back to Pending once the complaint has left it;
// Resolved -> In Progress is allowed.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	if next == StatusPending {
		return s == StatusPending
	}
	return true
}

// Complaint mirrors a row of the complaints table
type Complaint struct {
	ID          int64
	UserID      int64
	Text        string
	Category    string
	Status      ComplaintStatus
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// IsEditable reports whether the owner may still change text and category
func (c *Complaint) IsEditable() bool {
	return c.Status == StatusPending
}

// Edit overwrites text and category. Only Pending complaints can be edited.
func (c *Complaint) Edit(text, category string, now time.Time) error {
	if !c.IsEditable() {
		return fmt.Errorf("%w: Cannot edit complaint that is not pending", ErrInvalidState)
	}
	c.Text = text
	c.Category = category
	c.UpdatedAt = now
	return nil
}

// SetStatus applies an admin status change, enforcing the monotonic-forward rule
func (c *Complaint) SetStatus(next ComplaintStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: Cannot set status back to Pending", ErrInvalidState)
	}
	c.Status = next
	c.UpdatedAt = now
	return nil
}

// ValidateContent checks the user-supplied fields of a complaint
func ValidateContent(text, category string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: Missing required fields: complaint_text", ErrValidation)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: Missing required fields: category", ErrValidation)
	}
	return nil
}

// ComplaintSummary is one entry of a user's own complaint list
type ComplaintSummary struct {
	ID          int64           `json:"complaint_id"`
	Text        string          `json:"complaint_text"`
	Category    string          `json:"category"`
	Status      ComplaintStatus `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ComplaintView is a complaint joined with its owner's name and email
type ComplaintView struct {
	ComplaintSummary
	Name  string `json:"name"`
	Email string `json:"email"`
}
