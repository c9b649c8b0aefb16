package routes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BradenHooton/complaintbox/internal/events"
	"github.com/BradenHooton/complaintbox/internal/models"
)

// memStore is an in-memory stand-in for the Postgres repositories. It honours
// the same ordering, ownership and uniqueness rules.
type memStore struct {
	mu         sync.Mutex
	users      []*models.User
	admins     []*models.Admin
	complaints []*models.Complaint
	nextID     int64
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// users

func (s *memStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("%w: email", models.ErrConflict)
		}
		if u.Username != nil && existing.Username != nil && *existing.Username == *u.Username {
			return nil, fmt.Errorf("%w: username", models.ErrConflict)
		}
	}
	created := *u
	created.ID = s.id()
	s.users = append(s.users, &created)
	return &created, nil
}

func (s *memStore) FindByIdentifier(_ context.Context, identifier string) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.User
	for _, u := range s.users {
		if u.Email == identifier || (u.Username != nil && *u.Username == identifier) {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memStore) userByID(id int64) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// admins

type memAdmins struct{ *memStore }

func (a memAdmins) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, admin := range a.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (a memAdmins) Count(context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int64(len(a.admins)), nil
}

func (a memAdmins) CreateIfNone(_ context.Context, admin *models.Admin) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.admins) > 0 {
		return false, nil
	}
	created := *admin
	created.ID = a.id()
	a.admins = append(a.admins, &created)
	return true, nil
}

// complaints

type memComplaints struct{ *memStore }

func (c memComplaints) Create(_ context.Context, complaint *models.Complaint) (*models.Complaint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userByID(complaint.UserID) == nil {
		return nil, fmt.Errorf("%w: unknown user", models.ErrValidation)
	}
	created := *complaint
	created.ID = c.id()
	// strictly increasing timestamps keep the newest-first order deterministic
	c.clock = c.clock.Add(time.Minute)
	created.SubmittedAt, created.UpdatedAt = c.clock, c.clock
	c.complaints = append(c.complaints, &created)
	return &created, nil
}

func (c memComplaints) view(complaint *models.Complaint) *models.ComplaintView {
	owner := c.userByID(complaint.UserID)
	return &models.ComplaintView{
		ComplaintSummary: summary(complaint),
		Name:             owner.Name,
		Email:            owner.Email,
	}
}

func summary(complaint *models.Complaint) models.ComplaintSummary {
	return models.ComplaintSummary{
		ID:          complaint.ID,
		Text:        complaint.Text,
		Category:    complaint.Category,
		Status:      complaint.Status,
		SubmittedAt: complaint.SubmittedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
}

func (c memComplaints) newestFirst() []*models.Complaint {
	out := append([]*models.Complaint(nil), c.complaints...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (c memComplaints) GetOwnedView(_ context.Context, userID, complaintID int64) (*models.ComplaintView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, complaint := range c.complaints {
		if complaint.ID == complaintID && complaint.UserID == userID {
			return c.view(complaint), nil
		}
	}
	return nil, models.ErrNotFound
}

func (c memComplaints) ListByUser(_ context.Context, userID int64) ([]*models.ComplaintSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []*models.ComplaintSummary{}
	for _, complaint := range c.newestFirst() {
		if complaint.UserID == userID {
			s := summary(complaint)
			out = append(out, &s)
		}
	}
	return out, nil
}

func (c memComplaints) ListAll(_ context.Context) ([]*models.ComplaintView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []*models.ComplaintView{}
	for _, complaint := range c.newestFirst() {
		out = append(out, c.view(complaint))
	}
	return out, nil
}

func (c memComplaints) mutate(match func(*models.Complaint) bool, fn func(*models.Complaint) error) (*models.Complaint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, complaint := range c.complaints {
		if !match(complaint) {
			continue
		}
		working := *complaint
		if err := fn(&working); err != nil {
			return nil, err
		}
		*complaint = working
		return &working, nil
	}
	return nil, models.ErrNotFound
}

func (c memComplaints) MutateOwned(_ context.Context, userID, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	return c.mutate(func(complaint *models.Complaint) bool {
		return complaint.ID == complaintID && complaint.UserID == userID
	}, fn)
}

func (c memComplaints) Mutate(_ context.Context, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	return c.mutate(func(complaint *models.Complaint) bool { return complaint.ID == complaintID }, fn)
}

func (c memComplaints) Stats(_ context.Context, since time.Time) (*models.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := &models.Stats{ByCategory: map[string]int64{}, Monthly: []models.MonthlyCount{}}
	monthly := map[string]int64{}
	for _, complaint := range c.complaints {
		stats.Total++
		switch complaint.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusResolved:
			stats.Resolved++
		}
		stats.ByCategory[complaint.Category]++
		if !complaint.SubmittedAt.Before(since) {
			monthly[complaint.SubmittedAt.Format("2006-01")]++
		}
	}
	for month, count := range monthly {
		stats.Monthly = append(stats.Monthly, models.MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(stats.Monthly, func(i, j int) bool { return stats.Monthly[i].Month > stats.Monthly[j].Month })
	return stats, nil
}

// recordingPublisher keeps published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.StatusChangedEvent
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, event events.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.StatusChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.StatusChangedEvent(nil), p.events...)
}
