package moderation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewhub/internal/db"
	"crewhub/internal/models"
)

// crewState mirrors the persisted crew aggregate for assertions.
type crewState struct {
	name        string
	description string
	instagram   *string
	logo        *string
	days        []string
	locations   []string
	ageRange    *models.AgeRange
	photos      []models.CrewPhoto
}

// fakeStore is an in-memory RequestStore and CrewWriter. fail maps a
// changes key to the error its write should return.
type fakeStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.EditRequest
	crews    map[uuid.UUID]*crewState
	fail     map[string]error
	writes   int
	clock    time.Time

	// deletedAccounts simulates accounts removed after a token was issued.
	deletedAccounts map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests: map[uuid.UUID]*models.EditRequest{},
		crews:    map[uuid.UUID]*crewState{},
		fail:     map[string]error{},

		deletedAccounts: map[uuid.UUID]bool{},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addCrew(state *crewState) uuid.UUID {
	id := uuid.New()
	f.crews[id] = state
	return id
}

func (f *fakeStore) CreateEditRequest(_ context.Context, req *models.EditRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	crew, ok := f.crews[req.CrewID]
	if !ok {
		return db.ErrCrewNotFound
	}
	if f.deletedAccounts[req.AccountID] {
		return db.ErrAccountNotFound
	}
	for _, r := range f.requests {
		if r.CrewID == req.CrewID && r.IsPending() {
			return db.ErrDuplicatePendingRequest
		}
	}

	f.clock = f.clock.Add(time.Minute)
	req.ID = uuid.New()
	req.Status = models.StatusPending
	req.CreatedAt = f.clock
	req.UpdatedAt = f.clock
	req.CrewName = crew.name
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeStore) GetEditRequestByID(_ context.Context, id uuid.UUID) (*models.EditRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return nil, db.ErrEditRequestNotFound
	}
	out := *r
	return &out, nil
}

func (f *fakeStore) list(keep func(*models.EditRequest) bool) []models.EditRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.EditRequest{}
	for _, r := range f.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListEditRequests(_ context.Context, status string) ([]models.EditRequest, error) {
	return f.list(func(r *models.EditRequest) bool { return status == "" || r.Status == status }), nil
}

func (f *fakeStore) ListDecidedEditRequests(_ context.Context, limit int) ([]models.EditRequest, error) {
	out := f.list(func(r *models.EditRequest) bool { return !r.IsPending() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListEditRequestsByCrew(_ context.Context, crewID uuid.UUID) ([]models.EditRequest, error) {
	return f.list(func(r *models.EditRequest) bool { return r.CrewID == crewID }), nil
}

func (f *fakeStore) transition(id uuid.UUID, crewID *uuid.UUID, update func(*models.EditRequest)) (*models.EditRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok || (crewID != nil && r.CrewID != *crewID) {
		return nil, db.ErrEditRequestNotFound
	}
	if !r.IsPending() {
		return nil, db.ErrAlreadyProcessed
	}
	update(r)
	r.UpdatedAt = f.clock
	out := *r
	return &out, nil
}

func (f *fakeStore) DecideEditRequest(_ context.Context, id uuid.UUID, status string, comment *string, decidedBy string) (*models.EditRequest, error) {
	return f.transition(id, nil, func(r *models.EditRequest) {
		now := f.clock
		r.Status = status
		r.AdminComment = comment
		r.DecidedBy = &decidedBy
		r.DecidedAt = &now
	})
}

func (f *fakeStore) CancelEditRequest(_ context.Context, id, crewID uuid.UUID) (*models.EditRequest, error) {
	return f.transition(id, &crewID, func(r *models.EditRequest) {
		r.Status = models.StatusCancelled
	})
}

func (f *fakeStore) write(crewID uuid.UUID, field string, apply func(*crewState)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if err := f.fail[field]; err != nil {
		return err
	}
	crew, ok := f.crews[crewID]
	if !ok {
		return db.ErrCrewNotFound
	}
	apply(crew)
	return nil
}

func (f *fakeStore) UpdateCrewDescription(_ context.Context, crewID uuid.UUID, description string) error {
	return f.write(crewID, models.FieldDescription, func(c *crewState) { c.description = description })
}

func (f *fakeStore) UpdateCrewInstagram(_ context.Context, crewID uuid.UUID, instagram *string) error {
	return f.write(crewID, models.FieldInstagram, func(c *crewState) { c.instagram = instagram })
}

func (f *fakeStore) UpdateCrewLogo(_ context.Context, crewID uuid.UUID, logoURL *string) error {
	return f.write(crewID, models.FieldLogoURL, func(c *crewState) { c.logo = logoURL })
}

func (f *fakeStore) ReplaceChildren(_ context.Context, crewID uuid.UUID, set models.ChildSet) error {
	return f.write(crewID, string(set.Kind()), func(c *crewState) {
		rows := set.Rows()
		switch set.Kind() {
		case models.ChildActivityDays:
			c.days = nil
			for _, r := range rows {
				c.days = append(c.days, r[0].(string))
			}
		case models.ChildActivityLocations:
			c.locations = nil
			for _, r := range rows {
				c.locations = append(c.locations, r[0].(string))
			}
		case models.ChildAgeRange:
			c.ageRange = nil
			for _, r := range rows {
				c.ageRange = &models.AgeRange{MinAge: r[0].(int), MaxAge: r[1].(int)}
			}
		case models.ChildPhotos:
			c.photos = nil
			for _, r := range rows {
				c.photos = append(c.photos, models.CrewPhoto{URL: r[0].(string), DisplayOrder: r[1].(int)})
			}
		}
	})
}

// recordingNotifier captures lifecycle events.
type recordingNotifier struct {
	submitted []uuid.UUID
	decided   []string
	reports   []*Report
	cancelled []uuid.UUID
}

func (n *recordingNotifier) EditRequestSubmitted(_ context.Context, req *models.EditRequest) {
	n.submitted = append(n.submitted, req.ID)
}

func (n *recordingNotifier) EditRequestDecided(_ context.Context, req *models.EditRequest, report *Report) {
	n.decided = append(n.decided, req.Status)
	n.reports = append(n.reports, report)
}

func (n *recordingNotifier) EditRequestCancelled(_ context.Context, req *models.EditRequest) {
	n.cancelled = append(n.cancelled, req.ID)
}
