package service

import (
	"context"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory identity provider stub
// ---------------------------------------------------------------------------

type stubProvider struct {
	emails  map[string]bool // provider records by email
	authIDs map[string]bool // provider records by external auth id

	nextAuthID string
	createErr  error
	removeErr  error
	checkErr   error
	updateErr  error

	createCalls int
	removeCalls int
	updateCalls int
	removedID   string
	lastUpdate  ports.UpdateAuthUserInput

	authResult      *ports.AuthResult
	authErr         error
	authCalls       int
	challengeResult *ports.AuthResult
	challengeErr    error
	refreshResult   *ports.AuthResult
	refreshErr      error
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		emails:     make(map[string]bool),
		authIDs:    make(map[string]bool),
		nextAuthID: "auth-123",
	}
}

func (p *stubProvider) CheckExistsByEmail(_ context.Context, email string) (bool, error) {
	if p.checkErr != nil {
		return false, p.checkErr
	}
	return p.emails[email], nil
}

func (p *stubProvider) CheckExistsByAuthID(_ context.Context, externalAuthID string) (bool, error) {
	if p.checkErr != nil {
		return false, p.checkErr
	}
	return p.authIDs[externalAuthID], nil
}

func (p *stubProvider) Create(_ context.Context, input ports.CreateAuthUserInput) (string, error) {
	p.createCalls++
	if p.createErr != nil {
		return "", p.createErr
	}
	p.emails[input.Email] = true
	p.authIDs[p.nextAuthID] = true
	return p.nextAuthID, nil
}

func (p *stubProvider) Update(_ context.Context, input ports.UpdateAuthUserInput) error {
	p.updateCalls++
	p.lastUpdate = input
	return p.updateErr
}

func (p *stubProvider) Remove(_ context.Context, externalAuthID string) error {
	p.removeCalls++
	p.removedID = externalAuthID
	if p.removeErr != nil {
		return p.removeErr
	}
	delete(p.authIDs, externalAuthID)
	return nil
}

func (p *stubProvider) Authenticate(_ context.Context, _, _ string) (*ports.AuthResult, error) {
	p.authCalls++
	if p.authErr != nil {
		return nil, p.authErr
	}
	return p.authResult, nil
}

func (p *stubProvider) CompleteNewPasswordChallenge(_ context.Context, _ ports.CompleteChallengeInput) (*ports.AuthResult, error) {
	if p.challengeErr != nil {
		return nil, p.challengeErr
	}
	return p.challengeResult, nil
}

func (p *stubProvider) RefreshTokens(_ context.Context, _ string) (*ports.AuthResult, error) {
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	return p.refreshResult, nil
}

// ---------------------------------------------------------------------------
// In-memory user store stub (checker + reader + writer)
// ---------------------------------------------------------------------------

type stubStore struct {
	records []*ports.UserRecord

	existsErr  error
	findErr    error
	createErr  error
	updateErr  error

	createCalls int
	updateCalls int
	lastCreate  *ports.UserRecord
	lastUpdate  ports.UpdateUserRecord
}

func newStubStore() *stubStore {
	return &stubStore{}
}

func (s *stubStore) Exists(_ context.Context, email string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	for _, rec := range s.records {
		if rec.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*ports.UserRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, rec := range s.records {
		if rec.ID == id {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*ports.UserRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, rec := range s.records {
		if rec.Email == email {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) FindAll(_ context.Context, filter ports.ListUsersFilter) ([]*ports.UserRecord, int64, error) {
	if s.findErr != nil {
		return nil, 0, s.findErr
	}

	var matched []*ports.UserRecord
	for _, rec := range s.records {
		if filter.Status != nil && rec.Status != filter.Status.Int() {
			continue
		}
		clone := *rec
		matched = append(matched, &clone)
	}

	total := int64(len(matched))

	skip := (filter.Page - 1) * filter.Limit
	if skip >= len(matched) {
		return []*ports.UserRecord{}, total, nil
	}
	end := skip + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (s *stubStore) Create(_ context.Context, record *ports.UserRecord) (*ports.UserRecord, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	clone := *record
	s.records = append(s.records, &clone)
	s.lastCreate = &clone
	out := clone
	return &out, nil
}

func (s *stubStore) Update(_ context.Context, record ports.UpdateUserRecord) (*ports.UserRecord, error) {
	s.updateCalls++
	s.lastUpdate = record
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for _, rec := range s.records {
		if rec.ID == record.ID {
			rec.FullName = record.FullName
			rec.Status = record.Status
			rec.UpdatedAt = record.UpdatedAt
			clone := *rec
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// Event publisher stub
// ---------------------------------------------------------------------------

type publishedEvent struct {
	Name    string
	Payload map[string]any
}

type stubPublisher struct {
	published  []publishedEvent
	publishErr error
}

func (p *stubPublisher) Publish(_ context.Context, eventName string, payload map[string]any) (string, error) {
	if p.publishErr != nil {
		return "", p.publishErr
	}
	p.published = append(p.published, publishedEvent{Name: eventName, Payload: payload})
	return "msg-1", nil
}
