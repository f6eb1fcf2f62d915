package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

var discardLogger = zerolog.Nop()

func newUserService(provider *stubProvider, store *stubStore) *UserService {
	return NewUserService(provider, store, store, store, discardLogger)
}

func seedRecord(store *stubStore, id, email string, status domain.Status) *ports.UserRecord {
	now := time.Now().UTC()
	rec := &ports.UserRecord{
		ID:             id,
		Email:          email,
		FullName:       "Ana Ruiz",
		Status:         status.Int(),
		ExternalAuthID: "auth-" + id,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	store.records = append(store.records, rec)
	return rec
}

const testUserID = "3f2c8a1e-9b4d-4c6f-8a2b-1d5e7f9c0a3b"

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestUserService_Register_Success(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	svc := newUserService(provider, store)

	result, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "a@b.com",
		FullName: "Ana Ruiz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.createCalls != 1 {
		t.Errorf("expected 1 provider create call, got %d", provider.createCalls)
	}
	if store.createCalls != 1 {
		t.Errorf("expected 1 store create call, got %d", store.createCalls)
	}
	if store.lastCreate.Status != domain.StatusPending.Int() {
		t.Errorf("expected stored status %d, got %d", domain.StatusPending.Int(), store.lastCreate.Status)
	}
	if result.Status != "pending" {
		t.Errorf("expected status %q, got %q", "pending", result.Status)
	}
	if result.ExternalAuthID != "auth-123" {
		t.Errorf("expected external auth id %q, got %q", "auth-123", result.ExternalAuthID)
	}
	if result.ID == "" {
		t.Error("expected a generated user id")
	}
	if result.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
}

func TestUserService_Register_NormalizesEmail(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	svc := newUserService(provider, store)

	result, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "  Ana.Ruiz@Example.COM ",
		FullName: "Ana Ruiz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != "ana.ruiz@example.com" {
		t.Errorf("expected normalized email, got %q", result.Email)
	}
}

func TestUserService_Register_InvalidEmail(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	svc := newUserService(provider, store)

	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "not-an-email",
		FullName: "Ana Ruiz",
	})
	if !errors.Is(err, domain.ErrInvalidValueObject) {
		t.Fatalf("expected ErrInvalidValueObject, got %v", err)
	}
	if provider.createCalls != 0 {
		t.Error("provider must not be called for invalid input")
	}
}

func TestUserService_Register_InvalidFullName(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	svc := newUserService(provider, store)

	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "a@b.com",
		FullName: "Ana123",
	})
	if !errors.Is(err, domain.ErrInvalidValueObject) {
		t.Fatalf("expected ErrInvalidValueObject, got %v", err)
	}
}

func TestUserService_Register_DuplicateInProvider(t *testing.T) {
	provider := newStubProvider()
	provider.emails["a@b.com"] = true
	store := newStubStore()
	svc := newUserService(provider, store)

	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "a@b.com",
		FullName: "Ana Ruiz",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if provider.createCalls != 0 || store.createCalls != 0 {
		t.Error("no create calls expected on duplicate")
	}
}

func TestUserService_Register_DuplicateInStore(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	seedRecord(store, testUserID, "a@b.com", domain.StatusActive)
	svc := newUserService(provider, store)

	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "a@b.com",
		FullName: "Ana Ruiz",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if provider.createCalls != 0 {
		t.Error("provider create must not run when the store already has the email")
	}
}

func TestUserService_Register_CompensatesOnStoreFailure(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	store.createErr = errors.New("db unavailable")
	svc := newUserService(provider, store)

	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "a@b.com",
		FullName: "Ana Ruiz",
	})
	if !errors.Is(err, domain.ErrTransactionFailed) {
		t.Fatalf("expected ErrTransactionFailed, got %v", err)
	}
	if provider.removeCalls != 1 {
		t.Fatalf("expected 1 compensating remove call, got %d", provider.removeCalls)
	}
	if provider.removedID != "auth-123" {
		t.Errorf("compensation must remove the auth id just created, got %q", provider.removedID)
	}
}

func TestUserService_Register_CompensationFailurePropagates(t *testing.T) {
	provider := newStubProvider()
	provider.removeErr = errors.New("provider unreachable")
	store := newStubStore()
	store.createErr = errors.New("db unavailable")
	svc := newUserService(provider, store)

	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "a@b.com",
		FullName: "Ana Ruiz",
	})
	if !errors.Is(err, domain.ErrInconsistency) {
		t.Fatalf("expected ErrInconsistency when compensation fails, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Activate / Deactivate
// ---------------------------------------------------------------------------

func TestUserService_Activate_Success(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	rec := seedRecord(store, testUserID, "a@b.com", domain.StatusPending)
	provider.authIDs[rec.ExternalAuthID] = true
	svc := newUserService(provider, store)

	result, err := svc.Activate(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "active" {
		t.Errorf("expected status %q, got %q", "active", result.Status)
	}
	if store.updateCalls != 1 {
		t.Errorf("expected 1 store update, got %d", store.updateCalls)
	}
	if store.lastUpdate.Status != domain.StatusActive.Int() {
		t.Errorf("expected persisted status %d, got %d", domain.StatusActive.Int(), store.lastUpdate.Status)
	}
}

func TestUserService_Activate_NotFound(t *testing.T) {
	svc := newUserService(newStubProvider(), newStubStore())

	_, err := svc.Activate(context.Background(), testUserID)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Activate_ProviderDrift(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	seedRecord(store, testUserID, "a@b.com", domain.StatusPending)
	// No matching provider record: the systems have drifted.
	svc := newUserService(provider, store)

	_, err := svc.Activate(context.Background(), testUserID)
	if !errors.Is(err, domain.ErrInconsistency) {
		t.Fatalf("expected ErrInconsistency, got %v", err)
	}
	if store.updateCalls != 0 {
		t.Error("store must never be written when drift is detected")
	}
}

func TestUserService_Activate_RejectedWhenNotPending(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusActive, domain.StatusInactive} {
		provider := newStubProvider()
		store := newStubStore()
		rec := seedRecord(store, testUserID, "a@b.com", status)
		provider.authIDs[rec.ExternalAuthID] = true
		svc := newUserService(provider, store)

		_, err := svc.Activate(context.Background(), testUserID)
		if !errors.Is(err, domain.ErrBusinessRuleViolation) {
			t.Fatalf("status %s: expected ErrBusinessRuleViolation, got %v", status, err)
		}
		if store.updateCalls != 0 {
			t.Errorf("status %s: store must not be written on rule violation", status)
		}
	}
}

func TestUserService_Deactivate_Success(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	rec := seedRecord(store, testUserID, "a@b.com", domain.StatusActive)
	provider.authIDs[rec.ExternalAuthID] = true
	svc := newUserService(provider, store)

	result, err := svc.Deactivate(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "inactive" {
		t.Errorf("expected status %q, got %q", "inactive", result.Status)
	}
}

func TestUserService_Deactivate_RejectedWhenNotActive(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusInactive} {
		provider := newStubProvider()
		store := newStubStore()
		rec := seedRecord(store, testUserID, "a@b.com", status)
		provider.authIDs[rec.ExternalAuthID] = true
		svc := newUserService(provider, store)

		_, err := svc.Deactivate(context.Background(), testUserID)
		if !errors.Is(err, domain.ErrBusinessRuleViolation) {
			t.Fatalf("status %s: expected ErrBusinessRuleViolation, got %v", status, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUserService_Update_Success(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	seedRecord(store, testUserID, "a@b.com", domain.StatusActive)
	svc := newUserService(provider, store)

	result, err := svc.Update(context.Background(), ports.UpdateUserInput{
		UserID:   testUserID,
		FullName: "Ana María Ruiz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FullName != "Ana María Ruiz" {
		t.Errorf("expected updated name, got %q", result.FullName)
	}
	if provider.updateCalls != 1 {
		t.Errorf("expected 1 provider update, got %d", provider.updateCalls)
	}
	if provider.lastUpdate.FullName != "Ana María Ruiz" {
		t.Errorf("provider update carried wrong name: %q", provider.lastUpdate.FullName)
	}
	if store.updateCalls != 1 {
		t.Errorf("expected 1 store update, got %d", store.updateCalls)
	}
}

func TestUserService_Update_SameNameDoesNotBumpUpdatedAt(t *testing.T) {
	provider := newStubProvider()
	store := newStubStore()
	rec := seedRecord(store, testUserID, "a@b.com", domain.StatusActive)
	before := rec.UpdatedAt
	svc := newUserService(provider, store)

	result, err := svc.Update(context.Background(), ports.UpdateUserInput{
		UserID:   testUserID,
		FullName: "Ana Ruiz", // unchanged
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.UpdatedAt.Equal(before) {
		t.Errorf("no-op update must not bump updatedAt: %v != %v", result.UpdatedAt, before)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := newUserService(newStubProvider(), newStubStore())

	_, err := svc.Update(context.Background(), ports.UpdateUserInput{UserID: testUserID, FullName: "Ana"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_ProviderFailureSkipsStoreWrite(t *testing.T) {
	provider := newStubProvider()
	provider.updateErr = errors.New("provider down")
	store := newStubStore()
	seedRecord(store, testUserID, "a@b.com", domain.StatusActive)
	svc := newUserService(provider, store)

	_, err := svc.Update(context.Background(), ports.UpdateUserInput{
		UserID:   testUserID,
		FullName: "Ana María Ruiz",
	})
	if err == nil {
		t.Fatal("expected error when provider update fails")
	}
	if store.updateCalls != 0 {
		t.Error("store must not be written when the provider update failed")
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestUserService_GetByID(t *testing.T) {
	store := newStubStore()
	seedRecord(store, testUserID, "a@b.com", domain.StatusActive)
	svc := newUserService(newStubProvider(), store)

	view, err := svc.GetByID(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Email != "a@b.com" || view.Status != "active" {
		t.Errorf("unexpected projection: %+v", view)
	}
}

func TestUserService_GetByEmail_NotFoundShowsIdentifier(t *testing.T) {
	svc := newUserService(newStubProvider(), newStubStore())

	_, err := svc.GetByEmail(context.Background(), "ghost@b.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_PaginationMath(t *testing.T) {
	store := newStubStore()
	ids := []string{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-8222-222222222222",
		"33333333-3333-4333-8333-333333333333",
	}
	emails := []string{"u1@b.com", "u2@b.com", "u3@b.com"}
	for i, id := range ids {
		seedRecord(store, id, emails[i], domain.StatusActive)
	}
	svc := newUserService(newStubProvider(), store)

	result, err := svc.List(context.Background(), ports.ListUsersInput{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("total: expected 3, got %d", result.Total)
	}
	if result.TotalPages != 2 {
		t.Errorf("total_pages: expected 2, got %d", result.TotalPages)
	}
	if len(result.Users) != 1 {
		t.Errorf("expected 1 user on page 2, got %d", len(result.Users))
	}
}

func TestUserService_List_Defaults(t *testing.T) {
	svc := newUserService(newStubProvider(), newStubStore())

	result, err := svc.List(context.Background(), ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Page != 1 || result.Limit != 10 {
		t.Errorf("expected defaults page=1 limit=10, got page=%d limit=%d", result.Page, result.Limit)
	}
}

func TestUserService_List_TotalPagesRoundsUp(t *testing.T) {
	store := newStubStore()
	svc := newUserService(newStubProvider(), store)

	for i := 0; i < 25; i++ {
		id := uuidWithIndex(i)
		seedRecord(store, id, emailWithIndex(i), domain.StatusActive)
	}

	result, err := svc.List(context.Background(), ports.ListUsersInput{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", result.TotalPages)
	}
	if len(result.Users) != 10 {
		t.Errorf("expected 10 users on page 2, got %d", len(result.Users))
	}
}

func TestUserService_List_StatusFilter(t *testing.T) {
	store := newStubStore()
	seedRecord(store, "11111111-1111-4111-8111-111111111111", "u1@b.com", domain.StatusActive)
	seedRecord(store, "22222222-2222-4222-8222-222222222222", "u2@b.com", domain.StatusPending)
	svc := newUserService(newStubProvider(), store)

	result, err := svc.List(context.Background(), ports.ListUsersInput{Status: "pending"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected 1 pending user, got %d", result.Total)
	}
}

func TestUserService_List_InvalidStatus(t *testing.T) {
	svc := newUserService(newStubProvider(), newStubStore())

	_, err := svc.List(context.Background(), ports.ListUsersInput{Status: "frozen"})
	if !errors.Is(err, domain.ErrInvalidValueObject) {
		t.Fatalf("expected ErrInvalidValueObject, got %v", err)
	}
}

func uuidWithIndex(i int) string {
	return fmt.Sprintf("%08d-0000-4000-8000-%012d", i, i)
}

func emailWithIndex(i int) string {
	return fmt.Sprintf("u%d@b.com", i)
}
