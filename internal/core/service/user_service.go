package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// UserService orchestrates the user lifecycle across the identity provider
// and the record store. Each call runs its steps strictly in sequence; the
// only compensation is the one in Register.
type UserService struct {
	provider ports.IdentityProvider
	checker  ports.UserExistenceChecker
	reader   ports.UserReader
	writer   ports.UserWriter
	log      zerolog.Logger
}

func NewUserService(
	provider ports.IdentityProvider,
	checker ports.UserExistenceChecker,
	reader ports.UserReader,
	writer ports.UserWriter,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		provider: provider,
		checker:  checker,
		reader:   reader,
		writer:   writer,
		log:      log,
	}
}

// Register runs the registration saga: uniqueness checks against both
// systems, provider create, aggregate construction, store create. When the
// store create fails after the provider user already exists, the provider
// user is removed and the failure surfaces as a transaction error. A failed
// removal propagates as-is — the two systems are then divergent and need
// manual reconciliation.
func (s *UserService) Register(ctx context.Context, input ports.RegisterUserInput) (*ports.RegisterUserResult, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if _, err := domain.NewFullName(input.FullName); err != nil {
		return nil, err
	}

	exists, err := s.provider.CheckExistsByEmail(ctx, email.String())
	if err != nil {
		return nil, fmt.Errorf("register: check identity provider: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s", domain.ErrUserExists, email)
	}

	exists, err = s.checker.Exists(ctx, email.String())
	if err != nil {
		return nil, fmt.Errorf("register: check store: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s", domain.ErrUserExists, email)
	}

	externalAuthID, err := s.provider.Create(ctx, ports.CreateAuthUserInput{
		Email:    email.String(),
		FullName: input.FullName,
	})
	if err != nil {
		return nil, fmt.Errorf("register: create identity provider user: %w", err)
	}

	user, err := domain.RegisterUser(email.String(), input.FullName, externalAuthID)
	if err != nil {
		return nil, err
	}

	if _, err := s.writer.Create(ctx, aggregateToRecord(user)); err != nil {
		s.log.Error().Err(err).
			Str("email", email.String()).
			Str("external_auth_id", externalAuthID).
			Msg("store create failed, removing identity provider user")

		if rmErr := s.provider.Remove(ctx, externalAuthID); rmErr != nil {
			// The provider record could not be removed either: the two systems
			// are now divergent and need manual reconciliation.
			return nil, fmt.Errorf("%w: register compensation failed for %s: %w (store create: %v)",
				domain.ErrInconsistency, externalAuthID, rmErr, err)
		}
		return nil, fmt.Errorf("%w: create user record: %w", domain.ErrTransactionFailed, err)
	}

	s.log.Info().
		Str("user_id", user.ID().String()).
		Str("email", email.String()).
		Msg("user registered")

	return &ports.RegisterUserResult{
		ID:             user.ID().String(),
		Email:          user.Email().String(),
		FullName:       user.FullName().String(),
		Status:         user.Status().String(),
		ExternalAuthID: user.ExternalAuthID().String(),
		CreatedAt:      user.CreatedAt(),
	}, nil
}

// Activate transitions a PENDING user to ACTIVE after verifying the identity
// provider still holds a matching record.
func (s *UserService) Activate(ctx context.Context, userID string) (*ports.StatusChangeResult, error) {
	user, err := s.loadVerified(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if _, err := s.writer.Update(ctx, aggregateToUpdate(user)); err != nil {
		return nil, fmt.Errorf("activate: update user record: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("user activated")

	return &ports.StatusChangeResult{
		ID:        user.ID().String(),
		Status:    user.Status().String(),
		UpdatedAt: user.UpdatedAt(),
	}, nil
}

// Deactivate transitions an ACTIVE user to INACTIVE after the same drift check.
func (s *UserService) Deactivate(ctx context.Context, userID string) (*ports.StatusChangeResult, error) {
	user, err := s.loadVerified(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if _, err := s.writer.Update(ctx, aggregateToUpdate(user)); err != nil {
		return nil, fmt.Errorf("deactivate: update user record: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("user deactivated")

	return &ports.StatusChangeResult{
		ID:        user.ID().String(),
		Status:    user.Status().String(),
		UpdatedAt: user.UpdatedAt(),
	}, nil
}

// loadVerified loads the aggregate by id and verifies the identity provider
// still knows its external auth id. A missing provider record means the two
// systems have drifted apart; that is fatal and never auto-corrected.
func (s *UserService) loadVerified(ctx context.Context, userID string) (*domain.User, error) {
	rec, err := s.reader.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := domain.ReconstituteUser(recordToSnapshot(rec))
	if err != nil {
		return nil, err
	}

	exists, err := s.provider.CheckExistsByAuthID(ctx, user.ExternalAuthID().String())
	if err != nil {
		return nil, fmt.Errorf("check identity provider: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s exists in store but not in identity provider",
			domain.ErrInconsistency, userID)
	}

	return user, nil
}

// Update applies a profile change. The identity provider is updated before
// the store; if the store write then fails there is no compensation and the
// provider keeps the new display name.
func (s *UserService) Update(ctx context.Context, input ports.UpdateUserInput) (*ports.UpdateUserResult, error) {
	rec, err := s.reader.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	user, err := domain.ReconstituteUser(recordToSnapshot(rec))
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(input.FullName); err != nil {
		return nil, err
	}

	if err := s.provider.Update(ctx, ports.UpdateAuthUserInput{
		ExternalAuthID: user.ExternalAuthID().String(),
		FullName:       input.FullName,
	}); err != nil {
		return nil, fmt.Errorf("update: identity provider: %w", err)
	}

	if _, err := s.writer.Update(ctx, aggregateToUpdate(user)); err != nil {
		return nil, fmt.Errorf("update: user record: %w", err)
	}

	s.log.Info().Str("user_id", input.UserID).Msg("user profile updated")

	return &ports.UpdateUserResult{
		ID:        user.ID().String(),
		FullName:  user.FullName().String(),
		UpdatedAt: user.UpdatedAt(),
	}, nil
}

// GetByID returns a single user projection.
func (s *UserService) GetByID(ctx context.Context, userID string) (*ports.UserView, error) {
	rec, err := s.reader.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := domain.ReconstituteUser(recordToSnapshot(rec))
	if err != nil {
		return nil, err
	}

	view := aggregateToView(user)
	return &view, nil
}

// GetByEmail returns a single user projection looked up by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*ports.UserView, error) {
	rec, err := s.reader.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: email %s", domain.ErrUserNotFound, email)
		}
		return nil, err
	}

	user, err := domain.ReconstituteUser(recordToSnapshot(rec))
	if err != nil {
		return nil, err
	}

	view := aggregateToView(user)
	return &view, nil
}

// List returns a page of users, optionally filtered by status.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := input.Page
	if page <= 0 {
		page = defaultPage
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	filter := ports.ListUsersFilter{Page: page, Limit: limit}
	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	records, total, err := s.reader.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]ports.UserView, 0, len(records))
	for _, rec := range records {
		user, err := domain.ReconstituteUser(recordToSnapshot(rec))
		if err != nil {
			return nil, err
		}
		users = append(users, aggregateToView(user))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.ListUsersResult{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

var _ ports.UserService = (*UserService)(nil)
