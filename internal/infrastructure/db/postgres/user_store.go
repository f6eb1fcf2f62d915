package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

const userColumns = "id, email, full_name, status, external_auth_id, created_at, updated_at"

// UserStore is the pgx-backed record store. It implements the existence
// checker, reader and writer ports over the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("users exists: %w", err)
	}
	return exists, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*ports.UserRecord, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*ports.UserRecord, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (s *UserStore) FindAll(ctx context.Context, filter ports.ListUsersFilter) ([]*ports.UserRecord, int64, error) {
	where := ""
	args := []any{}
	if filter.Status != nil {
		where = " WHERE status = $1"
		args = append(args, filter.Status.Int())
	}

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users count: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("users list: %w", err)
	}
	defer rows.Close()

	records := make([]*ports.UserRecord, 0, filter.Limit)
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("users list: %w", err)
	}

	return records, total, nil
}

func (s *UserStore) Create(ctx context.Context, record *ports.UserRecord) (*ports.UserRecord, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, full_name, status, external_auth_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		record.ID, record.Email, record.FullName, record.Status,
		record.ExternalAuthID, record.CreatedAt, record.UpdatedAt)

	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("users create: %w", err)
	}
	return created, nil
}

func (s *UserStore) Update(ctx context.Context, record ports.UpdateUserRecord) (*ports.UserRecord, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE users SET full_name = $2, status = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING `+userColumns,
		record.ID, record.FullName, record.Status, record.UpdatedAt)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*ports.UserRecord, error) {
	var rec ports.UserRecord
	err := row.Scan(&rec.ID, &rec.Email, &rec.FullName, &rec.Status,
		&rec.ExternalAuthID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &rec, nil
}

var (
	_ ports.UserExistenceChecker = (*UserStore)(nil)
	_ ports.UserReader           = (*UserStore)(nil)
	_ ports.UserWriter           = (*UserStore)(nil)
)
