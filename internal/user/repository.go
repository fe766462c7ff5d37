package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gatecode/internal/database"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, age, gender, bio, interests, profile_picture, phone, city, state, country, login_code`

// Repository handles all database operations for users
type Repository struct {
	db database.Service
}

// NewRepository creates a new user repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// FindByID retrieves a user by id
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// ConsumeLoginCode finds the user holding the given login code and clears it
// in the same statement, so a code can be exchanged for a token exactly once.
func (r *Repository) ConsumeLoginCode(ctx context.Context, code string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET login_code = NULL
		WHERE login_code = $1
		RETURNING %s
	`, userColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

func (r *Repository) scanOne(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Age, &u.Gender, &u.Bio, &u.Interests,
		&u.ProfilePicture, &u.Phone, &u.City, &u.State, &u.Country, &u.LoginCode,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	return u, nil
}
