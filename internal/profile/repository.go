package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gatecode/internal/database"
)

// Repository handles all database operations for profiles
type Repository struct {
	db database.Service
}

// NewRepository creates a new profile repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile
func (r *Repository) Create(ctx context.Context, p *Profile) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, name, age, gender, bio, interests, phone, city, state, country, profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, name, age, gender, bio, interests, phone, city, state, country, profile_picture, created_at
	`

	created := &Profile{}
	err := r.db.QueryRow(ctx, query,
		uuid.New().String(), p.Name, p.Age, p.Gender, p.Bio, p.Interests,
		p.Phone, p.City, p.State, p.Country, p.ProfilePicture,
	).Scan(
		&created.ID, &created.Name, &created.Age, &created.Gender, &created.Bio,
		&created.Interests, &created.Phone, &created.City, &created.State,
		&created.Country, &created.ProfilePicture, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return created, nil
}

// List retrieves all profiles, newest first
func (r *Repository) List(ctx context.Context) ([]Profile, error) {
	query := `
		SELECT id, name, age, gender, bio, interests, phone, city, state, country, profile_picture, created_at
		FROM profiles
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]Profile, 0)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Age, &p.Gender, &p.Bio, &p.Interests,
			&p.Phone, &p.City, &p.State, &p.Country, &p.ProfilePicture, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	return profiles, nil
}
