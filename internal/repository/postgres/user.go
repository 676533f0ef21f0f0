package postgres

import (
	"context"
	"database/sql"
	"time"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, phone, role, avatar_url, session_rate_cents, device_token, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.Phone, u.Role, u.AvatarURL, u.SessionRateCents, u.DeviceToken, time.Now(), time.Now()).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, role, avatar_url, session_rate_cents, device_token, created_on, updated_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.AvatarURL, &u.SessionRateCents, &u.DeviceToken, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, role, avatar_url, session_rate_cents, device_token, created_on, updated_on FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.AvatarURL, &u.SessionRateCents, &u.DeviceToken, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2, phone=$3, avatar_url=$4, session_rate_cents=$5, updated_on=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.Phone, u.AvatarURL, u.SessionRateCents, time.Now(), u.ID)
	return err
}

func (r *userRepository) UpdateDeviceToken(ctx context.Context, userID int32, token string) error {
	query := `UPDATE users SET device_token=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, token, time.Now(), userID)
	return err
}
