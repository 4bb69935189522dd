package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/storage"
)

type userRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewUserRepo(db *pgxpool.Pool, log logger.ILogger) storage.IUserStorage {
	return &userRepo{db: db, log: log}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO "user" (username, first_name, last_name, email, password_hash, role, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_user, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.PhoneNumber,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		r.log.Error("failed to create user", logger.Error(err))
		return nil, err
	}

	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id_user, username, first_name, last_name, email, password_hash, role, phone_number, created_at FROM "user" WHERE id_user = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Role, &user.PhoneNumber, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get user by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id_user, username, first_name, last_name, email, password_hash, role, phone_number, created_at FROM "user" WHERE username = $1`
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Role, &user.PhoneNumber, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get user by username", logger.String("username", username), logger.Error(err))
		return nil, err
	}
	return &user, nil
}
