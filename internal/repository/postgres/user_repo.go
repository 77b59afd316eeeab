package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, avatar, created_at`

type UserStorage struct {
	pool *pgxpool.Pool
}

func NewUserStorage(s *Storage) *UserStorage {
	return &UserStorage{pool: s.pool}
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *models.User) error {
	start := time.Now()

	query := `INSERT INTO users
				(id, username, email, password_hash, first_name, last_name, avatar, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		userToCreate.ID,
		userToCreate.Username,
		userToCreate.Email,
		userToCreate.PasswordHash,
		userToCreate.Profile.FirstName,
		userToCreate.Profile.LastName,
		userToCreate.Profile.Avatar,
	).Scan(&userToCreate.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getOne(ctx, query, id)
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.getOne(ctx, query, email)
}

func (s *UserStorage) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Profile.FirstName,
		&u.Profile.LastName,
		&u.Profile.Avatar,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return u, nil
}

func (s *UserStorage) Update(ctx context.Context, userToUpdate *models.User) error {
	query := `UPDATE users
			SET username = $1,
				email = $2,
				first_name = $3,
				last_name = $4,
				avatar = $5
			WHERE id = $6`

	tag, err := s.pool.Exec(ctx, query,
		userToUpdate.Username,
		userToUpdate.Email,
		userToUpdate.Profile.FirstName,
		userToUpdate.Profile.LastName,
		userToUpdate.Profile.Avatar,
		userToUpdate.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось обновить пользователя", err)
		return fmt.Errorf("обновление пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *UserStorage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		logger.Error("Repository: Не удалось обновить пароль", err)
		return fmt.Errorf("обновление пароля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ExistsOther — занят ли username или email кем-то, кроме excludeID
func (s *UserStorage) ExistsOther(ctx context.Context, excludeID uuid.UUID, username, email string) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM users
				WHERE id != $1 AND (username = $2 OR email = $3))`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, excludeID, username, email).Scan(&exists); err != nil {
		logger.Error("Repository: Не удалось проверить уникальность", err)
		return false, fmt.Errorf("проверка уникальности: %w", err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
