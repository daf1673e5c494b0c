// file: repository/token_repository.go

package repository

import (
	"auth-service/logger"
	"auth-service/model"
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	// Create inserts token and fills in its ID and CreatedAt.
	Create(ctx context.Context, token *model.RefreshToken) error

	// GetByID loads a record whether or not it is live. It returns
	// sql.ErrNoRows when the id is unknown.
	GetByID(ctx context.Context, id int) (*model.RefreshToken, error)

	// SoftDelete marks a live record deleted. It reports false when the record
	// is missing or was already deleted.
	SoftDelete(ctx context.Context, id int) (bool, error)

	// SoftDeleteByUserID marks every live record of a user deleted and returns their ids.
	SoftDeleteByUserID(ctx context.Context, userID int) ([]int, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, expires_at) VALUES ($1, $2) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, token.UserID, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

func (r *TokenRepository) GetByID(ctx context.Context, id int) (*model.RefreshToken, error) {
	log := logger.Log.WithField("refresh_token_id", id)
	log.Debug("Executing query to get refresh token by ID")

	token := &model.RefreshToken{}
	var deletedAt sql.NullTime
	query := `SELECT id, user_id, expires_at, created_at, deleted_at FROM refresh_tokens WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&token.ID, &token.UserID, &token.ExpiresAt, &token.CreatedAt, &deletedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get refresh token query")
		}
		return nil, err
	}
	if deletedAt.Valid {
		token.DeletedAt = &deletedAt.Time
	}
	return token, nil
}

func (r *TokenRepository) SoftDelete(ctx context.Context, id int) (bool, error) {
	log := logger.Log.WithField("refresh_token_id", id)
	log.Info("Executing query to revoke a refresh token")

	query := `UPDATE refresh_tokens SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke refresh token query")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SoftDeleteByUserID is used for logging a user out of all sessions.
func (r *TokenRepository) SoftDeleteByUserID(ctx context.Context, userID int) ([]int, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to revoke all refresh tokens for a user")

	query := `UPDATE refresh_tokens SET deleted_at = NOW() WHERE user_id = $1 AND deleted_at IS NULL RETURNING id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke refresh tokens query")
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			log.WithError(err).Error("Failed to scan revoked refresh token id")
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
