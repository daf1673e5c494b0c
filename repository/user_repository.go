package repository

import (
	"auth-service/logger"
	"auth-service/model"
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrEmailTaken is returned by CreateUser when the unique email constraint fires.
var ErrEmailTaken = errors.New("email already taken")

const uniqueViolation = "23505"

// IUserRepository defines the contract for user database operations.
// Lookups return sql.ErrNoRows when the user does not exist.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts user and fills in its ID and CreatedAt.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"email": user.Email,
		"role":  user.Role,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (first_name, last_name, email, password, role) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, user.FirstName, user.LastName, user.Email, user.Password, string(user.Role)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Warn("Email already exists")
			return ErrEmailTaken
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	log := logger.Log.WithField("email", email)
	log.Info("Executing query to get user by email")

	query := `SELECT id, first_name, last_name, email, password, role, created_at FROM users WHERE email = $1`
	return r.scanUser(log, r.DB.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to get user by ID")

	query := `SELECT id, first_name, last_name, email, password, role, created_at FROM users WHERE id = $1`
	return r.scanUser(log, r.DB.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanUser(log *logrus.Entry, row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password, &role, &user.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user query")
		}
		return nil, err
	}
	user.Role = model.Role(role)
	return user, nil
}
