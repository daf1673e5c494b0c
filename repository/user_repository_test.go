package repository

import (
	"auth-service/model"
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

var userColumns = []string{"id", "first_name", "last_name", "email", "password", "role", "created_at"}

func TestUserRepository_CreateUser(t *testing.T) {
	insert := regexp.QuoteMeta(`INSERT INTO users (first_name, last_name, email, password, role) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`)

	t.Run("success", func(t *testing.T) {
		repo, mock := newUserRepoWithMock(t)
		createdAt := time.Now()
		mock.ExpectQuery(insert).
			WithArgs("A", "B", "a@b.com", "hash", "customer").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, createdAt))

		user := &model.User{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "hash", Role: model.RoleCustomer}
		err := repo.CreateUser(context.Background(), user)

		assert.NoError(t, err)
		assert.Equal(t, 7, user.ID)
		assert.Equal(t, createdAt, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock := newUserRepoWithMock(t)
		mock.ExpectQuery(insert).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.CreateUser(context.Background(), &model.User{Email: "a@b.com", Role: model.RoleCustomer})

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newUserRepoWithMock(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(insert).WillReturnError(dbErr)

		err := repo.CreateUser(context.Background(), &model.User{Email: "a@b.com"})

		assert.Equal(t, dbErr, err)
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, first_name, last_name, email, password, role, created_at FROM users WHERE email = $1`)

	t.Run("found", func(t *testing.T) {
		repo, mock := newUserRepoWithMock(t)
		mock.ExpectQuery(query).
			WithArgs("a@b.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "A", "B", "a@b.com", "hash", "admin", time.Now()))

		user, err := repo.GetUserByEmail(context.Background(), "a@b.com")

		require.NoError(t, err)
		assert.Equal(t, 3, user.ID)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.Equal(t, "hash", user.Password)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newUserRepoWithMock(t)
		mock.ExpectQuery(query).WithArgs("none@b.com").WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail(context.Background(), "none@b.com")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(9, "A", "B", "a@b.com", "hash", "customer", time.Now()))

	user, err := repo.GetUserByID(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, 9, user.ID)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
