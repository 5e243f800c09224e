package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/models"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var userColumns = []string{"user_id", "name", "email", "password_hash", "created_at"}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Name:         "John",
		Email:        "john@example.com",
		PasswordHash: "hash",
	}

	now := time.Now()

	rows := sqlmock.
		NewRows(userColumns).
		AddRow(1, user.Name, user.Email, user.PasswordHash, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Name, user.Email, user.PasswordHash).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "taken@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com"})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows(userColumns).
		AddRow(42, "John", "john@example.com", "hash", time.Now())

	mock.ExpectQuery("SELECT user_id, name, email, password_hash, created_at").
		WithArgs("john@example.com").
		WillReturnRows(rows)

	found, err := repo.FindUserByEmail(context.Background(), "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 42 {
		t.Errorf("expected UserID=42, got %d", found.UserID)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id, name, email, password_hash, created_at").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id, name, email, password_hash, created_at").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUser(context.Background(), 404)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestBuildUpdateUserQuery(t *testing.T) {
	repo, _, db := newTestUserRepo(t)
	defer db.Close()

	name := "New Name"
	email := "new@example.com"
	password := "new-hash"

	tests := []struct {
		name       string
		update     models.UserUpdate
		wantSet    string
		wantArgs   []any
		wantUserID string
	}{
		{
			name:       "name only",
			update:     models.UserUpdate{Name: &name},
			wantSet:    "name = $1",
			wantArgs:   []any{name, int64(7)},
			wantUserID: "$2",
		},
		{
			name:       "email and password",
			update:     models.UserUpdate{Email: &email, Password: &password},
			wantSet:    "email = $1, password_hash = $2",
			wantArgs:   []any{email, password, int64(7)},
			wantUserID: "$3",
		},
		{
			name:       "all fields",
			update:     models.UserUpdate{Name: &name, Email: &email, Password: &password},
			wantSet:    "name = $1, email = $2, password_hash = $3",
			wantArgs:   []any{name, email, password, int64(7)},
			wantUserID: "$4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := repo.buildUpdateUserQuery(7, tt.update)

			if !strings.Contains(query, tt.wantSet) {
				t.Errorf("expected SET clause %q in query: %s", tt.wantSet, query)
			}
			if !strings.Contains(query, "WHERE user_id = "+tt.wantUserID) {
				t.Errorf("expected WHERE user_id = %s in query: %s", tt.wantUserID, query)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("expected %d args, got %d", len(tt.wantArgs), len(args))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d: expected %v, got %v", i, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestUpdateUser_NoFieldsFallsBackToGet(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows(userColumns).
		AddRow(7, "John", "john@example.com", "hash", time.Now())

	// an empty update must degenerate to a plain read
	mock.ExpectQuery("SELECT user_id, name, email, password_hash, created_at").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	updated, err := repo.UpdateUser(context.Background(), 7, models.UserUpdate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", updated.UserID)
	}
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	email := "taken@example.com"

	mock.ExpectQuery("UPDATE users SET").
		WithArgs(email, int64(7)).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.UpdateUser(context.Background(), 7, models.UserUpdate{Email: &email})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestDeleteUser_CascadeInTransaction(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM todos").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteUser_NotFoundRollsBack(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM todos").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteUser(context.Background(), 404)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetAvatar_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	avatar := []byte{0x89, 0x50, 0x4e, 0x47}

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(7), avatar).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetAvatar(context.Background(), 7, avatar); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetAvatar_UserNotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(404), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAvatar(context.Background(), 404, []byte{1})
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestGetAvatar_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	avatar := []byte{0x89, 0x50, 0x4e, 0x47}

	mock.ExpectQuery("SELECT avatar").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"avatar"}).AddRow(avatar))

	got, err := repo.GetAvatar(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(avatar) {
		t.Errorf("expected %d avatar bytes, got %d", len(avatar), len(got))
	}
}

func TestGetAvatar_NullMeansNotSet(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	// user row exists, avatar column is NULL
	mock.ExpectQuery("SELECT avatar").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"avatar"}).AddRow(nil))

	_, err := repo.GetAvatar(context.Background(), 7)
	if !errors.Is(err, ErrAvatarNotFound) {
		t.Fatalf("expected ErrAvatarNotFound, got %v", err)
	}
}

func TestGetAvatar_UserNotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT avatar").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAvatar(context.Background(), 404)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}
