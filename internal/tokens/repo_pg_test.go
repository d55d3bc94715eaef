package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoConsumeGuardedUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	expires := now.Add(time.Hour)

	mock.ExpectQuery("UPDATE access_tokens").
		WithArgs("tok", now).
		WillReturnRows(sqlmock.NewRows([]string{
			"token", "document_id", "expires_at", "use_count", "max_uses", "revoked", "created_at",
		}).AddRow("tok", "doc-1", expires, 2, 5, false, now))

	got, err := repo.Consume(context.Background(), "tok", now)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.UseCount != 2 || got.DocumentID != "doc-1" {
		t.Fatalf("unexpected token: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoInspectMissingTokenIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM access_tokens").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{
			"token", "document_id", "expires_at", "use_count", "max_uses", "revoked", "created_at",
		}))

	if _, err := repo.Inspect(context.Background(), "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoConsumeNoRowsMeansInvalid(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE access_tokens").
		WithArgs("tok", now).
		WillReturnRows(sqlmock.NewRows([]string{
			"token", "document_id", "expires_at", "use_count", "max_uses", "revoked", "created_at",
		}))

	if _, err := repo.Consume(context.Background(), "tok", now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
