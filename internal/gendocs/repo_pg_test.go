package gendocs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateWithVersionReservesAndInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := GeneratedDocument{
		ID:         "doc-1",
		UserID:     "user-1",
		ProfileID:  "profile-1",
		TemplateID: "classic",
		JobID:      "job-1",
		Label:      "Backend CV",
		Format:     "pdf",
		StorageKey: "user-1/doc-1.pdf",
		SizeBytes:  2048,
		Checksum:   "abc123",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO document_version_counters").
		WithArgs(doc.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"last_version"}).AddRow(7))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(size_bytes\\), 0\\)").
		WithArgs(doc.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1000))
	mock.ExpectExec("INSERT INTO generated_documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.ProfileID,
			doc.TemplateID,
			doc.JobID,
			7,
			doc.Label,
			false,
			doc.Format,
			doc.StorageKey,
			doc.SizeBytes,
			doc.Checksum,
			doc.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.CreateWithVersion(context.Background(), doc, 1<<20)
	if err != nil {
		t.Fatalf("CreateWithVersion: %v", err)
	}
	if created.Version != 7 {
		t.Fatalf("expected reserved version 7, got %d", created.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithVersionRollsBackOnQuota(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := GeneratedDocument{ID: "doc-1", UserID: "user-1", SizeBytes: 500}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO document_version_counters").
		WithArgs(doc.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"last_version"}).AddRow(3))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(size_bytes\\), 0\\)").
		WithArgs(doc.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(800))
	mock.ExpectRollback()

	_, err = repo.CreateWithVersion(context.Background(), doc, 1000)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetDefaultSwapsInOneStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1"))
	mock.ExpectExec("UPDATE generated_documents").
		WithArgs("user-1", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := repo.SetDefault(context.Background(), "user-1", "doc-1"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetDefaultRejectsForeignDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("someone-else"))
	mock.ExpectRollback()

	if err := repo.SetDefault(context.Background(), "user-1", "doc-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
