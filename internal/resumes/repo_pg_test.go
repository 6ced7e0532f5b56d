package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateResume(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	res := Resume{
		ID:         "resume-1",
		UserID:     "user-1",
		Title:      "Backend Resume",
		TemplateID: 2,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastEdited: now,
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			res.ID,
			res.UserID,
			res.Title,
			res.TemplateID,
			false,
			sql.NullString{}, // public_url
			res.CreatedAt,
			res.UpdatedAt,
			res.LastEdited,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateResume(context.Background(), res); err != nil {
		t.Fatalf("CreateResume: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetResumeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetResume(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetSection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	payload := []byte(`[{"id":"s1","name":"Go"}]`)

	rows := sqlmock.NewRows([]string{"id", "resume_id", "section_kind", "section_payload", "created_at", "updated_at"}).
		AddRow("sec-1", "resume-1", "skills", payload, now, now)
	mock.ExpectQuery("SELECT (.+) FROM resume_sections").
		WithArgs("resume-1", "skills").
		WillReturnRows(rows)

	sec, err := repo.GetSection(context.Background(), "resume-1", SectionSkills)
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	if sec.Kind != SectionSkills {
		t.Fatalf("expected skills kind, got %s", sec.Kind)
	}
	var skills []Skill
	if err := json.Unmarshal(sec.Payload, &skills); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(skills) != 1 || skills[0].Name != "Go" {
		t.Fatalf("unexpected payload: %+v", skills)
	}
}

func TestPGRepoUpdateSectionPayloadMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE resume_sections").
		WithArgs([]byte(`[]`), now, "sec-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateSectionPayload(context.Background(), "sec-missing", json.RawMessage(`[]`), now)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteResume(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("resume-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteResume(context.Background(), "resume-1"); err != nil {
		t.Fatalf("DeleteResume: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
