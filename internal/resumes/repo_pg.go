package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateResume inserts a new resume row.
func (r *PGRepo) CreateResume(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    title,
    template_id,
    is_public,
    public_url,
    created_at,
    updated_at,
    last_edited
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var publicURL sql.NullString
	if res.PublicURL != "" {
		publicURL = sql.NullString{String: res.PublicURL, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.UserID,
		res.Title,
		res.TemplateID,
		res.IsPublic,
		publicURL,
		res.CreatedAt,
		res.UpdatedAt,
		res.LastEdited,
	)
	return err
}

// GetResume fetches a resume by ID.
func (r *PGRepo) GetResume(ctx context.Context, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, title, template_id, is_public, public_url, created_at, updated_at, last_edited
FROM resumes
WHERE id = $1
LIMIT 1`
	var res Resume
	var publicURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&res.ID,
		&res.UserID,
		&res.Title,
		&res.TemplateID,
		&res.IsPublic,
		&publicURL,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.LastEdited,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if publicURL.Valid {
		res.PublicURL = publicURL.String
	}
	return res, nil
}

// UpdateResumeMeta writes the title, template choice, and edit timestamps.
func (r *PGRepo) UpdateResumeMeta(ctx context.Context, resumeID, title string, templateID int, editedAt time.Time) error {
	const query = `
UPDATE resumes
SET title = $1, template_id = $2, updated_at = $3, last_edited = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, title, templateID, editedAt, resumeID)
	if err != nil {
		return err
	}
	updated, _ := res.RowsAffected()
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVisibility toggles public sharing for a resume.
func (r *PGRepo) SetVisibility(ctx context.Context, resumeID string, isPublic bool, publicURL string, updatedAt time.Time) error {
	const query = `
UPDATE resumes
SET is_public = $1, public_url = $2, updated_at = $3
WHERE id = $4`
	var url sql.NullString
	if publicURL != "" {
		url = sql.NullString{String: publicURL, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx, query, isPublic, url, updatedAt, resumeID)
	if err != nil {
		return err
	}
	updated, _ := res.RowsAffected()
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists a user's resumes, most recently edited first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT id, user_id, title, template_id, is_public, public_url, created_at, updated_at, last_edited
FROM resumes
WHERE user_id = $1
ORDER BY last_edited DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var res Resume
		var publicURL sql.NullString
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.Title,
			&res.TemplateID,
			&res.IsPublic,
			&publicURL,
			&res.CreatedAt,
			&res.UpdatedAt,
			&res.LastEdited,
		); err != nil {
			return nil, err
		}
		if publicURL.Valid {
			res.PublicURL = publicURL.String
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// DeleteResume removes a resume. Section rows go with it via FK cascade.
func (r *PGRepo) DeleteResume(ctx context.Context, resumeID string) error {
	const query = `DELETE FROM resumes WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, resumeID)
	if err != nil {
		return err
	}
	deleted, _ := res.RowsAffected()
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSection fetches the section row for one kind of one resume.
func (r *PGRepo) GetSection(ctx context.Context, resumeID string, kind SectionKind) (Section, error) {
	const query = `
SELECT id, resume_id, section_kind, section_payload, created_at, updated_at
FROM resume_sections
WHERE resume_id = $1 AND section_kind = $2
LIMIT 1`
	var sec Section
	var kindStr string
	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, resumeID, string(kind)).Scan(
		&sec.ID,
		&sec.ResumeID,
		&kindStr,
		&payload,
		&sec.CreatedAt,
		&sec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Section{}, ErrNotFound
		}
		return Section{}, err
	}
	sec.Kind = SectionKind(kindStr)
	sec.Payload = json.RawMessage(payload)
	return sec, nil
}

// InsertSection inserts a new section row.
func (r *PGRepo) InsertSection(ctx context.Context, sec Section) error {
	const query = `
INSERT INTO resume_sections (
    id,
    resume_id,
    section_kind,
    section_payload,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		sec.ID,
		sec.ResumeID,
		string(sec.Kind),
		[]byte(sec.Payload),
		sec.CreatedAt,
		sec.UpdatedAt,
	)
	return err
}

// UpdateSectionPayload replaces the stored payload of an existing section row.
func (r *PGRepo) UpdateSectionPayload(ctx context.Context, sectionID string, payload json.RawMessage, updatedAt time.Time) error {
	const query = `
UPDATE resume_sections
SET section_payload = $1, updated_at = $2
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, []byte(payload), updatedAt, sectionID)
	if err != nil {
		return err
	}
	updated, _ := res.RowsAffected()
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSections returns all section rows of a resume.
func (r *PGRepo) ListSections(ctx context.Context, resumeID string) ([]Section, error) {
	const query = `
SELECT id, resume_id, section_kind, section_payload, created_at, updated_at
FROM resume_sections
WHERE resume_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		var sec Section
		var kindStr string
		var payload []byte
		if err := rows.Scan(
			&sec.ID,
			&sec.ResumeID,
			&kindStr,
			&payload,
			&sec.CreatedAt,
			&sec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sec.Kind = SectionKind(kindStr)
		sec.Payload = json.RawMessage(payload)
		out = append(out, sec)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
