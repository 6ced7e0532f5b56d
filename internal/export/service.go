package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

// Result is one finished export.
type Result struct {
	FileName   string
	Data       []byte
	PageCount  int
	ArchiveKey string
}

// Service ties resume loading, PDF generation, and archival together.
type Service struct {
	Resumes *resumes.Service
	Gen     *Generator
	Archive object.ObjectStore // optional; exports are archived when set
}

// NewService constructs a Service.
func NewService(resumesSvc *resumes.Service, gen *Generator, archive object.ObjectStore) *Service {
	return &Service{Resumes: resumesSvc, Gen: gen, Archive: archive}
}

// Export generates a PDF for a resume the caller owns. The archive write is
// best-effort; a failed archive still returns the PDF.
func (s *Service) Export(ctx context.Context, userID, resumeID string) (Result, error) {
	_, agg, err := s.Resumes.LoadForUser(ctx, userID, resumeID)
	if err != nil {
		return Result{}, err
	}

	data, err := s.Gen.Generate(ctx, agg, agg.TemplateID)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		FileName: FileName(agg),
		Data:     data,
	}

	pages, err := PageCount(data)
	if err != nil {
		telemetry.Warn("export.page_count_failed", map[string]any{
			"resume_id": resumeID,
			"error":     err.Error(),
		})
	} else {
		result.PageCount = pages
	}

	if s.Archive != nil {
		key, size, _, err := s.Archive.Save(ctx, userID, result.FileName, bytes.NewReader(data))
		if err != nil {
			telemetry.Warn("export.archive_failed", map[string]any{
				"resume_id": resumeID,
				"error":     err.Error(),
			})
		} else {
			result.ArchiveKey = key
			telemetry.Info("export.archived", map[string]any{
				"resume_id":  resumeID,
				"object_key": key,
				"size_bytes": strconv.FormatInt(size, 10),
			})
		}
	}

	return result, nil
}

// OpenArchived streams a previously archived export.
func (s *Service) OpenArchived(ctx context.Context, key string) ([]byte, error) {
	if s.Archive == nil {
		return nil, fmt.Errorf("archive not configured")
	}
	rc, err := s.Archive.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
