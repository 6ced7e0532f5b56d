package wizard

import (
	"context"
	"time"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

// Steps lists the wizard steps in order: the eight content sections followed
// by the template chooser.
var Steps = []string{
	"personal",
	"education",
	"experience",
	"skills",
	"projects",
	"certifications",
	"languages",
	"hobbies",
	"template",
}

// Form is one editing session over a resume aggregate. Edits land in memory
// and are mirrored to the session cache; nothing reaches the store until Save.
// A Form serves a single caller and is not safe for concurrent use.
type Form struct {
	svc   *resumes.Service
	cache *Cache
	owner users.User

	ResumeID  string
	Aggregate resumes.Aggregate
	step      int

	IsLoading bool
	IsSaving  bool
	LastSaved time.Time
	LastError error
}

// NewForm starts a fresh session with default data. If the user has cached
// state from an earlier session, it is restored.
func NewForm(svc *resumes.Service, cache *Cache, owner users.User) *Form {
	f := &Form{
		svc:       svc,
		cache:     cache,
		owner:     owner,
		Aggregate: resumes.NewAggregate(),
	}
	f.restoreFromCache()
	return f
}

func (f *Form) restoreFromCache() {
	resumeID, step, agg, ok, err := f.cache.Read(f.owner.ID)
	if err != nil {
		telemetry.Warn("wizard.cache_read_failed", map[string]any{"error": err.Error()})
		return
	}
	if !ok {
		return
	}
	f.ResumeID = resumeID
	f.Aggregate = agg
	f.step = clampStep(step)
}

func clampStep(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(Steps) {
		return len(Steps) - 1
	}
	return i
}

// Step returns the current step index.
func (f *Form) Step() int { return f.step }

// StepName returns the current step's name.
func (f *Form) StepName() string { return Steps[f.step] }

// Next advances one step. Advancing past the last step is a no-op.
func (f *Form) Next() { f.step = clampStep(f.step + 1) }

// Prev steps back. Stepping before the first step is a no-op.
func (f *Form) Prev() { f.step = clampStep(f.step - 1) }

// GoTo jumps to the given step, clamped to the valid range.
func (f *Form) GoTo(i int) { f.step = clampStep(i) }

// UpdatePersonal shallow-merges a patch into the personal section.
func (f *Form) UpdatePersonal(patch resumes.PersonalPatch) {
	f.Aggregate.Personal.Apply(patch)
	f.mirror()
}

// ReplaceSection swaps a collection section wholesale.
func (f *Form) ReplaceSection(kind resumes.SectionKind, value any) error {
	if err := f.Aggregate.ReplaceCollection(kind, value); err != nil {
		return err
	}
	f.mirror()
	return nil
}

// SetTitle updates the resume title.
func (f *Form) SetTitle(title string) {
	f.Aggregate.Title = title
	f.mirror()
}

// SetTemplateID records the template choice. Unknown IDs are kept as-is;
// rendering falls back to the default variant for them.
func (f *Form) SetTemplateID(id int) {
	f.Aggregate.TemplateID = id
	f.mirror()
}

// mirror writes current state to the session cache. Failures are logged and
// otherwise ignored; the cache is a convenience, not the store.
func (f *Form) mirror() {
	if err := f.cache.Write(f.owner.ID, f.ResumeID, f.step, f.Aggregate); err != nil {
		telemetry.Warn("wizard.cache_write_failed", map[string]any{"error": err.Error()})
	}
}

// Save persists the aggregate through the resumes service. The first save
// creates the resume and pins its ID for later saves.
func (f *Form) Save(ctx context.Context) error {
	f.IsSaving = true
	defer func() { f.IsSaving = false }()

	resumeID, err := f.svc.Save(ctx, f.owner, f.Aggregate, f.ResumeID)
	if err != nil {
		f.LastError = err
		return err
	}
	f.ResumeID = resumeID
	f.LastSaved = time.Now().UTC()
	f.LastError = nil
	f.mirror()
	return nil
}

// Load replaces the working copy with the stored resume.
func (f *Form) Load(ctx context.Context, resumeID string) error {
	f.IsLoading = true
	defer func() { f.IsLoading = false }()

	_, agg, err := f.svc.LoadForUser(ctx, f.owner.ID, resumeID)
	if err != nil {
		f.LastError = err
		return err
	}
	f.ResumeID = resumeID
	f.Aggregate = agg
	f.LastError = nil
	f.mirror()
	return nil
}

// Finalize saves the aggregate and drops the session cache.
func (f *Form) Finalize(ctx context.Context) error {
	if err := f.Save(ctx); err != nil {
		return err
	}
	if err := f.cache.Clear(f.owner.ID); err != nil {
		telemetry.Warn("wizard.cache_clear_failed", map[string]any{"error": err.Error()})
	}
	return nil
}
