package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
	"resume-builder/internal/users"
)

func newTestForm(t *testing.T) (*Form, *resumes.Service, *Cache) {
	t.Helper()
	svc := resumes.NewService(resumes.NewMemoryRepo(), users.NewService(users.NewMemoryRepo()))
	cache := NewCache(t.TempDir())
	owner := users.User{ID: "guest:wizard-tester"}
	return NewForm(svc, cache, owner), svc, cache
}

func TestStepNavigationClamps(t *testing.T) {
	f, _, _ := newTestForm(t)

	assert.Equal(t, 0, f.Step())
	assert.Equal(t, "personal", f.StepName())

	f.Prev()
	assert.Equal(t, 0, f.Step(), "stepping before the first step is a no-op")

	for i := 0; i < len(Steps)+5; i++ {
		f.Next()
	}
	assert.Equal(t, len(Steps)-1, f.Step(), "stepping past the last step is a no-op")
	assert.Equal(t, "template", f.StepName())

	f.GoTo(-3)
	assert.Equal(t, 0, f.Step())
	f.GoTo(99)
	assert.Equal(t, len(Steps)-1, f.Step())
}

func TestUpdatePersonalMergesPartially(t *testing.T) {
	f, _, _ := newTestForm(t)

	name := "Ada Lovelace"
	f.UpdatePersonal(resumes.PersonalPatch{FullName: &name})
	email := "ada@example.com"
	f.UpdatePersonal(resumes.PersonalPatch{Email: &email})

	assert.Equal(t, "Ada Lovelace", f.Aggregate.Personal.FullName, "earlier field survives later patch")
	assert.Equal(t, "ada@example.com", f.Aggregate.Personal.Email)
}

func TestReplaceSectionIsWholesale(t *testing.T) {
	f, _, _ := newTestForm(t)

	require.NoError(t, f.ReplaceSection(resumes.SectionSkills, []resumes.Skill{
		{ID: "s1", Name: "Go"},
		{ID: "s2", Name: "SQL"},
	}))
	require.NoError(t, f.ReplaceSection(resumes.SectionSkills, []resumes.Skill{
		{ID: "s3", Name: "Rust"},
	}))

	require.Len(t, f.Aggregate.Skills, 1)
	assert.Equal(t, "Rust", f.Aggregate.Skills[0].Name)

	err := f.ReplaceSection(resumes.SectionSkills, []resumes.Hobby{{ID: "h1"}})
	assert.Error(t, err)
}

func TestCacheMirrorsAndRestores(t *testing.T) {
	svc := resumes.NewService(resumes.NewMemoryRepo(), users.NewService(users.NewMemoryRepo()))
	cache := NewCache(t.TempDir())
	owner := users.User{ID: "guest:wizard-tester"}

	f := NewForm(svc, cache, owner)
	name := "Ada Lovelace"
	f.UpdatePersonal(resumes.PersonalPatch{FullName: &name})
	f.SetTitle("Cached Resume")
	f.Next()
	f.SetTemplateID(3)

	// A new session for the same user picks up the cached state.
	restored := NewForm(svc, cache, owner)
	assert.Equal(t, "Cached Resume", restored.Aggregate.Title)
	assert.Equal(t, "Ada Lovelace", restored.Aggregate.Personal.FullName)
	assert.Equal(t, 3, restored.Aggregate.TemplateID)

	// A different user starts clean.
	other := NewForm(svc, cache, users.User{ID: "guest:someone-else"})
	assert.Equal(t, resumes.DefaultTitle, other.Aggregate.Title)
	assert.Empty(t, other.Aggregate.Personal.FullName)
}

func TestSavePinsResumeID(t *testing.T) {
	f, svc, _ := newTestForm(t)
	ctx := context.Background()

	name := "Ada Lovelace"
	f.UpdatePersonal(resumes.PersonalPatch{FullName: &name})

	require.NoError(t, f.Save(ctx))
	require.NotEmpty(t, f.ResumeID)
	assert.False(t, f.LastSaved.IsZero())
	assert.NoError(t, f.LastError)

	first := f.ResumeID
	require.NoError(t, f.Save(ctx))
	assert.Equal(t, first, f.ResumeID, "later saves reuse the created resume")

	items, err := svc.List(ctx, "guest:wizard-tester")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLoadReplacesWorkingCopy(t *testing.T) {
	f, svc, _ := newTestForm(t)
	ctx := context.Background()

	agg := resumes.NewAggregate()
	agg.Title = "Stored Resume"
	agg.Skills = []resumes.Skill{{ID: "s1", Name: "Go"}}
	resumeID, err := svc.Save(ctx, users.User{ID: "guest:wizard-tester"}, agg, "")
	require.NoError(t, err)

	name := "Scratch"
	f.UpdatePersonal(resumes.PersonalPatch{FullName: &name})

	require.NoError(t, f.Load(ctx, resumeID))
	assert.Equal(t, "Stored Resume", f.Aggregate.Title)
	assert.Empty(t, f.Aggregate.Personal.FullName, "working copy is replaced, not merged")
	assert.Equal(t, resumeID, f.ResumeID)
}

func TestFinalizeClearsCache(t *testing.T) {
	f, svc, cache := newTestForm(t)
	ctx := context.Background()

	name := "Ada Lovelace"
	f.UpdatePersonal(resumes.PersonalPatch{FullName: &name})
	require.NoError(t, f.Finalize(ctx))

	_, _, _, ok, err := cache.Read("guest:wizard-tester")
	require.NoError(t, err)
	assert.False(t, ok, "finalize drops the session cache")

	// The save itself landed.
	items, err := svc.List(ctx, "guest:wizard-tester")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
