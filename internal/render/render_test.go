package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
)

func sampleAggregate() resumes.Aggregate {
	agg := resumes.NewAggregate()
	agg.Title = "Backend Resume"
	agg.Personal = resumes.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com", Location: "London"}
	agg.Experience = []resumes.Experience{{ID: "x1", Company: "Analytical Engines", Position: "Programmer", StartDate: "2018-07", Current: true, Description: "Wrote the first programs."}}
	agg.Skills = []resumes.Skill{{ID: "s1", Name: "Go", Proficiency: "Expert"}}
	return agg
}

func TestAllVariantsRenderContent(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, v := range Variants {
		html, err := r.Render(sampleAggregate(), v.ID)
		require.NoError(t, err, v.Name)
		assert.Contains(t, html, "Ada Lovelace", v.Name)
		assert.Contains(t, html, "Analytical Engines", v.Name)
		assert.Contains(t, html, "Present", v.Name, "current role shows no end date")
		assert.Contains(t, html, `id="resume"`, v.Name)
	}
}

func TestVariantsDiffer(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	minimal, err := r.Render(sampleAggregate(), 1)
	require.NoError(t, err)
	modern, err := r.Render(sampleAggregate(), 2)
	require.NoError(t, err)

	assert.NotEqual(t, minimal, modern)
}

func TestUnknownTemplateFallsBack(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	fallback, err := r.Render(sampleAggregate(), 99)
	require.NoError(t, err)
	first, err := r.Render(sampleAggregate(), Variants[0].ID)
	require.NoError(t, err)

	assert.Equal(t, first, fallback, "unknown ids use the first variant")
}

func TestEmptySectionsAreOmitted(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	agg := resumes.NewAggregate()
	agg.Personal = resumes.PersonalInfo{FullName: "Ada Lovelace"}

	for _, v := range Variants {
		html, err := r.Render(agg, v.ID)
		require.NoError(t, err, v.Name)
		for _, heading := range []string{"Education", "Skills", "Projects", "Certifications", "Languages", "Interests"} {
			assert.False(t, strings.Contains(html, ">"+heading+"<"), "%s: empty %s section should not render", v.Name, heading)
		}
	}
}

func TestContentIsEscaped(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	agg := resumes.NewAggregate()
	agg.Personal = resumes.PersonalInfo{FullName: `<script>alert("x")</script>`}

	for _, v := range Variants {
		html, err := r.Render(agg, v.ID)
		require.NoError(t, err, v.Name)
		assert.NotContains(t, html, "<script>alert", v.Name)
	}
}
