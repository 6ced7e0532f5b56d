package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"resume-builder/internal/resumes"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Variant describes one visual style a resume can render in.
type Variant struct {
	ID   int
	Name string
	file string
}

// Variants lists the available styles. IDs are stable; stored resumes refer
// to them by number.
var Variants = []Variant{
	{ID: 1, Name: "Minimal", file: "templates/minimal.html.tmpl"},
	{ID: 2, Name: "Modern", file: "templates/modern.html.tmpl"},
	{ID: 3, Name: "Elegant", file: "templates/elegant.html.tmpl"},
}

// Renderer holds the parsed variant templates.
type Renderer struct {
	byID map[int]*template.Template
}

// New parses all embedded variants.
func New() (*Renderer, error) {
	r := &Renderer{byID: make(map[int]*template.Template, len(Variants))}
	for _, v := range Variants {
		tmpl, err := template.ParseFS(templateFS, v.file)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", v.Name, err)
		}
		r.byID[v.ID] = tmpl
	}
	return r, nil
}

// Render executes the chosen variant against the aggregate. An unknown
// template ID falls back to the first variant instead of failing.
func (r *Renderer) Render(agg resumes.Aggregate, templateID int) (string, error) {
	tmpl, ok := r.byID[templateID]
	if !ok {
		tmpl = r.byID[Variants[0].ID]
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{agg}); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}
	return buf.String(), nil
}

// pageData adapts the aggregate for templates. Collections are truthy only
// when non-empty, so templates gate those sections directly; the personal
// record needs an explicit check.
type pageData struct {
	resumes.Aggregate
}

func (d pageData) HasPersonal() bool {
	return d.Personal != (resumes.PersonalInfo{})
}
