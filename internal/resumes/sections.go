package resumes

import (
	"encoding/json"
	"fmt"
)

// SectionKind names one category of resume content. The set is closed:
// exactly eight kinds exist and no kind is added or removed at runtime.
type SectionKind string

const (
	SectionPersonal       SectionKind = "personal"
	SectionEducation      SectionKind = "education"
	SectionExperience     SectionKind = "experience"
	SectionSkills         SectionKind = "skills"
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
	SectionLanguages      SectionKind = "languages"
	SectionHobbies        SectionKind = "hobbies"
)

// SectionKinds lists the content sections in wizard order.
var SectionKinds = []SectionKind{
	SectionPersonal,
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionLanguages,
	SectionHobbies,
}

// Valid reports whether k is one of the eight known kinds.
func (k SectionKind) Valid() bool {
	_, ok := sectionCodecs[k]
	return ok
}

// PersonalInfo is the singleton contact record.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Education is one schooling entry.
type Education struct {
	ID           string `json:"id"`
	Degree       string `json:"degree"`
	Institution  string `json:"institution"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	GPA          string `json:"gpa,omitempty"`
	Achievements string `json:"achievements,omitempty"`
}

// Experience is one work-history entry.
type Experience struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
	Achievements string `json:"achievements,omitempty"`
}

// Skill is one skill entry with proficiency and category labels.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
	Category    string `json:"category"`
}

// Project is one project entry.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Technologies string `json:"technologies"`
	Description  string `json:"description"`
	Link         string `json:"link,omitempty"`
	GithubLink   string `json:"githubLink,omitempty"`
}

// Certification is one certification entry.
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link,omitempty"`
}

// Language is one spoken-language entry.
type Language struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Hobby is one hobby entry.
type Hobby struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Aggregate is the in-memory working copy of one resume.
type Aggregate struct {
	Title          string          `json:"title"`
	TemplateID     int             `json:"templateId"`
	Personal       PersonalInfo    `json:"personal"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
	Hobbies        []Hobby         `json:"hobbies"`
}

const (
	DefaultTitle      = "My Resume"
	DefaultTemplateID = 1
)

// NewAggregate returns the default empty aggregate. Collections are empty but
// non-nil so a save/load round trip compares equal.
func NewAggregate() Aggregate {
	return Aggregate{
		Title:          DefaultTitle,
		TemplateID:     DefaultTemplateID,
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []Skill{},
		Projects:       []Project{},
		Certifications: []Certification{},
		Languages:      []Language{},
		Hobbies:        []Hobby{},
	}
}

// SectionEmpty reports whether the given section holds no content.
func (a Aggregate) SectionEmpty(kind SectionKind) bool {
	switch kind {
	case SectionPersonal:
		return a.Personal == PersonalInfo{}
	case SectionEducation:
		return len(a.Education) == 0
	case SectionExperience:
		return len(a.Experience) == 0
	case SectionSkills:
		return len(a.Skills) == 0
	case SectionProjects:
		return len(a.Projects) == 0
	case SectionCertifications:
		return len(a.Certifications) == 0
	case SectionLanguages:
		return len(a.Languages) == 0
	case SectionHobbies:
		return len(a.Hobbies) == 0
	default:
		return true
	}
}

// Empty reports whether every section is empty.
func (a Aggregate) Empty() bool {
	for _, kind := range SectionKinds {
		if !a.SectionEmpty(kind) {
			return false
		}
	}
	return true
}

// PersonalPatch carries a partial update for the personal section. Nil fields
// are left untouched.
type PersonalPatch struct {
	FullName  *string `json:"fullName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	GitHub    *string `json:"github,omitempty"`
	Portfolio *string `json:"portfolio,omitempty"`
}

// Apply shallow-merges the patch into the record.
func (p *PersonalInfo) Apply(patch PersonalPatch) {
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.LinkedIn != nil {
		p.LinkedIn = *patch.LinkedIn
	}
	if patch.GitHub != nil {
		p.GitHub = *patch.GitHub
	}
	if patch.Portfolio != nil {
		p.Portfolio = *patch.Portfolio
	}
}

// ReplaceCollection swaps a non-personal section's collection wholesale.
// The value must match the section's record type.
func (a *Aggregate) ReplaceCollection(kind SectionKind, value any) error {
	switch kind {
	case SectionPersonal:
		return fmt.Errorf("%w: personal section takes a patch, not a collection", ErrInvalidInput)
	case SectionEducation:
		v, ok := value.([]Education)
		if !ok {
			return fmt.Errorf("%w: expected []Education for %s", ErrInvalidInput, kind)
		}
		a.Education = v
	case SectionExperience:
		v, ok := value.([]Experience)
		if !ok {
			return fmt.Errorf("%w: expected []Experience for %s", ErrInvalidInput, kind)
		}
		a.Experience = v
	case SectionSkills:
		v, ok := value.([]Skill)
		if !ok {
			return fmt.Errorf("%w: expected []Skill for %s", ErrInvalidInput, kind)
		}
		a.Skills = v
	case SectionProjects:
		v, ok := value.([]Project)
		if !ok {
			return fmt.Errorf("%w: expected []Project for %s", ErrInvalidInput, kind)
		}
		a.Projects = v
	case SectionCertifications:
		v, ok := value.([]Certification)
		if !ok {
			return fmt.Errorf("%w: expected []Certification for %s", ErrInvalidInput, kind)
		}
		a.Certifications = v
	case SectionLanguages:
		v, ok := value.([]Language)
		if !ok {
			return fmt.Errorf("%w: expected []Language for %s", ErrInvalidInput, kind)
		}
		a.Languages = v
	case SectionHobbies:
		v, ok := value.([]Hobby)
		if !ok {
			return fmt.Errorf("%w: expected []Hobby for %s", ErrInvalidInput, kind)
		}
		a.Hobbies = v
	default:
		return ErrUnknownSection
	}
	return nil
}

// sectionCodec pairs the serializer and deserializer for one section kind.
// The map is the single place the kind-to-field mapping lives.
type sectionCodec struct {
	marshal func(Aggregate) ([]byte, error)
	assign  func(*Aggregate, []byte) error
}

var sectionCodecs = map[SectionKind]sectionCodec{
	SectionPersonal: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Personal) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Personal) },
	},
	SectionEducation: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Education) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Education) },
	},
	SectionExperience: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Experience) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Experience) },
	},
	SectionSkills: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Skills) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Skills) },
	},
	SectionProjects: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Projects) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Projects) },
	},
	SectionCertifications: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Certifications) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Certifications) },
	},
	SectionLanguages: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Languages) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Languages) },
	},
	SectionHobbies: {
		marshal: func(a Aggregate) ([]byte, error) { return json.Marshal(a.Hobbies) },
		assign:  func(a *Aggregate, b []byte) error { return json.Unmarshal(b, &a.Hobbies) },
	},
}

// MarshalSection serializes one section of the aggregate for storage.
func MarshalSection(a Aggregate, kind SectionKind) (json.RawMessage, error) {
	codec, ok := sectionCodecs[kind]
	if !ok {
		return nil, ErrUnknownSection
	}
	return codec.marshal(a)
}

// AssignSection deserializes a stored payload into the matching aggregate
// field. Unknown kinds return ErrUnknownSection so loaders can skip them.
func AssignSection(a *Aggregate, kind SectionKind, payload json.RawMessage) error {
	codec, ok := sectionCodecs[kind]
	if !ok {
		return ErrUnknownSection
	}
	if len(payload) == 0 {
		return nil
	}
	return codec.assign(a, payload)
}
