package resumes

import (
	"encoding/json"
	"time"
)

// Resume is the persisted resume row. Section content lives in Section rows.
type Resume struct {
	ID         string
	UserID     string
	Title      string
	TemplateID int
	IsPublic   bool
	PublicURL  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastEdited time.Time
}

// Section is one persisted section row. The payload is opaque to the store;
// its shape matches the aggregate collection for the kind.
type Section struct {
	ID        string
	ResumeID  string
	Kind      SectionKind
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
