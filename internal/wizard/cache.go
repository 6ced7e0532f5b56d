package wizard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/util"
)

// Cache persists in-progress form state between sessions, one JSON file per
// user key. It is best-effort storage: a lost cache only costs unsaved edits.
type Cache struct {
	Dir string
}

// NewCache constructs a Cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{Dir: dir}
}

// cachedState is the on-disk shape.
type cachedState struct {
	ResumeID string            `json:"resumeId"`
	Step     int               `json:"step"`
	Data     resumes.Aggregate `json:"data"`
}

func (c *Cache) path(userKey string) string {
	return filepath.Join(c.Dir, util.HashUserKey(userKey)+".json")
}

// Write stores the current form state for the user.
func (c *Cache) Write(userKey, resumeID string, step int, agg resumes.Aggregate) error {
	if c == nil || c.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	body, err := json.Marshal(cachedState{ResumeID: resumeID, Step: step, Data: agg})
	if err != nil {
		return fmt.Errorf("encode cached state: %w", err)
	}
	return os.WriteFile(c.path(userKey), body, 0o600)
}

// Read returns the cached form state for the user, if any.
func (c *Cache) Read(userKey string) (resumeID string, step int, agg resumes.Aggregate, ok bool, err error) {
	if c == nil || c.Dir == "" {
		return "", 0, resumes.Aggregate{}, false, nil
	}
	body, readErr := os.ReadFile(c.path(userKey))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return "", 0, resumes.Aggregate{}, false, nil
		}
		return "", 0, resumes.Aggregate{}, false, readErr
	}
	var state cachedState
	if err := json.Unmarshal(body, &state); err != nil {
		// A corrupt cache entry is discarded rather than surfaced.
		return "", 0, resumes.Aggregate{}, false, nil
	}
	return state.ResumeID, state.Step, state.Data, true, nil
}

// Clear removes the cached state for the user.
func (c *Cache) Clear(userKey string) error {
	if c == nil || c.Dir == "" {
		return nil
	}
	err := os.Remove(c.path(userKey))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
