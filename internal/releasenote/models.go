// internal/releasenote/models.go
package releasenote

import (
	"encoding/json"
	"time"
)

// Variant keys in Result.ReleaseNotes.
const (
	NoteVariantPrimary         = "ReleaseNote"
	NoteVariantWithoutKeywords = "ReleaseNote_withoutKeywords"
	NoteVariantGrounded        = "RAG_ReleaseNote"
)

// Input is one generation request. Payload carries the raw work-item JSON
// in single mode, or the collection of pre-written notes in bulk mode.
type Input struct {
	Single                 bool   `json:"single"`
	Payload                string `json:"payload"`
	Documentation          string `json:"documentation,omitempty"`
	UseInternalDoc         bool   `json:"useInternalDoc,omitempty"`
	RemoveInternalKeywords bool   `json:"removeInternalKeywords,omitempty"`
}

// WorkItemDetails is the structured result of the work-item analysis stage.
type WorkItemDetails struct {
	ShortDescription string      `json:"ShortDescription"`
	CustomerImpact   string      `json:"CustomerImpact"`
	ActivityType     string      `json:"ActivityType"`
	Keywords         keywordList `json:"Keywords"`
}

// ToJSON serializes the details in the field layout downstream prompts expect.
func (d *WorkItemDetails) ToJSON() string {
	b, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// keywordList tolerates both a JSON array of strings and a single string,
// since the analysis stage does not reliably emit one shape.
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*k = nil
		return nil
	}
	*k = []string{single}
	return nil
}

// QueryAnswer is one retrieved documentation answer for a planned query.
type QueryAnswer struct {
	Query  string
	Answer string
}

// Result is the full output of a single-mode pipeline run.
type Result struct {
	WorkItemDetails *WorkItemDetails
	Queries         []string
	SearchContext   string
	UserImpact      string
	ReleaseNotes    map[string]string
	Durations       map[string]time.Duration
}

// PrimaryNote returns the primary release note variant.
func (r *Result) PrimaryNote() string {
	if r == nil || r.ReleaseNotes == nil {
		return ""
	}
	return r.ReleaseNotes[NoteVariantPrimary]
}
