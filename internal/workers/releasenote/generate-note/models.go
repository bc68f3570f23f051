// internal/workers/releasenote/generate-note/models.go
package generatenote

import "encoding/json"

// Input is the variable set the job carries. Payload accepts either an
// embedded JSON document or a JSON-encoded string of one, since upstream
// processes set it both ways.
type Input struct {
	Single                 bool            `json:"single"`
	Payload                json.RawMessage `json:"payload"`
	Documentation          string          `json:"documentation,omitempty"`
	UseInternalDoc         bool            `json:"useInternalDoc,omitempty"`
	RemoveInternalKeywords bool            `json:"removeInternalKeywords,omitempty"`
}

// PayloadString returns the payload as the raw JSON text the pipeline
// prompts consume, unwrapping one level of string encoding if present.
func (in *Input) PayloadString() string {
	if len(in.Payload) == 0 {
		return ""
	}
	var unwrapped string
	if err := json.Unmarshal(in.Payload, &unwrapped); err == nil {
		return unwrapped
	}
	return string(in.Payload)
}

type Output struct {
	ReleaseNote  string            `json:"releaseNote"`
	ReleaseNotes map[string]string `json:"releaseNotes,omitempty"`
	Queries      []string          `json:"queries,omitempty"`
	UserImpact   string            `json:"userImpact,omitempty"`
}
