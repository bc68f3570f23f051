// internal/workers/releasenote/clean-html/models.go
package cleanhtml

type Input struct {
	HTML              string `json:"html"`
	PreserveStructure bool   `json:"preserveStructure,omitempty"`
	RemoveAttributes  *bool  `json:"removeAttributes,omitempty"`
}

// StripAttributes resolves the optional removeAttributes flag; attributes
// are removed unless the job says otherwise.
func (in *Input) StripAttributes() bool {
	if in.RemoveAttributes == nil {
		return true
	}
	return *in.RemoveAttributes
}

type Output struct {
	CleanedText    string `json:"cleanedText"`
	OriginalLength int    `json:"originalLength"`
	CleanedLength  int    `json:"cleanedLength"`
}
