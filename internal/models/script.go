package models

import "fmt"

// RemoteScript represents a RightScript as returned by the API
type RemoteScript struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Revision    int    `json:"revision"`
	Href        string `json:"href"`
	Description string `json:"description,omitempty"`
	Source      string `json:"-"`
}

// IsHead reports whether the script is the editable revision (revision 0).
// Nonzero revisions are frozen snapshots and are never written to.
func (s RemoteScript) IsHead() bool {
	return s.Revision == 0
}

func (s RemoteScript) String() string {
	return fmt.Sprintf("%s (id %s, revision %d)", s.Name, s.ID, s.Revision)
}

// HeadRevisions returns only the revision 0 scripts, preserving order
func HeadRevisions(scripts []RemoteScript) []RemoteScript {
	var heads []RemoteScript
	for _, s := range scripts {
		if s.IsHead() {
			heads = append(heads, s)
		}
	}
	return heads
}
