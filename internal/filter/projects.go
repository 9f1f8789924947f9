package filter

import (
	"net/url"
	"strings"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

// ProjectFilter is the complete set of project constraints.
type ProjectFilter struct {
	Client string
	Size   string
}

// Set assigns one named field. Unknown names are ignored.
func (f *ProjectFilter) Set(name, value string) {
	switch name {
	case "client":
		f.Client = value
	case "size":
		f.Size = value
	}
}

// Get returns the current value of one named field.
func (f ProjectFilter) Get(name string) string {
	switch name {
	case "client":
		return f.Client
	case "size":
		return f.Size
	}
	return ""
}

// Reset clears every field.
func (f *ProjectFilter) Reset() { *f = ProjectFilter{} }

// Match reports whether a project satisfies the filter. The size constraint
// is a substring match over the decimal rendering of the construction size;
// a project without a size fails a stated size constraint.
func (f ProjectFilter) Match(p api.Project) bool {
	if !MatchKeyword(p.Client, f.Client) {
		return false
	}
	if f.Size != "" {
		if !p.SizeOfConstruction.Valid {
			return false
		}
		if !strings.Contains(p.SizeOfConstruction.String(), f.Size) {
			return false
		}
	}
	return true
}

// Values serializes the filter as backend query parameters, including only
// non-empty entries.
func (f ProjectFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "client", f.Client)
	setNonEmpty(v, "size", f.Size)
	return v
}
