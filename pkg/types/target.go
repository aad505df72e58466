package types

// Target is one top-level entry of a project root managed by cloak.
// Identity is the name; the two paths are derived from it.
type Target struct {
	Name        string `json:"name" yaml:"name"`
	RootPath    string `json:"root_path" yaml:"root_path"`
	StoragePath string `json:"storage_path" yaml:"storage_path"`
}

// IgnorePattern is the line written to the managed ignore block for the target.
func (t Target) IgnorePattern() string {
	return "/" + t.Name
}

// ExcludePattern is the glob written to IDE exclusion maps for the target.
func (t Target) ExcludePattern() string {
	return "**/" + t.Name
}
