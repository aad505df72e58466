package types

// NoticeKind classifies non-fatal conditions reported alongside a result
type NoticeKind string

const (
	// NoticeOrphan: an orphan was found or cleaned and no data was restored
	NoticeOrphan NoticeKind = "orphan"
	// NoticePlatformFallback: a platform fallback was used (junction, no hidden flag)
	NoticePlatformFallback NoticeKind = "platform-fallback"
	// NoticeResumed: a partially hidden target was completed
	NoticeResumed NoticeKind = "resumed"
)

// Notice is a non-fatal message attached to a target result
type Notice struct {
	Kind    NoticeKind `json:"kind" yaml:"kind"`
	Message string     `json:"message" yaml:"message"`
}

// Action names what the engine did to a target
type Action string

const (
	ActionHide   Action = "hide"
	ActionUnhide Action = "unhide"
	ActionNone   Action = "none"
)

// Result is the per-target outcome of a hide or unhide. Batch commands
// return one Result per requested name so partial success stays visible.
type Result struct {
	Name    string   `json:"name" yaml:"name"`
	Action  Action   `json:"action" yaml:"action"`
	From    State    `json:"from,omitempty" yaml:"from,omitempty"`
	To      State    `json:"to,omitempty" yaml:"to,omitempty"`
	Notices []Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
	Err     error    `json:"-" yaml:"-"`
}

// AddNotice appends a notice to the result
func (r *Result) AddNotice(kind NoticeKind, message string) {
	r.Notices = append(r.Notices, Notice{Kind: kind, Message: message})
}

// Failed reports whether the target ended in error
func (r Result) Failed() bool {
	return r.Err != nil
}
