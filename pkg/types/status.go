package types

// State is the classification of a target derived from filesystem evidence
type State string

const (
	// StateVisible: a real entry at the root path and nothing in the vault
	StateVisible State = "visible"

	// StateHidden: a healthy link at the root path and the vault entry present
	StateHidden State = "hidden"

	// StateOrphanedLink: a link at the root path whose destination is missing or wrong
	StateOrphanedLink State = "orphaned-link"

	// StateOrphanedStorage: a vault entry with nothing at the root path
	StateOrphanedStorage State = "orphaned-storage"

	// StateConflicted: a real entry at the root path while the vault also holds the name
	StateConflicted State = "conflicted"

	// StateAbsent: nothing at either path
	StateAbsent State = "absent"

	// StateUnmanaged: a link at the root path that points outside the vault
	StateUnmanaged State = "unmanaged"
)

// LinkHealth is the result of verifying the object at a target's root path
type LinkHealth string

const (
	LinkHealthy  LinkHealth = "healthy"
	LinkOrphaned LinkHealth = "orphaned"
	LinkAbsent   LinkHealth = "absent"
	// LinkNotLink means a real file or directory occupies the root path
	LinkNotLink LinkHealth = "not-link"
)

// LinkStatus describes the object found at a target's root path
type LinkStatus struct {
	Health LinkHealth
	// Destination is the raw link destination as stored on disk
	Destination string
	// Resolved is Destination made absolute against the link's directory
	Resolved string
	// IntoVault reports whether Resolved lies inside the vault directory
	IntoVault bool
}

// Mechanism names how a link was materialised on disk
type Mechanism string

const (
	MechanismSymlink  Mechanism = "symlink"
	MechanismJunction Mechanism = "junction"
)

// TargetStatus is one line of a status report
type TargetStatus struct {
	Name  string   `json:"name" yaml:"name"`
	State State    `json:"state" yaml:"state"`
	Link  string   `json:"link,omitempty" yaml:"link,omitempty"`
	Drift []string `json:"drift,omitempty" yaml:"drift,omitempty"`
}
