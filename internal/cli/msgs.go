package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Hide tool configuration directories from your project root"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgInitShort       = "Create the vault and the cloak sections of the ignore file"
	MsgHideShort       = "Move targets into the vault and link them back"
	MsgUnhideShort     = "Restore hidden targets to the project root"
	MsgTidyShort       = "Hide every known tool directory at the root"
	MsgStatusShort     = "Show what cloak manages under the root"
	MsgConfigShort     = "Print the effective configuration"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot     = "Project root (default: current directory)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagYes      = "Hide every candidate without asking"
	MsgFlagAll      = "Unhide every target cloak manages"
	MsgFlagWrite    = "Write the effective configuration to .cloak.toml"
	MsgFlagTemplate = "Print the defaults as a commented template"

	// Status messages
	MsgInitialized   = "Initialized cloak in %s"
	MsgConfigWritten = "Wrote %s"

	// Version output
	MsgVersionFormat = "cloak version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrNoTargets      = "at least one target is required"
	MsgErrAllWithTargets = "--all cannot be combined with target names"
	MsgErrResolveRoot    = "failed to resolve root %s"
	MsgErrRootNotDir     = "root %s is not a directory"
	MsgErrFormat         = "invalid --format"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/hide-long.txt
	msgHideLongRaw string
	MsgHideLong    = strings.TrimSpace(msgHideLongRaw)

	//go:embed msgs/hide-example.txt
	msgHideExampleRaw string
	MsgHideExample    = strings.TrimRight(msgHideExampleRaw, "\n")

	//go:embed msgs/unhide-long.txt
	msgUnhideLongRaw string
	MsgUnhideLong    = strings.TrimSpace(msgUnhideLongRaw)

	//go:embed msgs/unhide-example.txt
	msgUnhideExampleRaw string
	MsgUnhideExample    = strings.TrimRight(msgUnhideExampleRaw, "\n")

	//go:embed msgs/tidy-long.txt
	msgTidyLongRaw string
	MsgTidyLong    = strings.TrimSpace(msgTidyLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")
)
