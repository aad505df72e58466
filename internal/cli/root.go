package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cloak/internal/version"
	"github.com/arthur-debert/cloak/pkg/config"
	"github.com/arthur-debert/cloak/pkg/engine"
	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/logging"
	"github.com/arthur-debert/cloak/pkg/types"
	"github.com/arthur-debert/cloak/pkg/ui"
	"github.com/arthur-debert/cloak/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the global flags shared by every command
type options struct {
	root      string
	format    string
	verbosity int

	// confirm replaces the interactive tidy prompt when set
	confirm engine.ConfirmFunc
}

// app is everything a command needs once the root is known
type app struct {
	root   string
	cfg    *config.Config
	engine *engine.Engine
	out    ui.Renderer
}

// reportedError carries the exit code of a failure already shown in a report
type reportedError struct {
	code int
}

func (e *reportedError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cloak",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			logging.LogCommand(cmd.Name(), args)
			_, err := opts.outputFormat()
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newHideCmd(opts))
	rootCmd.AddCommand(newUnhideCmd(opts))
	rootCmd.AddCommand(newTidyCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(&options{}, args, stdout, stderr)
}

func execute(opts *options, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var reported *reportedError
	if stderrors.As(err, &reported) {
		return reported.code
	}

	renderError(opts, stdout, stderr, err)
	return errors.ExitCode(err)
}

// renderError prints err in the requested format. Structured formats go to
// stdout so scripts read a single stream.
func renderError(opts *options, stdout, stderr io.Writer, err error) {
	format, ferr := opts.outputFormat()
	if ferr != nil {
		format = ui.FormatText
	}
	w := stderr
	if ui.IsStructured(format) {
		w = stdout
	}
	r, rerr := ui.NewRenderer(format, w)
	if rerr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return
	}
	_ = r.RenderError(err)
}

func (o *options) outputFormat() (ui.Format, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return ui.FormatText, errors.Wrap(err, errors.ErrValidation, MsgErrFormat).
			WithDetail("format", o.format)
	}
	return format, nil
}

// load resolves the root, reads its configuration and builds the engine
func (o *options) load(cmd *cobra.Command) (*app, error) {
	root, err := resolveRoot(o.root)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	format, err := o.outputFormat()
	if err != nil {
		return nil, err
	}
	out, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create renderer")
	}

	log.Debug().Str("root", root).Strs("catalog", cfg.EffectiveCatalog()).Msg("Loaded configuration")
	return &app{
		root:   root,
		cfg:    cfg,
		engine: newEngine(root, cfg),
		out:    out,
	}, nil
}

func newEngine(root string, cfg *config.Config) *engine.Engine {
	settings := make([]engine.SettingsFile, 0, len(cfg.Settings))
	for _, s := range cfg.Settings {
		settings = append(settings, engine.SettingsFile{
			Path:   filepath.FromSlash(s.Path),
			Always: s.Always,
		})
	}
	return engine.New(engine.Options{
		Root:       root,
		IgnoreFile: filepath.FromSlash(cfg.IgnoreFile),
		Settings:   settings,
		JetBrains:  cfg.JetBrains,
	})
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrIO, "failed to get working directory")
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrValidation, MsgErrResolveRoot, root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrValidation, MsgErrResolveRoot, root)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrValidation, MsgErrRootNotDir, root)
	}
	return abs, nil
}

// report renders per-target results and turns the first failure into the
// exit code
func (a *app) report(command string, results []types.Result) error {
	if err := a.out.RenderReport(display.NewReport(command, results)); err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			return &reportedError{code: errors.ExitCode(r.Err)}
		}
	}
	return nil
}
