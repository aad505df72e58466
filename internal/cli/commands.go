package cli

import (
	"fmt"

	"github.com/arthur-debert/cloak/internal/version"
	"github.com/arthur-debert/cloak/pkg/config"
	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/filesystem"
	"github.com/arthur-debert/cloak/pkg/ui/confirmations"
	"github.com/arthur-debert/cloak/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := a.engine.Init(); err != nil {
				return err
			}
			return a.out.RenderMessage(fmt.Sprintf(MsgInitialized, a.root))
		},
	}
}

func newHideCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "hide <targets...>",
		Short:   MsgHideShort,
		Long:    MsgHideLong,
		Example: MsgHideExample,
		GroupID: "core",
		Args:    requireTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			log.Info().Strs("targets", args).Msg("Hiding")
			return a.report("hide", a.engine.HideAll(args))
		},
	}
}

func newUnhideCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "unhide <targets...>",
		Short:   MsgUnhideShort,
		Long:    MsgUnhideLong,
		Example: MsgUnhideExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case all && len(args) > 0:
				return errors.New(errors.ErrValidation, MsgErrAllWithTargets)
			case !all:
				if err := requireTargets(cmd, args); err != nil {
					return err
				}
			}

			a, err := opts.load(cmd)
			if err != nil {
				return err
			}

			names := args
			if all {
				if names, err = a.engine.Managed(); err != nil {
					return err
				}
			}
			log.Info().Strs("targets", names).Msg("Unhiding")
			return a.report("unhide", a.engine.UnhideAll(names))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, MsgFlagAll)
	return cmd
}

func newTidyCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "tidy",
		Short:   MsgTidyShort,
		Long:    MsgTidyLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}

			confirm := opts.confirm
			switch {
			case yes:
				confirm = nil
			case confirm == nil:
				confirm = confirmations.NewConsoleDialog().Confirm
			}

			results, err := a.engine.Tidy(a.cfg.EffectiveCatalog(), confirm)
			if err != nil {
				if len(results) > 0 {
					_ = a.out.RenderReport(display.NewReport("tidy", results))
				}
				return err
			}
			return a.report("tidy", results)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			statuses, err := a.engine.Status(a.cfg.EffectiveCatalog())
			if err != nil {
				return err
			}
			return a.out.RenderStatus(display.StatusReport{Root: a.root, Targets: statuses})
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	var (
		write    bool
		template bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.Template())
				return err
			}

			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if write {
				path, err := config.Write(filesystem.NewOS(), a.root, a.cfg)
				if err != nil {
					return err
				}
				return a.out.RenderMessage(fmt.Sprintf(MsgConfigWritten, path))
			}

			data, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// requireTargets rejects an empty target list as a validation error
func requireTargets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New(errors.ErrValidation, MsgErrNoTargets)
	}
	return nil
}

