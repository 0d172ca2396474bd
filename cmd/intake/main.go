package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rayahealth/intake/cmd/intake/wizard"
	"github.com/rayahealth/intake/internal/certification"
	"github.com/rayahealth/intake/internal/config"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/logging"
	"github.com/rayahealth/intake/internal/onboarding"
)

// version is set at build time via -ldflags
var version = "dev"

// app carries what PersistentPreRunE loads for the subcommands.
type app struct {
	configPath string
	logFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "intake",
		Short: "Raya Health intake wizards",
		Long: `intake collects doula certification applications and patient onboarding
answers in the terminal and sends them to the Raya intake endpoints.

Run "intake certification" or "intake onboarding" to start a wizard. Drafts
saved from a wizard with Ctrl+S can be resumed with --from or sent without
interaction with "intake submit".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Logging.File = a.logFile
			}
			logger, err := logging.New(logging.Options{
				File:    cfg.Logging.File,
				Level:   cfg.Logging.Level,
				Verbose: a.verbose,
			})
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML settings file")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write JSON logs to this file (empty disables logging)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		a.certificationCmd(),
		a.onboardingCmd(),
		a.submitCmd(),
		configCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) certificationCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "certification",
		Short: "Apply to join the Raya doula network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.certificationSession(from, true)
			if err != nil {
				return err
			}
			a.logger.Info("wizard started", zap.String("form", "certification"))
			return wizard.Run(cmd.Context(), wizard.Certification(sess))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Resume from a saved draft")
	return cmd
}

func (a *app) onboardingCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Get matched with a doula",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.onboardingSession(from, true)
			if err != nil {
				return err
			}
			a.logger.Info("wizard started", zap.String("form", "onboarding"))
			return wizard.Run(cmd.Context(), wizard.Onboarding(sess))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Resume from a saved draft")
	return cmd
}

func (a *app) submitCmd() *cobra.Command {
	var formName, draftPath string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send a saved draft without the wizard",
		Long: `Runs every remaining step of a saved draft the way pressing continue on each
screen would. The first step with missing or invalid answers stops the run
and its errors are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if draftPath == "" {
				return fmt.Errorf("--draft is required")
			}
			out := cmd.OutOrStdout()

			var err error
			switch formName {
			case "certification":
				var sess *certification.Session
				if sess, err = a.certificationSession(draftPath, false); err == nil {
					err = sess.Submit(cmd.Context())
				}
				if err == nil {
					fmt.Fprintln(out, "Certification submitted.")
				}
			case "onboarding":
				var sess *onboarding.Session
				if sess, err = a.onboardingSession(draftPath, false); err == nil {
					err = sess.Submit(cmd.Context())
				}
				if err == nil {
					fmt.Fprintln(out, "Onboarding submitted.")
					fmt.Fprintf(out, "Account: %s\n", sess.AccountID())
					fmt.Fprintf(out, "Continue at %s\n", sess.Redirect())
				}
			default:
				return fmt.Errorf("unknown form %q (want certification or onboarding)", formName)
			}

			var incomplete *flow.IncompleteError
			if errors.As(err, &incomplete) {
				fmt.Fprintf(out, "%s is incomplete:\n", incomplete.Title)
				for _, line := range sortedErrors(incomplete.Errors) {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			if err != nil {
				a.logger.Error("submit failed", zap.String("form", formName), zap.Error(err))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&formName, "form", "f", "", "Form of the draft: certification or onboarding")
	cmd.Flags().StringVarP(&draftPath, "draft", "d", "", "Draft file to send")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default settings to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "intake.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "intake %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
