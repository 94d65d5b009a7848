package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/apkforge/apkforge/internal/android"
	"github.com/apkforge/apkforge/internal/answers"
	"github.com/apkforge/apkforge/internal/branding"
	"github.com/apkforge/apkforge/internal/config"
	"github.com/apkforge/apkforge/internal/layout"
	"github.com/apkforge/apkforge/internal/logging"
	"github.com/apkforge/apkforge/internal/preflight"
	"github.com/apkforge/apkforge/internal/provision"
	"github.com/apkforge/apkforge/internal/report"
	"github.com/apkforge/apkforge/internal/scaffold"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	parentDir   string
	answersFile string
	verbose     bool
)

// Test seams. Nil means the real PATH lookup and process runner.
var (
	lookPath preflight.LookPathFunc
	runTool  provision.RunFunc
)

func init() {
	rootCmd.Flags().StringVar(&parentDir, "dir", ".", "Directory to create the project in")
	rootCmd.Flags().StringVar(&answersFile, "answers", "", "Read answers from a YAML or TOML file instead of prompting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostic detail to stderr")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` generates a ready-to-build Android project for devices that
only have a shell toolchain (javac, d8, aapt2, apksigner). It asks for a
project and package name, downloads the platform jar, creates a debug
keystore, and writes a manifest, an entry activity, and build.sh.

Run it again in the same place to regenerate the text files; downloaded and
generated assets are kept.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScaffold,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	var r reportedError
	if err != nil && !errors.As(err, &r) {
		report.NewTerminal(os.Stderr).Error("%v", err)
	}
	return err
}

// reportedError marks an error already shown to the user.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func runScaffold(cmd *cobra.Command, _ []string) error {
	config.Load()
	settings := config.Current()

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	out := cmd.OutOrStdout()
	term := report.NewTerminal(out)

	var src answers.Source
	if answersFile != "" {
		s, err := answers.LoadFile(answersFile)
		if err != nil {
			return err
		}
		src = s
	} else {
		src = answers.NewInteractive(cmd.InOrStdin(), out, settings.Defaults())
	}

	parent, err := filepath.Abs(parentDir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", parentDir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term.Header(branding.DisplayName() + " Project Generator")
	engine := &scaffold.Engine{
		LookPath: lookPath,
		RunTool:  runTool,
		Reporter: term,
		Logger:   logger,
		Consts:   settings.Constants(),
		Defaults: settings.Defaults(),
		Version:  buildVersion,
	}
	res, err := engine.Run(ctx, src, parent)

	var missing *preflight.MissingToolsError
	switch {
	case errors.Is(err, answers.ErrNoInput):
		logger.Debug("no input, nothing generated")
		return nil
	case errors.Is(err, scaffold.ErrInterrupted), errors.Is(err, context.Canceled):
		logger.Debug("interrupted", zap.Error(err))
		fmt.Fprintln(out, "\nAborted by user.")
		return nil
	case errors.As(err, &missing):
		term.Error("%v", err)
		fmt.Fprintln(cmd.ErrOrStderr(), preflight.Hint)
		return reportedError{err}
	case err != nil:
		term.Error("%v", err)
		return reportedError{err}
	case res.Outcome == layout.Aborted:
		return nil
	}

	printNextSteps(out, res)
	return nil
}

func printNextSteps(w io.Writer, res *scaffold.Result) {
	dir := res.Spec.Root
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, res.Spec.Root); err == nil {
			dir = rel
		}
	}

	fmt.Fprintln(w)
	report.NewTerminal(w).Header("DONE")
	fmt.Fprintf(w, "1. cd %s\n", dir)
	fmt.Fprintf(w, "2. ./%s\n", android.BuildScriptFile)
}
