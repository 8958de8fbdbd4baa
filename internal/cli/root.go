package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/agentx-labs/labext/internal/branding"
	"github.com/agentx-labs/labext/internal/config"
	"github.com/agentx-labs/labext/internal/dispatch"
	"github.com/agentx-labs/labext/internal/extension"
	"github.com/agentx-labs/labext/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var _ dispatch.Manager = (*extension.Manager)(nil)

const examples = `  labext list                       # list all configured extensions
  labext install <extension name>   # install an extension
  labext uninstall <extension name> # uninstall an extension
  labext link ./my-extension        # build a package from its source directory`

// rootOptions holds state shared by every command of one invocation.
type rootOptions struct {
	appDir string
	debug  bool

	// newManager builds the extension manager from the resolved settings.
	newManager func(s *config.Settings) dispatch.Manager

	settings *config.Settings
	manager  dispatch.Manager
}

func defaultManager(s *config.Settings) dispatch.Manager {
	return extension.New(s.Sources, s.BuildCommand)
}

// newRootCmd assembles the command tree.
func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` installs, links, enables and disables the extensions of an
application directory, and rebuilds the application afterwards.`,
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Please supply at least one subcommand: %s\n", strings.Join(dispatch.Names(), ", "))
			return dispatch.NoSubcommandError()
		},
	}

	root.PersistentFlags().StringVar(&opts.appDir, "app-dir", "", "The app directory to target")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Set log level to debug")

	root.AddCommand(
		newInstallCmd(opts),
		newUninstallCmd(opts),
		newListCmd(opts),
		newLinkCmd(opts),
		newUnlinkCmd(opts),
		newEnableCmd(opts),
		newDisableCmd(opts),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// prepare resolves settings, installs the logger into the command context,
// and builds the manager. It runs once per invocation.
func (o *rootOptions) prepare(cmd *cobra.Command) error {
	config.Load()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	settings, err := config.Resolve(o.appDir, wd)
	if err != nil {
		return err
	}

	level := settings.LogLevel
	if o.debug {
		level = logrus.DebugLevel.String()
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level)
	if err != nil {
		// A bad log_level must not lock the user out of "config set".
		logger, _ = logging.New(cmd.ErrOrStderr(), logrus.InfoLevel.String())
		logger.Warnf("Ignoring %s %q: %v", config.KeyLogLevel, level, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logrus.NewEntry(logger)))

	o.settings = settings
	o.manager = o.newManager(settings)
	return nil
}

// run dispatches sub with the resolved settings.
func (o *rootOptions) run(cmd *cobra.Command, sub dispatch.Subcommand, args []string, bf *buildFlags) error {
	inv := dispatch.Invocation{
		AppDir:  o.settings.AppDir,
		WorkDir: o.settings.WorkDir,
		Args:    args,
		NoBuild: bf.noBuild,
		Clean:   bf.clean,
	}
	return dispatch.Run(cmd.Context(), o.manager, sub, inv)
}

// buildFlags are the flags of commands that rebuild afterwards.
type buildFlags struct {
	noBuild bool
	clean   bool
}

func addBuildFlags(cmd *cobra.Command, bf *buildFlags) {
	cmd.Flags().BoolVar(&bf.noBuild, "no-build", false, "Defer building the app after the action")
	cmd.Flags().BoolVar(&bf.clean, "clean", false, "Cleanup intermediate files after the action")
}

// dispatchCmd wires cmd to the dispatcher entry named by cmd.Name(). Commands
// whose subcommand builds get --no-build and --clean.
func dispatchCmd(opts *rootOptions, cmd *cobra.Command) *cobra.Command {
	sub, ok := dispatch.ParseSubcommand(cmd.Name())
	if !ok {
		panic(fmt.Sprintf("no dispatch subcommand named %q", cmd.Name()))
	}

	bf := &buildFlags{}
	if sub.Builds() {
		addBuildFlags(cmd, bf)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return opts.run(cmd, sub, args, bf)
	}
	return cmd
}

// execute runs the command tree with args and reports errors on stderr.
func execute(ctx context.Context, opts *rootOptions, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, dispatch.ErrNoSubcommand) {
		fmt.Fprintln(stderr, err)
	}
	return err
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := &rootOptions{newManager: defaultManager}
	return execute(ctx, opts, os.Args[1:], os.Stdout, os.Stderr)
}
