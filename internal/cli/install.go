package cli

import "github.com/spf13/cobra"

func newInstallCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "install [extension...]",
		Short: "Install labextension(s)",
		Long: `Install one or more extensions by name or path into the app directory,
then rebuild the app. With no arguments the current directory is installed.

If the rebuild fails, every extension installed by this command is
uninstalled again.`,
	})
}
