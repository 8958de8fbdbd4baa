package cli

import "github.com/spf13/cobra"

func newUninstallCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "uninstall [extension...]",
		Short: "Uninstall labextension(s) by name",
		Long: `Remove installed extensions from the app directory. The app is rebuilt
only if at least one extension was actually removed.`,
	})
}
