package cli

import "github.com/spf13/cobra"

func newUnlinkCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "unlink [name-or-path...]",
		Short: "Unlink packages by name or path",
	})
}
