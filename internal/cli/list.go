package cli

import "github.com/spf13/cobra"

func newListCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "list",
		Short: "List the installed labextensions",
		Args:  cobra.NoArgs,
	})
}
