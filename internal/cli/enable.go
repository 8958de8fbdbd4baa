package cli

import "github.com/spf13/cobra"

func newEnableCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "enable [extension...]",
		Short: "Enable labextension(s) by name",
	})
}

func newDisableCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "disable [extension...]",
		Short: "Disable labextension(s) by name",
	})
}
