package cli

import "github.com/spf13/cobra"

func newLinkCmd(opts *rootOptions) *cobra.Command {
	return dispatchCmd(opts, &cobra.Command{
		Use:   "link [path...]",
		Short: "Link labextension(s)",
		Long: `Link local packages to the app build. A linked package is not copied
into the app directory; it is taken from its source location every time
the app is built.

Example:
  labext link ./my-extension
  labext link --no-build ../widgets ../themes/dark`,
	})
}
