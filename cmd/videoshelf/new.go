package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/videoshelf/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new videoshelf project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dirName := filepath.Base(args[0])
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Creating new videoshelf project: %s\n\n", dirName)
		err := scaffold.Generate(dirName, scaffold.NewData(dirName), func(p string) {
			fmt.Fprintf(out, "  created %s\n", p)
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  cd %s\n", dirName)
		fmt.Fprintln(out, "  videoshelf serve --watch")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Add talks under content/videos/, then run 'videoshelf build' for static output.")
		fmt.Fprintln(out, "Set ADMIN_PASSWORD and ADMIN_SESSION_SECRET in .env to enable /admin/.")
		return nil
	},
}
