package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	// db.Open migrates; this command just reports the result
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Schema up to date (%s)\n", a.cfg.Database.Driver)
		return nil
	}),
}
