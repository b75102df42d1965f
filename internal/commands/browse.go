package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/goalie/internal/tui"
)

var browseEmail string

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"ls"},
	Short:   "Browse goals and tick off tasks interactively",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		user, err := lookupUser(cmd, a, browseEmail)
		if err != nil {
			return err
		}
		return tui.RunBrowseTUI(cmd.Context(), a.goals, user.ID)
	}),
}

func init() {
	browseCmd.Flags().StringVarP(&browseEmail, "email", "e", "", "email of the user whose goals to browse")
}
