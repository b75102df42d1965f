package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/goalie/internal/db"
	"github.com/balkashynov/goalie/internal/models"
	"github.com/balkashynov/goalie/internal/tui"
)

var statsEmail string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show goal totals, streak and recent activity",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		user, err := lookupUser(cmd, a, statsEmail)
		if err != nil {
			return err
		}
		stats, err := a.goals.GetAnalytics(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStats(user.Name, *stats, time.Now().UTC()))
		return nil
	}),
}

// lookupUser resolves the --email flag to a registered user
func lookupUser(cmd *cobra.Command, a *app, email string) (*models.UserDTO, error) {
	if email == "" {
		return nil, errors.New("--email is required")
	}
	user, err := a.auth.GetUserByEmail(cmd.Context(), email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("no user registered as %s", db.NormalizeEmail(email))
	}
	return user, err
}

func init() {
	statsCmd.Flags().StringVarP(&statsEmail, "email", "e", "", "email of the user to report on")
}
