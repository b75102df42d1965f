package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for goalie",
	Long:  `Display detailed help for all goalie commands, flags and settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
  __ _  ___   __ _| (_) ___
 / _' |/ _ \ / _' | | |/ _ \
| (_| | (_) | (_| | | |  __/
 \__, |\___/ \__,_|_|_|\___|
 |___/

goalie - yearly goals, monthly plans, daily streaks

COMMANDS:

  serve                   Run the JSON API until SIGINT/SIGTERM
    --addr                Listen address (default from server.addr, ":8080")

  migrate                 Create or update the database schema and exit

  stats                   Totals, current streak and a 12-week activity grid
    -e, --email           Registered email of the user

  browse                  Interactive goal browser
    -e, --email           Registered email of the user

    Quick actions:
      ↑/↓           Navigate goals
      tab           Switch between goals and their items
      space/enter   Toggle the selected task or subgoal
      /             Filter goals by title
      esc/q         Quit

  version                 Print version information
  help                    Show this help

GLOBAL FLAGS:

  -c, --config            YAML config file

ENVIRONMENT (also read from .env):

  GOALIE_ADDR             GOALIE_DB_DRIVER (sqlite|mysql|postgres)
  GOALIE_DB_DSN           GOALIE_JWT_KEY (32+ chars, required by serve)
  GOALIE_JWT_ISSUER       GOALIE_JWT_AUDIENCE
  GOALIE_JWT_EXPIRATION_DAYS
  GOALIE_LOG_LEVEL        GOALIE_LOG_FORMAT (text|json)
  GOALIE_CORS_ORIGINS     GOALIE_SHUTDOWN_TIMEOUT
  GOALIE_BCRYPT_COST

`)
}
