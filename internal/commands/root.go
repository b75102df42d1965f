package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/balkashynov/goalie/internal/auth"
	"github.com/balkashynov/goalie/internal/config"
	"github.com/balkashynov/goalie/internal/db"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "goalie",
	Short: "Yearly goals, monthly plans and daily streaks",
	Long: `goalie tracks yearly goals as monthly plans or flat subgoal checklists.
It serves a JSON API for clients and renders reports right in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app holds everything a command needs once config and database are up
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	tokens *auth.Issuer
	auth   *db.AuthService
	goals  *db.GoalService
}

// initApp loads config, opens (and so migrates) the database and builds the
// services. Only a serving app signs tokens, so only it needs a JWT key.
func initApp(serving bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	validate := cfg.ValidateDatabase
	if serving {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	var tokens *auth.Issuer
	if serving {
		tokens, err = auth.NewIssuer(auth.IssuerConfig{
			Key:      []byte(cfg.JWT.Key),
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			TTL:      time.Duration(cfg.JWT.ExpirationDays) * 24 * time.Hour,
		})
		if err != nil {
			_ = db.Close(conn)
			return nil, err
		}
	}

	return &app{
		cfg:    cfg,
		log:    log,
		db:     conn,
		tokens: tokens,
		auth:   db.NewAuthService(conn, auth.NewHasher(cfg.BcryptCost), tokens),
		goals:  db.NewGoalService(conn),
	}, nil
}

// withApp wraps a command function to initialize the app first
func withApp(fn func(*cobra.Command, []string, *app) error) func(*cobra.Command, []string) error {
	return runApp(false, fn)
}

// withServer is withApp for commands that issue tokens
func withServer(fn func(*cobra.Command, []string, *app) error) func(*cobra.Command, []string) error {
	return runApp(true, fn)
}

func runApp(serving bool, fn func(*cobra.Command, []string, *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := initApp(serving)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(a.db); err != nil {
				a.log.Warn("closing database", "err", err)
			}
		}()
		return fn(cmd, args, a)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
