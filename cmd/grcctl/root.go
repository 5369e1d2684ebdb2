package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"grc-integrator/internal/app"
	"grc-integrator/internal/config"
	"grc-integrator/internal/database"
	"grc-integrator/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var errActionFailed = errors.New("action failed")

type cli struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	v := viper.New()

	root := &cobra.Command{
		Use:           "grcctl",
		Short:         "Sync OpenGRC bundles and criteria, convert framework libraries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			if c.cfgFile != "" {
				v.SetConfigFile(c.cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", c.cfgFile, err)
				}
			}
			v.AutomaticEnv()

			c.cfg = config.FromViper(v)

			l, err := logger.New(c.cfg.Environment, c.cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			c.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (yaml, json or env)")
	flags.String("dsn", "", "postgres DSN (overrides DB_DSN)")
	flags.String("repo-url", "", "bundle manifest feed (overrides REPO_URL)")
	flags.String("criteria-url", "", "criteria feed (overrides CRITERIA_API_URL)")
	flags.Bool("prune", false, "delete controls missing from a re-imported bundle")
	flags.String("log-level", "", "log level (overrides LOG_LEVEL)")

	_ = v.BindPFlag("DB_DSN", flags.Lookup("dsn"))
	_ = v.BindPFlag("REPO_URL", flags.Lookup("repo-url"))
	_ = v.BindPFlag("CRITERIA_API_URL", flags.Lookup("criteria-url"))
	_ = v.BindPFlag("PRUNE_STALE_CONTROLS", flags.Lookup("prune"))
	_ = v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(
		newSyncBundlesCmd(c),
		newImportBundleCmd(c),
		newImportAllCmd(c),
		newSyncCriteriaCmd(c),
		newConvertCmd(),
		newTreeCmd(),
	)
	return root
}

// openApp подключается к БД; нужен только командам синхронизации.
func (c *cli) openApp() (*app.App, error) {
	if c.cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set (use --dsn or the DB_DSN env)")
	}
	db, err := database.Init(c.cfg.DBDSN, c.logger)
	if err != nil {
		return nil, err
	}
	return app.New(c.cfg, db, c.logger), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
