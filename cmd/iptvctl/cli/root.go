package cli

import (
	"context"
	"os"
	"os/signal"

	"iptvsite/internal/config"
	"iptvsite/internal/db"
	"iptvsite/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Execute builds the command tree and runs it.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iptvctl",
		Short: "Operator tooling for the IPTV site backend",
		Long: `iptvctl runs maintenance tasks against the site database: schema
migrations and admin account provisioning. It reads the same environment
(and .env file) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./iptvctl.yaml)")
	cmd.PersistentFlags().String("database-url", "", "Postgres DSN, overrides DATABASE_URL")
	_ = viper.BindPFlag("database_url", cmd.PersistentFlags().Lookup("database-url"))

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newAdminCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("iptvctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("IPTVCTL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // optional
}

// loadConfig returns the server config with CLI overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if dsn := viper.GetString("database_url"); dsn != "" {
		cfg.DatabaseURL = dsn
	}
	if lvl := viper.GetString("log_level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	cfg.Log = "dev"
	logger.InitLogger(cfg)
	return cfg, nil
}

func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}
