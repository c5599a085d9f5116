// Package cmd implements the command-line interface for mcqer.
// It provides the root command and the crawl, export and categories
// subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/mcqer/cmd/categories"
	"github.com/jonesrussell/mcqer/cmd/crawl"
	cmdexport "github.com/jonesrussell/mcqer/cmd/export"
	"github.com/jonesrussell/mcqer/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands.
	Debug bool

	rootCmd = &cobra.Command{
		Use:   "mcqer",
		Short: "Multiple-choice question bank crawler",
		Long: `mcqer crawls a paginated multiple-choice question bank, stores every
unique question with its images inlined and exports them as flash cards.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	// Parse flags early to pick up --config and --debug before loading config.
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mcqer version %s\n", version())
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(cmdexport.Command())
	rootCmd.AddCommand(categories.Command())
}

// initConfig reads in the config file and environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	// The config file is optional: defaults and environment cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		fmt.Fprintf(os.Stderr, "Warning: config file not found (using defaults and environment variables)\n")
	}

	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("database.dsn", "DATABASE_URL"); err != nil {
		return fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	if Debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
	}
	if viper.GetString("app.environment") == "development" {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	return nil
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "devel"
}
