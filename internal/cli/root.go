// Package cli provides the command-line interface for the analysis
// application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stock-insight/internal/agents"
	"stock-insight/internal/config"
	"stock-insight/internal/logging"
	"stock-insight/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.DataStore
	LLMClient agents.LLMClient
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(config.DefaultStorePath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	if cfg.Credentials.OpenAI.APIKey != "" {
		app.LLMClient = agents.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Agent.Model)
		logger.Debug().Str("model", cfg.Agent.Model).Msg("OpenAI LLM client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "insight",
		Short: "Stock Insight - technical analysis CLI",
		Long: `Stock Insight analyzes daily price history with classic technical
indicators and synthesizes an overall trading signal.

It computes moving averages, RSI, MACD, and Bollinger Bands, detects
crossovers, breakouts, and support/resistance levels, and can ask an AI
analyst for an interpretation of the result.

Use 'insight help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags. The config directory is consumed from raw arguments in
	// main before the command tree parses; the flag is declared here so it
	// parses cleanly and shows up in help.
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stock-insight)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("insight version %s\n", Version)
		},
	}
}
