package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mealselector/cmd/mealselector/app"
	"mealselector/cmd/mealselector/ui"
	"mealselector/internal/api"
	"mealselector/internal/auth"
	"mealselector/internal/config"
	"mealselector/internal/logging"
)

const version = "1.0.0"

var (
	verbose bool
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "mealselector",
	Short: "Meal Selector - terminal client for the meal-recommendation service",
	Long: `Meal Selector is the terminal client for the meal-recommendation
service: sign in or register, save your dietary profile (diets, allergens,
favorite foods) and chat with the recommendation assistant.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := auth.NewTokenStore(dir).Clear(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Println("Session token removed.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show client configuration and session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		path, _ := config.File()

		fmt.Printf("Version:   %s\n", version)
		fmt.Printf("Config:    %s\n", path)
		fmt.Printf("API URL:   %s\n", cfg.APIBaseURL)

		tok, err := auth.NewTokenStore(dir).Load()
		switch {
		case err != nil:
			fmt.Printf("Session:   unreadable token file (%v)\n", err)
		case tok == nil:
			fmt.Println("Session:   not signed in")
		default:
			fmt.Printf("Session:   token present (saved %s", tok.SavedAt.Format("2006-01-02 15:04"))
			if tok.Email != "" {
				fmt.Printf(", %s", tok.Email)
			}
			fmt.Println(")")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mealselector " + version)
	},
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	return cfg, nil
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.Init(cfg, verbose)
	if err != nil {
		// The UI can run without a log file; note it and move on.
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		logger = zap.NewNop()
	}
	defer logging.Sync()

	dir, err := config.Dir()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIBaseURL, logger.Named("api"))
	tokens := auth.NewTokenStore(dir)
	styles := ui.NewStyles(ui.ThemeFor(cfg.Theme))

	logger.Info("starting interactive client",
		zap.String("version", version),
		zap.String("api_url", cfg.APIBaseURL))

	program := tea.NewProgram(
		app.New(client, tokens, styles, logger.Named("session")),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "override the API base URL")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
