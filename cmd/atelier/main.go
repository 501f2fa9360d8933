// Command atelier manages a personal library of creative assets: prompts,
// images, videos, characters, projects and tools, with undirected relations
// between them and optional AI enrichment.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kittclouds/atelier/internal/config"
	"github.com/kittclouds/atelier/internal/store"
	"github.com/kittclouds/atelier/pkg/catalog"
	"github.com/kittclouds/atelier/pkg/enrich"
)

const version = "0.3.0"

var (
	cfg     config.Config
	logger  *log.Logger
	dbFlag  string
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:     "atelier",
	Short:   "A local library for your creative assets and the threads between them.",
	Version: fmt.Sprintf("v%s", version),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if dbFlag != "" {
			cfg.DBPath = dbFlag
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
		if cfg.Debug {
			logger.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// openRepo opens the snapshot store and the repository on top of it.
// The returned closer flushes the collection and closes the database.
func openRepo() (*catalog.Repository, func(), error) {
	st, err := store.NewSQLiteStoreWithDSN(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library at %s: %w", cfg.DBPath, err)
	}

	repo := catalog.Open(st, logger)
	closer := func() {
		if err := repo.Close(); err != nil {
			logger.Error("final snapshot write failed", "err", err)
		}
		st.Close()
	}
	return repo, closer, nil
}

// newEnrichClient builds the AI adapter from config. Disabled without a key.
func newEnrichClient() *enrich.Client {
	return enrich.New(enrich.Config{
		APIKey:       cfg.AIKey,
		BaseURL:      cfg.AIBaseURL,
		VisionModel:  cfg.VisionModel,
		SuggestModel: cfg.SuggestModel,
		Timeout:      cfg.AITimeout,
	}, logger)
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the library database (overrides ATELIER_DB)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		addCmd, listCmd, showCmd, searchCmd, updateCmd, deleteCmd,
		linkCmd, unlinkCmd, graphCmd,
		analyzeCmd, suggestCmd, statusCmd,
	)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
