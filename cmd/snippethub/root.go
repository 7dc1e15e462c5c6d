package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/snippethub/snippethub/internal/config"
	"github.com/snippethub/snippethub/internal/storage"
)

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "snippethub",
		Short:         "Local snippet and todo database",
		Long:          "SnippetHub manages a local SQLite database of code snippets, folders, workspaces, projects and todos.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(&cfgPath))
	root.AddCommand(newStatsCmd(&cfgPath))
	root.AddCommand(newExportCmd(&cfgPath))

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("SnippetHub\n")
			fmt.Printf("Version: %s\n", version)
			fmt.Printf("Build Time: %s\n", buildTime)
			fmt.Printf("Build Mode: %s\n", storage.BuildMode)
			fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		},
	}
}

func newInitCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and apply migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, dbPath, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()
			log.Printf("database ready at %s (schema %s)", dbPath, storage.CurrentSchemaVersion)
			return nil
		},
	}
}

func newStatsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print todo statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.GetTodoStats(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newExportCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print all snippets as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out, err := store.ExportSnippetsJSON(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func openStore(cfgPath string) (*storage.SQLiteStore, string, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", err
	}
	if err := config.EnsureParentDir(cfg.DatabasePath); err != nil {
		return nil, "", err
	}
	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return store, cfg.DatabasePath, nil
}
