package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ideaboard/internal/board"
	"ideaboard/internal/storage"
)

var (
	configPath string
	backend    string
	saveDir    string
)

var rootCmd = &cobra.Command{
	Use:   "ideaboard [board]",
	Short: "Edit an infinite canvas of cards and connections in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		config, err := resolveConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(config.LogFile)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer func() { _ = log.Sync() }()

		repo, err := storage.Open(config.StorageConfig())
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer repo.Close()
		log.Info("storage opened", zap.String("backend", config.Storage), zap.String("location", repo.Location()))

		opts := append([]board.Option{board.WithLogger(log)}, config.machineOptions()...)
		if name != "" {
			snap, err := repo.Load(cmd.Context(), name)
			switch {
			case err == nil:
				opts = append(opts, board.WithInitialData(snap))
			case errors.Is(err, storage.ErrBoardNotFound):
				log.Info("starting new board", zap.String("board", name))
			default:
				return fmt.Errorf("load board %q: %w", name, err)
			}
		}

		machine, err := board.New(opts...)
		if err != nil {
			return fmt.Errorf("restore board %q: %w", name, err)
		}

		p := tea.NewProgram(
			newModel(machine, repo, config, name, log),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		_, err = p.Run()
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [board] [output.png|output.txt]",
	Short: "Render a saved board to a PNG image or a text file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, output := args[0], args[1]

		config, err := resolveConfig()
		if err != nil {
			return err
		}
		store, err := loadStore(cmd.Context(), config, name)
		if err != nil {
			return err
		}

		switch ext := strings.ToLower(filepath.Ext(output)); ext {
		case ".png":
			err = exportPNG(store, output)
		case ".txt":
			err = exportVisualTXT(store, output)
		default:
			return fmt.Errorf("unsupported export format %q", ext)
		}
		if err != nil {
			return fmt.Errorf("export %q: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", name, output)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveConfig()
		if err != nil {
			return err
		}
		repo, err := storage.Open(config.StorageConfig())
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer repo.Close()

		names, err := repo.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list boards: %w", err)
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the rc file (default ~/"+rcFileName+")")
	rootCmd.PersistentFlags().StringVar(&backend, "storage", "", "Storage backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&saveDir, "dir", "", "Directory boards are saved in")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listCmd)
}

// resolveConfig loads the rc file, applies command-line overrides and checks
// the result.
func resolveConfig() (*Config, error) {
	config := loadConfig(configPath)
	if backend != "" {
		config.Storage = backend
	}
	if saveDir != "" {
		config.SaveDirectory = saveDir
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return config, nil
}

func loadStore(ctx context.Context, config *Config, name string) (*board.Store, error) {
	repo, err := storage.Open(config.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	snap, err := repo.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load board %q: %w", name, err)
	}
	store := board.NewStore(nil)
	if err := store.Restore(snap); err != nil {
		return nil, fmt.Errorf("restore board %q: %w", name, err)
	}
	return store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
