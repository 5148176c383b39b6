package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ideaboard/internal/board"
	"ideaboard/internal/storage"
)

const rcFileName = ".ideaboardrc"

var errInvalidZoom = errors.New("invalid zoom settings")

type Config struct {
	SaveDirectory string
	Confirmations bool
	Storage       string
	Database      string
	LogFile       string
	ZoomMin       float64
	ZoomMax       float64
	ZoomStep      float64
}

func defaultConfig() *Config {
	return &Config{
		Confirmations: true,
		Storage:       storage.BackendFile,
		ZoomMin:       board.DefaultZoomMin,
		ZoomMax:       board.DefaultZoomMax,
		ZoomStep:      board.DefaultZoomStep,
	}
}

// loadConfig reads the rc file at path, or ~/.ideaboardrc when path is empty.
// A missing file yields the defaults; unknown keys and bad values are skipped.
func loadConfig(path string) *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}
	if path == "" {
		if homeDir == "" {
			return config
		}
		path = filepath.Join(homeDir, rcFileName)
	}

	file, err := os.Open(path)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "storage":
			config.Storage = strings.ToLower(value)
		case "database", "db":
			config.Database = expandPath(value, homeDir)
		case "logfile", "log_file":
			config.LogFile = expandPath(value, homeDir)
		case "zoommin":
			setFloat(&config.ZoomMin, value)
		case "zoommax":
			setFloat(&config.ZoomMax, value)
		case "zoomstep":
			setFloat(&config.ZoomStep, value)
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func setFloat(dst *float64, value string) {
	if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
		*dst = f
	}
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// StorageConfig maps the rc settings onto a repository configuration. The
// SQLite database defaults to boards.db in the save directory.
func (c *Config) StorageConfig() storage.Config {
	database := c.Database
	if database == "" {
		database = c.GetSavePath("boards.db")
	}
	return storage.Config{
		Backend:  c.Storage,
		Dir:      c.SaveDirectory,
		Database: database,
	}
}

// validate rejects zoom settings the board would refuse.
func (c *Config) validate() error {
	if c.ZoomMax < c.ZoomMin {
		return fmt.Errorf("%w: zoommin %g is above zoommax %g", errInvalidZoom, c.ZoomMin, c.ZoomMax)
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("%w: zoomstep %g must be greater than 1", errInvalidZoom, c.ZoomStep)
	}
	return nil
}

func (c *Config) machineOptions() []board.Option {
	return []board.Option{
		board.WithZoomRange(c.ZoomMin, c.ZoomMax),
		board.WithZoomStep(c.ZoomStep),
	}
}
