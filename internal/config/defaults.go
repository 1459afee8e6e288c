package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	listenAddr      = "127.0.0.1:8640"
	downloadTimeout = 5 * time.Minute
)

var (
	artifactDir   = filepath.Join(xdg.UserDirs.Download, configFileName)
	tempDir       = filepath.Join(os.TempDir(), configFileName)
	historyDBPath = filepath.Join(xdg.DataHome, configFileName, "history.db")
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      listenAddr,
		ArtifactDir:     artifactDir,
		TempDir:         tempDir,
		HistoryDBPath:   historyDBPath,
		OfficeViewerURL: "",
		DownloadTimeout: downloadTimeout,
	}
}
