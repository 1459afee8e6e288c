package config

import (
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "docview"
	envPrefix      = "DOCVIEW"
)

// Config holds the configuration options for the application. Values come
// from defaults, then the yaml file under the XDG config home, then
// DOCVIEW_* environment variables, later sources winning.
type Config struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR"       yaml:"listenAddr,omitempty"`
	ArtifactDir     string        `envconfig:"ARTIFACT_DIR"      yaml:"artifactDir,omitempty"`
	TempDir         string        `envconfig:"TEMP_DIR"          yaml:"tempDir,omitempty"`
	HistoryDBPath   string        `envconfig:"HISTORY_DB"        yaml:"historyDb,omitempty"`
	OfficeViewerURL string        `envconfig:"OFFICE_VIEWER_URL" yaml:"officeViewerUrl,omitempty"`
	DownloadTimeout time.Duration `envconfig:"DOWNLOAD_TIMEOUT"  yaml:"downloadTimeout,omitempty"`
	Debug           bool          `envconfig:"DEBUG"             yaml:"debug,omitempty"`
}

// GetConfig reads the configuration file and environment and returns a
// Config struct. A missing configuration file yields the defaults.
func GetConfig() (*Config, error) {
	configFilePath := filepath.Join(xdg.ConfigHome, configFileName)
	defaults := DefaultConfig()

	var fileCfg Config

	b, err := os.ReadFile(configFilePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &fileCfg); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		ListenAddr:      zeroOr(fileCfg.ListenAddr, defaults.ListenAddr),
		ArtifactDir:     zeroOr(fileCfg.ArtifactDir, defaults.ArtifactDir),
		TempDir:         zeroOr(fileCfg.TempDir, defaults.TempDir),
		HistoryDBPath:   zeroOr(fileCfg.HistoryDBPath, defaults.HistoryDBPath),
		OfficeViewerURL: zeroOr(fileCfg.OfficeViewerURL, defaults.OfficeViewerURL),
		DownloadTimeout: zeroOr(fileCfg.DownloadTimeout, defaults.DownloadTimeout),
		Debug:           zeroOr(fileCfg.Debug, defaults.Debug),
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// zeroOr returns def if v is the zero value for its type.
func zeroOr[T any](v, def T) T {
	if reflect.ValueOf(v).IsZero() {
		return def
	}

	return v
}
