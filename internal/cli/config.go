// Config loading for the pornhwa CLI.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/myhead2001/Pornhwa/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir          = "data_dir"
	cfgKeyListenAddr       = "listen_addr"
	cfgKeyCatalogBaseURL   = "catalog_base_url"
	cfgKeyCoverBaseURL     = "cover_base_url"
	cfgKeyAssistantBaseURL = "assistant_base_url"
	cfgKeyAssistantModel   = "assistant_model"

	defaultListenAddr = "127.0.0.1:8844"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Pornhwa configuration

# Data directory for the local database (overridable by --data-dir)
# data_dir:

# HTTP API listen address for "pornhwa serve"
listen_addr: 127.0.0.1:8844

# Remote catalog endpoints; leave unset for the public API
# catalog_base_url:
# cover_base_url:

# Assistant endpoint and model; the API key comes from Settings or the
# API_KEY environment variable
# assistant_base_url:
# assistant_model:
`

// Config is the resolved CLI configuration.
type Config struct {
	ConfigDir        string
	DataDir          string
	ListenAddr       string
	CatalogBaseURL   string
	CoverBaseURL     string
	AssistantBaseURL string
	AssistantModel   string
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default file on first run. A
// missing config.yaml is not an error.
func loadConfig(configDirFlag, dataDirFlag string) (*Config, error) {
	configDir, err := paths.ResolveConfigDir(configDirFlag)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("PORNHWA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	return &Config{
		ConfigDir:        configDir,
		DataDir:          dataDir,
		ListenAddr:       v.GetString(cfgKeyListenAddr),
		CatalogBaseURL:   v.GetString(cfgKeyCatalogBaseURL),
		CoverBaseURL:     v.GetString(cfgKeyCoverBaseURL),
		AssistantBaseURL: v.GetString(cfgKeyAssistantBaseURL),
		AssistantModel:   v.GetString(cfgKeyAssistantModel),
	}, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
