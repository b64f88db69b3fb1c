/*
Package config manages the TOML config for the grid tools.

	[dictionary]
	dictionary_file_path = "bigdict.txt"
	alphabet = "latin"
	max_words = 65536
	shuffle = true

	[grid]
	blocked = "#"
	wildcard = "?"

	[server]
	max_limit = 256
	max_pattern = 64

	[cli]
	default_limit = 24
	show_explanations = true

A config is looked up at a custom path first and then at the default path,
which is created with built-in values when it does not exist yet. Only when
neither is usable does loading fail with ErrNoConfig.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/board"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/log"
)

// DefaultDictionaryPath is used when a config names no dictionary.
const DefaultDictionaryPath = "bigdict.txt"

// ErrNoConfig means neither the requested nor the default config could be used.
var ErrNoConfig = errors.New("no usable configuration")

// Config holds the entire config structure
type Config struct {
	Dictionary DictionaryConfig `toml:"dictionary"`
	Grid       GridConfig       `toml:"grid"`
	Server     ServerConfig     `toml:"server"`
	CLI        CliConfig        `toml:"cli"`
}

// DictionaryConfig holds dictionary options.
type DictionaryConfig struct {
	Path     string `toml:"dictionary_file_path"`
	Alphabet string `toml:"alphabet"`
	MaxWords int    `toml:"max_words"`
	Shuffle  bool   `toml:"shuffle"`
}

// GridConfig holds the grid file conventions.
type GridConfig struct {
	Blocked  string `toml:"blocked"`
	Wildcard string `toml:"wildcard"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit   int `toml:"max_limit"`
	MaxPattern int `toml:"max_pattern"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit     int  `toml:"default_limit"`
	ShowExplanations bool `toml:"show_explanations"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Path:     DefaultDictionaryPath,
			Alphabet: normalize.Latin.Name,
			MaxWords: index.MaxWords,
			Shuffle:  true,
		},
		Grid: GridConfig{
			Blocked:  string(rune(board.DefaultBlocked)),
			Wildcard: string(rune(index.DefaultWildcard)),
		},
		Server: ServerConfig{
			MaxLimit:   256,
			MaxPattern: 64,
		},
		CLI: CliConfig{
			DefaultLimit:     24,
			ShowExplanations: true,
		},
	}
}

// GetConfigDir returns the config directory, falling back to the directory
// of the executable when the user config dir is not writable.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		primary := utils.UserConfigDir(homeDir)
		if result := utils.CheckDirStatus(primary); result.Writable {
			return primary, nil
		}
	} else {
		log.Errorf("Failed to get home directory: %v", err)
	}

	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads the config at customPath, or the one at the
// default path. It returns the config and the path it came from.
func LoadConfigWithPriority(customPath string) (*Config, string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v", err)
		defaultPath = ""
	}
	return Load(customPath, defaultPath)
}

// Load tries customPath, then defaultPath. The default config file is
// created with built-in values when it is missing.
func Load(customPath, defaultPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := LoadConfig(customPath)
		if err == nil {
			log.Debugf("Loaded config from custom path: %s", customPath)
			return cfg, customPath, nil
		}
		log.Warnf("Failed to load config from %s: %v. Trying default path...", customPath, err)
	}

	if defaultPath == "" {
		return nil, "", ErrNoConfig
	}

	cfg, err := InitConfig(defaultPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoConfig, err)
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath, nil
}

// InitConfig loads config from path, writing the defaults there first if
// the file does not exist.
func InitConfig(path string) (*Config, error) {
	if !utils.FileExists(path) {
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to create default config file %s: %w", path, err)
		}
		log.Infof("Created default config file at: %s", path)
		return cfg, nil
	}
	return LoadConfig(path)
}

// LoadConfig loads from a TOML file. Values that fail to decode are
// recovered section by section; keys that are missing keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}

	cfg := DefaultConfig()
	cfg.Dictionary.Path = ""

	if err := utils.LoadTOMLFile(path, cfg); err != nil {
		cfg, err = tryPartialParse(path)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Dictionary.Path == "" {
		log.Warnf("No dictionary.dictionary_file_path in %s, defaulting to %s", path, DefaultDictionaryPath)
		cfg.Dictionary.Path = DefaultDictionaryPath
	}
	return cfg, nil
}

// tryPartialParse reads whatever well-typed keys a TOML file has.
func tryPartialParse(path string) (*Config, error) {
	raw, err := utils.ParseTOMLWithRecovery(path)
	if err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	cfg.Dictionary.Path = ""

	if section, ok := utils.ExtractSection(raw, "dictionary"); ok {
		extractDictionaryConfig(section, &cfg.Dictionary)
	}
	if section, ok := utils.ExtractSection(raw, "grid"); ok {
		extractGridConfig(section, &cfg.Grid)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &cfg.CLI)
	}
	return cfg, nil
}

func extractDictionaryConfig(data map[string]any, dict *DictionaryConfig) {
	if val, ok := utils.ExtractString(data, "dictionary_file_path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "alphabet"); ok {
		dict.Alphabet = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractBool(data, "shuffle"); ok {
		dict.Shuffle = val
	}
}

func extractGridConfig(data map[string]any, grid *GridConfig) {
	if val, ok := utils.ExtractString(data, "blocked"); ok {
		grid.Blocked = val
	}
	if val, ok := utils.ExtractString(data, "wildcard"); ok {
		grid.Wildcard = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_pattern"); ok {
		server.MaxPattern = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_explanations"); ok {
		cli.ShowExplanations = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(cfg *Config, path string) error {
	return utils.SaveTOMLFile(cfg, path)
}

// RebuildConfigFile overwrites the default config file with built-in values.
func RebuildConfigFile() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	return path, SaveConfig(DefaultConfig(), path)
}

// GetActiveConfigPath returns the absolute path of a loaded config file
func GetActiveConfigPath(path string) string {
	return utils.GetAbsolutePath(path)
}

// Alphabet resolves the configured alphabet name.
func (c *Config) Alphabet() (*normalize.Alphabet, error) {
	return normalize.ByName(c.Dictionary.Alphabet)
}

// singleByte returns the first byte of s encoded in alphabet, or fallback.
func singleByte(s string, alphabet *normalize.Alphabet, fallback byte) byte {
	enc := alphabet.Encode(s)
	if enc == "" {
		return fallback
	}
	if len(enc) > 1 {
		log.Warnf("Config value %q is longer than one character, using %q", s, enc[:1])
	}
	return enc[0]
}

// IndexOptions builds index options from the dictionary and grid sections.
func (c *Config) IndexOptions() (index.Options, error) {
	alphabet, err := c.Alphabet()
	if err != nil {
		return index.Options{}, err
	}
	return index.Options{
		Alphabet:    alphabet,
		Wildcard:    singleByte(c.Grid.Wildcard, alphabet, index.DefaultWildcard),
		MaxWords:    c.Dictionary.MaxWords,
		SkipShuffle: !c.Dictionary.Shuffle,
	}, nil
}

// BoardOptions builds board options from the grid section.
func (c *Config) BoardOptions() (board.Options, error) {
	alphabet, err := c.Alphabet()
	if err != nil {
		return board.Options{}, err
	}
	return board.Options{
		Alphabet: alphabet,
		Blocked:  singleByte(c.Grid.Blocked, alphabet, board.DefaultBlocked),
	}, nil
}
