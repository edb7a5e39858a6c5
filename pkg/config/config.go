/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the dbf2sql configuration
type Config struct {
	Codepage string   `yaml:"codepage"`
	Database Database `yaml:"database"`
	Loader   Loader   `yaml:"loader"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Database names the destination database
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Loader contains loader tuning
type Loader struct {
	Strategy      string `yaml:"strategy"` // "bulk" or "tx"
	BatchSize     int    `yaml:"batch_size"`
	ProgressEvery int64  `yaml:"progress_every"`
}

// Metrics contains the optional metrics listener address
type Metrics struct {
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Codepage: "",
		Database: Database{
			Driver: "sqlite",
			DSN:    "./dbf2sql.db",
		},
		Loader: Loader{
			Strategy:      "bulk",
			BatchSize:     10000,
			ProgressEvery: 1000,
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./dbf2sql.yaml"
	}

	// For Linux/macOS, use ~/.config/dbf2sql/config.yaml
	configDir := filepath.Join(homeDir, ".config", "dbf2sql")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
