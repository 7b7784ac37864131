package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default name of the hosted troubleshooting runbook
const DefaultAutomationDocument = "AWSSupport-TroubleshootAPIGatewayHttpErrors"

// Config represents the application configuration
type Config struct {
	AWSProfile         string `yaml:"aws_profile,omitempty"`
	AWSRegion          string `yaml:"aws_region,omitempty"`
	AutomationDocument string `yaml:"automation_document,omitempty"`
}

// GetConfigDir returns the config directory path (~/.gwprobe)
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gwprobe"
	}
	return filepath.Join(home, ".gwprobe")
}

// GetConfigPath returns the config file path (~/.gwprobe/config.yaml)
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LoadConfig loads the configuration from ~/.gwprobe/config.yaml
func LoadConfig() (*Config, error) {
	configPath := GetConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to ~/.gwprobe/config.yaml
func SaveConfig(cfg *Config) error {
	configDir := GetConfigDir()

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := GetConfigPath()
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetProfile updates the AWS profile in the config
func SetProfile(profileName string) error {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = &Config{}
	}

	cfg.AWSProfile = profileName
	return SaveConfig(cfg)
}

// GetSavedProfile returns the saved AWS profile from config
func GetSavedProfile() string {
	cfg, err := LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.AWSProfile
}

// GetAutomationDocument returns the configured runbook name, falling
// back to the hosted default
func GetAutomationDocument() string {
	cfg, err := LoadConfig()
	if err != nil || cfg.AutomationDocument == "" {
		return DefaultAutomationDocument
	}
	return cfg.AutomationDocument
}
