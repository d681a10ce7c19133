package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomobar/internal/core/timer"
	"pomobar/internal/ui/preferences"
)

const (
	settingsFileName = "settings.yaml"
	recordsFileName  = "records.db"

	maxTickIntervalSeconds = 60
)

type yamlSettings struct {
	DefaultDurationSeconds int    `yaml:"default_duration_seconds"`
	DefaultMode            string `yaml:"default_mode"`
	TickIntervalSeconds    int    `yaml:"tick_interval_seconds"`
	NotificationsEnabled   *bool  `yaml:"notifications_enabled"`
	LaunchAtLogin          bool   `yaml:"launch_at_login"`
	WindowMode             string `yaml:"window_mode"`
}

// SettingsPath returns the settings file location inside appDir.
func SettingsPath(appDir string) string {
	return filepath.Join(appDir, settingsFileName)
}

// RecordsPath returns the session record database location inside appDir.
func RecordsPath(appDir string) string {
	return filepath.Join(appDir, recordsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.NotificationsEnabled
	fileData := yamlSettings{
		DefaultDurationSeconds: int(settings.DefaultDuration / time.Second),
		DefaultMode:            string(settings.DefaultMode),
		TickIntervalSeconds:    int(settings.TickInterval / time.Second),
		NotificationsEnabled:   &notifications,
		LaunchAtLogin:          settings.LaunchAtLogin,
		WindowMode:             string(settings.WindowMode),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DefaultDurationSeconds > 0 {
		settings.DefaultDuration = time.Duration(fileData.DefaultDurationSeconds) * time.Second
	}
	if mode := timer.Mode(fileData.DefaultMode); mode.Valid() {
		settings.DefaultMode = mode
	}
	if fileData.TickIntervalSeconds > 0 && fileData.TickIntervalSeconds <= maxTickIntervalSeconds {
		settings.TickInterval = time.Duration(fileData.TickIntervalSeconds) * time.Second
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}

	switch mode := preferences.WindowMode(fileData.WindowMode); mode {
	case preferences.WindowPopover, preferences.WindowFloating:
		settings.WindowMode = mode
	}

	settings.LaunchAtLogin = fileData.LaunchAtLogin
}
