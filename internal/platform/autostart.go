package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyAppName indicates an autostart request without an application name.
	ErrEmptyAppName = errors.New("app name is empty")
	// ErrEmptyExecPath indicates an autostart request without an executable path.
	ErrEmptyExecPath = errors.New("exec path is empty")
)

const defaultEntryName = "pomobar"

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// AppDir returns the per-application directory holding settings and records.
func AppDir(service Service, appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// SyncAutostart makes the login item for the running executable match enabled.
// It does nothing when the current state already matches.
func SyncAutostart(service Service, appName string, enabled bool) error {
	current, err := service.AutostartEnabled(appName)
	if err != nil {
		return fmt.Errorf("sync autostart: %w", err)
	}
	if current == enabled {
		return nil
	}
	if !enabled {
		return service.DisableAutostart(appName)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("sync autostart: resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return service.EnableAutostart(appName, execPath)
}

func entryName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = defaultEntryName
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
