//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: %w", ErrEmptyAppName)
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: %w", ErrEmptyExecPath)
	}

	quotedPath := quoteWindowsPath(execPath)
	command := exec.Command(
		"reg",
		"add",
		registryRunKey,
		"/v",
		appName,
		"/t",
		"REG_SZ",
		"/d",
		quotedPath,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: %w", ErrEmptyAppName)
	}

	command := exec.Command(
		"reg",
		"delete",
		registryRunKey,
		"/v",
		appName,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if appName == "" {
		return false, fmt.Errorf("autostart status: %w", ErrEmptyAppName)
	}

	command := exec.Command("reg", "query", registryRunKey, "/v", appName)
	if err := command.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("autostart status: reg query failed: %w", err)
	}
	return true, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	trimmed := strings.Trim(execPath, `"`)
	return fmt.Sprintf(`"%s"`, trimmed)
}
