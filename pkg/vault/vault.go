package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// Vault represents the managed storage directories for docup
type Vault struct {
	RootPath    string
	ResultsPath string
	ReportsPath string
	ConfigPath  string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine data root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return &Vault{
		RootPath:    rootPath,
		ResultsPath: filepath.Join(rootPath, "results"),
		ReportsPath: filepath.Join(rootPath, "reports"),
		ConfigPath:  configPath,
	}, nil
}

// getVaultRoot returns the data directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "docup"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "docup"), nil
	}

	return filepath.Join(homeDir, ".local", "share", "docup"), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "docup", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "docup-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "docup", "config.yaml"), nil
}

// UseResultsDir points result storage at dir instead of the default location
func (v *Vault) UseResultsDir(dir string) {
	if dir != "" {
		v.ResultsPath = dir
	}
}

// Initialize creates the directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.ResultsPath,
		v.ReportsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the data directory has been created
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ManifestPath returns the path of the stored results manifest
func (v *Vault) ManifestPath() string {
	return filepath.Join(v.ResultsPath, "manifest.json")
}

// GetResultPath returns the full path for a stored extraction document
func (v *Vault) GetResultPath(key string) string {
	return filepath.Join(v.ResultsPath, key+".json")
}

// GetReportPath returns the full path for a pass report
func (v *Vault) GetReportPath(sessionID string) string {
	return filepath.Join(v.ReportsPath, sessionID+".html")
}

// CleanResults removes all stored results
func (v *Vault) CleanResults() error {
	entries, err := os.ReadDir(v.ResultsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read results directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(v.ResultsPath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
