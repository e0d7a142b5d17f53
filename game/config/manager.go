package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/netpong/netpong/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Info describes one settings file, for listings.
type Info struct {
	Filename    string  `json:"filename"`
	ConfigID    string  `json:"config_id"` // name to pass to LoadConfig
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CourtWidth  float64 `json:"court_width"`
	CourtHeight float64 `json:"court_height"`
	WinScore    int     `json:"win_score"`
}

// Manager handles game settings loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.Config
	configs       map[string]*engine.Config
	mu            sync.RWMutex
}

// NewManager creates a new settings manager over the given directory.
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Config),
	}

	m.loadDefaultConfig()
	return m, nil
}

// LoadConfig loads a settings file by name
func (m *Manager) LoadConfig(name string) (*engine.Config, error) {
	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(name)
}

// ListConfigs returns information about all available settings files
func (m *Manager) ListConfigs() ([]*Info, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*Info

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for config name
		name := strings.TrimSuffix(entry.Name(), ".json")

		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}

		configs = append(configs, &Info{
			Filename:    entry.Name(),
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			CourtWidth:  config.CourtWidth,
			CourtHeight: config.CourtHeight,
			WinScore:    config.WinScore,
		})
	}

	return configs, nil
}

// GetDefault returns the default settings
func (m *Manager) GetDefault() *engine.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default settings by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache reloads all cached settings from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs = make(map[string]*engine.Config)
	m.loadDefaultConfigLocked()
}

// loadDefaultConfig picks the default settings: classic.json if present,
// otherwise the first loadable file, otherwise the built-in defaults.
func (m *Manager) loadDefaultConfig() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDefaultConfigLocked()
}

func (m *Manager) loadDefaultConfigLocked() {
	if config, err := m.loadLocked("classic"); err == nil {
		m.defaultConfig = config
		return
	}

	entries, err := os.ReadDir(m.configDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			if config, err := m.loadLocked(name); err == nil {
				m.defaultConfig = config
				return
			}
		}
	}

	m.defaultConfig = engine.DefaultConfig()
}

// loadLocked is LoadConfig for callers already holding the write lock.
func (m *Manager) loadLocked(name string) (*engine.Config, error) {
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = &config
	return &config, nil
}

// SaveConfig saves settings to disk
func (m *Manager) SaveConfig(name string, config *engine.Config) error {
	// Validate config before saving
	if err := engine.ValidateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	configPath := filepath.Join(m.configDir, filename)

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}
