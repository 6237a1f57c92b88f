package main

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	"github.com/adrg/xdg"
)

const configFileName = "pentago-web/config.json"

type Config struct {
	// AiDelayMs is how long a scheduled AI move waits before playing. The
	// planner itself is fast; the delay is the UI's thinking affordance.
	AiDelayMs int `json:"ai_delay_ms"`
	// AiSeed seeds the planner's tie-breaking; 0 seeds from the clock so
	// every game differs.
	AiSeed   int64 `json:"ai_seed"`
	LogMoves bool  `json:"log_moves"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiDelayMs: 450,
		AiSeed:    0,
		LogMoves:  true,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	if newConfig.AiDelayMs < 0 {
		newConfig.AiDelayMs = 0
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// LoadConfigFile merges a config file over the defaults. With an empty path
// it looks in the xdg config directories; a missing file just keeps the
// defaults.
func LoadConfigFile(path string) {
	if path == "" {
		found, err := xdg.SearchConfigFile(configFileName)
		if err != nil {
			return
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[backend] config %s unreadable: %v", path, err)
		return
	}
	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("[backend] config %s malformed: %v", path, err)
		return
	}
	configStore.Update(config)
	log.Printf("[backend] config loaded from %s", path)
}

// SaveConfigFile writes the current config to the xdg config home, creating
// the directory if needed.
func SaveConfigFile() error {
	path, err := xdg.ConfigFile(configFileName)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(GetConfig(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0664)
}
