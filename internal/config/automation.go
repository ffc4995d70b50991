package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Automation holds everything needed to drive the app on a device.
type Automation struct {
	ADBPath           string
	Serial            string
	TesseractPath     string
	CacheDir          string
	Model             string
	MaxLocateAttempts int
}

// DefaultAutomation returns the automation defaults. The cache directory
// lands next to the config file under ~/.config/ledgerhand.
func DefaultAutomation() Automation {
	cacheDir := ".ledgerhand-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".config", "ledgerhand", "cache")
	}
	return Automation{
		ADBPath:           "adb",
		TesseractPath:     "tesseract",
		CacheDir:          cacheDir,
		MaxLocateAttempts: 5,
	}
}

// LoadAutomation loads the automation configuration from Viper, falling back
// to defaults for anything unset.
func LoadAutomation() (Automation, error) {
	cfg := DefaultAutomation()

	if v := viper.GetString("device.adb_path"); v != "" {
		cfg.ADBPath = ExpandPath(v)
	}
	if v := viper.GetString("device.serial"); v != "" {
		cfg.Serial = v
	}
	if v := viper.GetString("device.model"); v != "" {
		cfg.Model = v
	}
	if v := viper.GetString("ocr.tesseract_path"); v != "" {
		cfg.TesseractPath = ExpandPath(v)
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.CacheDir = ExpandPath(v)
	}
	if v := viper.GetInt("locator.max_attempts"); v != 0 {
		cfg.MaxLocateAttempts = v
	}

	if cfg.MaxLocateAttempts < 1 {
		return Automation{}, fmt.Errorf("locator.max_attempts must be positive, got %d", cfg.MaxLocateAttempts)
	}

	return cfg, nil
}

// CacheFile returns the per-device coordinate cache path.
func (a Automation) CacheFile(model string) string {
	return filepath.Join(a.CacheDir, model+".json")
}
