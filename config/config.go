// Package config loads and persists the runtime configuration file.
package config

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	blueretro "github.com/Alkhymia/BlueRetro"
)

var logger = blueretro.GetLogger()

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the tunables that survive restarts. Zero values are
// replaced by defaults at load time so a partial file still works.
type Config struct {
	DeviceName    string `json:"device_name"`
	ClassOfDevice uint32 `json:"class_of_device"`
	KeysFile      string `json:"keys_file"`
	BDAddrFile    string `json:"bdaddr_file"`

	// FeedbackAutoOffMs stops rumble after this many milliseconds
	// without a refresh from the wired side. 0 disables the cutoff.
	FeedbackAutoOffMs int `json:"feedback_auto_off_ms"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DeviceName:    "BlueRetro",
		ClassOfDevice: 0x000508, // peripheral, gamepad
		KeysFile:      "linkkeys.bin",
		BDAddrFile:    "bdaddr.bin",
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults; a malformed file is an error so a typo doesn't silently
// reset everything.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Infof("config: %s not found, using defaults", path)
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "can't read config")
	}

	if err := json.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "can't parse config")
	}
	c.applyDefaults()
	return c, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "can't marshal config")
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrap(err, "can't write config")
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DeviceName == "" {
		c.DeviceName = d.DeviceName
	}
	if c.ClassOfDevice == 0 {
		c.ClassOfDevice = d.ClassOfDevice
	}
	if c.KeysFile == "" {
		c.KeysFile = d.KeysFile
	}
	if c.BDAddrFile == "" {
		c.BDAddrFile = d.BDAddrFile
	}
}
