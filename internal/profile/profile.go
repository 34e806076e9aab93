// Package profile holds the runtime configuration for the fitness
// intelligence core. The profile is owned by the host process and passed
// into the store and engine at construction time.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is configuration to start the fitness intelligence core.
type Profile struct {
	// Mode is one of "demo", "dev", "prod".
	Mode string
	// Driver selects the vector index backend: "postgres" or "sqlite".
	Driver string
	// DSN is the driver-specific data source name.
	DSN string
	// Data is the directory holding sqlite database files.
	Data string
	// Version is the running release version.
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Load builds a Profile from the environment. Variables are read with the
// AIRWAVE_ prefix (AIRWAVE_MODE, AIRWAVE_DRIVER, AIRWAVE_DSN, AIRWAVE_DATA).
// A local .env file is honored outside prod so development setups don't need
// to export anything.
func Load() (*Profile, error) {
	if os.Getenv("AIRWAVE_MODE") != "prod" {
		// Ignore the error: a missing .env file is the common case.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix("airwave")
	v.AutomaticEnv()
	v.SetDefault("mode", "demo")
	v.SetDefault("driver", "sqlite")
	v.SetDefault("data", ".")

	p := &Profile{
		Mode:    v.GetString("mode"),
		Driver:  v.GetString("driver"),
		DSN:     v.GetString("dsn"),
		Data:    v.GetString("data"),
		Version: v.GetString("version"),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and fills in derived defaults. It must be
// called before the profile is handed to a driver.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	switch p.Driver {
	case "sqlite":
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("airwave_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn required for postgres driver")
		}
	default:
		return errors.Errorf("unsupported driver %q", p.Driver)
	}

	return nil
}
