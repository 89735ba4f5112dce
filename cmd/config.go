package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/nuts-foundation/hdsi-querytool/cmd/core"
	libHTTPComponent "github.com/nuts-foundation/hdsi-querytool/component/http"
	"github.com/nuts-foundation/hdsi-querytool/component/querytool"
	"github.com/nuts-foundation/hdsi-querytool/component/tracing"
	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is the YAML configuration file read at start-up, relative to the working directory.
	DefaultConfigFile = "config/querytool.yml"
	// UIConfigFileName is the static UI configuration, read from the directory of the YAML configuration file.
	UIConfigFileName = "config.json"
	envPrefix        = "QT_"
)

type Config struct {
	Core      core.Config             `koanf:"core"`
	HTTP      libHTTPComponent.Config `koanf:"http"`
	QueryTool querytool.Config        `koanf:"querytool"`
	Tracing   tracing.Config          `koanf:"tracing"`
	Logging   logging.Config          `koanf:"logging"`
}

func DefaultConfig() Config {
	return Config{
		Core:      core.DefaultConfig(),
		HTTP:      libHTTPComponent.DefaultConfig(),
		QueryTool: querytool.DefaultConfig(),
		Tracing:   tracing.DefaultConfig(),
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// ParseFlags returns the configuration file given on the command line.
func ParseFlags(args []string) (string, error) {
	flags := pflag.NewFlagSet("hdsi-querytool", pflag.ContinueOnError)
	configFile := flags.String("configfile", DefaultConfigFile, "Path to the YAML configuration file.")
	if err := flags.Parse(args); err != nil {
		return "", err
	}
	return *configFile, nil
}

// LoadConfig loads the configuration from (in order of precedence, last wins):
// defaults, the YAML configuration file, config.json next to it (as querytool.ui)
// and QT_ environment variables (e.g. QT_QUERYTOOL_BASEURL sets querytool.baseurl).
// Missing files are skipped.
func LoadConfig(configFile string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, err
	}
	if exists, err := fileExists(configFile); err != nil {
		return Config{}, err
	} else if exists {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}
	uiConfigFile := filepath.Join(filepath.Dir(configFile), UIConfigFileName)
	if exists, err := fileExists(uiConfigFile); err != nil {
		return Config{}, err
	} else if exists {
		ui := koanf.New(".")
		if err := ui.Load(file.Provider(uiConfigFile), json.Parser()); err != nil {
			return Config{}, err
		}
		// Merging writes into the existing map, which must not be nil.
		if existing, _ := k.Get("querytool.ui").(map[string]any); existing == nil {
			k.Delete("querytool.ui")
		}
		if err := k.MergeAt(ui, "querytool.ui"); err != nil {
			return Config{}, err
		}
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func fileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
