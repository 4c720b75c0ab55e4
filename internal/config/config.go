// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/staranto/nmctl/internal/nestedmap"
)

// FileName is the config file looked for in the standard locations.
const FileName = "nmctl.yaml"

var (
	ErrNoConfig = errors.New("config file not found")
	ErrNotFound = errors.New("config key not found")
)

type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

var Config Type

func init() {
	_, _ = Load()
}

// Load reads the config file and makes it the package-wide Config. The
// optional namespace (usually the subcommand name) is tried before the global
// key on every lookup.
func Load(namespace ...string) (Type, error) {
	path, err := getConfigPath()
	if err != nil {
		return Type{}, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	Config = Type{
		Source: path,
		Data:   data,
	}
	if len(namespace) > 0 {
		Config.Namespace = namespace[0]
	}

	return Config, nil
}

// get resolves a dotted key, first beneath the namespace and then from the
// root of the document.
func (cfg *Type) get(kspec string) (any, error) {
	candidateKeys := []string{kspec}
	if cfg.Namespace != "" {
		candidateKeys = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidateKeys {
		v, err := nestedmap.Access(cfg.Data, nestedmap.ParsePath(key)...)
		if err == nil {
			return v, nil
		}
		log.Debugf("config %s: missing %v", key, err)
	}

	return nil, fmt.Errorf("%w: no valid path found among: %v", ErrNotFound, candidateKeys)
}

func ensureLoaded() {
	if len(Config.Data) == 0 {
		_, _ = Load(Config.Namespace)
	}
}

func GetString(key string, defaultValue ...string) (string, error) {
	ensureLoaded()

	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}

	return s, nil
}

func GetInt(key string, defaultValue ...int) (int, error) {
	ensureLoaded()

	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

func GetBool(key string, defaultValue ...bool) (bool, error) {
	ensureLoaded()

	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, errors.New("value is not a bool")
	}
	return b, nil
}

// GetStringSlice returns a list value. A scalar string is treated as a list of
// one.
func GetStringSlice(key string) ([]string, error) {
	ensureLoaded()

	val, err := Config.get(key)
	if err != nil {
		return nil, err
	}

	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list item %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.New("value is not a list")
	}
}

// getConfigPath honors NMCTL_CFG before searching the standard locations.
func getConfigPath() (string, error) {
	if p, ok := os.LookupEnv("NMCTL_CFG"); ok && p != "" {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrNoConfig, p)
		}
		if info.IsDir() {
			return "", fmt.Errorf("NMCTL_CFG points to a directory: %s", p)
		}
		return p, nil
	}

	candidates := []string{
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, FileName)
		if fileInfo, err := os.Stat(file); err == nil {
			if !fileInfo.IsDir() {
				log.Debugf("using config file: %s", file)
				return file, nil
			}
		}
	}
	return "", fmt.Errorf("%w in standard locations", ErrNoConfig)
}
