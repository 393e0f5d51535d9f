package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

// LoadFromFile loads the YAML configuration into gconfig.Shared.
// An empty path is allowed, every setting then falls back to its environment variable.
func LoadFromFile(cfgPath string) {
	if strings.TrimSpace(cfgPath) == "" {
		log.Logger.Info("no configuration file, use environment only")
		return
	}
	if _, err := os.Stat(cfgPath); err != nil && os.IsNotExist(err) {
		log.Logger.Warn("configuration file not found, use environment only",
			zap.String("config", cfgPath))
		return
	}

	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

// StringOrEnv returns the configured string for key, or the value of env when unset.
func StringOrEnv(key, env string) string {
	if v := strings.TrimSpace(gconfig.Shared.GetString(key)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(env))
}

// IntOrEnv returns the configured int for key, or the parsed env value, or def.
func IntOrEnv(key, env string, def int) int {
	if gconfig.Shared.Get(key) != nil {
		if v := gconfig.Shared.GetInt(key); v > 0 {
			return v
		}
	}
	if raw := strings.TrimSpace(os.Getenv(env)); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}

// BoolOrDefault returns the configured bool for key, or def when unset.
func BoolOrDefault(key string, def bool) bool {
	if gconfig.Shared.Get(key) == nil {
		return def
	}
	return gconfig.Shared.GetBool(key)
}

// StringSlice returns the configured string list for key, or def when unset.
func StringSlice(key string, def []string) []string {
	if gconfig.Shared.Get(key) == nil {
		return def
	}
	return gconfig.Shared.GetStringSlice(key)
}
