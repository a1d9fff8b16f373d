//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package config provides configuration management for the ICCP core
// using [Viper] for flexible configuration sources.
//
// Configuration can be provided via:
//   - YAML configuration files
//   - Environment variables with the ICCP_ prefix
//   - Programmatic defaults
//
// # Configuration File
//
// By default, the engine looks for iccp-config.yaml in the current directory.
// Override the location using environment variables:
//
//	ICCP_CONFIG_PATH=/etc/iccp
//	ICCP_CONFIG_FILENAME=production-config
//
// Example configuration file:
//
//	log:
//	  level: ".:info"
//	catalog:
//	  path: /etc/iccp/catalog.yaml
//	audit:
//	  file: data/audit_log.jsonl
//	  queue:
//	    capacity: 1024
//
// # Environment Variables
//
// All configuration keys can be set via environment variables with the ICCP_
// prefix.  Dots in key names become underscores:
//
//	ICCP_LOG_LEVEL=.:debug
//	ICCP_AUDIT_FILE=/var/log/iccp/audit.jsonl
//	ICCP_AUDIT_QUEUE_CAPACITY=4096
//
// [Viper]: https://github.com/spf13/viper
package config

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/edushield/iccp/internal/logging"
	"github.com/spf13/viper"
)

// Environment variable and default path constants for configuration loading.
const (
	// EnvVarPrefix is the prefix for all ICCP environment variables.
	// For example, the key "log.level" becomes ICCP_LOG_LEVEL.
	EnvVarPrefix string = "ICCP"

	// ConfigPathEnv is the environment variable that specifies the directory
	// containing the configuration file.
	ConfigPathEnv string = "ICCP_CONFIG_PATH"

	// ConfigFileNameEnv is the environment variable that specifies the
	// configuration file name (without extension).
	ConfigFileNameEnv string = "ICCP_CONFIG_FILENAME"

	// ConfigDefaultPath is the default directory to search for config files.
	ConfigDefaultPath string = "."

	// ConfigDefaultFilename is the default configuration file name (without extension).
	ConfigDefaultFilename string = "iccp-config"
)

// Configuration key constants for use with [VConfig].
const (
	logLevel string = "log.level"

	// CatalogPath is the path to the resource catalog YAML file.  When empty,
	// the built-in default catalog is used.
	//
	// Set via environment: ICCP_CATALOG_PATH=/etc/iccp/catalog.yaml
	CatalogPath string = "catalog.path"

	// AuditFile is the path of the append-only audit log (one JSON object
	// per line).
	//
	// Default: "data/audit_log.jsonl"
	AuditFile string = "audit.file"

	// AuditQueueCapacity bounds the audit pipeline queue.  Entries submitted
	// while the queue is full are dropped and counted.
	//
	// Default: 1024
	AuditQueueCapacity string = "audit.queue.capacity"

	// AuditFlushTimeout is the per-sink write timeout applied by the audit
	// dispatcher.
	//
	// Default: 2s
	AuditFlushTimeout string = "audit.flush.timeout"

	// AuditMemoryCapacity is the size of the in-memory ring buffer used to
	// answer operator audit queries.
	//
	// Default: 256
	AuditMemoryCapacity string = "audit.memory.capacity"

	// AuditConsoleEnabled controls whether sanitized audit entries are also
	// echoed to stdout.
	//
	// Default: true
	AuditConsoleEnabled string = "audit.console.enabled"
)

var (
	once     sync.Once
	loadOnce sync.Once
	loadErr  error

	// VConfig is the global Viper configuration instance for the ICCP core.
	//
	// VConfig provides access to all configuration values.  Use the
	// configuration key constants ([AuditFile], [AuditQueueCapacity], etc.)
	// to access specific settings:
	//
	//	capacity := config.VConfig.GetInt(config.AuditQueueCapacity)
	//
	// VConfig is initialized automatically when [Load] or [Init] is called.
	VConfig *viper.Viper
	logger  = logging.GetLogger("iccp.config")
)

// Init initializes the configuration system without loading config files.
//
// Init sets up Viper with configuration file paths, environment variable
// handling (ICCP_ prefix), and default values for all configuration keys.
//
// This function is safe to call multiple times; subsequent calls are no-ops.
// Most applications don't need to call Init directly; it's called
// automatically by [Load].
func Init() {
	once.Do(doInitialize)
}

func getConfigPath() string {
	if configPath, ok := os.LookupEnv(ConfigPathEnv); ok {
		return configPath
	}

	return ConfigDefaultPath
}

func getConfigFileName() string {
	if configName, ok := os.LookupEnv(ConfigFileNameEnv); ok {
		return configName
	}

	return ConfigDefaultFilename
}

func doInitialize() {
	VConfig = viper.New()

	// set up config-file loading:  default is './iccp-config.yaml' but can be
	// overridden with $(ICCP_CONFIG_PATH)/$(ICCP_CONFIG_FILENAME).yaml
	VConfig.AddConfigPath(getConfigPath())
	VConfig.SetConfigName(getConfigFileName())
	VConfig.SetConfigType("yaml")

	// set up envvar handling:  keys such as 'log.level' become 'ICCP_LOG_LEVEL'
	VConfig.SetEnvPrefix(EnvVarPrefix)
	VConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	VConfig.AutomaticEnv()

	// set up VConfig defaults
	VConfig.SetDefault(logLevel, ".:info")
	VConfig.SetDefault(AuditFile, "data/audit_log.jsonl")
	VConfig.SetDefault(AuditQueueCapacity, 1024)
	VConfig.SetDefault(AuditFlushTimeout, 2*time.Second)
	VConfig.SetDefault(AuditMemoryCapacity, 256)
	VConfig.SetDefault(AuditConsoleEnabled, true)
}

// Load initializes configuration and loads settings from files and environment.
//
// Load performs the following steps:
//  1. Calls [Init] if not already called
//  2. Reads the configuration file (if present; missing files are not an error)
//  3. Applies environment variable overrides
//  4. Updates log levels based on configuration
//
// This function is safe to call concurrently from multiple goroutines.
// Subsequent calls after the first successful load are no-ops that return nil.
func Load() error {
	loadOnce.Do(func() {
		Init()

		// Early log level update from environment variable allows us to debug
		// the config loading itself.
		if earlyLoglevel := os.Getenv("ICCP_LOG_LEVEL"); earlyLoglevel != "" {
			if err := logging.UpdateLogLevels(earlyLoglevel); err != nil {
				logger.SysErrorf("Failed updating early log level %s: %+v", earlyLoglevel, err)
				loadErr = err
				return
			}
		}

		logger.SysDebugf("Loading configuration from %s/%s.yaml", getConfigPath(), getConfigFileName())
		if err := VConfig.ReadInConfig(); err != nil {
			// Only log if it's an actual error, not just a missing config file
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				logger.SysWarnf("error reading config; using defaults: %+v", err)
			}
			logger.SysDebugf("No config file found at %s/%s.yaml", getConfigPath(), getConfigFileName())
		}

		// Update log levels based on final configuration
		loglevel := VConfig.GetString(logLevel)
		if err := logging.UpdateLogLevels(loglevel); err != nil {
			logger.SysErrorf("Failed updating log level %s: %+v", loglevel, err)
			loadErr = err
			return
		}

		if logger.IsDebugEnabled() {
			VConfig.DebugTo(logger.Out())
		}
	})

	return loadErr
}

// ResetConfig clears all configuration and reinitializes with defaults.
//
// WARNING: This function is intended for testing only.  It resets the global
// configuration state, which can cause race conditions in concurrent code.
func ResetConfig() {
	VConfig = nil
	once = sync.Once{}
	loadOnce = sync.Once{}
	loadErr = nil
	Init()
	_ = Load()
}
