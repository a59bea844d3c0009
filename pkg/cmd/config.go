package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configFileName = ".swiftreport.yaml"
	envPrefix      = "SWIFTREPORT"

	logVerboseKey    = "log.verbose"
	logFilenameKey   = "log.filename"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// configKeys maps flag names to the keys of the config file.
var configKeys = map[string]string{
	FlagVerbose: logVerboseKey,
	flagLogFile: logFilenameKey,

	flagBaseDir:     "project.base_dir",
	flagProjectName: "project.name",
	flagSources:     "project.sources",
	flagTestSources: "project.tests",
	flagExcludes:    "project.excludes",

	flagCoverageReports: "sensors.coverage.reports",
	flagLintReports:     "sensors.lint.reports",
	flagJUnitReportsDir: "sensors.tests.reports_dir",

	flagFormat:           "report.format",
	flagOutput:           "report.output",
	flagReportName:       "report.name",
	flagStyle:            "report.style",
	flagNoSummary:        "report.no_summary",
	flagCoverageBaseline: "coverage_baseline",
	flagCompareBranch:    "compare_branch",

	flagDataCollectionEnabled: "db.enabled",
	flagStoreType:             "db.type",
	flagEndpoint:              "db.kusto.endpoint",
	flagDatabase:              "db.kusto.database",
	flagEvent:                 "db.kusto.event",
	flagCustomColumns:         "db.kusto.custom_columns",
}

// newConfig binds the flags to a fresh viper instance so that values come from,
// in order of precedence, the command line, SWIFTREPORT_* environment variables,
// the config file and the flag defaults.
// The config file is --config, or .swiftreport.yaml in the base directory when it exists.
func newConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := configKeys[f.Name]; ok {
			err = multierr.Append(err, v.BindPFlag(key, f))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	configFile, _ := flags.GetString(flagConfig)
	if configFile == "" {
		baseDir, _ := flags.GetString(flagBaseDir)
		configFile = filepath.Join(baseDir, configFileName)
		if _, err := os.Stat(configFile); err != nil {
			return v, nil
		}
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configFile, err)
	}
	return v, nil
}

// createLogger logs to stderr, and to a rotated file as well when a log file is configured.
func createLogger(cmd *cobra.Command, v *viper.Viper) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if v.GetBool(logVerboseKey) {
		logger.SetLevel(logrus.DebugLevel)
	}

	if filename := strings.TrimSpace(v.GetString(logFilenameKey)); filename != "" {
		logger.SetOutput(io.MultiWriter(cmd.ErrOrStderr(), &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    v.GetInt(logMaxSizeKey),
			MaxBackups: v.GetInt(logMaxBackupsKey),
			MaxAge:     v.GetInt(logMaxAgeKey),
			Compress:   v.GetBool(logCompressKey),
		}))
	}
	return logger
}
