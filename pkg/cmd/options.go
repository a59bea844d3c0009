package cmd

import (
	"github.com/Azure/swiftreport/pkg/report"
	"github.com/Azure/swiftreport/pkg/sensor"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FlagVerbose      = "verbose"
	FlagVerboseShort = "v"

	flagConfig  = "config"
	flagLogFile = "log-file"

	flagBaseDir     = "base-dir"
	flagProjectName = "project-name"
	flagSources     = "sources"
	flagTestSources = "test-sources"
	flagExcludes    = "excludes"

	flagCoverageReports = "coverage-reports"
	flagLintReports     = "swiftlint-reports"
	flagJUnitReportsDir = "junit-reports-dir"

	flagFormat           = "format"
	flagOutput           = "output"
	flagOutputShort      = "o"
	flagReportName       = "report-name"
	flagStyle            = "style"
	flagNoSummary        = "no-summary"
	flagCoverageBaseline = "coverage-baseline"
	flagCompareBranch    = "compare-branch"
)

func addGlobalFlags(flags *pflag.FlagSet) {
	o := sensor.NewOption()

	flags.BoolP(FlagVerbose, FlagVerboseShort, false, "verbose output")
	flags.String(flagConfig, "", "config file, default to "+configFileName+" in the base directory")
	flags.String(flagLogFile, "", "also write the logs to this file, rotated")

	flags.String(flagBaseDir, o.BaseDir, "the root directory of the swift project")
	flags.String(flagProjectName, "", "project name shown in the report, default to the base directory name")
	flags.StringSlice(flagSources, o.FileOption.SourcePatterns, "source files to index, relative to the base directory")
	flags.StringSlice(flagTestSources, o.FileOption.TestPatterns, "test source files, relative to the base directory")
	flags.StringSlice(flagExcludes, o.FileOption.Excludes, "files excluded from the analysis")

	flags.String(flagFormat, string(o.ReportFormat), "format of the analysis report, one of: html, markdown, json, yaml")
	flags.StringP(flagOutput, flagOutputShort, o.OutputDir, "output directory of the analysis report")
	flags.String(flagReportName, o.ReportName, "analysis report name")
	flags.String(flagStyle, o.Style, "report code format style, refer to https://pygments.org/docs/styles for more information")
	flags.Bool(flagNoSummary, false, "do not print the summary table")
	flags.Float64(flagCoverageBaseline, o.CoverageBaseline, "returns an error code if the line coverage is less than coverage baseline")
	flags.String(flagCompareBranch, "", "only report the files changed compared to this branch")

	addDBFlags(flags)
}

func addCoverageFlags(flags *pflag.FlagSet) {
	flags.String(flagCoverageReports, sensor.DefaultCoverageReportPattern, "Cobertura coverage reports, glob pattern relative to the base directory")
}

func addLintFlags(flags *pflag.FlagSet) {
	flags.String(flagLintReports, sensor.DefaultLintReportPattern, "SwiftLint reports, glob pattern relative to the base directory")
}

func addTestFlags(flags *pflag.FlagSet) {
	flags.String(flagJUnitReportsDir, sensor.DefaultTestReportsDir, "directory of the JUnit test reports")
}

// newOption builds the analyzer option of the enabled sensors from the bound config.
func newOption(cmd *cobra.Command, v *viper.Viper, logger logrus.FieldLogger, kinds ...sensor.Kind) *sensor.Option {
	o := sensor.NewOption()
	o.Sensors = kinds
	o.Logger = logger

	o.BaseDir = v.GetString(configKeys[flagBaseDir])
	o.ProjectName = v.GetString(configKeys[flagProjectName])
	o.FileOption.SourcePatterns = v.GetStringSlice(configKeys[flagSources])
	o.FileOption.TestPatterns = v.GetStringSlice(configKeys[flagTestSources])
	o.FileOption.Excludes = v.GetStringSlice(configKeys[flagExcludes])

	if s := v.GetString(configKeys[flagCoverageReports]); s != "" {
		o.CoverageReportPattern = s
	}
	if s := v.GetString(configKeys[flagLintReports]); s != "" {
		o.LintReportPattern = s
	}
	if s := v.GetString(configKeys[flagJUnitReportsDir]); s != "" {
		o.TestReportsDir = s
	}

	o.ReportFormat = report.Format(v.GetString(configKeys[flagFormat]))
	o.OutputDir = v.GetString(configKeys[flagOutput])
	o.ReportName = v.GetString(configKeys[flagReportName])
	o.Style = v.GetString(configKeys[flagStyle])
	o.CoverageBaseline = v.GetFloat64(configKeys[flagCoverageBaseline])
	o.CompareBranch = v.GetString(configKeys[flagCompareBranch])
	if !v.GetBool(configKeys[flagNoSummary]) {
		o.Summary = cmd.OutOrStdout()
	}

	o.DbOption = newDBOption(v)
	o.DbOption.KustoOption.Writer = cmd.ErrOrStderr()
	return o
}
