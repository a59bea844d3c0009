package cmd

import (
	"fmt"

	"github.com/Azure/swiftreport/pkg/sensor"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	analyzeLong = `Import the Cobertura coverage, SwiftLint and JUnit reports of a swift project.

Use this tool to compute the coverage, lint and test measures of every source file,
print a summary, generate a report, and optionally send the measures to a kusto database.
A report that cannot be imported does not stop the analysis, the command exits with code 13 instead.
`

	analyzeExample = `# Analyze the reports under sonar-reports/ and generate a html report in /tmp
swiftreport analyze --base-dir . --output /tmp

# Only report the files changed compared to origin/main, coverage should be greater than 80%
swiftreport analyze --compare-branch origin/main --coverage-baseline 80.0 --format markdown

# Analyze and send the measures to kusto database.
export KUSTO_TENANT_ID=00000000-0000-0000-0000-000000000000
export KUSTO_CLIENT_ID=00000000-0000-0000-0000-000000000000
export KUSTO_CLIENT_SECRET=xxxxxxxxxxxxxxxxxxxx
swiftreport analyze --base-dir . \
	--data-collection-enabled \
	--store-type Kusto \
	--endpoint https://your.kusto.windows.net/ \
	--database kustodb_name \
	--event kusto_event
`

	coverageExample = `# Import the coverage reports produced by slather or xccov-to-cobertura
swiftreport coverage --coverage-reports "build/**/cobertura.xml" --coverage-baseline 75
`

	lintExample = `# Import the output of 'swiftlint lint > sonar-reports/swiftlint.txt'
swiftreport lint --swiftlint-reports "sonar-reports/*swiftlint.txt"
`

	testsExample = `# Import the JUnit reports produced by xcpretty or trainer
swiftreport tests --junit-reports-dir build/reports
`
)

// NewSwiftReportCommand creates the root command of the swift analysis reporter.
func NewSwiftReportCommand(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "swiftreport",
		Short:        "coverage, lint and test report tool for swift code",
		SilenceUsage: true,
	}

	addGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(newSensorCommand(
		"analyze", "import all the reports of a swift project", analyzeLong, analyzeExample,
		[]func(*pflag.FlagSet){addCoverageFlags, addLintFlags, addTestFlags},
		sensor.AllKinds...,
	))
	cmd.AddCommand(newSensorCommand(
		"coverage", "import Cobertura coverage reports", "", coverageExample,
		[]func(*pflag.FlagSet){addCoverageFlags},
		sensor.CoverageKind,
	))
	cmd.AddCommand(newSensorCommand(
		"lint", "import SwiftLint reports", "", lintExample,
		[]func(*pflag.FlagSet){addLintFlags},
		sensor.LintKind,
	))
	cmd.AddCommand(newSensorCommand(
		"tests", "import JUnit test reports", "", testsExample,
		[]func(*pflag.FlagSet){addTestFlags},
		sensor.TestKind,
	))
	cmd.AddCommand(newVersionCommand(version, commit, date))
	return cmd
}

func newSensorCommand(use, short, long, example string, addFlags []func(*pflag.FlagSet), kinds ...sensor.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyzer(cmd, kinds...)
		},
	}

	for _, add := range addFlags {
		add(cmd.Flags())
	}
	return cmd
}

func runAnalyzer(cmd *cobra.Command, kinds ...sensor.Kind) error {
	v, err := newConfig(cmd.Flags())
	if err != nil {
		return err
	}

	logger := createLogger(cmd, v)
	o := newOption(cmd, v, logger, kinds...)

	analyzer, err := sensor.NewAnalyzer(o)
	if err != nil {
		return fmt.Errorf("NewAnalyzer: %w", err)
	}

	if err := analyzer.Run(cmd.Context()); err != nil {
		return fmt.Errorf("analyze %s: %w", o.BaseDir, err)
	}
	return nil
}
