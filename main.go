package main

import (
	"errors"
	"os"

	"github.com/Azure/swiftreport/pkg/cmd"
	"github.com/Azure/swiftreport/pkg/sensor"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	command := cmd.NewSwiftReportCommand(version, commit, date)
	if err := command.Execute(); err != nil {
		var analyzerErr *sensor.AnalyzerError
		if errors.As(err, &analyzerErr) {
			os.Exit(analyzerErr.ExitCode)
		}
		os.Exit(sensor.GeneralErrorExitCode)
	}
}
