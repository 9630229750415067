// =============================================================================
// Timesheet Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Timesheet Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   timesheets              - Convert the export named in config.json
//   timesheets process      - Same, with date/output/dry-run overrides
//   timesheets version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Pipeline, transformations, CSV ingest, XLSX output
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/timesheet-converter/cmd"
)

func main() {
	cmd.Execute()
}
