// =============================================================================
// TPV Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the TPV Report CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   tpvreport            - Build the reports from ./data into ./reports
//   tpvreport version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loading, aggregation and chart rendering
//   - pkg/           : Shared file system utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/tpv-report/cmd"
)

func main() {
	cmd.Execute()
}
