/*
main.go - nizami command-line entry point

PURPOSE:
  Wires configuration, storage and the attendance service together and
  exposes them as cobra subcommands.

COMMANDS:
  serve                      HTTP API (owner dashboard + kiosk endpoints)
  portal                     Terminal kiosk for clocking in and out
  clock in|out <employee>    Record a clock event now
  employees list|add|...     Roster management
  payroll [--date]           Payroll for the enclosing cycle
  export [file] / import     Whole-state JSON document
  seed                       Demo roster for an empty store

CONFIGURATION:
  ~/.nizami/config.toml, created with defaults on first run. --config
  points at another file.

SEE ALSO:
  - config/config.go: configuration file
  - api/server.go: HTTP routes
  - tui/portal.go: kiosk
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nizami",
	Short: "Attendance and payroll tracker",
	Long: `Nizami records employee clock-ins and clock-outs and computes payroll
for a monthly cycle that starts on a fixed day of the month.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.nizami/config.toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(portalCmd)
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(payrollCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fail prints err to stderr and exits.
func fail(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}
