// Command leavectl prices and checks leave applications offline: no
// database, only YAML files for holidays and scenarios.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "leavectl",
	Short: "Leave entitlement and validation tool",
	Long: `leavectl runs the leave engine against local files.

  calendar  show the working and non-working days of a month
  days      price a leave range in chargeable days
  check     validate a draft application described in a scenario file`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	rootCmd.AddCommand(calendarCmd, daysCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
