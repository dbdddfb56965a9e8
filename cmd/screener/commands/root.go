package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Super Investor Screener - 슈퍼 투자자 보유 종목 스크리너",
	Long: `Super Investor Screener CLI

Dataroma 슈퍼 투자자 보유 종목을 수집하고
Yahoo 시세(현재가, 52주 고가/저가)를 붙여서 보여줍니다.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener run
  go run ./cmd/screener run --format csv --out super_investor_stocks.csv
  go run ./cmd/screener api
  go run ./cmd/screener scheduler start`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// reportedError has already been shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
