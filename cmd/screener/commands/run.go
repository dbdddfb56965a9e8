package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/internal/profile"
	"github.com/wonny/superinvestor/internal/screener"
	"github.com/wonny/superinvestor/pkg/config"
)

// Output formats
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "스크리너 1회 실행",
	Long: `보유 종목 목록을 수집하고 종목별 시세를 붙여서 출력합니다.

이 명령어는:
- Dataroma grid 페이지에서 종목/투자자 수/보유 가격 수집
- 종목별 현재가, 52주 저가/고가 조회
- 투자자 수 내림차순으로 정렬해서 출력

Example:
  go run ./cmd/screener run
  go run ./cmd/screener run --format csv --out super_investor_stocks.csv
  go run ./cmd/screener run --strategy rendered --concurrency 4
  go run ./cmd/screener run --profile profiles/hourly-csv.yaml`,
	RunE: runScreener,
}

var (
	runFormat      string
	runOut         string
	runStrategy    string
	runProvider    string
	runConcurrency int
	runQuiet       bool
	runProfile     string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFormat, "format", "f", FormatTable, "output format (table|csv|json)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "write output to file instead of stdout")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "page fetch strategy (plain|headered|rendered)")
	runCmd.Flags().StringVar(&runProvider, "provider", "", "quote provider (chart|financego)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "parallel quote lookups (default SCREENER_CONCURRENCY)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "hide progress lines")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "YAML run profile (flags take precedence)")
}

func runScreener(cmd *cobra.Command, args []string) error {
	var prof *profile.Profile
	if runProfile != "" {
		p, err := profile.Load(runProfile)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		prof = p

		if !cmd.Flags().Changed("format") && p.Output.Format != "" {
			runFormat = p.Output.Format
		}
		if !cmd.Flags().Changed("out") && p.Output.Path != "" {
			runOut = p.Output.Path
		}
	}

	switch runFormat {
	case FormatTable, FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q (valid: table, csv, json)", runFormat)
	}

	a, err := newApp(func(cfg *config.Config) {
		if prof != nil {
			prof.Apply(cfg)
		}
		if runStrategy != "" {
			cfg.Source.Strategy = runStrategy
		}
		if runProvider != "" {
			cfg.Quote.Provider = runProvider
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Screener.Concurrency = runConcurrency
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if prof != nil {
		hash, _ := profile.Hash(prof)
		a.log.WithFields(map[string]interface{}{
			"profile": prof.Name,
			"hash":    hash,
		}).Info("Run profile applied")
	}

	if !runQuiet {
		PrintHeader("Super Investor Screener")
		PrintKeyValue("Source", a.cfg.Source.URL, 8)
		PrintKeyValue("Strategy", a.cfg.Source.Strategy, 8)
		PrintKeyValue("Provider", a.cfg.Quote.Provider, 8)
		PrintSeparator()
	}

	result, err := a.pipeline.Run(ctx, func(p contracts.Progress) {
		if !runQuiet && p.Stage == contracts.StageEnrichment {
			PrintProgress("Screener", "Enriched holdings", p.Done, p.Total)
		}
	})
	if err != nil {
		return reportRunError(err)
	}

	out := io.Writer(os.Stdout)
	if runOut != "" {
		f, err := os.Create(runOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeOutput(out, runFormat, result); err != nil {
		return err
	}

	if !runQuiet {
		fmt.Fprintln(statusOut)
		PrintSuccess(fmt.Sprintf("%d holdings, %d with market data (%.2fs)",
			result.Listed, result.Enriched, result.Duration.Seconds()))
		if runOut != "" {
			PrintInfo(fmt.Sprintf("Saved to %s", runOut))
		}
	}

	return nil
}

// reportRunError shows pipeline halts as plain messages.
// An empty listing is a warning, not a failure.
func reportRunError(err error) error {
	switch {
	case errors.Is(err, contracts.ErrEmptyResult):
		PrintWarning(contracts.ErrEmptyResult.Error())
		return nil
	case errors.Is(err, contracts.ErrSourceUnavailable):
		PrintError(contracts.ErrSourceUnavailable.Error())
		return &reportedError{err: err}
	default:
		return err
	}
}

// jsonDocument is the --format json body.
// Run metadata (id, start, duration) stays in the logs so cached reruns print identical bytes.
type jsonDocument struct {
	Listed   int                     `json:"listed"`
	Enriched int                     `json:"enriched"`
	Rows     []contracts.EnrichedRow `json:"rows"`
}

// writeOutput renders result in the requested format
func writeOutput(w io.Writer, format string, result *contracts.Result) error {
	switch format {
	case FormatCSV:
		return screener.WriteCSV(w, result.Rows)

	case FormatJSON:
		data, err := json.Marshal(jsonDocument{
			Listed:   result.Listed,
			Enriched: result.Enriched,
			Rows:     result.Rows,
		})
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(pretty.Pretty(data))
		return err

	default:
		records := make([][]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			rec := screener.Record(row)
			for i, cell := range rec {
				if cell == "" {
					rec[i] = "-"
				}
			}
			records = append(records, rec)
		}
		PrintTable(w, screener.Columns, records)
		return nil
	}
}
