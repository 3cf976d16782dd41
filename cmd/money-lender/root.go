package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chaitu5981/money-lender/internal/calculation"
	"github.com/chaitu5981/money-lender/internal/config"
	"github.com/chaitu5981/money-lender/internal/ledger"
	"github.com/chaitu5981/money-lender/internal/logger"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	pkgdecimal "github.com/chaitu5981/money-lender/pkg/decimal"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// app holds the wiring shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer

	envFile   string
	ledger    string
	format    string
	logLevel  string
	outputDir string

	settings config.Settings
	log      zerolog.Logger
	svc      *ledger.Service
	nowFunc  func() time.Time
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, nowFunc: time.Now}

	root := &cobra.Command{
		Use:   "money-lender",
		Short: "Track an informal loan and compute annually compounded interest",
		Long: `money-lender keeps a ledger of borrowals and repayments between two people
and computes the amount due: simple interest on a 360-day year, compounded
at every anniversary of the first transaction.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with MONEY_LENDER_* settings")
	pf.StringVarP(&a.ledger, "ledger", "l", "", "ledger file (default from MONEY_LENDER_LEDGER or ledger.yaml)")
	pf.StringVarP(&a.format, "format", "f", "", "output format for calc: "+strings.Join(outputNames(), ", "))
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&a.outputDir, "output-dir", "o", "", "directory for written reports")

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newRateCmd(a),
		newAsOfCmd(a),
		newPartiesCmd(a),
		newCalcCmd(a),
		newReportCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newClearCmd(a),
	)
	return root
}

// setup resolves settings (.env, environment, then flags) and builds the
// ledger service.
func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.LoadSettings(a.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("ledger") {
		s.LedgerPath = a.ledger
	}
	if flags.Changed("format") {
		s.Format = a.format
	}
	if flags.Changed("log-level") {
		s.LogLevel = a.logLevel
	}
	if flags.Changed("output-dir") {
		s.OutputDir = a.outputDir
	}
	a.settings = s

	a.log = logger.NewConsole(a.errOut, s.LogLevel)
	engine := calculation.NewAccrualEngineWithOptions(s.EngineOptions())
	engine.SetLogger(logger.NewCalcLogger(a.log))

	a.svc = ledger.NewService(ledger.NewFileStore(s.LedgerPath), engine, a.log)
	a.svc.SetNowFunc(a.nowFunc)
	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))
	a.log.Debug().Str("ledger", s.LedgerPath).Str("tie_break", s.TieBreak.String()).Msg("settings loaded")
	return nil
}

func (a *app) today() time.Time {
	return dateutil.StartOfDay(a.nowFunc())
}

// parseDate accepts YYYY-MM-DD or "today".
func (a *app) parseDate(s string) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return a.today(), nil
	}
	return dateutil.ParseDate(s, nil)
}

// parseAmount accepts plain or comma-grouped amounts ("1,50,000").
func parseAmount(s string) (decimal.Decimal, error) {
	m, err := pkgdecimal.NewMoneyFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !m.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", s)
	}
	return m.Decimal, nil
}
