package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chaitu5981/money-lender/internal/calculation"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadSettings.
const (
	EnvLedger         = "MONEY_LENDER_LEDGER"
	EnvFormat         = "MONEY_LENDER_FORMAT"
	EnvLogLevel       = "MONEY_LENDER_LOG_LEVEL"
	EnvOutputDir      = "MONEY_LENDER_OUTPUT_DIR"
	EnvTieBreak       = "MONEY_LENDER_TIE_BREAK"
	EnvCombineSameDay = "MONEY_LENDER_COMBINE_SAME_DAY"
)

// Settings are the process-level defaults; CLI flags override them.
type Settings struct {
	LedgerPath     string
	Format         string
	LogLevel       string
	OutputDir      string
	TieBreak       calculation.TieBreak
	CombineSameDay bool
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		LedgerPath:     "ledger.yaml",
		Format:         "console",
		LogLevel:       "warn",
		OutputDir:      ".",
		TieBreak:       calculation.BorrowalFirst,
		CombineSameDay: true,
	}
}

// LoadSettings loads the given .env files (".env" when none are named),
// skipping files that do not exist, then reads the environment. Variables
// already set in the process environment win over .env values.
func LoadSettings(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Settings{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := DefaultSettings()
	if v := strings.TrimSpace(os.Getenv(EnvLedger)); v != "" {
		s.LedgerPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		s.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		s.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		s.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTieBreak)); v != "" {
		tb, err := ParseTieBreak(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvTieBreak, err)
		}
		s.TieBreak = tb
	}
	if v := strings.TrimSpace(os.Getenv(EnvCombineSameDay)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvCombineSameDay, err)
		}
		s.CombineSameDay = b
	}
	return s, nil
}

// ParseTieBreak accepts "borrowal-first" or "repayment-first".
func ParseTieBreak(s string) (calculation.TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "borrowal-first", "borrowal", "borrowals-first":
		return calculation.BorrowalFirst, nil
	case "repayment-first", "repayment", "repayments-first":
		return calculation.RepaymentFirst, nil
	default:
		return calculation.BorrowalFirst, fmt.Errorf("unknown tie-break policy %q (want borrowal-first or repayment-first)", s)
	}
}

// EngineOptions converts the settings into accrual engine options.
func (s Settings) EngineOptions() calculation.Options {
	return calculation.Options{CombineSameDay: s.CombineSameDay, TieBreak: s.TieBreak}
}
