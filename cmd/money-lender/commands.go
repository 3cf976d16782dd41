package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chaitu5981/money-lender/internal/calculation"
	"github.com/chaitu5981/money-lender/internal/config"
	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/chaitu5981/money-lender/internal/ledger"
	"github.com/chaitu5981/money-lender/internal/logger"
	"github.com/chaitu5981/money-lender/internal/output"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func outputNames() []string { return output.AvailableFormatterNames() }

func newInitCmd(a *app) *cobra.Command {
	var example, force bool
	var lender, borrower, rate string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new ledger file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.settings.LedgerPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			var l *domain.Ledger
			if example {
				l = config.NewLedgerParser().CreateExampleLedger()
			} else {
				l = ledger.NewEmptyLedger()
			}
			if lender != "" {
				l.Parties.Lender = lender
			}
			if borrower != "" {
				l.Parties.Borrower = borrower
			}
			if rate != "" {
				r, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("invalid rate %q: %w", rate, err)
				}
				l.InterestRate = r
			}
			if err := config.NewLedgerParser().ValidateLedger(l); err != nil {
				return err
			}
			if err := ledger.NewFileStore(path).Save(cmd.Context(), l); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "seed the ledger with example transactions")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing ledger")
	cmd.Flags().StringVar(&lender, "lender", "", "lender name")
	cmd.Flags().StringVar(&borrower, "borrower", "", "borrower name")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate in percent")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "add <borrowal|repayment> <amount> [date]",
		Short: "Record a borrowal or repayment (date defaults to today)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseTransactionKind(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			date := a.today()
			if len(args) == 3 {
				if date, err = a.parseDate(args[2]); err != nil {
					return err
				}
			}
			tx, err := a.svc.AddTransaction(cmd.Context(), ledger.TransactionInput{Kind: kind, Amount: amount, Date: date, Note: note})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s %s on %s (%s)\n", tx.Kind, output.FormatCurrency(tx.Amount), dateutil.FormatDate(tx.Date), tx.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var kind, amount, date, note string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a recorded transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.svc.Ledger(cmd.Context())
			if err != nil {
				return err
			}
			i := l.FindTransaction(args[0])
			if i < 0 {
				return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, args[0])
			}
			cur := l.Transactions[i]
			in := ledger.TransactionInput{Kind: cur.Kind, Amount: cur.Amount, Date: cur.Date, Note: cur.Note}

			flags := cmd.Flags()
			if flags.Changed("kind") {
				if in.Kind, err = domain.ParseTransactionKind(kind); err != nil {
					return err
				}
			}
			if flags.Changed("amount") {
				if in.Amount, err = parseAmount(amount); err != nil {
					return err
				}
			}
			if flags.Changed("date") {
				if in.Date, err = a.parseDate(date); err != nil {
					return err
				}
			}
			if flags.Changed("note") {
				in.Note = note
			}

			tx, err := a.svc.EditTransaction(cmd.Context(), cur.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s: %s %s on %s\n", tx.ID, tx.Kind, output.FormatCurrency(tx.Amount), dateutil.FormatDate(tx.Date))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "borrowal or repayment")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&note, "note", "", "new note")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete transactions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := a.svc.DeleteTransaction(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %s\n", id)
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions in date order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.svc.Ledger(cmd.Context())
			if err != nil {
				return err
			}
			if len(l.Transactions) == 0 {
				fmt.Fprintln(a.out, "No transactions recorded.")
				return nil
			}
			fmt.Fprintf(a.out, "%-10s  %-9s  %14s  %-36s  %s\n", "Date", "Kind", "Amount", "ID", "Note")
			for _, tx := range calculation.SortTransactions(l.Transactions, a.settings.TieBreak) {
				fmt.Fprintf(a.out, "%-10s  %-9s  %14s  %-36s  %s\n",
					dateutil.FormatDate(tx.Date), tx.Kind, output.FormatCurrency(tx.Amount), tx.ID, tx.Note)
			}
			borrowed, repaid := l.Totals()
			fmt.Fprintf(a.out, "Borrowed %s, repaid %s\n", output.FormatCurrency(borrowed), output.FormatCurrency(repaid))
			return nil
		},
	}
}

func newRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate [percent]",
		Short: "Show or set the annual interest rate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				l, err := a.svc.Ledger(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Interest rate: %s per year\n", output.FormatPercentage(l.InterestRate))
				return nil
			}
			r, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(args[0]), "%"))
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[0], err)
			}
			if err := a.svc.SetRate(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Interest rate set to %s per year\n", output.FormatPercentage(r))
			return nil
		},
	}
}

func newAsOfCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "asof [date|today]",
		Short: "Show or pin the calculation end date",
		Long:  "Without arguments prints the calculation end date. \"today\" unpins it so calculations run up to the current day.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				l, err := a.svc.Ledger(cmd.Context())
				if err != nil {
					return err
				}
				if l.ValuationDate == nil {
					fmt.Fprintf(a.out, "Calculating as of today (%s)\n", dateutil.FormatDate(a.today()))
				} else {
					fmt.Fprintf(a.out, "Calculating as of %s\n", dateutil.FormatDate(*l.ValuationDate))
				}
				return nil
			}
			if strings.EqualFold(strings.TrimSpace(args[0]), "today") {
				if err := a.svc.SetValuationDate(cmd.Context(), nil); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Calculation end date follows today")
				return nil
			}
			d, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.SetValuationDate(cmd.Context(), &d); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Calculation end date set to %s\n", dateutil.FormatDate(d))
			return nil
		},
	}
}

func newPartiesCmd(a *app) *cobra.Command {
	var lender, borrower string
	cmd := &cobra.Command{
		Use:   "parties",
		Short: "Set the lender and borrower names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.svc.Ledger(cmd.Context())
			if err != nil {
				return err
			}
			p := l.Parties
			if cmd.Flags().Changed("lender") {
				p.Lender = lender
			}
			if cmd.Flags().Changed("borrower") {
				p.Borrower = borrower
			}
			if err := a.svc.SetParties(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Lender: %s, Borrower: %s\n", orNone(p.Lender), orNone(p.Borrower))
			return nil
		},
	}
	cmd.Flags().StringVar(&lender, "lender", "", "lender name")
	cmd.Flags().StringVar(&borrower, "borrower", "", "borrower name")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func newCalcCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Compute the amount due and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.GetFormatterByName(a.settings.Format)
			if f == nil {
				return output.UnsupportedFormatError(a.settings.Format)
			}
			report, err := a.svc.Calculate(cmd.Context())
			if err != nil {
				var rejected *domain.RejectedCalculationError
				if errors.As(err, &rejected) {
					log := logger.FromContext(cmd.Context())
					log.Error().Err(rejected.Reason).Str("transaction", rejected.TransactionID).Msg("calculation rejected")
				}
				return err
			}
			data, err := f.Format(report)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report [format...]",
		Short: "Write report files to the output directory (all formats by default)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := args
			if len(formats) == 0 {
				formats = []string{"all"}
			}
			report, err := a.svc.Calculate(cmd.Context())
			if err != nil {
				return err
			}
			for _, format := range formats {
				paths, err := output.GenerateReport(report, format, a.settings.OutputDir)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintf(a.out, "Wrote %s\n", p)
				}
			}
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from CSV (id,kind,amount,date[,note])",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			n, err := a.svc.ImportCSV(cmd.Context(), file, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d transaction(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "drop existing transactions first")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export transactions as CSV (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.svc.ExportCSV(cmd.Context(), a.out)
			}
			file, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := a.svc.ExportCSV(cmd.Context(), file); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported to %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all ledger data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear %s without --yes", a.settings.LedgerPath)
			}
			if err := a.svc.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Ledger cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
