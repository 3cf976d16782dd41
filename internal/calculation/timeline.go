package calculation

import (
	"sort"
	"time"

	"github.com/chaitu5981/money-lender/internal/domain"
	"github.com/chaitu5981/money-lender/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// TieBreak orders a borrowal and a repayment that share a date.
type TieBreak int

const (
	// BorrowalFirst applies same-day borrowals before repayments, so a
	// repayment can draw on money lent that day. This is a lending policy,
	// not an arithmetic requirement.
	BorrowalFirst TieBreak = iota
	// RepaymentFirst applies same-day repayments before borrowals.
	RepaymentFirst
)

func (tb TieBreak) String() string {
	if tb == RepaymentFirst {
		return "repayment-first"
	}
	return "borrowal-first"
}

// rank gives the in-day position of a transaction kind under the policy.
func (tb TieBreak) rank(k domain.TransactionKind) int {
	first := domain.KindBorrowal
	if tb == RepaymentFirst {
		first = domain.KindRepayment
	}
	if k == first {
		return 0
	}
	return 1
}

// SortTransactions returns a chronologically sorted copy; ties on the same
// calendar day follow the tie-break policy, then input order.
func SortTransactions(txs []domain.Transaction, tb TieBreak) []domain.Transaction {
	out := append([]domain.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := dateutil.StartOfDay(out[i].Date), dateutil.StartOfDay(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return tb.rank(out[i].Kind) < tb.rank(out[j].Kind)
	})
	return out
}

// CombineSameDay nets every calendar day's transactions into one event:
// net = Σborrowals − Σrepayments; net <= 0 becomes a repayment of |net|.
// A day with a single transaction keeps its id. The result is sorted by date.
func CombineSameDay(txs []domain.Transaction) []domain.TransactionCell {
	type bucket struct {
		date time.Time
		net  decimal.Decimal
		ids  []string
		kind domain.TransactionKind
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, tx := range txs {
		day := dateutil.StartOfDay(tx.Date)
		key := dateutil.FormatDate(day)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{date: day, net: decimal.Zero}
			buckets[key] = b
			order = append(order, key)
		}
		b.net = b.net.Add(tx.SignedAmount())
		b.ids = append(b.ids, tx.ID)
		b.kind = tx.Kind
	}

	cells := make([]domain.TransactionCell, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		cell := domain.TransactionCell{
			Date:      b.date,
			SourceIDs: b.ids,
			Kind:      domain.KindBorrowal,
			Amount:    b.net,
		}
		if !b.net.IsPositive() {
			cell.Kind = domain.KindRepayment
			cell.Amount = b.net.Abs()
		}
		if len(b.ids) == 1 {
			cell.ID = b.ids[0]
			cell.Kind = b.kind
		} else {
			cell.ID = "combined-" + key + "-" + b.ids[0]
		}
		cells = append(cells, cell)
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Date.Before(cells[j].Date) })
	return cells
}

// cellsFromTransactions wraps already-sorted transactions one-to-one.
func cellsFromTransactions(txs []domain.Transaction) []domain.TransactionCell {
	cells := make([]domain.TransactionCell, 0, len(txs))
	for _, tx := range txs {
		cells = append(cells, domain.TransactionCell{
			ID:        tx.ID,
			SourceIDs: []string{tx.ID},
			Date:      dateutil.StartOfDay(tx.Date),
			Kind:      tx.Kind,
			Amount:    tx.Amount,
		})
	}
	return cells
}

// AnniversaryCheckpoints returns first + 1y, first + 2y, ... up to and
// including the valuation date.
func AnniversaryCheckpoints(first, valuation time.Time) []time.Time {
	var out []time.Time
	first = dateutil.StartOfDay(first)
	for n := 1; ; n++ {
		c := dateutil.AddCalendarYears(first, n)
		if dateutil.Before(valuation, c) {
			return out
		}
		out = append(out, c)
	}
}

type eventType int

const (
	eventCheckpoint eventType = iota
	eventTransaction
)

// timelineEvent is one entry of the merged checkpoint/transaction stream.
type timelineEvent struct {
	date  time.Time
	typ   eventType
	cell  int // index into the cell slice, transactions only
	kind  domain.TransactionKind
	order int
}

// mergeEvents interleaves checkpoints and transaction cells. On a shared date
// the checkpoint comes first, so a transaction on an anniversary lands in the
// new year; transactions then follow the tie-break policy.
func mergeEvents(cells []domain.TransactionCell, checkpoints []time.Time, tb TieBreak) []timelineEvent {
	events := make([]timelineEvent, 0, len(cells)+len(checkpoints))
	for _, c := range checkpoints {
		events = append(events, timelineEvent{date: c, typ: eventCheckpoint, order: len(events)})
	}
	for i, cell := range cells {
		events = append(events, timelineEvent{date: cell.Date, typ: eventTransaction, cell: i, kind: cell.Kind, order: len(events)})
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !dateutil.SameDay(a.date, b.date) {
			return a.date.Before(b.date)
		}
		if a.typ != b.typ {
			return a.typ == eventCheckpoint
		}
		if a.typ == eventTransaction {
			if ra, rb := tb.rank(a.kind), tb.rank(b.kind); ra != rb {
				return ra < rb
			}
		}
		return a.order < b.order
	})
	return events
}
