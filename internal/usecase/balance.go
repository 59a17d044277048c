package usecase

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BalanceTracker accumulates, per counter-account, the net signed
// local-currency amount contributed by the records of one generation
// run. It is created fresh per charge, mutated while records are built,
// read once for the verdict and then discarded. Accumulation is
// commutative, so builders may feed it in any order.
type BalanceTracker struct {
	totals  map[string]decimal.Decimal
	allowed map[string]bool
}

// NewBalanceTracker creates an empty tracker.
func NewBalanceTracker() *BalanceTracker {
	return &BalanceTracker{
		totals:  make(map[string]decimal.Decimal),
		allowed: make(map[string]bool),
	}
}

// AddCredit adds a credited local amount to an account's running total.
func (t *BalanceTracker) AddCredit(account string, amount decimal.Decimal) {
	if account == "" {
		return
	}
	t.totals[account] = t.totals[account].Add(amount)
}

// AddDebit subtracts a debited local amount from an account's running total.
func (t *BalanceTracker) AddDebit(account string, amount decimal.Decimal) {
	if account == "" {
		return
	}
	t.totals[account] = t.totals[account].Sub(amount)
}

// AllowUnbalanced marks an account whose residual is tolerated, used for
// foreign-currency legs whose rounding cannot be eliminated.
func (t *BalanceTracker) AllowUnbalanced(account string) {
	if account == "" {
		return
	}
	t.allowed[account] = true
}

// BalanceVerdict reports whether a charge's records balance per account.
type BalanceVerdict struct {
	// Diffs holds the residual of every tracked account, allowed ones
	// included.
	Diffs map[string]decimal.Decimal
	// Unbalanced lists non-allowed accounts with a residual beyond
	// tolerance, sorted for stable output.
	Unbalanced []string
	IsBalanced bool
}

// Verdict reads the accumulated totals and produces the balance verdict.
func (t *BalanceTracker) Verdict() BalanceVerdict {
	tolerance := decimal.RequireFromString(BalanceTolerance)

	verdict := BalanceVerdict{
		Diffs:      make(map[string]decimal.Decimal, len(t.totals)),
		IsBalanced: true,
	}

	for account, total := range t.totals {
		verdict.Diffs[account] = total

		if total.Abs().LessThanOrEqual(tolerance) {
			continue
		}

		if t.allowed[account] {
			continue
		}

		verdict.Unbalanced = append(verdict.Unbalanced, account)
		verdict.IsBalanced = false
	}

	sort.Strings(verdict.Unbalanced)

	return verdict
}
