package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// DividendBuilder ledgers dividend distribution charges: each payment
// transaction is matched to a declared payout row, split into a net
// payment leg and a withholding-tax leg, and a per-payment-date summary
// record books the gross distribution against the dividends category.
type DividendBuilder struct {
	converter *Converter
	resolver  AccountResolver
	dividends DividendRepository
}

// NewDividendBuilder creates a new DividendBuilder.
func NewDividendBuilder(converter *Converter, resolver AccountResolver, dividends DividendRepository) *DividendBuilder {
	return &DividendBuilder{
		converter: converter,
		resolver:  resolver,
		dividends: dividends,
	}
}

// Build produces draft records for a dividend charge. Matching and sign
// preconditions are fatal for the whole charge.
func (b *DividendBuilder) Build(ctx context.Context, bundle *ChargeBundle, tracker *BalanceTracker) (*BuildResult, error) {
	charge := bundle.Charge

	withholdingAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountWithholdingTax, b.converter.ReportingCurrency())
	if err != nil {
		return nil, err
	}

	dividendsAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountDividends, b.converter.ReportingCurrency())
	if err != nil {
		return nil, err
	}

	rows := bundle.Dividends
	if rows == nil {
		rows, err = b.dividends.ListByOwner(ctx, charge.OwnerID)
		if err != nil {
			return nil, err
		}
	}

	withholdingTxs, payments, fees := splitDividendTransactions(bundle.Transactions, withholdingAccount)

	result := &BuildResult{}

	// Per-date aggregation feeding the summary records.
	grossByDate := make(map[string]decimal.Decimal)
	businessByDay := make(map[string]string)
	dateByDay := make(map[string]time.Time)

	consumed := make(map[string]bool, len(rows))
	for _, tx := range payments {
		dividend := matchDividend(rows, consumed, charge.OwnerID, tx)
		if dividend == nil {
			return nil, fmt.Errorf("%w: transaction %s on %s", domain.ErrDividendNotMatched, tx.ID, tx.DebitDate.Format(time.DateOnly))
		}

		if !tx.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: transaction %s", domain.ErrPaymentAmountInvalid, tx.ID)
		}

		if !dividend.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: dividend %s", domain.ErrDividendAmountInvalid, dividend.ID)
		}

		gross, err := b.buildPayment(ctx, charge, tx, dividend, withholdingAccount, tracker, result)
		if err != nil {
			return nil, err
		}

		// Keyed per date and receiving business so same-day payouts to
		// different shareholders each get their own summary.
		day := tx.DebitDate.Format(time.DateOnly) + "|" + dividend.BusinessID
		grossByDate[day] = grossByDate[day].Add(gross)
		businessByDay[day] = dividend.BusinessID
		dateByDay[day] = tx.DebitDate
	}

	for _, tx := range withholdingTxs {
		if err := b.buildRemittance(ctx, charge, tx, withholdingAccount, result); err != nil {
			result.collect("withholding transaction %s: %v", tx.ID, err)
		}
	}

	for _, tx := range fees {
		if err := b.buildFee(ctx, charge, tx, result); err != nil {
			result.collect("fee transaction %s: %v", tx.ID, err)
		}
	}

	b.buildSummaries(charge, grossByDate, businessByDay, dateByDay, dividendsAccount, tracker, result)

	return result, nil
}

// splitDividendTransactions partitions a dividend charge's transactions
// into withholding-tax remittances, payment legs and fees. Remittances
// are movements booked straight to the withholding account.
func splitDividendTransactions(transactions []*domain.Transaction, withholdingAccount string) (withholding, payments, fees []*domain.Transaction) {
	for _, tx := range transactions {
		switch {
		case tx.IsFee:
			fees = append(fees, tx)
		case tx.BusinessID == withholdingAccount:
			withholding = append(withholding, tx)
		default:
			payments = append(payments, tx)
		}
	}
	return withholding, payments, fees
}

// matchDividend pairs a payment with its payout row. A row naming the
// transaction wins outright; otherwise the first unclaimed row for the
// owner on the debit day is taken. Each row pays out at most once, so
// same-day payouts to different shareholders keep their own rows.
func matchDividend(rows []*domain.Dividend, consumed map[string]bool, ownerID string, tx *domain.Transaction) *domain.Dividend {
	for _, row := range rows {
		if consumed[row.ID] {
			continue
		}
		if row.TransactionID != "" && row.TransactionID == tx.ID {
			consumed[row.ID] = true
			return row
		}
	}
	for _, row := range rows {
		if consumed[row.ID] || row.TransactionID != "" {
			continue
		}
		if row.OwnerID != ownerID {
			continue
		}
		if sameDay(row.Date, tx.DebitDate) {
			consumed[row.ID] = true
			return row
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// buildPayment books one payout: a withholding leg to the tax category
// and a net leg from the business to the bank. Foreign payouts route the
// value through the exchange account with two extra conversion records,
// tolerating currency-driven rounding; a local-currency mismatch between
// the net leg and the bank movement is always fatal.
func (b *DividendBuilder) buildPayment(ctx context.Context, charge *domain.Charge, tx *domain.Transaction, dividend *domain.Dividend, withholdingAccount string, tracker *BalanceTracker, result *BuildResult) (decimal.Decimal, error) {
	pct := decimal.RequireFromString(DefaultWithholdingTaxPercent)
	if dividend.WithholdingTaxPercentage != nil {
		pct = *dividend.WithholdingTaxPercentage
	}

	gross := dividend.Amount
	tax := gross.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
	net := gross.Sub(tax)

	// Withholding leg.
	withholdingRecord := &domain.LedgerRecord{
		ID:                         tx.ID + "|wht",
		OwnerID:                    charge.OwnerID,
		ChargeID:                   charge.ID,
		InvoiceDate:                dividend.Date,
		ValueDate:                  tx.DebitDate,
		Currency:                   b.converter.ReportingCurrency(),
		Description:                "dividend withholding tax",
		DebitAccountID1:            dividend.BusinessID,
		CreditAccountID1:           withholdingAccount,
		LocalCurrencyCreditAmount1: tax,
		LocalCurrencyDebitAmount1:  tax,
	}
	result.add(withholdingRecord)
	tracker.AddDebit(dividend.BusinessID, tax)

	if tx.Currency == b.converter.ReportingCurrency() {
		paid := tx.Amount.Abs()
		tolerance := decimal.RequireFromString(BalanceTolerance)
		if paid.Sub(net).Abs().GreaterThan(tolerance) {
			return decimal.Zero, fmt.Errorf("%w: transaction %s paid %s, expected net %s",
				domain.ErrDividendLocalImbalance, tx.ID, paid, net)
		}

		record := &domain.LedgerRecord{
			ID:                         tx.ID,
			OwnerID:                    charge.OwnerID,
			ChargeID:                   charge.ID,
			InvoiceDate:                tx.EventDate,
			ValueDate:                  tx.DebitDate,
			Currency:                   tx.Currency,
			Description:                tx.SourceDescription,
			Reference1:                 tx.SourceReference,
			DebitAccountID1:            dividend.BusinessID,
			CreditAccountID1:           tx.AccountID,
			LocalCurrencyCreditAmount1: paid,
			LocalCurrencyDebitAmount1:  paid,
		}
		result.add(record)
		tracker.AddDebit(dividend.BusinessID, paid)

		return gross, nil
	}

	return gross, b.buildForeignPayment(ctx, charge, tx, dividend, net, tracker, result)
}

// buildForeignPayment routes a foreign-currency payout through the main
// exchange account: one record converts the bank movement, a second
// credits the business in local currency. The rounding gap between the
// converted amount and the net leg stays on the routing account, which
// is allowed to remain unbalanced.
func (b *DividendBuilder) buildForeignPayment(ctx context.Context, charge *domain.Charge, tx *domain.Transaction, dividend *domain.Dividend, net decimal.Decimal, tracker *BalanceTracker, result *BuildResult) error {
	routingAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountExchangeRouting, b.converter.ReportingCurrency())
	if err != nil {
		return err
	}

	conv, err := b.converter.ToLocal(ctx, tx.Amount.Abs(), tx.Currency, tx.DebitDate)
	if err != nil {
		return err
	}

	bankRecord := &domain.LedgerRecord{
		ID:          tx.ID,
		OwnerID:     charge.OwnerID,
		ChargeID:    charge.ID,
		InvoiceDate: tx.EventDate,
		ValueDate:   tx.DebitDate,
		Currency:    tx.Currency,
		Description: tx.SourceDescription,
		Reference1:  tx.SourceReference,
	}
	applyConversion(bankRecord, conv)
	bankRecord.DebitAccountID1 = routingAccount
	bankRecord.CreditAccountID1 = tx.AccountID
	result.add(bankRecord)
	tracker.AddDebit(routingAccount, conv.Local)

	businessRecord := &domain.LedgerRecord{
		ID:                         tx.ID + "|conv",
		OwnerID:                    charge.OwnerID,
		ChargeID:                   charge.ID,
		InvoiceDate:                tx.EventDate,
		ValueDate:                  tx.DebitDate,
		Currency:                   b.converter.ReportingCurrency(),
		Description:                "dividend payment",
		DebitAccountID1:            dividend.BusinessID,
		CreditAccountID1:           routingAccount,
		LocalCurrencyCreditAmount1: net,
		LocalCurrencyDebitAmount1:  net,
	}
	result.add(businessRecord)
	tracker.AddCredit(routingAccount, net)
	tracker.AddDebit(dividend.BusinessID, net)

	// Foreign rounding cannot be eliminated here.
	tracker.AllowUnbalanced(routingAccount)

	return nil
}

// buildRemittance books a withholding-tax remittance to the authorities.
func (b *DividendBuilder) buildRemittance(ctx context.Context, charge *domain.Charge, tx *domain.Transaction, withholdingAccount string, result *BuildResult) error {
	conv, err := b.converter.ToLocal(ctx, tx.Amount.Abs(), tx.Currency, tx.DebitDate)
	if err != nil {
		return err
	}

	record := &domain.LedgerRecord{
		ID:          tx.ID,
		OwnerID:     charge.OwnerID,
		ChargeID:    charge.ID,
		InvoiceDate: tx.EventDate,
		ValueDate:   tx.DebitDate,
		Currency:    tx.Currency,
		Description: tx.SourceDescription,
		Reference1:  tx.SourceReference,
	}
	applyConversion(record, conv)
	record.DebitAccountID1 = withholdingAccount
	record.CreditAccountID1 = tx.AccountID

	result.add(record)

	return nil
}

func (b *DividendBuilder) buildFee(ctx context.Context, charge *domain.Charge, tx *domain.Transaction, result *BuildResult) error {
	feeAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountExchangeFees, tx.Currency)
	if err != nil {
		return err
	}

	conv, err := b.converter.ToLocal(ctx, tx.Amount.Abs(), tx.Currency, tx.DebitDate)
	if err != nil {
		return err
	}

	record := &domain.LedgerRecord{
		ID:          tx.ID,
		OwnerID:     charge.OwnerID,
		ChargeID:    charge.ID,
		InvoiceDate: tx.EventDate,
		ValueDate:   tx.DebitDate,
		Currency:    tx.Currency,
		Description: tx.SourceDescription,
		Reference1:  tx.SourceReference,
	}
	applyConversion(record, conv)
	record.DebitAccountID1 = feeAccount
	record.CreditAccountID1 = tx.AccountID

	result.add(record)

	return nil
}

// buildSummaries books one record per distinct payment date aggregating
// that date's gross distributions against the dividends category.
func (b *DividendBuilder) buildSummaries(charge *domain.Charge, grossByDate map[string]decimal.Decimal, businessByDay map[string]string, dateByDay map[string]time.Time, dividendsAccount string, tracker *BalanceTracker, result *BuildResult) {
	days := make([]string, 0, len(grossByDate))
	for day := range grossByDate {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		gross := grossByDate[day]

		record := &domain.LedgerRecord{
			ID:                         charge.ID + "|dividend|" + day,
			OwnerID:                    charge.OwnerID,
			ChargeID:                   charge.ID,
			InvoiceDate:                dateByDay[day],
			ValueDate:                  dateByDay[day],
			Currency:                   b.converter.ReportingCurrency(),
			Description:                "dividend distribution " + dateByDay[day].Format(time.DateOnly),
			DebitAccountID1:            dividendsAccount,
			CreditAccountID1:           businessByDay[day],
			LocalCurrencyCreditAmount1: gross,
			LocalCurrencyDebitAmount1:  gross,
		}
		result.add(record)
		tracker.AddCredit(businessByDay[day], gross)
	}
}
