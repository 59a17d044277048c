package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// ConversionBuilder ledgers FX conversion charges: exactly two main
// transactions of opposite sign (the sold and bought legs), routed
// through an internal exchange account, plus a synthetic conversion-fee
// record covering the gap between the rate implied by the two legs and
// the officially published rates.
type ConversionBuilder struct {
	converter *Converter
	resolver  AccountResolver
}

// NewConversionBuilder creates a new ConversionBuilder.
func NewConversionBuilder(converter *Converter, resolver AccountResolver) *ConversionBuilder {
	return &ConversionBuilder{
		converter: converter,
		resolver:  resolver,
	}
}

// Build produces draft records for a conversion charge. A wrong leg
// count or same-sign legs is fatal; a missing rate for either main leg
// is fatal too, because the conversion cannot be expressed without both.
func (b *ConversionBuilder) Build(ctx context.Context, bundle *ChargeBundle, tracker *BalanceTracker) (*BuildResult, error) {
	base, quote, fees, err := splitConversionLegs(bundle.Transactions)
	if err != nil {
		return nil, err
	}

	routingAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountExchangeRouting, b.converter.ReportingCurrency())
	if err != nil {
		return nil, err
	}

	feeAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountExchangeFees, b.converter.ReportingCurrency())
	if err != nil {
		return nil, err
	}

	result := &BuildResult{}

	// Sold leg: the bank account gives up value to the routing account.
	baseConv, err := b.converter.ToLocal(ctx, base.Amount.Abs(), base.Currency, base.DebitDate)
	if err != nil {
		return nil, err
	}
	result.add(b.legRecord(bundle.Charge, base, baseConv, routingAccount, false))
	tracker.AddDebit(routingAccount, baseConv.Local)

	// Bought leg: the routing account funds the receiving bank account.
	quoteConv, err := b.converter.ToLocal(ctx, quote.Amount.Abs(), quote.Currency, quote.DebitDate)
	if err != nil {
		return nil, err
	}
	result.add(b.legRecord(bundle.Charge, quote, quoteConv, routingAccount, true))
	tracker.AddCredit(routingAccount, quoteConv.Local)

	// Supplemental fees: folded into the routing account when the fee is
	// expressible against one of the two legs, otherwise booked straight
	// to the fee category.
	for _, fee := range fees {
		if err := b.buildFeeTransaction(ctx, bundle.Charge, fee, base, quote, routingAccount, feeAccount, tracker, result); err != nil {
			result.collect("fee transaction %s: %v", fee.ID, err)
		}
	}

	// The routing residual is the conversion fee: the officially
	// published rates value the bought side differently from what the
	// implied cross rate of the two legs paid for it.
	b.buildFeeRecord(bundle.Charge, quote, routingAccount, feeAccount, tracker, result)

	return result, nil
}

func splitConversionLegs(transactions []*domain.Transaction) (base, quote *domain.Transaction, fees []*domain.Transaction, err error) {
	var mains []*domain.Transaction
	for _, tx := range transactions {
		if tx.IsFee {
			fees = append(fees, tx)
			continue
		}
		mains = append(mains, tx)
	}

	if len(mains) != 2 {
		return nil, nil, nil, domain.ErrConversionLegCount
	}

	if mains[0].Amount.Sign() == mains[1].Amount.Sign() {
		return nil, nil, nil, domain.ErrConversionLegSign
	}

	base, quote = mains[0], mains[1]
	if base.Amount.IsPositive() {
		base, quote = quote, base
	}

	return base, quote, fees, nil
}

func (b *ConversionBuilder) legRecord(charge *domain.Charge, tx *domain.Transaction, conv Conversion, routingAccount string, bought bool) *domain.LedgerRecord {
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

	if bought {
		record.DebitAccountID1 = tx.AccountID
		record.CreditAccountID1 = routingAccount
	} else {
		record.CreditAccountID1 = tx.AccountID
		record.DebitAccountID1 = routingAccount
	}

	return record
}

func (b *ConversionBuilder) buildFeeTransaction(ctx context.Context, charge *domain.Charge, fee, base, quote *domain.Transaction, routingAccount, feeAccount string, tracker *BalanceTracker, result *BuildResult) error {
	conv, err := b.converter.ToLocal(ctx, fee.Amount.Abs(), fee.Currency, fee.DebitDate)
	if err != nil {
		return err
	}

	// A fee in one of the converted currencies is part of the spread
	// between the legs; anything else is genuinely supplemental.
	target := feeAccount
	folded := fee.Currency == base.Currency || fee.Currency == quote.Currency
	if folded {
		target = routingAccount
	}

	record := &domain.LedgerRecord{
		ID:          fee.ID,
		OwnerID:     charge.OwnerID,
		ChargeID:    charge.ID,
		InvoiceDate: fee.EventDate,
		ValueDate:   fee.DebitDate,
		Currency:    fee.Currency,
		Description: fee.SourceDescription,
		Reference1:  fee.SourceReference,
	}
	applyConversion(record, conv)

	if fee.IsDebit() {
		record.DebitAccountID1 = target
		record.CreditAccountID1 = fee.AccountID
	} else {
		record.CreditAccountID1 = target
		record.DebitAccountID1 = fee.AccountID
	}

	if folded {
		if fee.IsDebit() {
			tracker.AddDebit(routingAccount, conv.Local)
		} else {
			tracker.AddCredit(routingAccount, conv.Local)
		}
	}

	result.add(record)

	return nil
}

// buildFeeRecord books the routing residual to the fee category so the
// routing account nets to zero. Nothing is booked when the official
// rates agree with the implied cross rate.
func (b *ConversionBuilder) buildFeeRecord(charge *domain.Charge, quote *domain.Transaction, routingAccount, feeAccount string, tracker *BalanceTracker, result *BuildResult) {
	residual := decimal.Zero
	if diff, ok := trackerTotal(tracker, routingAccount); ok {
		residual = diff
	}

	if residual.IsZero() {
		return
	}

	record := &domain.LedgerRecord{
		ID:          quote.ID + "|fee",
		OwnerID:     charge.OwnerID,
		ChargeID:    charge.ID,
		InvoiceDate: quote.EventDate,
		ValueDate:   quote.DebitDate,
		Currency:    b.converter.ReportingCurrency(),
		Description: "conversion fee",
	}

	amount := residual.Abs()
	record.LocalCurrencyCreditAmount1 = amount
	record.LocalCurrencyDebitAmount1 = amount

	if residual.IsPositive() {
		// The official rates value the bought side above what the legs
		// paid for it: the surplus is conversion gain.
		record.DebitAccountID1 = routingAccount
		record.CreditAccountID1 = feeAccount
		tracker.AddDebit(routingAccount, amount)
	} else {
		// The usual bank spread: the bought side is worth less than the
		// sold side at official rates, the gap is fee expense.
		record.DebitAccountID1 = feeAccount
		record.CreditAccountID1 = routingAccount
		tracker.AddCredit(routingAccount, amount)
	}

	result.add(record)
}

// trackerTotal reads one account's running total without producing a verdict.
func trackerTotal(t *BalanceTracker, account string) (decimal.Decimal, bool) {
	total, ok := t.totals[account]
	return total, ok
}
