package usecase

import (
	"context"
	"errors"

	"github.com/iho/ledgergen/internal/domain"
)

// Per-document validation errors, reported with the document's serial
// number by the caller.
var (
	errMissingDate         = errors.New("missing date")
	errMissingAmount       = errors.New("missing amount")
	errMissingCurrency     = errors.New("missing currency")
	errMissingCounterparty = errors.New("missing counterparty")
)

func validateDocument(doc *domain.Document) error {
	if doc.Date == nil {
		return errMissingDate
	}
	if doc.TotalAmount == nil {
		return errMissingAmount
	}
	if doc.Currency == "" {
		return errMissingCurrency
	}
	if doc.DebtorID == "" && doc.CreditorID == "" {
		return errMissingCounterparty
	}
	return domain.ValidateCurrency(doc.Currency)
}

// CommonBuilder ledgers expense/income charges: one record per linked
// transaction and one per linked document, so a charge can be ledgered
// from a document alone before its bank movement arrives.
type CommonBuilder struct {
	converter *Converter
	resolver  AccountResolver
}

// NewCommonBuilder creates a new CommonBuilder.
func NewCommonBuilder(converter *Converter, resolver AccountResolver) *CommonBuilder {
	return &CommonBuilder{
		converter: converter,
		resolver:  resolver,
	}
}

// Build produces draft records for a common charge. Failures scoped to
// one document or transaction are collected and the loop continues.
func (b *CommonBuilder) Build(ctx context.Context, bundle *ChargeBundle, tracker *BalanceTracker) (*BuildResult, error) {
	result := &BuildResult{}

	for _, doc := range bundle.Documents {
		if err := b.buildDocumentRecord(ctx, bundle.Charge, doc, tracker, result); err != nil {
			result.collect("document %s: %v", doc.SerialNumber, err)
		}
	}

	for _, tx := range bundle.Transactions {
		if err := b.buildTransactionRecord(ctx, bundle.Charge, tx, tracker, result); err != nil {
			result.collect("transaction %s: %v", tx.ID, err)
		}
	}

	return result, nil
}

// buildDocumentRecord books a document against the charge's tax
// category, splitting VAT into slot 2. The document's value date drives
// the rate lookup.
func (b *CommonBuilder) buildDocumentRecord(ctx context.Context, charge *domain.Charge, doc *domain.Document, tracker *BalanceTracker, result *BuildResult) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	counterparty, isCreditor := doc.Counterparty(charge.OwnerID)
	if counterparty == "" {
		return errMissingCounterparty
	}

	// inbound means the document behaves like a supplier invoice: value
	// flows in, the counterparty is credited. A credit invoice flips the
	// direction.
	inbound := isCreditor != doc.Type.IsCreditInvoice()

	total := doc.TotalAmount.Abs()
	conv, err := b.converter.ToLocal(ctx, total, doc.Currency, *doc.Date)
	if err != nil {
		return err
	}

	record := &domain.LedgerRecord{
		ID:                     doc.ID,
		OwnerID:                charge.OwnerID,
		ChargeID:               charge.ID,
		InvoiceDate:            *doc.Date,
		ValueDate:              *doc.Date,
		Currency:               doc.Currency,
		Description:            doc.SerialNumber,
		IsCreditorCounterparty: inbound,
	}
	applyConversion(record, conv)

	if inbound {
		record.CreditAccountID1 = counterparty
		record.DebitAccountID1 = charge.TaxCategoryID
	} else {
		record.DebitAccountID1 = counterparty
		record.CreditAccountID1 = charge.TaxCategoryID
	}

	if !doc.VATAmount.IsZero() {
		if err := b.splitVAT(ctx, doc, record, inbound); err != nil {
			return err
		}
	}

	if inbound {
		tracker.AddCredit(counterparty, conv.Local)
	} else {
		tracker.AddDebit(counterparty, conv.Local)
	}

	if record.IsForeign() {
		tracker.AllowUnbalanced(counterparty)
	}

	result.add(record)

	return nil
}

// splitVAT moves the document's VAT amount into slot 2, directed to the
// input- or output-VAT tax category by the parity rule: input VAT
// exactly when the creditor-counterparty flag differs from the
// credit-invoice flag.
func (b *CommonBuilder) splitVAT(ctx context.Context, doc *domain.Document, record *domain.LedgerRecord, inbound bool) error {
	vatAccountName := domain.TaxAccountOutputVAT
	if inbound {
		vatAccountName = domain.TaxAccountInputVAT
	}

	vatAccount, err := b.resolver.Resolve(ctx, vatAccountName, doc.Currency)
	if err != nil {
		return err
	}

	vat := doc.VATAmount.Abs()
	vatConv, err := b.converter.ToLocal(ctx, vat, doc.Currency, *doc.Date)
	if err != nil {
		return err
	}

	// VAT sits on the internal side: the debit side for a supplier
	// invoice, the credit side for an issued one.
	splitSlot2(record, vatAccount, vatConv.Local, vatConv.Foreign, !inbound)

	return nil
}

// buildTransactionRecord books a bank movement against the matched
// counterparty, or straight against the charge's tax category when no
// counterparty was matched.
func (b *CommonBuilder) buildTransactionRecord(ctx context.Context, charge *domain.Charge, tx *domain.Transaction, tracker *BalanceTracker, result *BuildResult) error {
	if err := domain.ValidateCurrency(tx.Currency); err != nil {
		return err
	}

	conv, err := b.converter.ToLocal(ctx, tx.Amount.Abs(), tx.Currency, tx.DebitDate)
	if err != nil {
		return err
	}

	counterparty := tx.BusinessID
	if counterparty == "" {
		counterparty = charge.TaxCategoryID
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

	if tx.IsDebit() {
		// Money left the bank account to pay the counterparty.
		record.DebitAccountID1 = counterparty
		record.CreditAccountID1 = tx.AccountID
	} else {
		record.CreditAccountID1 = counterparty
		record.DebitAccountID1 = tx.AccountID
		record.IsCreditorCounterparty = true
	}

	if tx.BusinessID != "" {
		if tx.IsDebit() {
			tracker.AddDebit(tx.BusinessID, conv.Local)
		} else {
			tracker.AddCredit(tx.BusinessID, conv.Local)
		}

		if record.IsForeign() {
			tracker.AllowUnbalanced(tx.BusinessID)
		}
	}

	result.add(record)

	return nil
}
