package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is the kind of commercial document linked to a charge.
type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "INVOICE"
	DocumentTypeReceipt        DocumentType = "RECEIPT"
	DocumentTypeInvoiceReceipt DocumentType = "INVOICE_RECEIPT"
	DocumentTypeCreditInvoice  DocumentType = "CREDIT_INVOICE"
	DocumentTypeProforma       DocumentType = "PROFORMA"
)

// IsCreditInvoice reports whether the document reverses a prior invoice.
func (t DocumentType) IsCreditInvoice() bool {
	return t == DocumentTypeCreditInvoice
}

// Document is an invoice/receipt linked to a charge. Fields that upstream
// scraping may leave unset are pointers; the builders treat a nil date,
// amount or empty counterparty/currency as a validation failure for that
// document.
type Document struct {
	Date *time.Time

	ID           string
	ChargeID     string
	DebtorID     string
	CreditorID   string
	Currency     string
	SerialNumber string

	TotalAmount *decimal.Decimal
	VATAmount   decimal.Decimal

	Type DocumentType
}

// Counterparty returns the external party on the document given the
// reporting entity, and whether that party is the creditor.
func (d *Document) Counterparty(ownerID string) (string, bool) {
	if d.CreditorID != "" && d.CreditorID != ownerID {
		return d.CreditorID, true
	}
	if d.DebtorID != "" && d.DebtorID != ownerID {
		return d.DebtorID, false
	}
	return "", false
}
