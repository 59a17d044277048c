package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
)

// AccountResolver implements usecase.AccountResolver against the tax
// account mapping table. A mapping may be currency-specific or carry the
// wildcard currency '*'.
type AccountResolver struct {
	pool *pgxpool.Pool
}

// NewAccountResolver creates a new AccountResolver.
func NewAccountResolver(pool *pgxpool.Pool) *AccountResolver {
	return &AccountResolver{pool: pool}
}

const resolveTaxAccount = `
SELECT account_id
FROM tax_account_mappings
WHERE tax_account = $1 AND currency IN ($2, '*')
ORDER BY currency = '*'
LIMIT 1
`

// Resolve maps a tax account plus currency to a concrete account id,
// preferring a currency-specific mapping over the wildcard.
func (r *AccountResolver) Resolve(ctx context.Context, account domain.TaxAccount, currency string) (string, error) {
	var accountID string

	err := r.pool.QueryRow(ctx, resolveTaxAccount, string(account), currency).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("tax account %s (%s) has no mapping", account, currency)
		}

		return "", err
	}

	return accountID, nil
}
