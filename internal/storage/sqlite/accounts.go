package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tnerp/internal/models"
)

const accountColumns = `company, name, account_name, parent_account, account_number,
	is_group, root_type, account_type, account_currency, created_at`

// CreateAccount inserts a chart of accounts node. It returns
// storage.ErrDuplicate when the company already has an account of that name.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts ("+accountColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		account.Company, account.Name, account.AccountName, account.ParentAccount, account.AccountNumber,
		boolInt(account.IsGroup), account.RootType, account.AccountType, account.AccountCurrency, account.CreatedAt,
	)
	if err != nil {
		return insertErr("account", account.Name, err)
	}
	return nil
}

// GetAccount retrieves an account by its full name.
func (s *SQLiteStore) GetAccount(ctx context.Context, company, name string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE company = ? AND name = ?", company, name)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// FindAccountByLabel looks an account up by its label within a company.
func (s *SQLiteStore) FindAccountByLabel(ctx context.Context, company, accountName string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE company = ? AND account_name = ? ORDER BY name LIMIT 1",
		company, accountName)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", accountName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// AccountExists reports whether company has an account called name.
func (s *SQLiteStore) AccountExists(ctx context.Context, company, name string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT 1 FROM accounts WHERE company = ? AND name = ?", company, name)
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return ok, nil
}

// ListAccounts returns every account of company ordered by name.
func (s *SQLiteStore) ListAccounts(ctx context.Context, company string) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE company = ? ORDER BY name", company)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	a := &models.Account{}
	var isGroup int
	err := row.Scan(&a.Company, &a.Name, &a.AccountName, &a.ParentAccount, &a.AccountNumber,
		&isGroup, &a.RootType, &a.AccountType, &a.AccountCurrency, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.IsGroup = isGroup == 1
	return a, nil
}
