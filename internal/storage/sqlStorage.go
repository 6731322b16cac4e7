package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	appErrors "github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/contextutil"
	"github.com/fatali-fataliyev/budget_assistant/logging"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLStorage serves MySQL and SQLite with the same schema and queries.
type SQLStorage struct {
	db     *sql.DB
	driver string
}

func NewSQLStorage(db *sql.DB, driver string) *SQLStorage {
	return &SQLStorage{db: db, driver: driver}
}

func (s *SQLStorage) GetStorageType() string {
	return s.driver
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isMissingReference(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1452
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func internalError(message string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: message,
	}
}

const transactionColumns = "id, title, amount, category_id, is_income, txn_date, day_of_week, wallet, description, icon, color, created_at"

func (s *SQLStorage) CurrentTransactions(ctx context.Context) ([]budget.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := s.db.QueryContext(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY txn_date, created_at")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to query transactions in Storage.CurrentTransactions() | Error: %v", traceID, err)
		return nil, internalError("Failed to load transactions, try again later.")
	}
	return s.processTransactionRows(ctx, rows)
}

func (s *SQLStorage) processTransactionRows(ctx context.Context, rows *sql.Rows) ([]budget.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer rows.Close()

	var transactions []budget.Transaction
	for rows.Next() {
		var t dbTransaction
		err := rows.Scan(&t.ID, &t.Title, &t.Amount, &t.CategoryID, &t.IsIncome, &t.Date, &t.DayOfWeek, &t.Wallet, &t.Description, &t.Icon, &t.Color, &t.CreatedAt)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.processTransactionRows() | Error : %v", traceID, err)
			return nil, internalError("Failed to process transactions, try again later.")
		}
		transactions = append(transactions, t.toModel())
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.processTransactionRows() | Error : %v", traceID, err)
		return nil, internalError("Failed to process transactions, try again later.")
	}
	return transactions, nil
}

// AddTransaction inserts t and, for expenses, charges every active budget of
// its category covering its date, in one database transaction.
func (s *SQLStorage) AddTransaction(ctx context.Context, t budget.Transaction) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to begin transaction in Storage.AddTransaction() | Error: %v", traceID, err)
		return internalError("Failed to save transaction, try again later.")
	}
	defer txn.Rollback()

	query := "INSERT INTO transactions (" + transactionColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = txn.ExecContext(ctx, query, t.ID, t.Title, decimal.NewFromFloat(t.Amount), t.CategoryID, t.IsIncome, t.Date, t.DayOfWeek, t.Wallet, t.Description, t.Icon, t.Color, t.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The transaction already exists.",
			}
		}
		if isMissingReference(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "The category does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save transaction in Storage.AddTransaction() | Error: %v", traceID, err)
		return internalError("Failed to save transaction, try again later.")
	}

	if !t.IsIncome {
		if err := s.chargeBudgets(ctx, txn, t); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to update budgets in Storage.AddTransaction() | Error: %v", traceID, err)
			return internalError("Failed to save transaction, try again later.")
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit in Storage.AddTransaction() | Error: %v", traceID, err)
		return internalError("Failed to save transaction, try again later.")
	}
	return nil
}

func (s *SQLStorage) chargeBudgets(ctx context.Context, txn *sql.Tx, t budget.Transaction) error {
	rows, err := txn.QueryContext(ctx, "SELECT "+budgetColumns+" FROM budget WHERE category_id = ? AND is_active = ?", t.CategoryID, true)
	if err != nil {
		return err
	}
	budgets, err := scanBudgets(rows)
	if err != nil {
		return err
	}

	for _, b := range budgets {
		if !charges(b, t) {
			continue
		}
		b = addSpent(b, t.Amount)
		if _, err := txn.ExecContext(ctx, "UPDATE budget SET spent_amount = ? WHERE id = ?", decimal.NewFromFloat(b.SpentAmount), b.ID); err != nil {
			return err
		}
	}
	return nil
}

const budgetColumns = "id, category_id, amount, period_type, start_date, end_date, spent_amount, is_active, note, created_at"

func scanBudgets(rows *sql.Rows) ([]budget.Budget, error) {
	defer rows.Close()

	var budgets []budget.Budget
	for rows.Next() {
		var b dbBudget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Amount, &b.PeriodType, &b.StartDate, &b.EndDate, &b.SpentAmount, &b.IsActive, &b.Note, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b.toModel())
	}
	return budgets, rows.Err()
}

func (s *SQLStorage) CurrentBudgets(ctx context.Context) ([]budget.Budget, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := s.db.QueryContext(ctx, "SELECT "+budgetColumns+" FROM budget ORDER BY created_at")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to query budgets in Storage.CurrentBudgets() | Error: %v", traceID, err)
		return nil, internalError("Failed to load budgets, try again later.")
	}
	budgets, err := scanBudgets(rows)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to scan budgets in Storage.CurrentBudgets() | Error: %v", traceID, err)
		return nil, internalError("Failed to load budgets, try again later.")
	}
	return budgets, nil
}

func (s *SQLStorage) AddBudget(ctx context.Context, b budget.Budget) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO budget (" + budgetColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query, b.ID, b.CategoryID, decimal.NewFromFloat(b.Amount), string(b.PeriodType), b.StartDate, b.EndDate, decimal.NewFromFloat(b.SpentAmount), b.IsActive, b.Note, b.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The budget already exists.",
			}
		}
		if isMissingReference(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "The category does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save budget in Storage.AddBudget() | Error: %v", traceID, err)
		return internalError("Failed to save the budget, try again later.")
	}
	return nil
}

func (s *SQLStorage) UpdateBudget(ctx context.Context, b budget.Budget) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE budget SET category_id = ?, amount = ?, period_type = ?, start_date = ?, end_date = ?, spent_amount = ?, is_active = ?, note = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, b.CategoryID, decimal.NewFromFloat(b.Amount), string(b.PeriodType), b.StartDate, b.EndDate, decimal.NewFromFloat(b.SpentAmount), b.IsActive, b.Note, b.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update budget in Storage.UpdateBudget() | Error: %v", traceID, err)
		return internalError("Failed to update the budget, try again later.")
	}
	return s.expectOne(ctx, res, "Storage.UpdateBudget()")
}

func (s *SQLStorage) DeleteBudget(ctx context.Context, budgetID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := s.db.ExecContext(ctx, "DELETE FROM budget WHERE id = ?", budgetID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete budget in Storage.DeleteBudget() | Error: %v", traceID, err)
		return internalError("Failed to delete the budget, try again later.")
	}
	return s.expectOne(ctx, res, "Storage.DeleteBudget()")
}

// expectOne turns zero affected rows into NOT FOUND. MySQL connections set
// ClientFoundRows so unchanged updates still count.
func (s *SQLStorage) expectOne(ctx context.Context, res sql.Result, where string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in %s | Error: %v", traceID, where, err)
		return internalError("Failed to save the budget, try again later.")
	}
	if rowsAffected > 0 {
		return nil
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Budget not found.",
	}
}

func (s *SQLStorage) AddCategory(ctx context.Context, c budget.Category) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO category (id, name, type, icon, color) VALUES (?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, string(c.Type), c.Icon, c.Color)
	if err != nil {
		if isDuplicate(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save category in Storage.AddCategory() | Error: %v", traceID, err)
		return internalError("Failed to save the category, try again later.")
	}
	return nil
}

func (s *SQLStorage) EnsureCategories(ctx context.Context, defaults []budget.Category) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM category").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, c := range defaults {
		if err := s.AddCategory(ctx, c); err != nil && !appErrors.Is(err, appErrors.ErrConflict) {
			return err
		}
	}
	logging.Logger.Infof("seeded %d default categories", len(defaults))
	return nil
}

func (s *SQLStorage) CategoryByID(ctx context.Context, id string) (budget.Category, bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var c budget.Category
	var cType string
	err := s.db.QueryRowContext(ctx, "SELECT id, name, type, icon, color FROM category WHERE id = ?", id).Scan(&c.ID, &c.Name, &cType, &c.Icon, &c.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return budget.Category{}, false, nil
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get category in Storage.CategoryByID() | Error: %v", traceID, err)
		return budget.Category{}, false, internalError("Failed to check category existance")
	}
	c.Type = budget.CategoryType(cType)
	return c, true, nil
}

// CategoryByName compares case-insensitively in Go; SQLite's LOWER only
// folds ASCII.
func (s *SQLStorage) CategoryByName(ctx context.Context, name string) (budget.Category, bool, error) {
	all, err := s.Categories(ctx, "")
	if err != nil {
		return budget.Category{}, false, err
	}
	name = strings.TrimSpace(name)
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return budget.Category{}, false, nil
}

func (s *SQLStorage) Categories(ctx context.Context, t budget.CategoryType) ([]budget.Category, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, type, icon, color FROM category"
	var args []any
	if t != "" {
		query += " WHERE type = ?"
		args = append(args, string(t))
	}
	query += " ORDER BY type, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to query categories in Storage.Categories() | Error: %v", traceID, err)
		return nil, internalError("Failed to load categories, try again later.")
	}
	defer rows.Close()

	var categories []budget.Category
	for rows.Next() {
		var c budget.Category
		var cType string
		if err := rows.Scan(&c.ID, &c.Name, &cType, &c.Icon, &c.Color); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan category in Storage.Categories() | Error: %v", traceID, err)
			return nil, internalError("Failed to load categories, try again later.")
		}
		c.Type = budget.CategoryType(cType)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate categories in Storage.Categories() | Error: %v", traceID, err)
		return nil, internalError("Failed to load categories, try again later.")
	}
	return categories, nil
}
