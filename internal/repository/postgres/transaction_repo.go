package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	transactionInsertColumns = []string{"id", "date", "description", "merchant", "amount", "category", "is_subscription"}
	transactionColumns       = append(append([]string{}, transactionInsertColumns...), "created_at")
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func transactionValues(t *domain.Transaction) ([]interface{}, error) {
	amount, err := decimalToPgNumeric(t.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return []interface{}{
		t.ID,
		timeToPgDate(t.Date),
		t.Description,
		stringPtrToPgText(t.Merchant),
		amount,
		t.CategoryName(),
		t.IsSubscription,
	}, nil
}

// Create inserts a transaction and returns it with its creation timestamp
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	values, err := transactionValues(transaction)
	if err != nil {
		return nil, err
	}

	query, args, err := r.sb.Insert("transactions").
		Columns(transactionInsertColumns...).
		Values(values...).
		Suffix("RETURNING " + strings.Join(transactionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanTransaction(r.pool.QueryRow(ctx, query, args...))
}

// maxBindParameters is the PostgreSQL extended protocol limit per statement
const maxBindParameters = 65535

// transactionBatchSize is the largest row count one INSERT can carry
var transactionBatchSize = maxBindParameters / len(transactionInsertColumns)

// chunkTransactions splits transactions into consecutive slices of at most size rows
func chunkTransactions(transactions []*domain.Transaction, size int) [][]*domain.Transaction {
	if size <= 0 || len(transactions) == 0 {
		return nil
	}
	chunks := make([][]*domain.Transaction, 0, (len(transactions)+size-1)/size)
	for start := 0; start < len(transactions); start += size {
		end := min(start+size, len(transactions))
		chunks = append(chunks, transactions[start:end])
	}
	return chunks
}

// CreateBatch inserts all transactions atomically, one multi-row INSERT per
// chunk so no statement exceeds the bind parameter limit
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, chunk := range chunkTransactions(transactions, transactionBatchSize) {
		query, args, err := r.batchInsertQuery(chunk)
		if err != nil {
			return 0, err
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert transaction batch: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit batch insert: %w", err)
	}
	return inserted, nil
}

func (r *TransactionRepository) batchInsertQuery(transactions []*domain.Transaction) (string, []interface{}, error) {
	builder := r.sb.Insert("transactions").Columns(transactionInsertColumns...)
	for _, t := range transactions {
		values, err := transactionValues(t)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Values(values...)
	}
	return builder.ToSql()
}

// GetAll retrieves every transaction in insertion order
func (r *TransactionRepository) GetAll() ([]*domain.Transaction, error) {
	return r.list(r.sb.Select(transactionColumns...).From("transactions").OrderBy("created_at ASC", "id ASC"))
}

// GetRecent retrieves up to limit transactions, newest first
func (r *TransactionRepository) GetRecent(limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = domain.MaxRecentTransactions
	}
	return r.list(r.sb.Select(transactionColumns...).
		From("transactions").
		OrderBy("date DESC", "created_at DESC").
		Limit(uint64(limit)))
}

// GetAllByDateAsc retrieves every transaction, oldest first
func (r *TransactionRepository) GetAllByDateAsc() ([]*domain.Transaction, error) {
	return r.list(r.sb.Select(transactionColumns...).From("transactions").OrderBy("date ASC", "created_at ASC"))
}

// ClearSubscriptionFlag unsets is_subscription on rows matching merchant and stored amount
func (r *TransactionRepository) ClearSubscriptionFlag(merchant string, amount decimal.Decimal) (int64, error) {
	ctx := context.Background()

	num, err := decimalToPgNumeric(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}

	query, args, err := r.sb.Update("transactions").
		Set("is_subscription", false).
		Where(squirrel.Eq{"merchant": merchant, "amount": num}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *TransactionRepository) list(builder squirrel.SelectBuilder) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t        domain.Transaction
		date     pgtype.Date
		merchant pgtype.Text
		amount   pgtype.Numeric
	)
	if err := row.Scan(&t.ID, &date, &t.Description, &merchant, &amount, &t.Category, &t.IsSubscription, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.Date = pgDateToTime(date)
	t.Merchant = pgTextToStringPtr(merchant)
	t.Amount = pgNumericToDecimal(amount)
	return &t, nil
}
