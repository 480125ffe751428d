package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a goal and returns it with its creation timestamp
func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	query, args, err := r.sb.Insert("goals").
		Columns("id", "name", "target_amount", "deadline").
		Values(goal.ID, goal.Name, target, timeToPgDate(goal.Deadline)).
		Suffix("RETURNING id, name, target_amount, deadline, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanGoal(r.pool.QueryRow(ctx, query, args...))
}

// GetAll retrieves every goal, newest first
func (r *GoalRepository) GetAll() ([]*domain.Goal, error) {
	ctx := context.Background()

	query, args, err := r.sb.Select("id", "name", "target_amount", "deadline", "created_at").
		From("goals").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		g        domain.Goal
		target   pgtype.Numeric
		deadline pgtype.Date
	)
	if err := row.Scan(&g.ID, &g.Name, &target, &deadline, &g.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	g.TargetAmount = pgNumericToDecimal(target)
	g.Deadline = pgDateToTime(deadline)
	return &g, nil
}
