package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	GetAllFn     func() ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// Create stores a transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	m.Transactions = append(m.Transactions, transaction)
	return transaction, nil
}

// CreateBatch stores several transactions
func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	for _, t := range transactions {
		if _, err := m.Create(t); err != nil {
			return 0, err
		}
	}
	return len(transactions), nil
}

// GetAll returns every transaction in insertion order
func (m *MockTransactionRepository) GetAll() ([]*domain.Transaction, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Transaction, len(m.Transactions))
	copy(out, m.Transactions)
	return out, nil
}

// GetRecent returns up to limit transactions, newest first
func (m *MockTransactionRepository) GetRecent(limit int) ([]*domain.Transaction, error) {
	all, err := m.GetAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetAllByDateAsc returns every transaction, oldest first
func (m *MockTransactionRepository) GetAllByDateAsc() ([]*domain.Transaction, error) {
	all, err := m.GetAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

// ClearSubscriptionFlag clears the flag on transactions matching merchant and stored amount
func (m *MockTransactionRepository) ClearSubscriptionFlag(merchant string, amount decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for _, t := range m.Transactions {
		if t.Merchant != nil && *t.Merchant == merchant && t.Amount.Equal(amount) {
			t.IsSubscription = false
			updated++
		}
	}
	return updated, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, transaction)
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	mu       sync.Mutex
	Goals    []*domain.Goal
	GetAllFn func() ([]*domain.Goal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{}
}

// Create stores a goal
func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	m.Goals = append(m.Goals, goal)
	return goal, nil
}

// GetAll returns every goal, newest first
func (m *MockGoalRepository) GetAll() ([]*domain.Goal, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Goal, len(m.Goals))
	copy(out, m.Goals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Goals = append(m.Goals, goal)
}

// MockInsightGenerator is a mock implementation of domain.InsightGenerator
type MockInsightGenerator struct {
	Insights    *domain.Insights
	Err         error
	Calls       int
	LastSummary *domain.InsightSummary
}

// GenerateInsights returns the configured insights or error
func (m *MockInsightGenerator) GenerateInsights(ctx context.Context, summary *domain.InsightSummary) (*domain.Insights, error) {
	m.Calls++
	m.LastSummary = summary
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Insights, nil
}

// MockCategorizer is a mock implementation of domain.Categorizer
type MockCategorizer struct {
	Categories map[string]string // lowercased description -> category
	Err        error
	Calls      int
	LastItems  []domain.UncategorizedItem
}

// Categorize assigns categories by description lookup
func (m *MockCategorizer) Categorize(ctx context.Context, items []domain.UncategorizedItem) ([]domain.CategoryAssignment, error) {
	m.Calls++
	m.LastItems = items
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.CategoryAssignment
	for _, item := range items {
		if cat, ok := m.Categories[strings.ToLower(item.Description)]; ok {
			out = append(out, domain.CategoryAssignment{Index: item.Index, Category: cat})
		}
	}
	return out, nil
}
