package service

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/coach-backend/internal/analytics"
	"github.com/dafibh/fortuna/coach-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	goalRepo        domain.GoalRepository
	insightService  *InsightService
	now             func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	transactionRepo domain.TransactionRepository,
	goalRepo domain.GoalRepository,
	insightService *InsightService,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		goalRepo:        goalRepo,
		insightService:  insightService,
		now:             time.Now,
	}
}

// snapshot is the immutable input of a single dashboard computation
type snapshot struct {
	transactions []*domain.Transaction
	goals        []*domain.Goal
}

// loadSnapshot fetches transactions and goals concurrently. The repositories
// take no context, so the group carries none.
func (s *DashboardService) loadSnapshot() (*snapshot, error) {
	snap := &snapshot{}
	var g errgroup.Group

	g.Go(func() error {
		transactions, err := s.transactionRepo.GetAll()
		if err != nil {
			return err
		}
		snap.transactions = transactions
		return nil
	})
	g.Go(func() error {
		goals, err := s.goalRepo.GetAll()
		if err != nil {
			return err
		}
		snap.goals = goals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// GetSummary returns the dashboard summary. Spending is measured against the
// month of the latest transaction; goals are forecast against today.
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	snap, err := s.loadSnapshot()
	if err != nil {
		return nil, err
	}

	today := s.now().UTC()
	enrichedGoals := analytics.ForecastGoals(snap.goals, snap.transactions, today)

	ref, ok := analytics.LatestDate(snap.transactions)
	if !ok {
		// No transactions: goals are still listed, spending stats stay empty
		// and the insight generator is not consulted.
		return &domain.DashboardSummary{
			TotalSpending:    decimal.Zero,
			ProjectedSavings: decimal.Zero,
			ActiveGoals:      len(enrichedGoals),
			Spending:         analytics.ComputeSpendingSummary(nil, today),
			Insights:         NoDataInsights(),
			InsightSource:    domain.InsightSourceNone,
			EnrichedGoals:    enrichedGoals,
		}, nil
	}

	spending := analytics.ComputeSpendingSummary(snap.transactions, ref)

	insightResult := s.insightService.Generate(ctx, BuildInsightSummary(spending, len(snap.transactions), enrichedGoals))

	return &domain.DashboardSummary{
		TotalSpending:    spending.CurrentMonthSpending,
		ProjectedSavings: analytics.AverageMonthlySavings(snap.transactions),
		ActiveGoals:      len(enrichedGoals),
		Spending:         spending,
		Insights:         insightResult.Insights,
		InsightSource:    insightResult.Source,
		EnrichedGoals:    enrichedGoals,
	}, nil
}
