// Package portfolio rolls up an owner's properties into portfolio-wide
// totals. Nothing here is persisted.
package portfolio

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentfolio/internal/calendar"
	"rentfolio/internal/models"
	"rentfolio/internal/money"
	"rentfolio/internal/store"
)

// Store is the persistence the Aggregator needs.
type Store interface {
	PropertiesWithLeases(ctx context.Context, ownerID uint) ([]models.Property, error)
	Expenses(ctx context.Context, f store.ExpenseFilter) ([]models.Expense, error)
}

type Financials struct {
	TotalPurchasePrice decimal.Decimal `json:"totalPurchasePrice"`
	TotalCurrentValue  decimal.Decimal `json:"totalCurrentValue"`
	TotalLoanAmount    decimal.Decimal `json:"totalLoanAmount"`
	TotalEquity        decimal.Decimal `json:"totalEquity"`
	TotalMonthlyRent   decimal.Decimal `json:"totalMonthlyRent"`
	TotalAnnualRent    decimal.Decimal `json:"totalAnnualRent"`
	TotalAnnualExpense decimal.Decimal `json:"totalAnnualExpense"`
	TotalNetIncome     decimal.Decimal `json:"totalNetIncome"`
}

type AverageYields struct {
	AvgGrossYield decimal.Decimal `json:"avgGrossYield"`
	AvgNetYield   decimal.Decimal `json:"avgNetYield"`
	AvgCashOnCash decimal.Decimal `json:"avgCashOnCash"`
}

// PropertyLine summarises one property. MonthlyRent counts ACTIVE leases
// only while LeaseCount counts every lease.
type PropertyLine struct {
	ID            uint                  `json:"id"`
	Name          string                `json:"name"`
	Status        models.PropertyStatus `json:"status"`
	PurchasePrice decimal.Decimal       `json:"purchasePrice"`
	CurrentValue  decimal.Decimal       `json:"currentValue"`
	MonthlyRent   decimal.Decimal       `json:"monthlyRent"`
	LeaseCount    int                   `json:"leaseCount"`
}

type Summary struct {
	TotalProperties int            `json:"totalProperties"`
	OccupiedCount   int            `json:"occupiedCount"`
	VacantCount     int            `json:"vacantCount"`
	Financials      Financials     `json:"financials"`
	Yields          AverageYields  `json:"yields"`
	Properties      []PropertyLine `json:"properties"`
}

// Aggregator computes portfolio rollups on demand.
type Aggregator struct {
	store Store
	log   *zap.Logger
	loc   *time.Location
}

// NewAggregator builds an Aggregator. Expense months are bucketed in loc
// (UTC when nil).
func NewAggregator(store Store, log *zap.Logger, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{store: store, log: log, loc: loc}
}

// Summary totals the owner's portfolio. Expenses are those dated in now's
// calendar year. Average cash-on-cash is measured against equity (purchase
// price less loans), not against deposit-adjusted investment.
func (a *Aggregator) Summary(ctx context.Context, ownerID uint, now time.Time) (*Summary, error) {
	properties, err := a.store.PropertiesWithLeases(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	from, to := calendar.YearWindow(now)
	expenses, err := a.store.Expenses(ctx, store.ExpenseFilter{OwnerID: ownerID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	s := &Summary{
		TotalProperties: len(properties),
		Properties:      make([]PropertyLine, 0, len(properties)),
	}
	fin := &s.Financials
	for _, p := range properties {
		rent := activeMonthlyRent(p.Leases)

		fin.TotalPurchasePrice = fin.TotalPurchasePrice.Add(p.PurchasePrice)
		fin.TotalCurrentValue = fin.TotalCurrentValue.Add(p.MarketValue())
		fin.TotalLoanAmount = fin.TotalLoanAmount.Add(p.LoanAmount)
		fin.TotalMonthlyRent = fin.TotalMonthlyRent.Add(rent)

		switch p.Status {
		case models.PropertyStatusOccupied:
			s.OccupiedCount++
		case models.PropertyStatusVacant:
			s.VacantCount++
		}

		s.Properties = append(s.Properties, PropertyLine{
			ID:            p.ID,
			Name:          p.Name,
			Status:        p.Status,
			PurchasePrice: p.PurchasePrice,
			CurrentValue:  p.MarketValue(),
			MonthlyRent:   rent,
			LeaseCount:    len(p.Leases),
		})
	}

	for _, e := range expenses {
		fin.TotalAnnualExpense = fin.TotalAnnualExpense.Add(e.Amount)
	}
	fin.TotalAnnualRent = fin.TotalMonthlyRent.Mul(decimal.NewFromInt(12))
	fin.TotalNetIncome = fin.TotalAnnualRent.Sub(fin.TotalAnnualExpense)
	fin.TotalEquity = fin.TotalPurchasePrice.Sub(fin.TotalLoanAmount)

	s.Yields = AverageYields{
		AvgGrossYield: money.Percent(fin.TotalAnnualRent, fin.TotalPurchasePrice),
		AvgNetYield:   money.Percent(fin.TotalNetIncome, fin.TotalPurchasePrice),
		AvgCashOnCash: money.Percent(fin.TotalNetIncome, fin.TotalEquity),
	}

	a.log.Debug("portfolio summary",
		zap.Uint("owner_id", ownerID),
		zap.Int("properties", s.TotalProperties),
		zap.String("monthly_rent", fin.TotalMonthlyRent.String()),
	)
	return s, nil
}

func activeMonthlyRent(leases []models.Lease) decimal.Decimal {
	total := decimal.Zero
	for _, l := range leases {
		if l.Status == models.LeaseStatusActive {
			total = total.Add(l.MonthlyRent)
		}
	}
	return total
}

type TypeTotal struct {
	Type   models.ExpenseType `json:"type"`
	Amount decimal.Decimal    `json:"amount"`
	Count  int                `json:"count"`
}

type MonthTotal struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// ExpenseBreakdown is one year of expenses split by type and by month.
type ExpenseBreakdown struct {
	Year    int             `json:"year"`
	Total   decimal.Decimal `json:"total"`
	ByType  []TypeTotal     `json:"byType"`
	ByMonth []MonthTotal    `json:"byMonth"`
}

// ExpenseBreakdown groups the owner's expenses for year, optionally for a
// single property. Types without expenses are omitted; all twelve months are
// always present.
func (a *Aggregator) ExpenseBreakdown(ctx context.Context, ownerID uint, year int, propertyID *uint) (*ExpenseBreakdown, error) {
	from, to := calendar.Year(year, a.loc)
	expenses, err := a.store.Expenses(ctx, store.ExpenseFilter{
		OwnerID:    ownerID,
		PropertyID: propertyID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, err
	}

	b := &ExpenseBreakdown{
		Year:    year,
		ByType:  []TypeTotal{},
		ByMonth: make([]MonthTotal, 12),
	}
	for i := range b.ByMonth {
		b.ByMonth[i].Month = i + 1
	}

	byType := make(map[models.ExpenseType]*TypeTotal)
	for _, e := range expenses {
		b.Total = b.Total.Add(e.Amount)

		m := e.ExpenseDate.In(a.loc).Month()
		b.ByMonth[m-1].Amount = b.ByMonth[m-1].Amount.Add(e.Amount)

		tt, ok := byType[e.ExpenseType]
		if !ok {
			tt = &TypeTotal{Type: e.ExpenseType}
			byType[e.ExpenseType] = tt
		}
		tt.Amount = tt.Amount.Add(e.Amount)
		tt.Count++
	}

	for _, t := range models.ExpenseTypes {
		if tt, ok := byType[t]; ok {
			b.ByType = append(b.ByType, *tt)
		}
	}
	return b, nil
}
