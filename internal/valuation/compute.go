// Package valuation computes property profitability snapshots and suggested
// sale prices.
package valuation

import (
	"github.com/shopspring/decimal"

	"rentfolio/internal/models"
	"rentfolio/internal/money"
)

// DefaultTargetYield is the target yield percentage used when none is given.
var DefaultTargetYield = decimal.NewFromInt(5)

var twelve = decimal.NewFromInt(12)

// Inputs is everything Compute reads.
type Inputs struct {
	PurchasePrice    decimal.Decimal
	AcquisitionCost  decimal.Decimal
	LoanAmount       decimal.Decimal
	LoanInterestRate decimal.Decimal // annual percent
	ActiveLeases     []models.Lease
	AnnualExpense    decimal.Decimal // expenses booked in the calendar year
	TargetYield      *decimal.Decimal
}

// Yields are percentages rounded to two places.
type Yields struct {
	GrossYield decimal.Decimal `json:"grossYield"`
	NetYield   decimal.Decimal `json:"netYield"`
	CashOnCash decimal.Decimal `json:"cashOnCash"`
}

// Figures is the full set of derived numbers for one property.
type Figures struct {
	MonthlyRent        decimal.Decimal `json:"monthlyRent"`
	AnnualRent         decimal.Decimal `json:"annualRent"`
	TotalDeposit       decimal.Decimal `json:"totalDeposit"`
	AnnualExpense      decimal.Decimal `json:"annualExpense"`
	LoanInterest       decimal.Decimal `json:"loanInterest"`
	TotalAnnualExpense decimal.Decimal `json:"totalAnnualExpense"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	PurchasePrice      decimal.Decimal `json:"purchasePrice"`
	AcquisitionCost    decimal.Decimal `json:"acquisitionCost"`
	LoanAmount         decimal.Decimal `json:"loanAmount"`
	TotalInvestment    decimal.Decimal `json:"totalInvestment"`
	Yields             Yields          `json:"yields"`
	TargetYield        decimal.Decimal `json:"targetYield"`
	BasePrice          decimal.Decimal `json:"basePrice"`
	SuggestedPrice     decimal.Decimal `json:"suggestedPrice"`
	ExpectedProfit     decimal.Decimal `json:"expectedProfit"`
}

// Compute derives the valuation figures. Loan interest is a flat annual
// amount. Cash-on-cash is zero when the invested cash is not positive.
func Compute(in Inputs) Figures {
	f := Figures{
		PurchasePrice:   in.PurchasePrice,
		AcquisitionCost: in.AcquisitionCost,
		LoanAmount:      in.LoanAmount,
		AnnualExpense:   in.AnnualExpense,
		TargetYield:     TargetYieldOrDefault(in.TargetYield),
	}

	for _, l := range in.ActiveLeases {
		f.MonthlyRent = f.MonthlyRent.Add(l.MonthlyRent)
		f.TotalDeposit = f.TotalDeposit.Add(l.Deposit)
	}
	f.AnnualRent = f.MonthlyRent.Mul(twelve)

	f.LoanInterest = in.LoanAmount.Mul(in.LoanInterestRate).Div(money.Hundred())
	f.TotalAnnualExpense = in.AnnualExpense.Add(f.LoanInterest)
	f.NetIncome = f.AnnualRent.Sub(f.TotalAnnualExpense)
	f.TotalInvestment = in.PurchasePrice.Add(in.AcquisitionCost).Sub(in.LoanAmount).Sub(f.TotalDeposit)

	f.Yields = Yields{
		GrossYield: money.Percent(f.AnnualRent, in.PurchasePrice),
		NetYield:   money.Percent(f.NetIncome, in.PurchasePrice),
		CashOnCash: money.Percent(f.NetIncome, f.TotalInvestment),
	}

	if f.AnnualRent.IsPositive() {
		f.BasePrice = f.AnnualRent.Mul(money.Hundred()).Div(f.TargetYield).Round(0)
	}
	f.SuggestedPrice = f.BasePrice.Add(f.TotalDeposit)
	f.ExpectedProfit = f.SuggestedPrice.Sub(in.PurchasePrice).Sub(in.AcquisitionCost)
	return f
}

// TargetYieldOrDefault treats a missing or zero target as DefaultTargetYield.
func TargetYieldOrDefault(target *decimal.Decimal) decimal.Decimal {
	if target == nil || target.IsZero() {
		return DefaultTargetYield
	}
	return *target
}
