// Package balance derives the base total and closing balance of a shift.
// Every function here is pure and total.
package balance

import (
	"strconv"
	"strings"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

// Inputs are the parsed numeric fields of a shift report.
type Inputs struct {
	OpenBalance        int
	Orders60           int
	Orders100          int
	Orders150          int
	Commission         int
	OtherFee           int
	PetrolExpense      int
	ChaiExpense        int
	OtherExpenseAmount int
	OnlinePayments     []models.OnlinePayment
}

// Totals is the result of Compute.
type Totals struct {
	BaseTotal      int
	TotalOnline    int
	ClosingBalance int
}

// ParseAmount reads a base-10 integer from user text. Empty or malformed text
// yields 0; negative numbers are returned as is.
func ParseAmount(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return v
}

// Amount parses a form field with ParseAmount.
func Amount(n models.NumericText) int {
	if !n.Present {
		return 0
	}
	return ParseAmount(n.Raw)
}

// BaseTotal is the order revenue for the three tiers.
func BaseTotal(orders60, orders100, orders150 int, fees models.FeeSchedule) int {
	return orders60*fees.Fee60 + orders100*fees.Fee100 + orders150*fees.Fee150
}

// FilterPayments keeps the rows that have both a payer name and an amount.
// Incomplete rows are dropped silently.
func FilterPayments(rows []models.PaymentForm) []models.OnlinePayment {
	payments := make([]models.OnlinePayment, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" || !row.Amount.Present {
			continue
		}
		payments = append(payments, models.OnlinePayment{Name: name, Amount: Amount(row.Amount)})
	}
	return payments
}

// SumPayments totals the payment amounts.
func SumPayments(payments []models.OnlinePayment) int {
	total := 0
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// FromForm parses every numeric field of the form and filters its payments.
func FromForm(form models.ShiftForm) Inputs {
	return Inputs{
		OpenBalance:        Amount(form.OpenBalance),
		Orders60:           Amount(form.Orders60),
		Orders100:          Amount(form.Orders100),
		Orders150:          Amount(form.Orders150),
		Commission:         Amount(form.Commission),
		OtherFee:           Amount(form.OtherFee),
		PetrolExpense:      Amount(form.PetrolExpense),
		ChaiExpense:        Amount(form.ChaiExpense),
		OtherExpenseAmount: Amount(form.OtherExpenseAmount),
		OnlinePayments:     FilterPayments(form.OnlinePayments),
	}
}

// Compute derives the totals of a shift from its inputs and the fee schedule.
func Compute(in Inputs, fees models.FeeSchedule) Totals {
	base := BaseTotal(in.Orders60, in.Orders100, in.Orders150, fees)
	online := SumPayments(in.OnlinePayments)

	closing := in.OpenBalance + base + in.Commission + in.OtherFee -
		in.PetrolExpense - in.ChaiExpense - in.OtherExpenseAmount +
		online

	return Totals{BaseTotal: base, TotalOnline: online, ClosingBalance: closing}
}
