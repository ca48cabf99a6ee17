package models

import "time"

// ShiftLabel names the reporting period of an entry.
type ShiftLabel string

const (
	ShiftDay   ShiftLabel = "day"
	ShiftNight ShiftLabel = "night"
)

// Valid reports whether the label is one of the known shifts.
func (l ShiftLabel) Valid() bool {
	return l == ShiftDay || l == ShiftNight
}

// ShiftStatus is the lifecycle state of an entry. Closed is terminal.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// OnlinePayment is one named payment received online during a shift.
type OnlinePayment struct {
	Name   string `bson:"name" json:"name"`
	Amount int    `bson:"amount" json:"amount"`
}

// OtherExpense is the free-form expense line of a shift. Its amount is the cash
// the rider still owes; collecting it resets the amount to zero.
type OtherExpense struct {
	Name   string `bson:"name" json:"name"`
	Amount int    `bson:"amount" json:"amount"`
}

// ShiftEntry is one rider's report for a shift.
type ShiftEntry struct {
	ID             string          `bson:"_id" json:"id"`
	RiderID        string          `bson:"rider_id" json:"rider_id"`
	Shift          ShiftLabel      `bson:"shift" json:"shift"`
	EntryDate      time.Time       `bson:"entry_date" json:"entry_date"`
	OpenBalance    int             `bson:"open_balance" json:"open_balance"`
	Orders60       int             `bson:"orders_60" json:"orders_60"`
	Orders100      int             `bson:"orders_100" json:"orders_100"`
	Orders150      int             `bson:"orders_150" json:"orders_150"`
	Commission     int             `bson:"commission" json:"commission"`
	OtherFee       int             `bson:"other_fee" json:"other_fee"`
	PetrolExpense  int             `bson:"petrol_expense" json:"petrol_expense"`
	ChaiExpense    int             `bson:"chai_expense" json:"chai_expense"`
	OtherExpense   OtherExpense    `bson:"other_expense" json:"other_expense"`
	OnlinePayments []OnlinePayment `bson:"online_payments" json:"online_payments"`
	Notes          string          `bson:"notes,omitempty" json:"notes,omitempty"`

	// Fees is the schedule in effect at submission. BaseTotal and ClosingBalance
	// were computed from it and are never recomputed.
	Fees           FeeSchedule `bson:"fees" json:"fees"`
	BaseTotal      int         `bson:"base_total" json:"base_total"`
	ClosingBalance int         `bson:"closing_balance" json:"closing_balance"`

	Status          ShiftStatus `bson:"status" json:"status"`
	CashCollected   bool        `bson:"cash_collected" json:"cash_collected"`
	ClosedAt        *time.Time  `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	CashCollectedAt *time.Time  `bson:"cash_collected_at,omitempty" json:"cash_collected_at,omitempty"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updated_at"`
	Version         int         `bson:"version" json:"version"`
}

// TotalOrders sums the three order tiers.
func (e ShiftEntry) TotalOrders() int {
	return e.Orders60 + e.Orders100 + e.Orders150
}

// TotalOnline sums the online payments.
func (e ShiftEntry) TotalOnline() int {
	total := 0
	for _, p := range e.OnlinePayments {
		total += p.Amount
	}
	return total
}

// CanCollectCash reports whether there is outstanding expense cash to retrieve.
func (e ShiftEntry) CanCollectCash() bool {
	return e.OtherExpense.Amount > 0 && !e.CashCollected
}

// ShiftFilter narrows shift listings. Zero values mean "any".
type ShiftFilter struct {
	RiderID string
	Status  ShiftStatus
	From    time.Time
	To      time.Time
	Limit   int

	// ClosedFrom and ClosedTo bound closed_at as [ClosedFrom, ClosedTo).
	// Entries that were never closed fail either bound.
	ClosedFrom time.Time
	ClosedTo   time.Time
}

// ShiftForm is the rider submission as it arrives over the wire.
type ShiftForm struct {
	Shift              string        `json:"shift"`
	OpenBalance        NumericText   `json:"open_balance"`
	Orders60           NumericText   `json:"orders_60"`
	Orders100          NumericText   `json:"orders_100"`
	Orders150          NumericText   `json:"orders_150"`
	Commission         NumericText   `json:"commission"`
	OtherFee           NumericText   `json:"other_fee"`
	PetrolExpense      NumericText   `json:"petrol_expense"`
	ChaiExpense        NumericText   `json:"chai_expense"`
	OtherExpenseName   string        `json:"other_expense_name"`
	OtherExpenseAmount NumericText   `json:"other_expense_amount"`
	OnlinePayments     []PaymentForm `json:"online_payments"`
	Notes              string        `json:"notes"`
}

// PaymentForm is one online-payment row of the rider form.
type PaymentForm struct {
	Name   string      `json:"name"`
	Amount NumericText `json:"amount"`
}

// ShiftPreview is what the rider sees before submitting.
type ShiftPreview struct {
	Shift          ShiftLabel      `json:"shift"`
	OpenBalance    int             `json:"open_balance"`
	OnlinePayments []OnlinePayment `json:"online_payments"`
	TotalOnline    int             `json:"total_online"`
	BaseTotal      int             `json:"base_total"`
	ClosingBalance int             `json:"closing_balance"`
	Fees           FeeSchedule     `json:"fees"`
}
