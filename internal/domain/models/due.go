package models

import "time"

// DueStatus is pending until an administrator marks the due paid.
type DueStatus string

const (
	DuePending DueStatus = "pending"
	DuePaid    DueStatus = "paid"
)

// Due is an outstanding customer debt attributed to a rider.
type Due struct {
	ID           string     `bson:"_id" json:"id"`
	RiderID      string     `bson:"rider_id" json:"rider_id"`
	CustomerName string     `bson:"customer_name" json:"customer_name"`
	Amount       int        `bson:"amount" json:"amount"`
	DueDate      time.Time  `bson:"due_date" json:"due_date"`
	Notes        string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       DueStatus  `bson:"status" json:"status"`
	PaidAt       *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
}

// DueFilter narrows due listings. Zero values mean "any".
type DueFilter struct {
	RiderID string
	Status  DueStatus
}

// DueForm is the payload used to record a new due.
type DueForm struct {
	CustomerName string      `json:"customer_name"`
	Amount       NumericText `json:"amount"`
	DueDate      string      `json:"due_date"`
	Notes        string      `json:"notes"`
}

// DuesSummary backs the admin dues view.
type DuesSummary struct {
	Dues         []Due `json:"dues"`
	PendingTotal int   `json:"pending_total"`
	PendingCount int   `json:"pending_count"`
}
