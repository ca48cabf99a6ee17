package models

import "time"

// Stats are the admin dashboard rollups over every shift entry.
type Stats struct {
	Entries         int `json:"entries"`
	OpenShifts      int `json:"open_shifts"`
	ClosedShifts    int `json:"closed_shifts"`
	TotalOrders     int `json:"total_orders"`
	TotalOnline     int `json:"total_online"`
	TotalCommission int `json:"total_commission"`
	TotalExpenses   int `json:"total_expenses"`
	OutstandingCash int `json:"outstanding_cash"`
}

// RiderDigestLine is one rider's row in the daily digest.
type RiderDigestLine struct {
	RiderID        string `bson:"rider_id" json:"rider_id"`
	RiderName      string `bson:"rider_name" json:"rider_name"`
	Shifts         int    `bson:"shifts" json:"shifts"`
	Orders         int    `bson:"orders" json:"orders"`
	ClosingBalance int    `bson:"closing_balance" json:"closing_balance"`
}

// DailyDigest aggregates one day of activity for the admin summary message.
type DailyDigest struct {
	Date            time.Time         `bson:"date" json:"date"`
	Stats           Stats             `bson:"stats" json:"stats"`
	PendingDues     int               `bson:"pending_dues" json:"pending_dues"`
	PendingDueCount int               `bson:"pending_due_count" json:"pending_due_count"`
	Riders          []RiderDigestLine `bson:"riders" json:"riders"`
	CreatedAt       time.Time         `bson:"created_at" json:"created_at"`
}
