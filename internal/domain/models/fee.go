package models

import "time"

// FeeScheduleID is the fixed identifier of the singleton fee schedule document.
const FeeScheduleID = "default"

// FeeSchedule maps the three order-size tiers to the fee a rider earns per order.
type FeeSchedule struct {
	Fee60     int       `bson:"fee_60" json:"fee_60"`
	Fee100    int       `bson:"fee_100" json:"fee_100"`
	Fee150    int       `bson:"fee_150" json:"fee_150"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DefaultFeeSchedule is used until an administrator saves a schedule.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{Fee60: 60, Fee100: 100, Fee150: 150}
}

// FeeUpdateRequest is the admin payload for replacing the fee schedule.
type FeeUpdateRequest struct {
	Fee60  *int `json:"fee_60" binding:"required"`
	Fee100 *int `json:"fee_100" binding:"required"`
	Fee150 *int `json:"fee_150" binding:"required"`
}
