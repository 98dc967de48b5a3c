package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment records a passenger charge. Status moves to paid only through a verified webhook.
type Payment struct {
	ID          string        `json:"id" db:"id"`
	PassengerID string        `json:"passengerId" db:"passenger_id"`
	DriverID    string        `json:"driverId,omitempty" db:"driver_id"`
	RideID      string        `json:"rideId,omitempty" db:"ride_id"`
	Amount      float64       `json:"amount" db:"amount"`
	Currency    string        `json:"currency" db:"currency"`
	Provider    string        `json:"provider" db:"provider"`
	Reference   string        `json:"reference" db:"reference"`
	Status      PaymentStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	PaidAt      *time.Time    `json:"paidAt,omitempty" db:"paid_at"`
}
