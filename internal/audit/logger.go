// Package audit writes structured audit events for security-relevant actions.
package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	ActorID   string    `json:"actor_id,omitempty"`
	SubjectID string    `json:"subject_id,omitempty"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type Logger struct {
	now  func() time.Time
	sink func(string)
}

func NewLogger() *Logger {
	return &Logger{
		now:  time.Now,
		sink: func(line string) { log.Print(line) },
	}
}

// OTPIssued records issuance. The code itself is never part of the event.
func (a *Logger) OTPIssued(phone string, newUser bool) {
	a.log(Event{
		EventType: "OTP_ISSUED",
		SubjectID: MaskPhone(phone),
		Status:    StatusSuccess,
		Details:   map[string]bool{"new_user": newUser},
	})
}

func (a *Logger) OTPVerification(phone, accountID string, err error) {
	event := Event{
		EventType: "OTP_VERIFIED",
		ActorID:   accountID,
		SubjectID: MaskPhone(phone),
		Status:    StatusSuccess,
	}
	if err != nil {
		event.Status = StatusFailed
		event.Details = map[string]string{"error": err.Error()}
	}
	a.log(event)
}

func (a *Logger) RideTransition(rideID, actorID, status string) {
	a.log(Event{
		EventType: "RIDE_" + status,
		ActorID:   actorID,
		SubjectID: rideID,
		Status:    StatusSuccess,
	})
}

func (a *Logger) PaymentConfirmed(reference, rideID string) {
	a.log(Event{
		EventType: "PAYMENT_CONFIRMED",
		SubjectID: reference,
		Status:    StatusSuccess,
		Details:   map[string]string{"ride_id": rideID},
	})
}

func (a *Logger) AdminAction(adminID, operation, subjectID, details string) {
	a.log(Event{
		EventType: operation,
		ActorID:   adminID,
		SubjectID: subjectID,
		Status:    StatusSuccess,
		Details:   map[string]string{"details": details},
	})
}

func (a *Logger) LogError(operation, actorID, subjectID string, err error) {
	a.log(Event{
		EventType: operation,
		ActorID:   actorID,
		SubjectID: subjectID,
		Status:    StatusFailed,
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	event.Timestamp = a.now()
	data, _ := json.Marshal(event)
	a.sink("AUDIT: " + string(data))
}

// MaskPhone keeps the country code and last three digits.
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return "***"
	}
	return phone[:4] + "******" + phone[len(phone)-3:]
}
