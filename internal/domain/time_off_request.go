package domain

import "time"

// RequestStatus enumerates lifecycle states for time-off requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// ValidStatus reports whether s is a known request status.
func ValidStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// TimeOffRequest is the aggregate for leave requests. UserID and CreatedAt
// are set at creation and never change; Status and AdminNote change only
// through the store's UpdateStatus operation.
type TimeOffRequest struct {
	ID        int64
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    RequestStatus
	AdminNote *string
	CreatedAt time.Time
}
