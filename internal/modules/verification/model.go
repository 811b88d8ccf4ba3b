// README: Driver identity verification record, reviewed by an admin.
package verification

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

type Record struct {
	DriverID    int64
	Status      Status
	DocumentRef string
	ReviewedAt  *time.Time
}
