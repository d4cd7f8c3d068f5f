package domain

import "time"

// Student account state as seen by the compliance engine. The full student
// record (name, section, auth) is owned elsewhere; only loyalty and lockout
// state are read or written here.
type Student struct {
	StudentID      string     `json:"student_id" db:"student_id"`
	Loyalty        int        `json:"loyalty" db:"loyalty"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	SuspensionDate *time.Time `json:"suspension_date,omitempty" db:"suspension_date"`
	BannedUntil    *time.Time `json:"banned_until,omitempty" db:"banned_until"`
}

// InitialLoyalty is the point balance granted to new accounts.
const InitialLoyalty = 25
