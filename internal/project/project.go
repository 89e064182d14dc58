package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID       uuid.UUID
	Name     string
	ClientID uuid.UUID

	// AgreedHoursLimit is nil when no limit was agreed.
	AgreedHoursLimit *int
	CreatedAt        time.Time
}

// HoursReport compares the hours logged on a project with its agreed limit.
type HoursReport struct {
	Project    *Project
	TotalHours int
	OverHours  bool
}
