package instances

import (
	"time"
)

const (
	DefaultOwner   = "Unknown"
	DefaultVersion = "1.0.0"
	StatusOnline   = "online"
)

type Instance struct {
	ID         string
	Owner      string
	Version    string
	UserCount  int
	GroupCount int
	FirstSeen  time.Time
	LastPing   time.Time
	Status     string
	IP         string
}

// RegisterParams carries one heartbeat. Nil pointers and empty strings fall back to defaults.
type RegisterParams struct {
	InstanceID string
	Owner      string
	Version    string
	UserCount  *int
	GroupCount *int
	IP         string
}

type Stats struct {
	TotalInstances  int
	ActiveInstances int
	TotalUsers      int
	TotalGroups     int
	LastUpdated     time.Time
}
