package broadcasts

import (
	"slices"
	"time"
)

// StatusActive is the only status a broadcast ever has; nothing deactivates one.
const StatusActive = "active"

type Broadcast struct {
	ID          string
	Message     string
	Created     time.Time
	Status      string
	DeliveredTo []string
}

func (b *Broadcast) deliveredTo(instanceID string) bool {
	return slices.Contains(b.DeliveredTo, instanceID)
}

func (b *Broadcast) clone() Broadcast {
	c := *b
	c.DeliveredTo = slices.Clone(b.DeliveredTo)
	if c.DeliveredTo == nil {
		c.DeliveredTo = []string{}
	}
	return c
}
