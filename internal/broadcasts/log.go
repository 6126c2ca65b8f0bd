package broadcasts

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/EternisAI/bot-tracker/internal/apperr"
	"github.com/google/uuid"
)

const (
	DefaultCapacity = 50
	idPrefix        = "bc_"
)

var (
	ErrInvalidOwnerKey = apperr.Unauthorized("Invalid owner key")
	ErrMessageRequired = apperr.Validation("Message is required")
)

// Log is a bounded, creation-ordered list of operator broadcasts and the
// instances that acknowledged each of them.
type Log struct {
	mu         sync.RWMutex
	broadcasts []*Broadcast
	ownerKey   []byte
	capacity   int
	now        func() time.Time
	newID      func() (string, error)
}

type Option func(*Log)

func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

func NewLog(ownerKey string, opts ...Option) *Log {
	l := &Log{
		ownerKey: []byte(ownerKey),
		capacity: DefaultCapacity,
		now:      time.Now,
		newID:    newBroadcastID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// newBroadcastID returns a UUIDv7 based id, which sorts by creation time and
// stays unique for broadcasts created within the same millisecond.
func newBroadcastID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate broadcast id: %w", err)
	}
	return idPrefix + id.String(), nil
}

// Create appends a broadcast and evicts the oldest entries beyond capacity.
// The owner key is checked before the message.
func (l *Log) Create(message, ownerKey string) (Broadcast, error) {
	if subtle.ConstantTimeCompare([]byte(ownerKey), l.ownerKey) != 1 {
		return Broadcast{}, ErrInvalidOwnerKey
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return Broadcast{}, ErrMessageRequired
	}

	id, err := l.newID()
	if err != nil {
		return Broadcast{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := &Broadcast{
		ID:          id,
		Message:     message,
		Created:     l.now(),
		Status:      StatusActive,
		DeliveredTo: []string{},
	}
	l.broadcasts = append(l.broadcasts, b)

	if evicted := len(l.broadcasts) - l.capacity; evicted > 0 {
		// Copy instead of reslicing so evicted entries can be collected.
		l.broadcasts = slices.Clone(l.broadcasts[evicted:])
		slog.Debug("Evicted oldest broadcasts", "evicted", evicted)
	}

	slog.Info("Broadcast created",
		"broadcast_id", b.ID,
		"total_broadcasts", len(l.broadcasts))

	return b.clone(), nil
}

// ListPending returns active broadcasts the instance has not acknowledged, oldest first.
func (l *Log) ListPending(instanceID string) []Broadcast {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Broadcast, 0, len(l.broadcasts))
	for _, b := range l.broadcasts {
		if b.Status != StatusActive || b.deliveredTo(instanceID) {
			continue
		}
		result = append(result, b.clone())
	}
	return result
}

// Acknowledge records that the instance received the broadcast. Unknown
// broadcasts and repeated acknowledgements are ignored.
func (l *Log) Acknowledge(instanceID, broadcastID string) {
	if instanceID == "" || broadcastID == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.broadcasts {
		if b.ID != broadcastID {
			continue
		}
		if !b.deliveredTo(instanceID) {
			b.DeliveredTo = append(b.DeliveredTo, instanceID)
			slog.Debug("Broadcast delivered", "broadcast_id", broadcastID, "instance_id", instanceID)
		}
		return
	}
}

// List returns all retained broadcasts, newest first.
func (l *Log) List() []Broadcast {
	l.mu.RLock()
	result := make([]Broadcast, 0, len(l.broadcasts))
	for i := len(l.broadcasts) - 1; i >= 0; i-- {
		result = append(result, l.broadcasts[i].clone())
	}
	l.mu.RUnlock()

	slices.SortStableFunc(result, func(a, b Broadcast) int {
		return b.Created.Compare(a.Created)
	})
	return result
}
