package instances

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/EternisAI/bot-tracker/internal/apperr"
)

const (
	DefaultActiveWindow = 5 * time.Minute
	DefaultRetention    = 24 * time.Hour
)

var ErrInstanceIDRequired = apperr.Validation("instanceId is required")

type Registry struct {
	mu           sync.RWMutex
	instances    map[string]*Instance
	activeWindow time.Duration
	retention    time.Duration
	now          func() time.Time
}

type Option func(*Registry)

// WithActiveWindow sets how recent a ping must be for an instance to count as active.
func WithActiveWindow(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.activeWindow = d
		}
	}
}

// WithRetention sets the ping age at which an instance is pruned.
func WithRetention(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.retention = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		instances:    make(map[string]*Instance),
		activeWindow: DefaultActiveWindow,
		retention:    DefaultRetention,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register upserts the instance and then prunes stale entries. Pruning only ever
// happens here: there is no background sweeper, a quiet registry keeps its entries
// until the next heartbeat arrives.
func (r *Registry) Register(p RegisterParams) (Instance, error) {
	id := strings.TrimSpace(p.InstanceID)
	if id == "" {
		return Instance{}, ErrInstanceIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	inst := &Instance{
		ID:         id,
		Owner:      withDefault(p.Owner, DefaultOwner),
		Version:    withDefault(p.Version, DefaultVersion),
		UserCount:  nonNegative(p.UserCount),
		GroupCount: nonNegative(p.GroupCount),
		FirstSeen:  now,
		LastPing:   now,
		Status:     StatusOnline,
		IP:         p.IP,
	}

	existing, ok := r.instances[id]
	if ok {
		inst.FirstSeen = existing.FirstSeen
	}
	r.instances[id] = inst

	if ok {
		slog.Debug("Instance heartbeat", "instance_id", id, "ip", p.IP)
	} else {
		slog.Info("Instance registered",
			"instance_id", id,
			"owner", inst.Owner,
			"version", inst.Version,
			"ip", p.IP)
	}

	r.prune(now)

	return *inst, nil
}

// Prune removes every instance whose last ping is at least the retention window old.
func (r *Registry) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prune(now)
}

func (r *Registry) prune(now time.Time) int {
	removed := 0
	for id, inst := range r.instances {
		if now.Sub(inst.LastPing) >= r.retention {
			delete(r.instances, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("Pruned stale instances",
			"removed", removed,
			"total_instances", len(r.instances))
	}
	return removed
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	stats := Stats{
		TotalInstances: len(r.instances),
		LastUpdated:    now,
	}
	for _, inst := range r.instances {
		if now.Sub(inst.LastPing) < r.activeWindow {
			stats.ActiveInstances++
		}
		stats.TotalUsers += inst.UserCount
		stats.TotalGroups += inst.GroupCount
	}
	return stats
}

// List returns all retained instances, most recently seen first.
func (r *Registry) List() []Instance {
	r.mu.RLock()
	result := make([]Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		result = append(result, *inst)
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b Instance) int {
		if c := b.LastPing.Compare(a.LastPing); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonNegative(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
