package registry

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Names is a process-wide reservation set for human and bot display
// names (§3 "Name Registry"). Collisions are soft: join_lobby never
// rejects a duplicate name, it only logs (§6 join_lobby: "reserve
// name (soft — collision logged, not rejected)").
type Names struct {
	mu       sync.Mutex
	reserved map[string]bool
	logger   *log.Logger
}

// NewNames constructs an empty name registry.
func NewNames(logger *log.Logger) *Names {
	return &Names{
		reserved: make(map[string]bool),
		logger:   logger,
	}
}

// TryReserve reserves name, always succeeding. It reports whether the
// name was already held by someone else so callers can log the soft
// collision; the name is reserved either way.
func (n *Names) TryReserve(name string) (collided bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.reserved[name] {
		if n.logger != nil {
			n.logger.Warn("name already reserved", "name", name)
		}
		return true
	}
	n.reserved[name] = true
	return false
}

// Release frees name so a future TryReserve for it no longer collides.
func (n *Names) Release(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.reserved, name)
}

// Held reports whether name is currently reserved.
func (n *Names) Held(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reserved[name]
}
