package audit

import (
	"context"
	"time"

	"github.com/equiptrack/inventory-management/internal/auth"
)

// Module and action identifiers come from the operations catalog shared
// with the reporting screens; the writer treats them as opaque integers.
const (
	ModuleAuth        = 1
	ModuleUsers       = 2
	ModuleAssets      = 3
	ModuleMaintenance = 4
	ModuleAssignments = 5
	ModuleProfiles    = 6

	ActionCreate = 1
	ActionUpdate = 2
	ActionDelete = 3
	ActionLogin  = 4
	ActionAssign = 5
)

// Event is one append-only trail record. OccurredAt is assigned when the
// event is accepted, not when it reaches storage.
type Event struct {
	ActorID    int64
	ModuleID   int
	ActionID   int
	Details    string
	OccurredAt time.Time
}

// Store persists accepted events.
type Store interface {
	Insert(ctx context.Context, event Event) error
}

// Recorder is the side-channel interface handlers call after successful
// mutations. Recording never fails from the caller's point of view: an
// unresolvable identity or a storage problem drops the event, it does not
// abort the business operation.
type Recorder interface {
	Record(ident *auth.Identity, moduleID, actionID int, details string)
}
