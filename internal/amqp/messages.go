package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entities and actions carried by ledger events.
const (
	EntityProject       = "project"
	EntityRubro         = "rubro"
	EntityDonation      = "donation"
	EntityPurchaseOrder = "purchase_order"

	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionDeleted     = "deleted"
	ActionInactivated = "inactivated"
)

// LedgerEvent announces that a ledger row changed. Consumers re-read state
// from the database; the event only says where to look.
type LedgerEvent struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	EntityID  int64     `json:"entityId"`
	RubroID   int64     `json:"rubroId,omitempty"`
	ProjectID int64     `json:"projectId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(entity, action string, entityID int64) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

// WithRubro sets the rubro whose balance the event affects.
func (e *LedgerEvent) WithRubro(rubroID int64) *LedgerEvent {
	e.RubroID = rubroID
	return e
}

func (e *LedgerEvent) WithProject(projectID int64) *LedgerEvent {
	e.ProjectID = projectID
	return e
}

// AffectsBalances reports whether the event can change a rubro balance.
func (e *LedgerEvent) AffectsBalances() bool {
	return e.Entity != EntityProject || e.Action != ActionCreated
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
