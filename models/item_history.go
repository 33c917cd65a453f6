package models

import "time"

// Audit actions. REPROCESO covers both leader rework and damage
// reports (damage is tagged in the notes); DEVUELTO_OPERARIO is the
// operator-initiated step back. All three increment the rework count.
const (
	ActionAsignado         = "ASIGNADO"
	ActionEnRevision       = "EN_REVISION"
	ActionAprobado         = "APROBADO"
	ActionReproceso        = "REPROCESO"
	ActionDevueltoOperario = "DEVUELTO_OPERARIO"
)

// DamageNotePrefix marks a REPROCESO entry that came from a damage
// report rather than a quality rejection.
const DamageNotePrefix = "DAÑO REPORTADO: "

// ItemHistoryEntry is an immutable audit row. Entries are only ever
// appended, never updated or deleted. ActorID is the stable reference;
// ActorName is a display snapshot that survives employee-record edits.
type ItemHistoryEntry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderItemID uint   `gorm:"not null;index" json:"order_item_id"`
	Action      string `gorm:"type:varchar(30);not null" json:"action"`
	ActorID     *uint  `json:"actor_id,omitempty"`
	ActorName   string `gorm:"type:varchar(255);not null" json:"actor_name"`
	AreaOrigin  string `gorm:"type:varchar(30)" json:"area_origin,omitempty"`
	AreaDest    string `gorm:"type:varchar(30)" json:"area_dest,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`
	// AttemptNumber is the item's rework count at the moment of the
	// action.
	AttemptNumber int       `gorm:"not null;default:0" json:"attempt_number"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
