package models

import (
	"time"
)

// Order is one intake record. Client fields are snapshotted at
// creation so later edits to the client card never rewrite history.
// Orders are created whole and deleted whole; items are never removed
// individually.
type Order struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(30);unique;not null" json:"code"` // ORDEN{MM}{YY}-{seq}

	ClientID           uint         `gorm:"not null" json:"client_id"`
	ClientName         string       `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientAddress      string       `gorm:"type:varchar(255)" json:"client_address,omitempty"`
	ClientCity         string       `gorm:"type:varchar(100)" json:"client_city,omitempty"`
	ClientDeliveryType DeliveryType `gorm:"type:varchar(30)" json:"client_delivery_type,omitempty"`

	ModelID   uint   `gorm:"not null" json:"model_id"`
	ModelName string `gorm:"type:varchar(150);not null" json:"model_name"`

	EntryDate             time.Time  `gorm:"not null" json:"entry_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
	VisualColorHex        string     `gorm:"type:varchar(10)" json:"visual_color_hex"`

	SpecialEditionID   *uint  `json:"special_edition_id,omitempty"`
	SpecialEditionName string `gorm:"type:varchar(150)" json:"special_edition_name,omitempty"`

	// Stamped by the delivery area when a shipped order is handed to a
	// carrier.
	ShippingCarrier      string `gorm:"type:varchar(100)" json:"shipping_carrier,omitempty"`
	ShippingTrackingCode string `gorm:"type:varchar(100)" json:"shipping_tracking_code,omitempty"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}
