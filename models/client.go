package models

import "time"

// DeliveryType tells the delivery area how an order leaves the shop.
type DeliveryType string

const (
	DeliveryRecogidaLocal      DeliveryType = "RECOGIDA_LOCAL"
	DeliveryEntregaLocal       DeliveryType = "ENTREGA_LOCAL"
	DeliveryEnvioNacional      DeliveryType = "ENVIO_NACIONAL"
	DeliveryEnvioInternacional DeliveryType = "ENVIO_INTERNACIONAL"
)

// RequiresTracking reports whether finishing a delivery for this type
// needs a carrier and tracking code before the piece can move on.
func (d DeliveryType) RequiresTracking() bool {
	return d == DeliveryEnvioNacional || d == DeliveryEnvioInternacional
}

type Client struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	Phone        string       `gorm:"type:varchar(50)" json:"phone"`
	MobilePhone  string       `gorm:"type:varchar(50)" json:"mobile_phone,omitempty"`
	Address      string       `gorm:"type:varchar(255)" json:"address,omitempty"`
	City         string       `gorm:"type:varchar(100)" json:"city,omitempty"`
	DeliveryType DeliveryType `gorm:"type:varchar(30)" json:"delivery_type,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
