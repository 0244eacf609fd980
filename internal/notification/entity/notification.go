package entity

import (
	"time"

	"github.com/shandysiswandi/paydota/internal/pkg/valueobject"
)

// CreateDeliveryLog is a queued row written before the provider is called.
type CreateDeliveryLog struct {
	ID         int64
	EventID    string
	TriggerKey TriggerKey
	Channel    Channel
	Recipient  string
	Status     DeliveryStatus
	Data       valueobject.JSONMap
}

type UpdateDeliveryLog struct {
	ID               int64
	Status           DeliveryStatus
	Attempts         int
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
}

type DeliveryLog struct {
	ID               int64
	EventID          string
	TriggerKey       TriggerKey
	Channel          Channel
	Recipient        string
	Status           DeliveryStatus
	Attempts         int
	Data             valueobject.JSONMap
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SecurityNotice is the rendered email for one OTP event.
type SecurityNotice struct {
	Subject string
	HTML    string
	Text    string
}
