// Package domain contains the billable service catalog models.
package domain

import "time"

// Method describes how a service charge is computed.
type Method string

const (
	MethodMeter     Method = "meter"
	MethodPerRoom   Method = "per-room"
	MethodPerPerson Method = "per-person"
)

// Well-known service ids resolved by the billing engine.
const (
	ServiceElectricity = "electricity"
	ServiceWater       = "water"
	ServiceWifi        = "wifi"
	ServiceTrash       = "trash"
	ServiceSecurity    = "security"
)

// ServiceDefinition is one billable service. Locked definitions
// (electricity, water) cannot be deleted.
type ServiceDefinition struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	UnitPrice int64     `json:"unit_price" gorm:"not null"`
	Method    Method    `json:"method" gorm:"type:text;not null"`
	Unit      string    `json:"unit" gorm:"type:text"`
	Locked    bool      `json:"locked" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ServiceDefinition) TableName() string { return "service_definitions" }

func (m Method) Valid() bool {
	switch m {
	case MethodMeter, MethodPerRoom, MethodPerPerson:
		return true
	default:
		return false
	}
}
