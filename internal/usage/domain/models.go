// Package domain contains the monthly usage ledger models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MeterKey selects one of the two metered services on a usage record.
type MeterKey string

const (
	MeterElectricity MeterKey = "electricity"
	MeterWater       MeterKey = "water"
)

// Record holds the raw billing inputs for one (contract, month) pair.
// At most one record exists per pair; writes go through upsert.
type Record struct {
	ID                 snowflake.ID `json:"id" gorm:"primaryKey"`
	ContractID         snowflake.ID `json:"contract_id" gorm:"not null;uniqueIndex:ux_usage_contract_month,priority:1"`
	Month              string       `json:"month" gorm:"type:text;not null;uniqueIndex:ux_usage_contract_month,priority:2;index"`
	ElectricityCurrent *float64     `json:"electricity_current"`
	WaterCurrent       *float64     `json:"water_current"`
	WifiDevices        int          `json:"wifi_devices" gorm:"not null;default:0"`
	TrashIncluded      bool         `json:"trash_included" gorm:"not null;default:false"`
	OtherAmount        int64        `json:"other_amount" gorm:"not null;default:0"`
	OtherNote          string       `json:"other_note" gorm:"type:text"`
	CreatedAt          time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "usage_records" }

// Current returns the meter reading for key, nil when not yet entered.
func (r Record) Current(key MeterKey) *float64 {
	switch key {
	case MeterElectricity:
		return r.ElectricityCurrent
	case MeterWater:
		return r.WaterCurrent
	default:
		return nil
	}
}
