package store

import (
	"time"

	"gorm.io/datatypes"
)

// PreferenceRow persists the single preferences record
type PreferenceRow struct {
	ID              uint `gorm:"primaryKey"`
	Quality         string
	SelectedCar     string
	PremiumUnlocked bool
	UpdatedAt       time.Time
}

func (PreferenceRow) TableName() string { return "preferences" }

// LapRecord is one completed lap
type LapRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Session    string `gorm:"index"`
	Car        string `gorm:"index"`
	Quality    string
	Lap        int
	Seconds    float64
	Splits     datatypes.JSON
	Best       bool
	RecordedAt time.Time `gorm:"index"`
}

func (LapRecord) TableName() string { return "lap_records" }

// SessionRecord summarizes a disposed session
type SessionRecord struct {
	ID       uint   `gorm:"primaryKey"`
	Session  string `gorm:"uniqueIndex"`
	Laps     int
	BestLap  float64
	Duration float64
	Steps    uint64
	EndedAt  time.Time
}

func (SessionRecord) TableName() string { return "session_records" }
