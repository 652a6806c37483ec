package config

import "strings"

// Quality tiers
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// Car styles
const (
	CarBasic   = "basic"
	CarPremium = "premium"
)

// NormalizedQuality returns a known tier, defaulting to high
func (p Preferences) NormalizedQuality() string {
	switch q := strings.ToLower(strings.TrimSpace(p.Quality)); q {
	case QualityLow, QualityMedium, QualityHigh:
		return q
	}
	return QualityHigh
}

// CarStyle is premium only when selected and unlocked
func (p Preferences) CarStyle() string {
	if p.SelectedCar == CarPremium && p.PremiumUnlocked {
		return CarPremium
	}
	return CarBasic
}
