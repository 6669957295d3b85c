// Package models holds the profile and compatibility types consumed by the
// scorer and ranker. Profiles are owned by an external store; this core only
// reads them.
package models

import (
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
)

// Gender and Orientation are opaque enums to this core; the scorer never
// inspects them, only the candidate filter does.
type (
	Gender      string
	Orientation string
)

// PersonalityTraits are Big Five scores, each in [0,100].
type PersonalityTraits struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

// AgeRange is an inclusive preference band.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether age falls inside the band.
func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

// ImportanceWeights control how sub-scores combine into the overall score.
// Lifestyle carries a fixed weight of 0.10 outside these; see scorer.
type ImportanceWeights struct {
	Personality float64 `json:"personality"`
	Interests   float64 `json:"interests"`
	Location    float64 `json:"location"`
	Age         float64 `json:"age"`
}

// DefaultWeights mirror the documented defaults.
func DefaultWeights() ImportanceWeights {
	return ImportanceWeights{
		Personality: 0.30,
		Interests:   0.25,
		Location:    0.20,
		Age:         0.15,
	}
}

// Validate rejects negative weights. Weights are applied as-is; no
// normalization to sum 1.0 is performed.
func (w ImportanceWeights) Validate() error {
	if w.Personality < 0 || w.Interests < 0 || w.Location < 0 || w.Age < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "importance weights must be non-negative")
	}
	return nil
}

// Preferences are the optional matching preferences of a profile owner.
type Preferences struct {
	AgeRange          *AgeRange          `json:"age_range,omitempty"`
	MaxDistance       float64            `json:"max_distance,omitempty"`
	DealBreakers      []string           `json:"deal_breakers,omitempty"`
	ImportanceWeights *ImportanceWeights `json:"importance_weights,omitempty"`
}

// Profile is the read-only view of a user this core scores and ranks.
type Profile struct {
	ID          id.UserID          `json:"id"`
	Age         int                `json:"age"`
	Location    string             `json:"location"`
	Gender      Gender             `json:"gender"`
	Orientation Orientation        `json:"orientation"`
	Interests   []string           `json:"interests"`
	Bio         string             `json:"bio"`
	Traits      *PersonalityTraits `json:"personality_traits,omitempty"`
	Preferences *Preferences       `json:"preferences,omitempty"`
	// Version increments on every profile edit in the external store. The
	// ranker's score cache keys on it so stale entries die with the edit.
	Version int64 `json:"version"`
}

// Validate enforces the invariants any profile entering the core must satisfy.
func (p *Profile) Validate() error {
	if p.ID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "profile id is required")
	}
	if p.Age < 18 {
		return dErrors.New(dErrors.CodeInvalidInput, "profile age must be at least 18")
	}
	if p.Preferences != nil && p.Preferences.ImportanceWeights != nil {
		if err := p.Preferences.ImportanceWeights.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Weights returns the profile's configured weights or the defaults.
func (p *Profile) Weights() ImportanceWeights {
	if p.Preferences != nil && p.Preferences.ImportanceWeights != nil {
		return *p.Preferences.ImportanceWeights
	}
	return DefaultWeights()
}

// MaxDistance returns the profile's distance bound, defaulting to 50 units.
func (p *Profile) MaxDistance() float64 {
	if p.Preferences != nil && p.Preferences.MaxDistance > 0 {
		return p.Preferences.MaxDistance
	}
	return 50
}

// Breakdown holds the per-dimension sub-scores, each in [0,100].
type Breakdown struct {
	Personality int `json:"personality"`
	Interests   int `json:"interests"`
	Location    int `json:"location"`
	Age         int `json:"age"`
	Lifestyle   int `json:"lifestyle"`
}

// CompatibilityScore is the derived, never-persisted scoring result.
// Deterministic for identical inputs; safe to cache.
type CompatibilityScore struct {
	Overall   int       `json:"overall"`
	Breakdown Breakdown `json:"breakdown"`
	Reasons   []string  `json:"reasons"`
	Concerns  []string  `json:"concerns"`
}
