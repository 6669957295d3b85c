// Package scorer computes pairwise compatibility scores.
//
// Score is pure and deterministic: identical inputs always produce identical
// output, which is what allows the ranker to cache results. The raw attribute
// comparisons (age difference, interest overlap, lifestyle overlap) are
// symmetric; only the first argument's preferences and weights make
// Score(a,b) differ from Score(b,a).
package scorer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"amora/internal/matching/models"
)

// Scorer computes compatibility scores. It holds no mutable state and is safe
// for unlimited concurrent use.
type Scorer struct {
	distance DistanceProvider
}

// New constructs a Scorer. A nil provider falls back to UnknownDistance.
func New(distance DistanceProvider) *Scorer {
	if distance == nil {
		distance = UnknownDistance{}
	}
	return &Scorer{distance: distance}
}

// Score computes a's view of compatibility with b. Missing optional fields
// fall back to neutral defaults and never fail the computation.
func (s *Scorer) Score(ctx context.Context, a, b *models.Profile) models.CompatibilityScore {
	personality := scorePersonality(a.Traits, b.Traits)
	interests := scoreInterests(a.Interests, b.Interests)
	location := s.scoreLocation(ctx, a.Location, b.Location, a.MaxDistance())
	age := scoreAge(a, b)
	lifestyle := float64(scoreLifestyle(a.Bio, b.Bio))

	weights := a.Weights()
	overall := personality*weights.Personality +
		interests*weights.Interests +
		location*weights.Location +
		age*weights.Age +
		lifestyle*lifestyleWeight

	return models.CompatibilityScore{
		Overall: clamp(int(math.Round(overall))),
		Breakdown: models.Breakdown{
			Personality: clamp(int(math.Round(personality))),
			Interests:   clamp(int(math.Round(interests))),
			Location:    clamp(int(math.Round(location))),
			Age:         clamp(int(math.Round(age))),
			Lifestyle:   clamp(int(lifestyle)),
		},
		Reasons: reasons(subScores{
			personality: personality,
			interests:   interests,
			location:    location,
			age:         age,
			lifestyle:   lifestyle,
		}, a, b),
		Concerns: concerns(a, b),
	}
}

// lifestyleWeight is fixed and applied outside the configurable weights.
const lifestyleWeight = 0.10

// neutralPersonality is used when either side lacks trait data.
const neutralPersonality = 50

func scorePersonality(a, b *models.PersonalityTraits) float64 {
	if a == nil || b == nil {
		return neutralPersonality
	}

	// Similarity is rewarded for four traits; extraversion tolerates
	// complementary difference.
	openness := 100 - absDiff(a.Openness, b.Openness)
	conscientiousness := 100 - absDiff(a.Conscientiousness, b.Conscientiousness)
	extraversion := math.Max(60, 100-float64(absDiff(a.Extraversion, b.Extraversion))*0.5)
	agreeableness := 100 - absDiff(a.Agreeableness, b.Agreeableness)
	neuroticism := 100 - absDiff(a.Neuroticism, b.Neuroticism)

	return (float64(openness) + float64(conscientiousness) + extraversion +
		float64(agreeableness) + float64(neuroticism)) / 5
}

func scoreInterests(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 30 // low-confidence default, not a judgement
	}

	shared := sharedInterests(a, b)

	union := make(map[string]struct{}, len(a)+len(b))
	for _, interest := range a {
		union[strings.ToLower(interest)] = struct{}{}
	}
	for _, interest := range b {
		union[strings.ToLower(interest)] = struct{}{}
	}

	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	commonRatio := float64(len(shared)) / float64(smaller)

	diversityBonus := 0.0
	if len(union) > 8 {
		diversityBonus = 10
	}

	return math.Min(100, commonRatio*80+diversityBonus+20)
}

// sharedInterests returns a's interests that b also lists, case-insensitively,
// preserving a's order and original casing.
func sharedInterests(a, b []string) []string {
	bSet := make(map[string]struct{}, len(b))
	for _, interest := range b {
		bSet[strings.ToLower(interest)] = struct{}{}
	}
	var shared []string
	for _, interest := range a {
		if _, ok := bSet[strings.ToLower(interest)]; ok {
			shared = append(shared, interest)
		}
	}
	return shared
}

func (s *Scorer) scoreLocation(ctx context.Context, locA, locB string, maxDistance float64) float64 {
	normA := strings.ToLower(strings.TrimSpace(locA))
	normB := strings.ToLower(strings.TrimSpace(locB))
	if normA == normB {
		return 100
	}

	if cityToken(normA) == cityToken(normB) {
		return 90
	}

	distance, ok := s.distance.Distance(ctx, locA, locB)
	if !ok {
		// Unknown distance scores neutral rather than guessing.
		return 50
	}
	if distance <= maxDistance {
		return math.Max(20, 100-(distance/maxDistance)*80)
	}
	return 10
}

// cityToken extracts the leading city component of a "City, Region" location.
func cityToken(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

func scoreAge(a, b *models.Profile) float64 {
	if a.Preferences != nil && a.Preferences.AgeRange != nil &&
		!a.Preferences.AgeRange.Contains(b.Age) {
		// Hard preference violation, not a gradual penalty.
		return 0
	}

	switch diff := absDiff(a.Age, b.Age); {
	case diff <= 2:
		return 100
	case diff <= 5:
		return 85
	case diff <= 10:
		return 70
	case diff <= 15:
		return 50
	default:
		return 25
	}
}

type subScores struct {
	personality float64
	interests   float64
	location    float64
	age         float64
	lifestyle   float64
}

// reasons builds up to three human-readable highlights, in fixed priority
// order so output stays deterministic.
func reasons(scores subScores, a, b *models.Profile) []string {
	var out []string

	if scores.interests > 70 {
		if shared := sharedInterests(a.Interests, b.Interests); len(shared) > 0 {
			if len(shared) > 2 {
				shared = shared[:2]
			}
			out = append(out, fmt.Sprintf("You both enjoy %s", strings.Join(shared, " and ")))
		}
	}
	if scores.personality > 75 {
		out = append(out, "Your personalities complement each other well")
	}
	if scores.location > 80 {
		out = append(out, "You're in the same area - perfect for meeting up!")
	}
	if scores.age > 85 {
		out = append(out, "You're in similar life stages")
	}
	if scores.lifestyle > 70 {
		out = append(out, "Your lifestyles seem compatible")
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func concerns(a, b *models.Profile) []string {
	var out []string

	if absDiff(a.Age, b.Age) > 10 {
		out = append(out, "Significant age difference might affect compatibility")
	}

	if a.Preferences != nil && len(a.Preferences.DealBreakers) > 0 {
		bio := strings.ToLower(b.Bio)
		for _, dealBreaker := range a.Preferences.DealBreakers {
			needle := strings.ToLower(dealBreaker)
			if strings.Contains(bio, needle) || interestsContain(b.Interests, needle) {
				out = append(out, "May have conflicting lifestyle preferences")
				break
			}
		}
	}

	return out
}

func interestsContain(interests []string, needle string) bool {
	for _, interest := range interests {
		if strings.Contains(strings.ToLower(interest), needle) {
			return true
		}
	}
	return false
}

// TraitsFromBio infers Big Five traits from free bio text using the keyword
// heuristic. It exists for collaborators that backfill missing trait data;
// Score never calls it implicitly.
func TraitsFromBio(bio string) models.PersonalityTraits {
	text := strings.ToLower(bio)

	neuroticism := 50 - keywordScore(text, neuroticismKeywords)
	if neuroticism < 0 {
		neuroticism = 0
	}

	return models.PersonalityTraits{
		Openness:          keywordScore(text, opennessKeywords),
		Conscientiousness: keywordScore(text, conscientiousnessKeywords),
		Extraversion:      keywordScore(text, extraversionKeywords),
		Agreeableness:     keywordScore(text, agreeablenessKeywords),
		Neuroticism:       neuroticism,
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
