package scorer

import "strings"

// lifestyleKeywords groups bio vocabulary into the five lifestyle categories
// the lifestyle sub-score compares.
var lifestyleKeywords = map[string][]string{
	"active":   {"gym", "fitness", "hiking", "running", "sports", "yoga"},
	"social":   {"party", "social", "friends", "outgoing", "events"},
	"homebody": {"home", "cozy", "quiet", "reading", "movies", "netflix"},
	"travel":   {"travel", "adventure", "explore", "wanderlust", "passport"},
	"career":   {"career", "ambitious", "professional", "work", "business"},
}

// lifestyleCategories is the deterministic iteration order over the map above.
var lifestyleCategories = []string{"active", "social", "homebody", "travel", "career"}

func bioMentionsAny(bio string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(bio, kw) {
			return true
		}
	}
	return false
}

// scoreLifestyle compares the lifestyle categories referenced by either bio.
// Base 50 when neither bio references any category; otherwise the share of
// referenced categories both bios mention, floored at 30.
func scoreLifestyle(bioA, bioB string) int {
	a := strings.ToLower(bioA)
	b := strings.ToLower(bioB)

	common, total := 0, 0
	for _, category := range lifestyleCategories {
		keywords := lifestyleKeywords[category]
		aHas := bioMentionsAny(a, keywords)
		bHas := bioMentionsAny(b, keywords)
		if aHas || bHas {
			total++
			if aHas && bHas {
				common++
			}
		}
	}

	score := 50.0
	if total > 0 {
		score = float64(common) / float64(total) * 100
	}
	if score < 30 {
		return 30
	}
	return int(score)
}

// Trait inference vocabulary for TraitsFromBio.
var (
	opennessKeywords          = []string{"creative", "art", "music", "travel", "adventure", "new", "explore"}
	conscientiousnessKeywords = []string{"organized", "plan", "goal", "career", "responsible", "reliable"}
	extraversionKeywords      = []string{"social", "party", "friends", "outgoing", "people", "fun"}
	agreeablenessKeywords     = []string{"kind", "caring", "help", "family", "love", "compassionate"}
	neuroticismKeywords       = []string{"stress", "worry", "anxious", "emotional", "sensitive"}
)

func keywordScore(text string, keywords []string) int {
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	score := 50 + matches*10
	if score > 100 {
		return 100
	}
	return score
}
