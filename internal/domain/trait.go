package domain

// Big Five trait names in canonical OCEAN order.
const (
	TraitOpenness          = "Openness"
	TraitConscientiousness = "Conscientiousness"
	TraitExtraversion      = "Extraversion"
	TraitAgreeableness     = "Agreeableness"
	TraitNeuroticism       = "Neuroticism"
)

// TraitOrder is the order used for charts, breakdowns and the narrative prompt.
var TraitOrder = []string{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

// Response maps a questionnaire item (1..44) to its raw Likert value (1..5).
type Response map[int]int

// KeyedItem is one questionnaire item inside a trait key.
type KeyedItem struct {
	Index   int
	Reverse bool
}

// TraitKey lists the items that contribute to a single trait.
type TraitKey struct {
	Trait string
	Items []KeyedItem
}

// ScoringKey is the ordered set of trait keys used to score a Response.
type ScoringKey []TraitKey

// TraitPercentage is a normalized 0..100 score for one trait.
type TraitPercentage struct {
	Trait      string  `json:"trait"`
	Percentage float64 `json:"percentage"`
}

// TraitScore is the ordered result of scoring one Response.
type TraitScore []TraitPercentage

// Percent returns the percentage for trait, if present.
func (s TraitScore) Percent(trait string) (float64, bool) {
	for _, tp := range s {
		if tp.Trait == trait {
			return tp.Percentage, true
		}
	}
	return 0, false
}

// Map flattens the score for consumers that want name lookups.
func (s TraitScore) Map() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, tp := range s {
		out[tp.Trait] = tp.Percentage
	}
	return out
}

// Ordered returns the score in TraitOrder. Traits absent from s are reported as 0.
func (s TraitScore) Ordered() TraitScore {
	out := make(TraitScore, 0, len(TraitOrder))
	for _, trait := range TraitOrder {
		pct, _ := s.Percent(trait)
		out = append(out, TraitPercentage{Trait: trait, Percentage: pct})
	}
	return out
}
