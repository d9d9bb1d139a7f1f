// Package scoring turns Likert questionnaire answers into normalized Big Five percentages.
package scoring

import (
	"math"

	"ocean-report/internal/domain"
)

const (
	MinValue = 1
	MaxValue = 5
	// ReverseConstant inverts a reverse-keyed answer: 6-1 = 5, 6-5 = 1.
	ReverseConstant = MinValue + MaxValue
	// NeutralValue stands in for any item the respondent did not answer.
	NeutralValue = 3
	// TotalItems is the length of the BFI-44 questionnaire.
	TotalItems = 44
)

// Score computes one normalized percentage per trait in key order.
// Missing items count as NeutralValue. The key must have passed Validate.
func Score(responses domain.Response, key domain.ScoringKey) domain.TraitScore {
	out := make(domain.TraitScore, 0, len(key))
	for _, tk := range key {
		raw := 0
		for _, item := range tk.Items {
			raw += resolve(responses, item)
		}
		out = append(out, domain.TraitPercentage{
			Trait:      tk.Trait,
			Percentage: Normalize(raw, len(tk.Items)),
		})
	}
	return out
}

func resolve(responses domain.Response, item domain.KeyedItem) int {
	v, ok := responses[item.Index]
	if !ok {
		v = NeutralValue
	}
	if item.Reverse {
		return ReverseConstant - v
	}
	return v
}

// Normalize maps a raw trait sum onto 0..100, rounded to one decimal.
// itemCount*MinValue maps to 0 and itemCount*MaxValue to 100.
func Normalize(raw, itemCount int) float64 {
	if itemCount <= 0 {
		return 0
	}
	span := float64(itemCount * (MaxValue - MinValue))
	pct := (float64(raw-itemCount*MinValue) / span) * 100
	pct = math.Round(pct*10) / 10
	return clamp(pct, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MissingItems lists the items in 1..total that have no answer, ascending.
func MissingItems(responses domain.Response, total int) []int {
	var missing []int
	for i := 1; i <= total; i++ {
		if _, ok := responses[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}
