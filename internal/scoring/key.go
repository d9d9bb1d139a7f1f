package scoring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ocean-report/internal/domain"
)

var (
	ErrEmptyKey    = errors.New("scoring key has no traits")
	ErrEmptyTrait  = errors.New("scoring key trait has no items")
	ErrItemOverlap = errors.New("scoring key item assigned twice")
	ErrItemMissing = errors.New("scoring key does not cover every item")
	ErrItemRange   = errors.New("scoring key item out of range")
)

// DefaultKey returns the BFI-44 key. "R" items are reverse-keyed.
func DefaultKey() domain.ScoringKey {
	return domain.ScoringKey{
		{Trait: domain.TraitExtraversion, Items: items("1", "6R", "11", "16", "21R", "26", "31R", "36")},
		{Trait: domain.TraitAgreeableness, Items: items("2R", "7", "12R", "17", "22", "27R", "32", "37R", "42")},
		{Trait: domain.TraitConscientiousness, Items: items("3", "8R", "13", "18R", "23R", "28", "33", "38", "43R")},
		{Trait: domain.TraitNeuroticism, Items: items("4", "9R", "14", "19", "24R", "29", "34R", "39")},
		{Trait: domain.TraitOpenness, Items: items("5", "10", "15", "20", "25", "30", "35R", "40", "41R", "44")},
	}
}

func items(specs ...string) []domain.KeyedItem {
	out := make([]domain.KeyedItem, 0, len(specs))
	for _, s := range specs {
		item, err := ParseItem(s)
		if err != nil {
			panic(err)
		}
		out = append(out, item)
	}
	return out
}

// ParseItem reads an item written as "12" (forward) or "12R" (reverse).
func ParseItem(raw string) (domain.KeyedItem, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	reverse := strings.HasSuffix(s, "R")
	s = strings.TrimSuffix(s, "R")
	idx, err := strconv.Atoi(s)
	if err != nil {
		return domain.KeyedItem{}, fmt.Errorf("parse item %q: %w", raw, err)
	}
	return domain.KeyedItem{Index: idx, Reverse: reverse}, nil
}

// Validate checks that key partitions 1..total with no overlap and no empty trait.
func Validate(key domain.ScoringKey, total int) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	seen := make(map[int]string, total)
	for _, tk := range key {
		if len(tk.Items) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyTrait, tk.Trait)
		}
		for _, item := range tk.Items {
			if item.Index < 1 || item.Index > total {
				return fmt.Errorf("%w: %s item %d", ErrItemRange, tk.Trait, item.Index)
			}
			if prev, dup := seen[item.Index]; dup {
				return fmt.Errorf("%w: item %d in %s and %s", ErrItemOverlap, item.Index, prev, tk.Trait)
			}
			seen[item.Index] = tk.Trait
		}
	}
	if len(seen) != total {
		return fmt.Errorf("%w: %d of %d assigned", ErrItemMissing, len(seen), total)
	}
	return nil
}

// keyFile is the YAML layout of an alternative key:
//
//	traits:
//	  - name: Extraversion
//	    items: [1, 6R, 11]
type keyFile struct {
	Traits []struct {
		Name  string   `yaml:"name"`
		Items []string `yaml:"items"`
	} `yaml:"traits"`
}

// LoadKeyFile reads and validates a scoring key from disk.
func LoadKeyFile(path string) (domain.ScoringKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("load scoring key: %w", err)
	}
	var payload keyFile
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse scoring key: %w", err)
	}
	key := make(domain.ScoringKey, 0, len(payload.Traits))
	for _, t := range payload.Traits {
		tk := domain.TraitKey{Trait: strings.TrimSpace(t.Name)}
		for _, raw := range t.Items {
			item, err := ParseItem(raw)
			if err != nil {
				return nil, err
			}
			tk.Items = append(tk.Items, item)
		}
		key = append(key, tk)
	}
	if err := Validate(key, TotalItems); err != nil {
		return nil, err
	}
	return key, nil
}
