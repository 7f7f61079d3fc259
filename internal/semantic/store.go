package semantic

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store is the read-only centroid document produced offline by the vector
// store builder. One centroid per intent, all sharing meta.Dimensions.
type Store struct {
	Meta    Meta           `json:"meta"`
	Intents []IntentVector `json:"intents"`
}

type Meta struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	CreatedAt  string `json:"created_at"`
}

type IntentVector struct {
	Intent   string    `json:"intent"`
	Examples []string  `json:"examples"`
	Centroid []float64 `json:"centroid"`
}

// LoadStore reads and validates a centroid store file. A missing file is
// reported via os.IsNotExist on the wrapped error so callers can treat it
// as "feature unavailable" rather than a fault.
func LoadStore(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Store
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode centroid store: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Store) validate() error {
	if len(s.Intents) == 0 {
		return fmt.Errorf("centroid store has no intents")
	}

	seen := make(map[string]bool, len(s.Intents))
	for _, iv := range s.Intents {
		if iv.Intent == "" {
			return fmt.Errorf("centroid store entry with empty intent name")
		}
		if seen[iv.Intent] {
			return fmt.Errorf("duplicate intent %q in centroid store", iv.Intent)
		}
		seen[iv.Intent] = true

		if s.Meta.Dimensions > 0 && len(iv.Centroid) != s.Meta.Dimensions {
			return fmt.Errorf("intent %q centroid has %d dimensions, want %d",
				iv.Intent, len(iv.Centroid), s.Meta.Dimensions)
		}
	}
	return nil
}
