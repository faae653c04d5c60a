package progress

import (
	"context"
	"fmt"

	"webdojo/internal/state"
)

// Store persists the Progress record under the gambia-coding-progress key.
type Store struct {
	kv       state.KV
	defaults func() Progress
}

func NewStore(kv state.KV, defaults func() Progress) *Store {
	return &Store{kv: kv, defaults: defaults}
}

// Load returns the saved record, or the defaults on first use. The level
// is always recomputed from the completion count.
func (s *Store) Load(ctx context.Context) (Progress, error) {
	var p Progress
	ok, err := state.GetJSON(ctx, s.kv, state.KeyProgress, &p)
	if err != nil {
		return Progress{}, fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return s.defaults(), nil
	}
	if p.CompletedChallenges == nil {
		p.CompletedChallenges = []int{}
	}
	p.Level = levelFor(len(p.CompletedChallenges))
	return p, nil
}

func (s *Store) Save(ctx context.Context, p Progress) error {
	if err := state.SetJSON(ctx, s.kv, state.KeyProgress, p); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
