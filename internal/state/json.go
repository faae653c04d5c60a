package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetJSON decodes the value stored under key into out. It reports false
// and leaves out untouched when the key is absent.
func GetJSON(ctx context.Context, kv KV, key string, out any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(b))
}
