package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/supabase-community/supabase-go"
)

// DefaultSupabaseTable is the PostgREST table used when none is configured.
// Expected shape: key text primary key, value text not null.
const DefaultSupabaseTable = "kv_store"

// SupabaseConfig configures the hosted backend KV.
type SupabaseConfig struct {
	URL   string
	Key   string
	Table string
}

// SupabaseKV implements KV on a Supabase (PostgREST) table, so progress
// follows the learner across devices. Row-level access control is left to
// the hosted backend.
type SupabaseKV struct {
	client *supabase.Client
	table  string
}

type kvRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewSupabaseKV connects to the hosted backend.
func NewSupabaseKV(cfg SupabaseConfig) (*SupabaseKV, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, errors.New("supabase url and key are required")
	}
	client, err := supabase.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	table := cfg.Table
	if table == "" {
		table = DefaultSupabaseTable
	}
	return &SupabaseKV{client: client, table: table}, nil
}

// The supabase client has no context support, so cancellation is only
// honored before each request.

func (s *SupabaseKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []kvRow
	_, err := s.client.From(s.table).
		Select("key,value", "", false).
		Eq("key", key).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase get %q: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return []byte(rows[0].Value), nil
}

func (s *SupabaseKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(s.table).
		Upsert(kvRow{Key: key, Value: string(value)}, "key", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("supabase set %q: %w", key, err)
	}
	return nil
}

func (s *SupabaseKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(s.table).
		Delete("minimal", "").
		Eq("key", key).
		Execute()
	if err != nil {
		return fmt.Errorf("supabase delete %q: %w", key, err)
	}
	return nil
}

func (s *SupabaseKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []kvRow
	_, err := s.client.From(s.table).
		Select("key", "", false).
		Like("key", prefix+"*").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase keys %q: %w", prefix, err)
	}
	// LIKE treats '_' as a wildcard and every prefix here contains one.
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		if strings.HasPrefix(r.Key, prefix) {
			keys = append(keys, r.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
