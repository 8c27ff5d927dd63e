package mmconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mmtools/broker"
	"mmtools/types"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no record is stored for a symbol.
var ErrNotFound = errors.New("configuration not found")

const enableTradingField = "enable_trading"

// Store reads and writes configuration records. It never deletes.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Put overwrites the record for rec.Symbol and returns the stored JSON.
func (s *Store) Put(ctx context.Context, rec *types.ConfigRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	if err := s.rdb.Set(ctx, broker.ConfigKey(rec.Symbol), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("redis set error: %w", err)
	}

	return data, nil
}

// Publish sends payload to the config channel and returns the number of
// subscribers that received it.
func (s *Store) Publish(ctx context.Context, payload []byte) (int64, error) {
	n, err := s.rdb.Publish(ctx, broker.ConfigChannel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish error: %w", err)
	}
	return n, nil
}

// Get returns the raw JSON stored for symbol.
func (s *Store) Get(ctx context.Context, symbol string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, broker.ConfigKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return data, nil
}

// Transition describes one enable_trading update.
type Transition struct {
	Symbol string
	Old    bool
	New    bool
	Record []byte
}

// SetTrading rewrites enable_trading in the stored record and leaves every
// other field as it was, including fields this package does not know.
//
// The GET and SET are not atomic: a writer updating the same key in between
// loses its change. Callers are operators running one tool at a time.
func (s *Store) SetTrading(ctx context.Context, symbol string, enable bool) (*Transition, error) {
	data, err := s.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode record: %s is not a JSON object", broker.ConfigKey(symbol))
	}

	// an absent flag means the market maker trades
	old := true
	if raw, ok := doc[enableTradingField]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			old = v
		}
	}

	flag, _ := json.Marshal(enable)
	doc[enableTradingField] = flag

	updated, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	if err := s.rdb.Set(ctx, broker.ConfigKey(symbol), updated, 0).Err(); err != nil {
		return nil, fmt.Errorf("redis set error: %w", err)
	}

	return &Transition{Symbol: symbol, Old: old, New: enable, Record: updated}, nil
}

// Symbols lists the symbols that have a stored record, sorted.
func (s *Store) Symbols(ctx context.Context) ([]string, error) {
	var symbols []string

	iter := s.rdb.Scan(ctx, 0, broker.ConfigKeyPattern(), 100).Iterator()
	for iter.Next(ctx) {
		symbols = append(symbols, strings.TrimPrefix(iter.Val(), broker.ConfigKey("")))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan error: %w", err)
	}

	sort.Strings(symbols)
	return symbols, nil
}
