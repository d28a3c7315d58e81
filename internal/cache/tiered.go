package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Tiered puts a small LRU in front of a backing store so repeated reads of
// the same graph or feature blob within one batch skip the disk.
type Tiered struct {
	mem     *lru.Cache[string, []byte]
	backing Store
}

func NewTiered(entries int, backing Store) (*Tiered, error) {
	mem, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, fmt.Errorf("cache: memory tier: %w", err)
	}
	return &Tiered{mem: mem, backing: backing}, nil
}

func (t *Tiered) Get(key string) ([]byte, error) {
	if val, ok := t.mem.Get(key); ok {
		return val, nil
	}
	val, err := t.backing.Get(key)
	if err != nil {
		return nil, err
	}
	t.mem.Add(key, val)
	return val, nil
}

// Set keeps the value in the memory tier even when the backing write fails;
// a failed disk write must not cost the running request its data.
func (t *Tiered) Set(key string, val []byte) error {
	t.mem.Add(key, val)
	return t.backing.Set(key, val)
}

func (t *Tiered) Exists(key string) bool {
	return t.mem.Contains(key) || t.backing.Exists(key)
}

func (t *Tiered) Clear() error {
	t.mem.Purge()
	return t.backing.Clear()
}
