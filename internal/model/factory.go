package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Size limits for generic variants.
const (
	MinSize = 2
	MaxSize = 7
)

// ErrUnknownVariant is returned for names with no registered constructor.
var ErrUnknownVariant = errors.New("model: unknown puzzle variant")

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Variant{}
)

func init() {
	Register("cube2", func() Variant { return NewCube2() })
	Register("cube3", func() Variant { return NewCube3() })
	Register("cube4", func() Variant { return NewCube4() })
	for n := 5; n <= MaxSize; n++ {
		size := n
		Register(fmt.Sprintf("cube%d", size), func() Variant { return NewCubeN(size) })
	}
}

// Register adds or replaces a variant constructor.
func Register(name string, fn func() Variant) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// Create builds a registered variant by name.
func Create(name string) (Variant, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return fn(), nil
}

// ForSize builds the variant registered for an N×N×N puzzle.
func ForSize(n int) (Variant, error) {
	if n < MinSize || n > MaxSize {
		return nil, fmt.Errorf("%w: size %d", ErrUnknownVariant, n)
	}
	return Create(fmt.Sprintf("cube%d", n))
}

// Types lists registered variant names in sorted order.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
