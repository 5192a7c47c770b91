package cob

import (
	"encoding/json"
	"sort"
	"sync"
)

// Decoder turns the bytes of one action blob into an action value.
type Decoder[A any] interface {
	Decode(data []byte) (A, error)
}

// DecoderFunc adapts a function to a Decoder.
type DecoderFunc[A any] func(data []byte) (A, error)

// Decode calls f(data).
func (f DecoderFunc[A]) Decode(data []byte) (A, error) {
	return f(data)
}

// JSONDecoder decodes actions stored as JSON documents.
type JSONDecoder[A any] struct{}

// Decode unmarshals data into a fresh A.
func (JSONDecoder[A]) Decode(data []byte) (A, error) {
	var action A
	err := json.Unmarshal(data, &action)
	return action, err
}

// Erase wraps a typed decoder so that it can be stored next to decoders of
// other action types.
func Erase[A any](d Decoder[A]) Decoder[any] {
	return DecoderFunc[any](func(data []byte) (any, error) {
		return d.Decode(data)
	})
}

// Registry selects an action decoder by COB type name.
type Registry struct {
	mu       sync.RWMutex
	decoders map[TypeName]Decoder[any]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[TypeName]Decoder[any])}
}

// Register sets the decoder for a type name, replacing any previous one.
func (r *Registry) Register(name TypeName, d Decoder[any]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[name] = d
}

// Lookup returns the decoder for a type name.
func (r *Registry) Lookup(name TypeName) (Decoder[any], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[name]
	return d, ok
}

// TypeNames returns the registered type names, sorted.
func (r *Registry) TypeNames() []TypeName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]TypeName, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
