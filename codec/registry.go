package codec

import (
	"slices"
	"sync"
)

// Registry manages the available sample codecs
type Registry struct {
	mu     sync.RWMutex
	codecs map[int]Codec // keyed by bits allocated
}

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[int]Codec)}
}

// Register registers a codec in the default registry
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a codec for a sample depth from the default registry
func Get(bitsAllocated int) (Codec, error) {
	return defaultRegistry.Get(bitsAllocated)
}

// List returns all codecs of the default registry
func List() []Codec {
	return defaultRegistry.List()
}

// Register registers a codec under its sample depth, replacing any previous one
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[codec.BitsAllocated()] = codec
}

// Get retrieves the codec for bitsAllocated
func (r *Registry) Get(bitsAllocated int) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[bitsAllocated]
	if !ok {
		return nil, ErrUnsupportedDepth
	}
	return codec, nil
}

// List returns all registered codecs ordered by sample depth
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	depths := make([]int, 0, len(r.codecs))
	for bits := range r.codecs {
		depths = append(depths, bits)
	}
	slices.Sort(depths)

	codecs := make([]Codec, 0, len(depths))
	for _, bits := range depths {
		codecs = append(codecs, r.codecs[bits])
	}
	return codecs
}
