package graphic

import "sync"

// DefaultMaxLayerFeatures bounds a Layer created with a non-positive limit.
const DefaultMaxLayerFeatures = 5000

// Layer is an in-memory display layer. Features stay until Clear or until
// newer features push them past the limit, oldest first.
type Layer struct {
	mu          sync.RWMutex
	features    []RenderableFeature
	maxFeatures int
}

// NewLayer returns a layer holding at most maxFeatures features.
func NewLayer(maxFeatures int) *Layer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxLayerFeatures
	}
	return &Layer{maxFeatures: maxFeatures}
}

// Add appends features, evicting the oldest ones beyond the limit. It
// returns the new layer size and how many features were evicted.
func (l *Layer) Add(features ...RenderableFeature) (size, evicted int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.features = append(l.features, features...)
	if over := len(l.features) - l.maxFeatures; over > 0 {
		kept := make([]RenderableFeature, l.maxFeatures)
		copy(kept, l.features[over:])
		l.features = kept
		evicted = over
	}
	return len(l.features), evicted
}

// Features returns a snapshot of the layer contents.
func (l *Layer) Features() []RenderableFeature {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]RenderableFeature, len(l.features))
	copy(out, l.features)
	return out
}

// Clear removes every feature and returns how many were removed.
func (l *Layer) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.features)
	l.features = nil
	return n
}

func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.features)
}

// MaxFeatures is the layer's capacity.
func (l *Layer) MaxFeatures() int {
	return l.maxFeatures
}
