package broadphase

import (
	"math/bits"
	"strconv"
	"strings"
)

// LayerCount is the number of collision layers a LayerMask can hold.
const LayerCount = 128

// LayerMask is the set of collision layers an entity belongs to, or that a
// query is interested in.
type LayerMask [LayerCount / 64]uint64

// NewLayerMask returns a mask with the given layers set. Layers outside
// [0, LayerCount) are ignored.
func NewLayerMask(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m.Set(l)
	}
	return m
}

// AllLayers has every layer set.
func AllLayers() LayerMask {
	var m LayerMask
	for i := range m {
		m[i] = ^uint64(0)
	}
	return m
}

func (m *LayerMask) Set(layer int) {
	if layer < 0 || layer >= LayerCount {
		return
	}
	m[layer/64] |= 1 << uint(layer%64)
}

func (m *LayerMask) Clear(layer int) {
	if layer < 0 || layer >= LayerCount {
		return
	}
	m[layer/64] &^= 1 << uint(layer%64)
}

func (m LayerMask) Has(layer int) bool {
	if layer < 0 || layer >= LayerCount {
		return false
	}
	return m[layer/64]&(1<<uint(layer%64)) != 0
}

// Intersects reports whether m and o share at least one layer.
func (m LayerMask) Intersects(o LayerMask) bool {
	for i := range m {
		if m[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

func (m LayerMask) Empty() bool {
	for _, w := range m {
		if w != 0 {
			return false
		}
	}
	return true
}

// Layers lists the set layers in ascending order.
func (m LayerMask) Layers() []int {
	var out []int
	for i, w := range m {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, i*64+b)
			w &^= 1 << uint(b)
		}
	}
	return out
}

func (m LayerMask) String() string {
	layers := m.Layers()
	parts := make([]string, len(layers))
	for i, l := range layers {
		parts[i] = strconv.Itoa(l)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// compatible is the query filter: a nil mask matches everything.
func compatible(query *LayerMask, layers LayerMask) bool {
	return query == nil || query.Intersects(layers)
}
