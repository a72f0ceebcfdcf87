package pipeline

import "pkgscan/internal/repo"

type indexedStream struct {
	stream ItemStream
	idx    int
}

// InterleavedSources merges multiple independently-paced item streams into
// one globally ordered stream. It buffers at most one not-yet-emitted item
// per still-alive stream; on each advance the smallest buffered item wins,
// ties going to the lower pipeline index. Downstream runners rely on this
// order matching repository-definition order.
type InterleavedSources struct {
	streams  []indexedStream
	buffered map[int]any
	err      error
}

func NewInterleavedSources(streams []ItemStream) *InterleavedSources {
	m := &InterleavedSources{buffered: make(map[int]any)}
	for i, s := range streams {
		m.streams = append(m.streams, indexedStream{stream: s, idx: i})
	}
	return m
}

// Next returns the next item in merged order along with the index of the
// pipeline it belongs to. It reports false when every stream is exhausted
// or one of them failed; Err distinguishes the two.
func (m *InterleavedSources) Next() (any, int, bool) {
	if m.err != nil {
		return nil, 0, false
	}

	// Fast path: a single live stream with nothing buffered needs no
	// comparisons.
	if len(m.streams) == 1 && len(m.buffered) == 0 {
		s := m.streams[0]
		item, ok := s.stream.Next()
		if !ok {
			m.streams = nil
			m.err = s.stream.Err()
			return nil, 0, false
		}
		return item, s.idx, true
	}

	// Refill: pull a fresh item for every stream lacking a buffered one,
	// dropping streams that report exhaustion.
	live := m.streams[:0]
	for _, s := range m.streams {
		if _, ok := m.buffered[s.idx]; ok {
			live = append(live, s)
			continue
		}
		item, ok := s.stream.Next()
		if !ok {
			if err := s.stream.Err(); err != nil {
				m.err = err
				return nil, 0, false
			}
			continue
		}
		m.buffered[s.idx] = item
		live = append(live, s)
	}
	m.streams = live

	if len(m.buffered) == 0 {
		return nil, 0, false
	}

	best := -1
	var bestItem any
	for _, s := range m.streams {
		item, ok := m.buffered[s.idx]
		if !ok {
			continue
		}
		if best == -1 || repo.CompareItems(item, bestItem) < 0 {
			best = s.idx
			bestItem = item
		}
	}
	delete(m.buffered, best)
	return bestItem, best, true
}

func (m *InterleavedSources) Err() error {
	return m.err
}
