package netfile

import (
	"iter"
	"slices"
)

// ChannelMap maps outbound channel UUIDs to their reliability and remembers
// insertion order, which is the order channels appear in the document.
// The zero value and a nil *ChannelMap are both empty.
type ChannelMap struct {
	order  []string
	values map[string]Reliability
}

func NewChannelMap() *ChannelMap {
	return &ChannelMap{values: make(map[string]Reliability)}
}

// SortedChannels copies m into a ChannelMap ordered by ascending uuid.
func SortedChannels(m map[string]Reliability) *ChannelMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	channels := NewChannelMap()
	for _, k := range keys {
		channels.Set(k, m[k])
	}
	return channels
}

// Set adds a channel at the end, or replaces the value of an existing one
// without moving it.
func (m *ChannelMap) Set(uuid string, r Reliability) {
	if m.values == nil {
		m.values = make(map[string]Reliability)
	}
	if _, ok := m.values[uuid]; !ok {
		m.order = append(m.order, uuid)
	}
	m.values[uuid] = r
}

func (m *ChannelMap) Get(uuid string) (Reliability, bool) {
	if m == nil {
		return nil, false
	}
	r, ok := m.values[uuid]
	return r, ok
}

func (m *ChannelMap) Delete(uuid string) {
	if m == nil {
		return
	}
	if _, ok := m.values[uuid]; !ok {
		return
	}
	delete(m.values, uuid)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == uuid })
}

func (m *ChannelMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

func (m *ChannelMap) UUIDs() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// All yields channels in insertion order.
func (m *ChannelMap) All() iter.Seq2[string, Reliability] {
	return func(yield func(string, Reliability) bool) {
		if m == nil {
			return
		}
		for _, id := range m.order {
			if !yield(id, m.values[id]) {
				return
			}
		}
	}
}
