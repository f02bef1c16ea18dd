package tiles

// FocusHistory is a bounded most-recently-focused list.
type FocusHistory struct {
	size int
	ids  []WindowID
}

func NewFocusHistory(size int) *FocusHistory {
	if size < 1 {
		size = 1
	}
	return &FocusHistory{size: size}
}

// Resized returns a history of the given size keeping the most recent ids
// of h. A nil h gives an empty history.
func (h *FocusHistory) Resized(size int) *FocusHistory {
	out := NewFocusHistory(size)
	if h == nil {
		return out
	}
	out.ids = append(out.ids, h.ids[:min(len(h.ids), out.size)]...)
	return out
}

// Push moves id to the front.
func (h *FocusHistory) Push(id WindowID) {
	h.Remove(id)
	h.ids = append([]WindowID{id}, h.ids...)
	if len(h.ids) > h.size {
		h.ids = h.ids[:h.size]
	}
}

// Remove forgets id.
func (h *FocusHistory) Remove(id WindowID) {
	for i, v := range h.ids {
		if v == id {
			h.ids = append(h.ids[:i], h.ids[i+1:]...)
			return
		}
	}
}

// Latest returns the most recently focused window.
func (h *FocusHistory) Latest() (WindowID, bool) {
	if len(h.ids) == 0 {
		return 0, false
	}
	return h.ids[0], true
}

// Rank returns the position of id, 0 being the most recent, or -1.
func (h *FocusHistory) Rank(id WindowID) int {
	for i, v := range h.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// IDs returns the history, most recent first.
func (h *FocusHistory) IDs() []WindowID {
	return append([]WindowID(nil), h.ids...)
}
