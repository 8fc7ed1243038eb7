// Package tui provides a Bubble Tea viewer that replays a saved episode
// round by round.
package tui

// History remembers submitted viewer commands for up/down recall. A
// command entered again moves to the newest slot instead of repeating.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records cmd as the newest command and stops browsing.
func (h *History) Push(cmd string) {
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.pos = len(h.entries)
}

// Prev steps to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps to a newer command. It reports false once past the newest,
// meaning the input should be cleared.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return "", false
	}
	return h.entries[h.pos], true
}

// Len returns the number of remembered commands.
func (h *History) Len() int {
	return len(h.entries)
}
