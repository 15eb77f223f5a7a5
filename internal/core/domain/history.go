package domain

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single utterance in a conversation.
type Turn struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the utterance text.
	Content string
}

// History is a bounded window of the most recent conversation turns.
// It is auxiliary context for generation only and never participates in
// retrieval ranking. A History belongs to exactly one caller session and
// must not be shared across concurrent sessions.
type History struct {
	turns  []Turn
	window int
}

// NewHistory creates a history keeping at most window user/assistant
// exchanges (window*2 turns). A non-positive window keeps nothing.
func NewHistory(window int) *History {
	return &History{window: window}
}

// Append records a completed exchange, evicting the oldest exchange once
// the window is full.
func (h *History) Append(query, answer string) {
	if h.window <= 0 {
		return
	}
	h.turns = append(h.turns,
		Turn{Role: RoleUser, Content: query},
		Turn{Role: RoleAssistant, Content: answer},
	)
	if max := h.window * 2; len(h.turns) > max {
		h.turns = h.turns[len(h.turns)-max:]
	}
}

// Turns returns the retained turns, oldest first. The returned slice is a
// copy; mutating it does not affect the history.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of retained turns.
func (h *History) Len() int {
	return len(h.turns)
}
