package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
)

// NoContextMarker is inserted when retrieval returns nothing, so the
// model states that the knowledge base has no answer instead of
// improvising one.
const NoContextMarker = "No relevant context was found in the knowledge base."

// groundingInstruction is the system prompt enforcing the grounding
// contract: answers come from the supplied context or not at all.
const groundingInstruction = `You are a knowledge base assistant. Answer the user's question using ONLY the context below.
Each context passage is tagged with its source document. Mention the sources your answer draws on.
If the context does not contain the information needed, say the knowledge base does not cover it. Do not guess.`

// Assembler turns ranked search results into the generation prompt.
type Assembler struct {
	budget int
}

// NewAssembler creates an assembler with a context budget in characters.
// The budget bounds only the retrieved passages; the instruction, history,
// and question are never truncated.
func NewAssembler(budget int) *Assembler {
	return &Assembler{budget: budget}
}

// Context renders ranked results as source-tagged passages, keeping
// highest-ranked passages until the budget is exhausted. No results
// yields the no-context marker.
func (a *Assembler) Context(results []domain.SearchResult) string {
	if len(results) == 0 {
		return NoContextMarker
	}

	var blocks []string
	used := 0
	for _, r := range results {
		block := fmt.Sprintf("[Source: %s]\n%s", r.Chunk.DocumentID, r.Chunk.Content)
		sep := 0
		if len(blocks) > 0 {
			sep = 2 // joining "\n\n"
		}
		if used+sep+len(block) > a.budget {
			// Even the best passage can overflow a tiny budget; keep a
			// truncated slice of it rather than sending no context at all.
			// The cut backs off to a rune boundary so the generator never
			// sees a torn multi-byte character.
			if len(blocks) == 0 {
				cut := a.budget
				for cut > 0 && !utf8.RuneStart(block[cut]) {
					cut--
				}
				blocks = append(blocks, block[:cut])
			}
			break
		}
		blocks = append(blocks, block)
		used += sep + len(block)
	}

	return strings.Join(blocks, "\n\n")
}

// Messages assembles the chat transcript: grounding instruction with
// context first, prior conversation turns next, the question last.
// History is rendered as plain turns; it never influences retrieval.
func (a *Assembler) Messages(question, contextBlock string, history *domain.History) []driven.ChatMessage {
	messages := []driven.ChatMessage{{
		Role:    "system",
		Content: groundingInstruction + "\n\nContext:\n" + contextBlock,
	}}

	if history != nil {
		for _, turn := range history.Turns() {
			messages = append(messages, driven.ChatMessage{
				Role:    turn.Role,
				Content: turn.Content,
			})
		}
	}

	return append(messages, driven.ChatMessage{
		Role:    domain.RoleUser,
		Content: question,
	})
}

// Sources lists the distinct source document IDs of the results, in rank
// order.
func Sources(results []domain.SearchResult) []string {
	seen := make(map[string]bool, len(results))
	var sources []string
	for _, r := range results {
		id := r.Chunk.DocumentID
		if !seen[id] {
			seen[id] = true
			sources = append(sources, id)
		}
	}
	return sources
}
