package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driving"
)

// ErrMissingQueryService is returned when no query service is provided.
var ErrMissingQueryService = errors.New("tui: query service is required")

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	question string
	answer   *domain.Answer
}

// answerErrMsg carries a failed answer back into the update loop.
type answerErrMsg struct {
	question string
	err      error
}

// Chat is the interactive chat model. It owns the conversation history
// for the session; the history is prompt context only and never affects
// retrieval.
type Chat struct {
	query   driving.QueryService
	history *domain.History

	ctx      context.Context
	styles   *Styles
	input    textinput.Model
	viewport viewport.Model

	// transcript holds the rendered conversation, newest last.
	transcript []string

	waiting bool
	width   int
	height  int
	ready   bool
}

// Ensure Chat implements tea.Model.
var _ tea.Model = (*Chat)(nil)

// NewChat creates the chat model. historyWindow bounds how many past
// exchanges are replayed into each prompt.
func NewChat(query driving.QueryService, historyWindow int) (*Chat, error) {
	if query == nil {
		return nil, ErrMissingQueryService
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512

	return &Chat{
		query:   query,
		history: domain.NewHistory(historyWindow),
		ctx:     context.Background(),
		styles:  DefaultStyles(),
		input:   ti,
	}, nil
}

// WithContext sets the context used for answer requests.
func (c *Chat) WithContext(ctx context.Context) *Chat {
	c.ctx = ctx
	return c
}

// Init initialises the chat model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyEnter:
			return c, c.submit()
		}

	case tea.WindowSizeMsg:
		c.resize(msg.Width, msg.Height)
		return c, nil

	case answerMsg:
		c.waiting = false
		c.history.Append(msg.question, msg.answer.Text)
		c.appendAnswer(msg.answer)
		return c, nil

	case answerErrMsg:
		c.waiting = false
		c.transcript = append(c.transcript,
			c.styles.Error.Render(fmt.Sprintf("Error: %v", msg.err)))
		c.refreshViewport()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// submit sends the current input as a question. Empty input and input
// while a previous question is in flight are ignored.
func (c *Chat) submit() tea.Cmd {
	question := strings.TrimSpace(c.input.Value())
	if question == "" || c.waiting {
		return nil
	}

	c.input.Reset()
	c.waiting = true
	c.transcript = append(c.transcript, c.styles.Question.Render("You: ")+question)
	c.refreshViewport()

	return c.ask(question)
}

// ask runs the answer request off the update loop.
func (c *Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.query.Answer(c.ctx, question, c.history)
		if err != nil {
			return answerErrMsg{question: question, err: err}
		}
		return answerMsg{question: question, answer: answer}
	}
}

// appendAnswer renders an answer with its sources into the transcript.
func (c *Chat) appendAnswer(answer *domain.Answer) {
	c.transcript = append(c.transcript, c.styles.Answer.Render(answer.Text))
	if len(answer.Sources) > 0 {
		c.transcript = append(c.transcript,
			c.styles.Sources.Render("Sources: "+strings.Join(answer.Sources, ", ")))
	}
	c.refreshViewport()
}

func (c *Chat) resize(width, height int) {
	c.width = width
	c.height = height

	// Header, input box, and help line take up the rest.
	viewportHeight := height - 6
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !c.ready {
		c.viewport = viewport.New(width, viewportHeight)
		c.ready = true
	} else {
		c.viewport.Width = width
		c.viewport.Height = viewportHeight
	}
	c.input.Width = width - 6
	c.refreshViewport()
}

func (c *Chat) refreshViewport() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(strings.Join(c.transcript, "\n\n"))
	c.viewport.GotoBottom()
}

// View renders the chat interface.
func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	title := c.styles.Title.Render("askdocs chat")
	status := ""
	if c.waiting {
		status = c.styles.Help.Render("Thinking...")
	}
	help := c.styles.Help.Render("Enter: send • Esc: quit")

	var b strings.Builder
	b.WriteString(title)
	if status != "" {
		b.WriteString("  " + status)
	}
	b.WriteString("\n\n")
	b.WriteString(c.viewport.View())
	b.WriteString("\n")
	b.WriteString(c.styles.InputField.Width(c.width - 2).Render(c.input.View()))
	b.WriteString("\n")
	b.WriteString(help)
	return b.String()
}

// Transcript returns the rendered transcript entries. For testing.
func (c *Chat) Transcript() []string {
	out := make([]string, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Waiting reports whether a question is in flight. For testing.
func (c *Chat) Waiting() bool {
	return c.waiting
}
