package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"topictag/internal/domain"
)

// TopicPort is the TUI-facing subset of the tagging service.
type TopicPort interface {
	Extract(text string, nTopics int) ([]domain.TopicDescriptor, error)
	Tag(ctx context.Context, job domain.Job) ([]domain.TopicDescriptor, error)
}

// Model is the Bubble Tea model for the topic explorer.
type Model struct {
	ctx      context.Context
	service  TopicPort
	input    textinput.Model
	viewport viewport.Model
	job      domain.Job
	topics   []domain.TopicDescriptor
	lastText string
	status   string
	ready    bool
}

// New creates a topic explorer. job supplies the initial text, topic count
// and the record ctrl+s writes to; ctx bounds those writes.
func New(ctx context.Context, service TopicPort, job domain.Job) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type or paste text and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	ti.SetValue(job.Text)
	if job.NTopics < 1 {
		job.NTopics = 1
	}
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, service: service, input: ti, viewport: vp, job: job, status: "Enter extracts, up/down changes the topic count, ctrl+s writes metadata."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+target, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderTopics())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m = m.extract()
			return m, nil
		case "up":
			m.job.NTopics++
			m = m.extract()
			return m, nil
		case "down":
			if m.job.NTopics > 1 {
				m.job.NTopics--
				m = m.extract()
			}
			return m, nil
		case "ctrl+s":
			m = m.tag()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) extract() Model {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.status = "Nothing to extract."
		return m
	}
	topics, err := m.service.Extract(text, m.job.NTopics)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.topics = nil
	} else {
		m.status = fmt.Sprintf("%d topics", len(topics))
		m.topics = topics
		m.lastText = text
	}
	m.viewport.SetContent(m.renderTopics())
	return m
}

func (m Model) tag() Model {
	if m.job.IndexName == "" || m.job.VectorID == "" {
		m.status = "No target record: pass -index and -id."
		return m
	}
	job := m.job
	job.Text = strings.TrimSpace(m.input.Value())
	topics, err := m.service.Tag(m.ctx, job)
	if err != nil {
		m.status = "Error: " + err.Error()
		return m
	}
	m.topics = topics
	m.lastText = job.Text
	m.status = fmt.Sprintf("Wrote %d topics to %s/%s", len(topics), job.IndexName, job.VectorID)
	m.viewport.SetContent(m.renderTopics())
	return m
}

// View renders the TUI layout and current topics.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Topic Explorer  (%d topics)", m.job.NTopics))
	target := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.targetLine())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + target + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) targetLine() string {
	if m.job.IndexName == "" || m.job.VectorID == "" {
		return "target: none"
	}
	return "target: " + m.job.IndexName + "/" + m.job.VectorID
}

func (m Model) renderTopics() string {
	if len(m.topics) == 0 {
		return "No topics yet."
	}
	var b strings.Builder
	terms := make(map[string]struct{})
	for _, t := range m.topics {
		fmt.Fprintf(&b, "Topic %d: %s\n", t.Topic, strings.Join(t.Words, ", "))
		for _, w := range t.Words {
			terms[w] = struct{}{}
		}
	}
	b.WriteString("\n")
	b.WriteString(highlightTerms(m.lastText, terms))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+`)
)

// highlightTerms renders every word of text that is one of the topic terms.
func highlightTerms(text string, terms map[string]struct{}) string {
	if len(terms) == 0 {
		return text
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(word string) string {
		if _, ok := terms[strings.ToLower(word)]; ok {
			return highlightStyle.Render(word)
		}
		return word
	})
}
