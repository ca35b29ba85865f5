package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dictation/internal/domain"
)

// SegmentPort is the TUI-facing subset of the lesson service.
type SegmentPort interface {
	Segment(text string) []domain.Sentence
}

// paragraphRef points at one paragraph of an ingested lesson.
type paragraphRef struct {
	lesson    *domain.Lesson
	paragraph domain.Paragraph
}

// Model is the Bubble Tea model for the segmentation preview.
type Model struct {
	service    SegmentPort
	input      textinput.Model
	viewport   viewport.Model
	paragraphs []paragraphRef
	typed      []domain.Sentence
	showTyped  bool
	maxLen     int
	summary    string
	status     string
	cursor     int
	ready      bool
}

// New creates a new TUI model instance. Sentences longer than maxLen
// ideographs are highlighted.
func New(service SegmentPort, lessons []domain.Lesson, maxLen int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type Chinese text and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	m := Model{service: service, input: ti, viewport: vp, maxLen: maxLen}
	sentences := 0
	for i := range lessons {
		for _, p := range lessons[i].Paragraphs {
			m.paragraphs = append(m.paragraphs, paragraphRef{lesson: &lessons[i], paragraph: p})
			sentences += len(p.Sentences)
		}
	}
	m.summary = fmt.Sprintf("%d lessons, %d paragraphs, %d sentences, max %d ideographs",
		len(lessons), len(m.paragraphs), sentences, maxLen)
	if len(m.paragraphs) > 0 {
		m.status = "Loaded. Up/Down browse paragraphs, type to segment."
	} else {
		m.status = "Type to segment."
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around the sentence and input boxes
		_, rh := sentenceBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.typed = m.service.Segment(text)
				m.showTyped = true
				m.status = fmt.Sprintf("%d sentences", len(m.typed))
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "down":
			if len(m.paragraphs) > 0 {
				if !m.showTyped {
					m.cursor = (m.cursor + 1) % len(m.paragraphs)
				}
				m.showTyped = false
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.paragraphs) > 0 {
				if !m.showTyped {
					m.cursor = (m.cursor - 1 + len(m.paragraphs)) % len(m.paragraphs)
				}
				m.showTyped = false
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current paragraph.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Dictation Preview")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := sentenceBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderCurrent() string {
	if m.showTyped {
		return "Typed text\n\n" + m.renderSentences(m.typed)
	}
	if len(m.paragraphs) == 0 {
		return "No lessons loaded."
	}
	ref := m.paragraphs[m.cursor]
	title := fmt.Sprintf("%s  paragraph %d/%d", ref.lesson.Title, m.cursor+1, len(m.paragraphs))
	if ref.paragraph.Title != "" && ref.paragraph.Title != ref.lesson.Title {
		title += "  " + ref.paragraph.Title
	}
	out := title + "\n"
	if len(ref.lesson.Words) > 0 {
		out += wordsStyle.Render("Words: "+strings.Join(ref.lesson.Words, " ")) + "\n"
	}
	return out + "\n" + m.renderSentences(ref.paragraph.Sentences)
}

func (m Model) renderSentences(sentences []domain.Sentence) string {
	if len(sentences) == 0 {
		return "No sentences."
	}
	lines := make([]string, len(sentences))
	for i, s := range sentences {
		line := fmt.Sprintf("%2d. %s (%d)", i+1, s.Text, s.Hanzi)
		if m.maxLen > 0 && s.Hanzi > m.maxLen {
			line = oversizeStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

var (
	sentenceBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	wordsStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	oversizeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
