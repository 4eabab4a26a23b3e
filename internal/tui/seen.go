// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// Movie is one selectable entry in the seen-movie picker.
type Movie struct {
	ID      string
	Title   string
	Theater string
	Seen    bool
}

type movieItem struct {
	Movie
}

func (i movieItem) FilterValue() string { return i.Title }

type movieDelegate struct {
	titleStyle   lipgloss.Style
	seenStyle    lipgloss.Style
	theaterStyle lipgloss.Style
	cursorStyle  lipgloss.Style
}

func newDelegate() movieDelegate {
	return movieDelegate{
		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		seenStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Strikethrough(true),
		theaterStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")).
			Faint(true),
		cursorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
	}
}

func (d movieDelegate) Height() int                         { return 1 }
func (d movieDelegate) Spacing() int                        { return 0 }
func (d movieDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d movieDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	movie, ok := item.(movieItem)
	if !ok {
		return
	}

	marker := "[ ]"
	titleStyle := d.titleStyle
	if movie.Seen {
		marker = "[x]"
		titleStyle = d.seenStyle
	}

	line := fmt.Sprintf("%s %s %s", marker, titleStyle.Render(movie.Title), d.theaterStyle.Render(movie.Theater))
	if idx == m.Index() {
		line = d.cursorStyle.Render("> ") + line
	} else {
		line = "  " + line
	}

	_, _ = fmt.Fprint(w, line)
}

type seenModel struct {
	list      list.Model
	movies    []Movie
	confirmed bool
}

func newSeenModel(movies []Movie) *seenModel {
	items := make([]list.Item, len(movies))
	for i, movie := range movies {
		items[i] = movieItem{Movie: movie}
	}

	l := list.New(items, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &seenModel{
		list:   l,
		movies: movies,
	}
}

func (m *seenModel) Init() tea.Cmd { return nil }

func (m *seenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "x":
			idx := m.list.Index()
			if idx >= 0 && idx < len(m.movies) {
				m.movies[idx].Seen = !m.movies[idx].Seen
				m.list.SetItem(idx, movieItem{Movie: m.movies[idx]})
			}
			return m, nil
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *seenModel) View() string {
	header := headerStyle.Render("Mark movies you have already seen")
	help := helpStyle.Render("Up/Down navigate | Space toggle | Enter save | q cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// MarkSeen presents an interactive toggle list over the given movies and
// returns the updated seen set. ok is false when the user cancelled instead
// of confirming, in which case no changes should be persisted.
func MarkSeen(movies []Movie) (map[string]bool, bool, error) {
	if len(movies) == 0 {
		return nil, false, nil
	}

	model := newSeenModel(movies)
	finalModel, err := runProgram(model)
	if err != nil {
		return nil, false, fmt.Errorf("seen selection UI failed: %w", err)
	}

	final, ok := finalModel.(*seenModel)
	if !ok || !final.confirmed {
		return nil, false, nil
	}

	seen := make(map[string]bool, len(final.movies))
	for _, movie := range final.movies {
		seen[movie.ID] = movie.Seen
	}
	return seen, true, nil
}

func clamp(preferred, max, min int) int {
	if max < min {
		return min
	}
	if preferred > max {
		return max
	}
	if preferred < min {
		return min
	}
	return preferred
}
