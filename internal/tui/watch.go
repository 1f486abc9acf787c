// Package tui provides the live progress view: a bubbletea program that
// re-renders a user's snapshot whenever the backing store file changes.
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/alexander-akhmetov/wayfinder/internal/debug"
	"github.com/alexander-akhmetov/wayfinder/internal/domain"
	"github.com/alexander-akhmetov/wayfinder/internal/progress"
	"github.com/alexander-akhmetov/wayfinder/internal/render"
)

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// RefreshMsg asks the model to recompute the snapshot.
type RefreshMsg struct{}

// WatchErrMsg reports a watcher failure. The view keeps running.
type WatchErrMsg struct {
	Err error
}

// Model is the bubbletea model for the live progress view.
type Model struct {
	tracker  *progress.Tracker
	userID   string
	snap     domain.Snapshot
	out      io.Writer
	width    int
	showTask bool
	updated  time.Time
	err      error
	now      func() time.Time
}

// NewModel returns a model showing userID's progress. out is used for
// color detection only.
func NewModel(tracker *progress.Tracker, userID string, out io.Writer, showTasks bool) Model {
	m := Model{
		tracker:  tracker,
		userID:   userID,
		out:      out,
		showTask: showTasks,
		now:      time.Now,
	}
	return m.refresh()
}

func (m Model) refresh() Model {
	m.snap = m.tracker.ComputeProgress(m.userID)
	m.updated = m.now()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m.refresh(), nil
		case "t":
			m.showTask = !m.showTask
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case RefreshMsg:
		m.err = nil
		return m.refresh(), nil

	case WatchErrMsg:
		debug.Logf("tui: watch error: %v", msg.Err)
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(render.SnapshotString(m.out, m.tracker.Phases(), m.snap, render.Options{
		Tasks: m.showTask,
		Width: m.width,
	}))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("watch error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("updated %s  r refresh  t tasks  q quit", m.updated.Format("15:04:05"))))
	b.WriteString("\n")
	return b.String()
}

// Watch runs the live view until the user quits. storePath is the file
// whose changes trigger a refresh; its directory is watched so atomic
// replacements are seen.
func Watch(tracker *progress.Tracker, userID, storePath string, showTasks bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(storePath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	p := tea.NewProgram(NewModel(tracker, userID, os.Stdout, showTasks), tea.WithAltScreen())

	done := make(chan struct{})
	go forwardEvents(watcher, target, p.Send, done)
	defer close(done)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run watch view: %w", err)
	}
	return nil
}

// forwardEvents turns watcher events for target into messages until done
// is closed or the watcher shuts down.
func forwardEvents(w *fsnotify.Watcher, target string, send func(tea.Msg), done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debug.Logf("tui: store changed (%s)", ev.Op)
				send(RefreshMsg{})
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			send(WatchErrMsg{Err: err})
		}
	}
}
