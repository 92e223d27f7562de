// Package display provides the terminal recipe editor using Bubble Tea.
//
// The screen is a projection of an editor.Session snapshot. Keystrokes
// become draft edits on the session; tab, enter and navigation keys
// commit them. Notifications and background refreshes reach the event
// loop through Program.Send, so other goroutines never touch the model.
package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/editor"
	"github.com/hammamikhairi/larder/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*UI)(nil)

// UI runs the editor screen.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Notify], [UI.NotifyUrgent] and [UI.Refresh] at any time. The UI is
// created before the session so it can serve as the session's notifier.
type UI struct {
	log     *logger.Logger
	program atomic.Pointer[tea.Program]
	copyFn  func(string) error

	mu    sync.Mutex
	early *statusMsg // last message sent before the screen was up
}

// NewUI creates the display.
func NewUI(log *logger.Logger) *UI {
	return &UI{
		log:    log,
		copyFn: clipboard.WriteAll,
	}
}

// statusMsg carries a notification into the event loop.
type statusMsg struct {
	text   string
	urgent bool
}

// refreshMsg asks the model to re-read the session.
type refreshMsg struct{}

// send delivers a message without blocking the caller. Before the program
// runs, or after it exits, it reports false.
func (u *UI) send(msg tea.Msg) bool {
	p := u.program.Load()
	if p == nil {
		return false
	}
	go p.Send(msg)
	return true
}

func (u *UI) status(msg statusMsg) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.send(msg) {
		u.early = &msg
	}
}

// Notify shows a message on the status line.
func (u *UI) Notify(ctx context.Context, message string) error {
	u.log.Debug("notify: %s", message)
	u.status(statusMsg{text: message})
	return nil
}

// NotifyUrgent shows a message on the status line in the alert style.
func (u *UI) NotifyUrgent(ctx context.Context, message string) error {
	u.log.Debug("notify-urgent: %s", message)
	u.status(statusMsg{text: message, urgent: true})
	return nil
}

// Refresh redraws the screen from the session, e.g. after a background
// sweep or a pantry change.
func (u *UI) Refresh() {
	u.send(refreshMsg{})
}

// Run starts the event loop over a loaded session and blocks until the
// user quits. The caller closes the session afterwards.
func (u *UI) Run(ctx context.Context, session *editor.Session) error {
	m := newModel(ctx, session, u.copyFn)

	u.mu.Lock()
	if u.early != nil {
		m.setStatus(u.early.text, u.early.urgent)
		u.early = nil
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	u.program.Store(p)
	u.mu.Unlock()
	defer u.program.Store(nil)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
