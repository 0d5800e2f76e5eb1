package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnTogglePause func()
	OnEndSession  func()
	OnQuit        func()
}

// Manager handles system tray state. Session controls stay disabled while
// no session is running.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	endItem     *fyne.MenuItem
	callbacks   Callbacks
	paused      bool
	inSession   bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "idle",
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true

	manager.pauseItem = fyne.NewMenuItem("Pause session", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.pauseItem.Disabled = true

	manager.endItem = fyne.NewMenuItem("End session", func() {
		if manager.callbacks.OnEndSession != nil {
			manager.callbacks.OnEndSession()
		}
	})
	manager.endItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetPaused updates the pause item label.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume session"
	} else {
		manager.pauseItem.Label = "Pause session"
	}
	manager.refreshMenu()
}

// SetInSession toggles the session controls.
func (manager *Manager) SetInSession(inSession bool) {
	manager.inSession = inSession
	manager.pauseItem.Disabled = !inSession
	manager.endItem.Disabled = !inSession
	if !inSession {
		manager.SetPaused(false)
		manager.SetStatus("idle")
		return
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Stillpoint",
		manager.statusItem,
		fyne.NewMenuItem("Open Stillpoint", func() {
			if manager.callbacks.OnOpen != nil {
				manager.callbacks.OnOpen()
			}
		}),
		manager.pauseItem,
		manager.endItem,
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
