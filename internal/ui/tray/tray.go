package tray

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/systray"

	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
	"pomobar/internal/ui/animation"
	"pomobar/resources"
)

const tooltipIdle = "Timer"

// Host is the tray owner. desktop.App satisfies it.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnPause       func()
	OnStop        func()
	OnReset       func()
	OnShowTimer   func()
	OnHistory     func()
	OnPreferences func()
	OnQuit        func()
}

// Options overrides how the tray text is applied. Zero values use the
// system tray and fyne's main goroutine.
type Options struct {
	SetTitle   func(string)
	SetTooltip func(string)
	RunOnMain  func(func())
	Pulse      animation.Config
}

// Manager mirrors the timer in the tray title, status line, icon and menu.
type Manager struct {
	host      Host
	callbacks Callbacks
	options   Options
	pulse     *animation.Engine

	iconMu sync.Mutex

	mu         sync.Mutex
	state      timer.State
	title      string
	badge      string
	menu       MenuState
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks and shows the idle
// state.
func New(host Host, callbacks Callbacks, options Options) *Manager {
	if options.SetTitle == nil {
		options.SetTitle = systray.SetTitle
	}
	if options.SetTooltip == nil {
		options.SetTooltip = systray.SetTooltip
	}
	if options.RunOnMain == nil {
		options.RunOnMain = fyne.Do
	}

	manager := &Manager{
		host:      host,
		callbacks: callbacks,
		options:   options,
		state:     timer.StateIdle,
		menu:      MenuFor(timer.StateIdle),
	}

	manager.pulse = animation.New(options.Pulse, manager.showFrame)

	manager.statusItem = fyne.NewMenuItem(statusText(""), nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(&manager.callbacks.OnPause))
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(&manager.callbacks.OnStop))
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset))

	manager.options.RunOnMain(func() {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		manager.applyLocked()
		manager.options.SetTooltip(tooltipIdle)
	})
	return manager
}

// HandleTick refreshes the title and badge.
func (manager *Manager) HandleTick(snapshot timer.Snapshot) {
	manager.update(snapshot)
}

// HandleStateChange refreshes the menu and icon for the new state.
func (manager *Manager) HandleStateChange(_ timer.StateChange, snapshot timer.Snapshot) {
	manager.update(snapshot)
}

// HandleComplete pulses the tray icon until the pulse ends or the state
// leaves overtime.
func (manager *Manager) HandleComplete(timer.Completion) {
	on, err := resources.Icon(resources.OvertimeIcon)
	if err != nil {
		return
	}
	off, err := resources.Icon(resources.IdleIcon)
	if err != nil {
		return
	}
	manager.pulse.Pulse(context.Background(), animation.PulseSpec{On: on, Off: off})
}

// Close stops any running icon animation.
func (manager *Manager) Close() {
	manager.pulse.Stop()
}

// Title returns the text currently shown next to the tray icon.
func (manager *Manager) Title() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.title
}

// Menu returns the current menu item state.
func (manager *Manager) Menu() MenuState {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.menu
}

func (manager *Manager) update(snapshot timer.Snapshot) {
	title := ""
	if snapshot.State != timer.StateIdle {
		title = timefmt.FormatSnapshot(snapshot)
	}
	badge := timefmt.Badge(snapshot)
	if snapshot.State != timer.StateOvertime {
		manager.pulse.Stop()
	}

	manager.options.RunOnMain(func() {
		manager.mu.Lock()
		defer manager.mu.Unlock()

		stateChanged := snapshot.State != manager.state
		badgeChanged := badge != manager.badge
		if title != manager.title {
			manager.title = title
			manager.options.SetTitle(title)
		}
		if stateChanged {
			manager.state = snapshot.State
			manager.menu = MenuFor(snapshot.State)
		}
		if badgeChanged || stateChanged {
			manager.badge = badge
			manager.statusItem.Label = statusText(badge)
			manager.options.SetTooltip(tooltipText(snapshot.State, badge))
			manager.applyLocked()
		}
	})
}

func (manager *Manager) applyLocked() {
	if manager.host == nil {
		return
	}
	manager.startItem.Label = manager.menu.StartLabel
	manager.startItem.Disabled = !manager.menu.Start
	manager.pauseItem.Disabled = !manager.menu.Pause
	manager.stopItem.Disabled = !manager.menu.Stop
	manager.resetItem.Disabled = !manager.menu.Reset

	manager.host.SetSystemTrayMenu(fyne.NewMenu("Pomobar",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.stopItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Timer", invoke(&manager.callbacks.OnShowTimer)),
		fyne.NewMenuItem("History", invoke(&manager.callbacks.OnHistory)),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	))
	if icon, err := resources.Icon(iconFor(manager.state)); err == nil {
		manager.setIcon(icon)
	}
}

// showFrame applies an animation frame. A nil frame restores the icon for
// the current state.
func (manager *Manager) showFrame(frame fyne.Resource) {
	manager.options.RunOnMain(func() {
		if frame == nil {
			manager.mu.Lock()
			name := iconFor(manager.state)
			manager.mu.Unlock()
			icon, err := resources.Icon(name)
			if err != nil {
				return
			}
			frame = icon
		}
		manager.setIcon(frame)
	})
}

func (manager *Manager) setIcon(icon fyne.Resource) {
	if manager.host == nil {
		return
	}
	manager.iconMu.Lock()
	defer manager.iconMu.Unlock()
	manager.host.SetSystemTrayIcon(icon)
}

func invoke(callback *func()) func() {
	return func() {
		if *callback != nil {
			(*callback)()
		}
	}
}
