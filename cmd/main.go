package main

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"pomobar/internal/bridge"
	"pomobar/internal/core/model"
	"pomobar/internal/core/timer"
	"pomobar/internal/notify"
	"pomobar/internal/platform"
	"pomobar/internal/storage"
	"pomobar/internal/ui/animation"
	"pomobar/internal/ui/history"
	"pomobar/internal/ui/popover"
	"pomobar/internal/ui/preferences"
	"pomobar/internal/ui/tray"
	"pomobar/resources"
)

const (
	appName = "Pomobar"
	appID   = "app.pomobar"
	dirName = "pomobar"
)

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	service := platform.NewService()
	appDir, err := platform.AppDir(service, dirName)
	if err != nil {
		log.Printf("config dir: %v", err)
		return
	}

	settingsPath := storage.SettingsPath(appDir)
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		log.Printf("load settings: %v", err)
	}

	store, err := storage.OpenRecordStore(storage.RecordsPath(appDir), storage.RecordOptions{})
	if err != nil {
		log.Printf("open records: %v", err)
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close records: %v", err)
		}
	}()

	if err := platform.SyncAutostart(service, appName, settings.LaunchAtLogin); err != nil {
		log.Printf("autostart: %v", err)
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.AppIcon))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	engine := timer.New(settings.TimerConfig(), timer.Config{})
	timerBridge := bridge.New(engine, bridge.Options{Defaults: settings.SessionDefaults()})

	notifier := notify.New(fyneApp, settings.NotificationsEnabled)
	timerBridge.Register("notify", notifier)

	var popoverWindow *popover.Window
	historyWindow := history.New(fyneApp, store, history.Options{
		OnChanged: func() {
			popoverWindow.RefreshToday()
		},
	})

	openPopover := func(mode preferences.WindowMode, defaults model.SessionDefaults) *popover.Window {
		window := popover.New(fyneApp, timerBridge, store, popover.Options{
			Floating:  mode == preferences.WindowFloating,
			Defaults:  defaults,
			OnHistory: historyWindow.Show,
			OnSaved: func(record storage.Record) {
				log.Printf("saved session %q (%s)", record.Name, record.ActualTime)
				historyWindow.Reload()
			},
		})
		timerBridge.Register("popover", window)
		desktopApp.SetSystemTrayWindow(window.FyneWindow())
		return window
	}
	popoverWindow = openPopover(settings.WindowMode, settings.SessionDefaults())

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		previous := settings
		settings = updated
		if err := storage.SaveSettings(settingsPath, settings); err != nil {
			log.Printf("save settings: %v", err)
		}

		engine.SetTickInterval(settings.TickInterval)
		timerBridge.SetDefaults(settings.SessionDefaults())
		notifier.SetEnabled(settings.NotificationsEnabled)
		popoverWindow.SetDefaults(settings.SessionDefaults())

		if previous.LaunchAtLogin != settings.LaunchAtLogin {
			if err := platform.SyncAutostart(service, appName, settings.LaunchAtLogin); err != nil {
				log.Printf("autostart: %v", err)
			}
		}
		if previous.WindowMode != settings.WindowMode {
			stale := popoverWindow
			popoverWindow = openPopover(settings.WindowMode, settings.SessionDefaults())
			stale.Close()
		}
	})

	events, cancelEvents := timerBridge.Subscribe(16)
	go func() {
		for event := range events {
			switch event.Type {
			case bridge.EventStateChange:
				log.Printf("timer: %s -> %s", event.Change.Previous, event.Change.Current)
			case bridge.EventComplete:
				log.Printf("timer: %s session reached its target", event.Completion.Duration)
			}
		}
	}()

	quit := func() {
		cancelEvents()
		timerBridge.Close()
		engine.Close()
		fyneApp.Quit()
	}

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart: func() {
			if _, err := timerBridge.Toggle(); err != nil {
				log.Printf("start: %v", err)
			}
		},
		OnPause: func() {
			timerBridge.Pause()
		},
		OnStop: func() {
			popoverWindow.Stop()
		},
		OnReset: func() {
			timerBridge.Reset()
		},
		OnShowTimer: func() {
			popoverWindow.Show()
		},
		OnHistory:     historyWindow.Show,
		OnPreferences: prefsWindow.Show,
		OnQuit:        quit,
	}, tray.Options{Pulse: animation.DefaultConfig()})
	defer trayManager.Close()
	timerBridge.Register("tray", trayManager)

	guard.OnActivate(func() {
		fyne.Do(func() {
			popoverWindow.Show()
		})
	})

	fyneApp.Run()
}
