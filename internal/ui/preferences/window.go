package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
)

// ErrInvalidTickInterval indicates an update interval that is not a positive
// whole number of seconds.
var ErrInvalidTickInterval = errors.New("update interval must be a whole number of seconds")

var modeLabels = map[timer.Mode]string{
	timer.ModeCountdown: "Countdown",
	timer.ModeCountUp:   "Count up",
}

var windowModeLabels = map[WindowMode]string{
	WindowPopover:  "Popover",
	WindowFloating: "Floating window",
}

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	duration      *widget.Entry
	mode          *widget.Select
	tickInterval  *widget.Entry
	notifications *widget.Check
	launchAtLogin *widget.Check
	windowMode    *widget.RadioGroup
	errorLabel    *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomobar Settings")

	duration := widget.NewEntry()
	duration.SetPlaceHolder("MM:SS")
	mode := widget.NewSelect([]string{modeLabels[timer.ModeCountdown], modeLabels[timer.ModeCountUp]}, nil)
	tickInterval := widget.NewEntry()
	notifications := widget.NewCheck("Notify when time is up", nil)
	launchAtLogin := widget.NewCheck("Launch at login", nil)
	windowMode := widget.NewRadioGroup([]string{windowModeLabels[WindowPopover], windowModeLabels[WindowFloating]}, nil)
	errorLabel := widget.NewLabel("")
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default session"), duration),
		container.NewHBox(widget.NewLabel("Default mode"), mode),
		container.NewHBox(widget.NewLabel("Update every"), tickInterval, widget.NewLabel("sec")),
		notifications,
		widget.NewLabelWithStyle("Window", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		windowMode,
		launchAtLogin,
		errorLabel,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		duration:      duration,
		mode:          mode,
		tickInterval:  tickInterval,
		notifications: notifications,
		launchAtLogin: launchAtLogin,
		windowMode:    windowMode,
		errorLabel:    errorLabel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	values := formFromSettings(settings)
	prefs.duration.SetText(values.Duration)
	prefs.mode.SetSelected(modeLabels[values.Mode])
	prefs.tickInterval.SetText(values.TickSeconds)
	prefs.notifications.SetChecked(values.Notifications)
	prefs.launchAtLogin.SetChecked(values.LaunchAtLogin)
	prefs.windowMode.SetSelected(windowModeLabels[values.WindowMode])
	prefs.errorLabel.Hide()
}

func (prefs *Window) handleSave() {
	values := formValues{
		Duration:      prefs.duration.Text,
		Mode:          modeFromLabel(prefs.mode.Selected),
		TickSeconds:   prefs.tickInterval.Text,
		Notifications: prefs.notifications.Checked,
		LaunchAtLogin: prefs.launchAtLogin.Checked,
		WindowMode:    windowModeFromLabel(prefs.windowMode.Selected),
	}

	settings, err := applyForm(prefs.settings, values)
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		prefs.errorLabel.Show()
		return
	}

	prefs.settings = settings
	prefs.errorLabel.Hide()
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// formValues is the raw text and choices entered in the window.
type formValues struct {
	Duration      string
	Mode          timer.Mode
	TickSeconds   string
	Notifications bool
	LaunchAtLogin bool
	WindowMode    WindowMode
}

func formFromSettings(settings Settings) formValues {
	return formValues{
		Duration:      timefmt.Format(settings.DefaultDuration, timefmt.Floor),
		Mode:          settings.DefaultMode,
		TickSeconds:   strconv.Itoa(int(settings.TickInterval / time.Second)),
		Notifications: settings.NotificationsEnabled,
		LaunchAtLogin: settings.LaunchAtLogin,
		WindowMode:    settings.WindowMode,
	}
}

func applyForm(settings Settings, values formValues) (Settings, error) {
	duration, err := timefmt.Parse(values.Duration)
	if err != nil {
		return settings, fmt.Errorf("default session: %w", err)
	}
	if duration <= 0 {
		return settings, fmt.Errorf("default session: %w", timer.ErrInvalidDuration)
	}
	seconds, ok := parsePositiveInt(values.TickSeconds)
	if !ok {
		return settings, ErrInvalidTickInterval
	}

	settings.DefaultDuration = duration
	settings.DefaultMode = timer.ParseMode(string(values.Mode))
	settings.TickInterval = time.Duration(seconds) * time.Second
	settings.NotificationsEnabled = values.Notifications
	settings.LaunchAtLogin = values.LaunchAtLogin
	if values.WindowMode == WindowPopover || values.WindowMode == WindowFloating {
		settings.WindowMode = values.WindowMode
	}
	return settings, nil
}

func modeFromLabel(label string) timer.Mode {
	for mode, text := range modeLabels {
		if text == label {
			return mode
		}
	}
	return timer.ModeCountdown
}

func windowModeFromLabel(label string) WindowMode {
	for mode, text := range windowModeLabels {
		if text == label {
			return mode
		}
	}
	return WindowPopover
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
