// Package popover is the small timer window opened from the tray: time
// display, controls, presets, duration entry, the save-session form and the
// list of today's sessions.
package popover

import (
	"context"
	"errors"
	"image/color"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pomobar/internal/bridge"
	"pomobar/internal/core/model"
	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
	"pomobar/internal/storage"
)

const saveTimeout = 5 * time.Second

var (
	displayColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	overtimeColor = color.NRGBA{R: 229, G: 57, B: 53, A: 255}
	stateColor    = color.NRGBA{R: 189, G: 189, B: 189, A: 255}
)

var modeOptions = []string{"Countdown", "Count up"}

// Options configures a popover Window.
type Options struct {
	Floating  bool
	Defaults  model.SessionDefaults
	Presets   []model.Preset
	Logger    *log.Logger
	Now       func() time.Time
	RunOnMain func(func())
	OnHistory func()
	OnSaved   func(storage.Record)
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window manages the popover UI.
type Window struct {
	window   fyne.Window
	commands Commands
	records  Records
	options  Options

	mu       sync.Mutex
	closed   bool
	defaults model.SessionDefaults
	today    []storage.Record

	display      *canvas.Text
	stateLabel   *canvas.Text
	description  *widget.Entry
	timeEntry    *widget.Entry
	entryError   *widget.Label
	mode         *widget.RadioGroup
	inputs       *fyne.Container
	pauseButton  *widget.Button
	resumeButton *widget.Button
	stopButton   *widget.Button
	resetButton  *widget.Button
	todayTotal   *widget.Label
	todayList    *widget.List
}

// New creates a hidden popover window.
func New(app fyne.App, commands Commands, records Records, options Options) *Window {
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.RunOnMain == nil {
		options.RunOnMain = fyne.Do
	}
	if len(options.Presets) == 0 {
		options.Presets = model.DefaultPresets()
	}

	window := app.NewWindow("Timer")
	if driver, ok := app.Driver().(splashWindowDriver); ok && !options.Floating {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	popover := &Window{
		window:   window,
		commands: commands,
		records:  records,
		options:  options,
		defaults: options.Defaults,
	}
	popover.build()
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(320, 460))

	popover.render(commands.Snapshot())
	return popover
}

func (popover *Window) build() {
	popover.display = canvas.NewText("00:00", displayColor)
	popover.display.TextSize = 44
	popover.display.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}

	popover.stateLabel = canvas.NewText("Ready", stateColor)
	popover.stateLabel.TextSize = 13

	popover.description = widget.NewEntry()
	popover.description.SetPlaceHolder("What are you working on? (optional)")

	popover.timeEntry = widget.NewEntry()
	popover.timeEntry.SetPlaceHolder("MM:SS")
	popover.timeEntry.OnSubmitted = func(string) { popover.startFromEntry() }
	popover.timeEntry.OnChanged = func(string) {
		popover.entryError.Hide()
		popover.render(popover.commands.Snapshot())
	}
	popover.entryError = widget.NewLabel("")
	popover.entryError.Importance = widget.DangerImportance
	popover.entryError.Hide()

	popover.mode = widget.NewRadioGroup(modeOptions, nil)
	popover.mode.Horizontal = true
	popover.mode.Required = true
	popover.mode.SetSelected(modeLabel(timer.ParseMode(popover.defaults.Mode)))

	presetButtons := make([]fyne.CanvasObject, 0, len(popover.options.Presets))
	for _, preset := range popover.options.Presets {
		duration := preset.Duration
		presetButtons = append(presetButtons, widget.NewButton(preset.Label, func() {
			popover.start(duration)
		}))
	}

	startButton := widget.NewButton("Start", popover.startFromEntry)
	startButton.Importance = widget.HighImportance
	popover.inputs = container.NewVBox(
		container.NewBorder(nil, nil, nil, startButton, popover.timeEntry),
		popover.entryError,
		container.NewGridWithColumns(len(presetButtons), presetButtons...),
		popover.mode,
	)

	popover.pauseButton = widget.NewButton("Pause", func() { popover.commands.Pause() })
	popover.resumeButton = widget.NewButton("Resume", func() { popover.commands.Resume() })
	popover.stopButton = widget.NewButton("Stop", popover.stop)
	popover.stopButton.Importance = widget.DangerImportance
	popover.resetButton = widget.NewButton("Reset", func() { popover.commands.Reset() })

	popover.todayTotal = widget.NewLabel("")
	popover.todayList = widget.NewList(
		func() int {
			popover.mu.Lock()
			defer popover.mu.Unlock()
			return len(popover.today)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			popover.mu.Lock()
			defer popover.mu.Unlock()
			if id < len(popover.today) {
				item.(*widget.Label).SetText(RecordLine(popover.today[id]))
			}
		},
	)

	historyButton := widget.NewButton("History", func() {
		if popover.options.OnHistory != nil {
			popover.options.OnHistory()
		}
	})

	header := container.NewVBox(
		container.New(&displayLayout{}, popover.display, popover.stateLabel),
		popover.description,
		popover.inputs,
		container.NewHBox(popover.pauseButton, popover.resumeButton, popover.stopButton, popover.resetButton),
		container.NewBorder(nil, nil, nil, historyButton, popover.todayTotal),
	)
	popover.window.SetContent(container.NewBorder(header, nil, nil, nil, popover.todayList))
}

// Show displays the popover and reloads today's sessions.
func (popover *Window) Show() {
	popover.refreshToday()
	popover.window.CenterOnScreen()
	popover.window.Show()
	popover.window.RequestFocus()
}

// Hide hides the popover.
func (popover *Window) Hide() {
	popover.window.Hide()
}

// Stop shows the popover and runs the stop flow: an active session is
// stopped and the save form is opened.
func (popover *Window) Stop() {
	if !popover.commands.Snapshot().State.Active() {
		return
	}
	popover.Show()
	popover.stop()
}

// FyneWindow returns the underlying window, used as the tray window in
// popover mode.
func (popover *Window) FyneWindow() fyne.Window {
	return popover.window
}

// SetDefaults changes the duration and mode used when the entry is empty.
func (popover *Window) SetDefaults(defaults model.SessionDefaults) {
	popover.mu.Lock()
	popover.defaults = defaults
	popover.mu.Unlock()
	popover.options.RunOnMain(func() {
		popover.mode.SetSelected(modeLabel(timer.ParseMode(defaults.Mode)))
		popover.render(popover.commands.Snapshot())
	})
}

// Close tears the popover down. A closed popover reports itself dead to the
// bridge.
func (popover *Window) Close() {
	popover.mu.Lock()
	if popover.closed {
		popover.mu.Unlock()
		return
	}
	popover.closed = true
	popover.mu.Unlock()
	popover.window.Close()
}

// Alive implements bridge.Liveness.
func (popover *Window) Alive() bool {
	popover.mu.Lock()
	defer popover.mu.Unlock()
	return !popover.closed
}

// HandleTick implements bridge.Surface.
func (popover *Window) HandleTick(snapshot timer.Snapshot) {
	popover.options.RunOnMain(func() { popover.render(snapshot) })
}

// HandleStateChange implements bridge.Surface.
func (popover *Window) HandleStateChange(_ timer.StateChange, snapshot timer.Snapshot) {
	popover.options.RunOnMain(func() { popover.render(snapshot) })
}

// HandleComplete implements bridge.Surface.
func (popover *Window) HandleComplete(timer.Completion) {}

func (popover *Window) render(snapshot timer.Snapshot) {
	popover.display.Text = DisplayText(snapshot, popover.nextDuration())
	popover.display.Color = displayColor
	if snapshot.IsOvertime {
		popover.display.Color = overtimeColor
	}
	popover.display.Refresh()
	popover.stateLabel.Text = StateLabel(snapshot)
	popover.stateLabel.Refresh()

	controls := ControlsFor(snapshot.State)
	setVisible(popover.inputs, controls.Inputs)
	setVisible(popover.pauseButton, controls.Pause)
	setVisible(popover.resumeButton, controls.Resume)
	setVisible(popover.stopButton, controls.Stop)
	setVisible(popover.resetButton, controls.Reset)
}

func (popover *Window) nextDuration() time.Duration {
	if duration, err := ParseEntry(popover.timeEntry.Text); err == nil {
		return duration
	}
	popover.mu.Lock()
	defer popover.mu.Unlock()
	return popover.defaults.Duration
}

func (popover *Window) startFromEntry() {
	if popover.timeEntry.Text == "" {
		popover.mu.Lock()
		duration := popover.defaults.Duration
		popover.mu.Unlock()
		popover.start(duration)
		return
	}
	duration, err := ParseEntry(popover.timeEntry.Text)
	if err != nil {
		popover.showEntryError(err)
		return
	}
	popover.start(duration)
}

func (popover *Window) start(duration time.Duration) {
	if _, err := popover.commands.Start(duration, modeFromLabel(popover.mode.Selected)); err != nil {
		popover.showEntryError(err)
		return
	}
	popover.timeEntry.SetText("")
	popover.entryError.Hide()
}

func (popover *Window) showEntryError(err error) {
	message := "Enter minutes and seconds as MM:SS"
	if errors.Is(err, timer.ErrInvalidDuration) {
		message = "Duration must be longer than zero"
	}
	popover.entryError.SetText(message)
	popover.entryError.Show()
}

func (popover *Window) stop() {
	result := popover.commands.StopForSave()
	if !result.Stopped {
		return
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(popover.description.Text)
	nameEntry.SetPlaceHolder(storage.DefaultRecordName)
	summary := widget.NewLabel("Worked " + timefmt.Format(result.Elapsed, timefmt.Floor) +
		" of " + timefmt.Format(result.Duration, timefmt.Floor))

	items := []*widget.FormItem{
		widget.NewFormItem("", summary),
		widget.NewFormItem("Name", nameEntry),
	}
	form := dialog.NewForm("Save session", "Save", "Discard", items, func(save bool) {
		if !save {
			return
		}
		if _, err := popover.saveSession(nameEntry.Text, result); err != nil {
			dialog.ShowError(err, popover.window)
		}
	}, popover.window)
	form.Resize(fyne.NewSize(300, 180))
	form.Show()
}

func (popover *Window) saveSession(name string, result bridge.StopResult) (storage.Record, error) {
	if popover.records == nil {
		return storage.Record{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	record, err := popover.records.Save(ctx, name, result.Duration, result.Elapsed)
	if err != nil {
		popover.options.Logger.Printf("popover: save session: %v", err)
		return storage.Record{}, err
	}
	popover.description.SetText("")
	popover.refreshToday()
	if popover.options.OnSaved != nil {
		popover.options.OnSaved(record)
	}
	return record, nil
}

// RefreshToday reloads today's sessions, for example after the history
// window changed them.
func (popover *Window) RefreshToday() {
	popover.options.RunOnMain(popover.refreshToday)
}

func (popover *Window) refreshToday() {
	if popover.records == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	summary, err := popover.records.Today(ctx, popover.options.Now())
	if err != nil {
		popover.options.Logger.Printf("popover: load today: %v", err)
		return
	}
	popover.mu.Lock()
	popover.today = summary.Records
	popover.mu.Unlock()
	popover.todayTotal.SetText(TotalLine(summary))
	popover.todayList.Refresh()
}

func setVisible(object fyne.CanvasObject, visible bool) {
	if visible {
		object.Show()
		return
	}
	object.Hide()
}

func modeLabel(mode timer.Mode) string {
	if mode == timer.ModeCountUp {
		return modeOptions[1]
	}
	return modeOptions[0]
}

func modeFromLabel(label string) timer.Mode {
	if label == modeOptions[1] {
		return timer.ModeCountUp
	}
	return timer.ModeCountdown
}
