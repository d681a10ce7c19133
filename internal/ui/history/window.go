// Package history is the window listing every saved session, with rename,
// delete and clear.
package history

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomobar/internal/core/timefmt"
	"pomobar/internal/storage"
)

const storeTimeout = 5 * time.Second

// Store is the record persistence used by the window. *storage.RecordStore
// satisfies it.
type Store interface {
	All(ctx context.Context) ([]storage.Record, error)
	Rename(ctx context.Context, id, name string) (storage.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// Options configures the history window.
type Options struct {
	Logger    *log.Logger
	OnChanged func()
}

// Window handles the history UI.
type Window struct {
	window  fyne.Window
	store   Store
	options Options

	mu      sync.Mutex
	records []storage.Record

	list       *widget.List
	emptyLabel *widget.Label
	clearAll   *widget.Button
}

// New creates a hidden history window.
func New(app fyne.App, store Store, options Options) *Window {
	if options.Logger == nil {
		options.Logger = log.Default()
	}

	history := &Window{
		window:  app.NewWindow("Session History"),
		store:   store,
		options: options,
	}

	history.emptyLabel = widget.NewLabel("No sessions recorded yet")
	history.list = widget.NewList(history.length, history.createRow, history.updateRow)
	history.clearAll = widget.NewButton("Clear all", history.confirmClear)
	history.clearAll.Importance = widget.DangerImportance

	buttons := container.NewHBox(layout.NewSpacer(), history.clearAll)
	body := container.NewStack(history.list, container.NewCenter(history.emptyLabel))
	history.window.SetContent(container.NewBorder(nil, buttons, nil, nil, body))
	history.window.Resize(fyne.NewSize(460, 420))
	history.window.SetCloseIntercept(history.window.Hide)

	return history
}

// Show reloads the records and displays the window.
func (history *Window) Show() {
	history.Reload()
	history.window.Show()
	history.window.RequestFocus()
}

// Reload reads every record from the store, newest first.
func (history *Window) Reload() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	records, err := history.store.All(ctx)
	if err != nil {
		history.options.Logger.Printf("history: load records: %v", err)
		return
	}
	history.mu.Lock()
	history.records = records
	history.mu.Unlock()

	if len(records) == 0 {
		history.emptyLabel.Show()
		history.clearAll.Disable()
	} else {
		history.emptyLabel.Hide()
		history.clearAll.Enable()
	}
	history.list.Refresh()
}

// Rename changes a record's name and reloads.
func (history *Window) Rename(id, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if _, err := history.store.Rename(ctx, id, name); err != nil {
		return fmt.Errorf("rename record: %w", err)
	}
	history.changed()
	return nil
}

// Delete removes a record and reloads.
func (history *Window) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	deleted, err := history.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if deleted {
		history.changed()
	}
	return nil
}

// Clear removes every record and reloads.
func (history *Window) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := history.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	history.changed()
	return nil
}

func (history *Window) changed() {
	history.Reload()
	if history.options.OnChanged != nil {
		history.options.OnChanged()
	}
}

func (history *Window) length() int {
	history.mu.Lock()
	defer history.mu.Unlock()
	return len(history.records)
}

func (history *Window) record(id widget.ListItemID) (storage.Record, bool) {
	history.mu.Lock()
	defer history.mu.Unlock()
	if id < 0 || id >= len(history.records) {
		return storage.Record{}, false
	}
	return history.records[id], true
}

func (history *Window) createRow() fyne.CanvasObject {
	name := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	name.Truncation = fyne.TextTruncateEllipsis
	detail := widget.NewLabel("")
	rename := widget.NewButton("Rename", nil)
	remove := widget.NewButton("Delete", nil)
	remove.Importance = widget.DangerImportance
	return container.NewBorder(nil, nil, nil, container.NewHBox(rename, remove), container.NewVBox(name, detail))
}

func (history *Window) updateRow(id widget.ListItemID, object fyne.CanvasObject) {
	record, ok := history.record(id)
	if !ok {
		return
	}
	labels, buttons := rowParts(object.(*fyne.Container))
	if len(labels) < 2 || len(buttons) < 2 {
		return
	}

	labels[0].SetText(record.Name)
	labels[1].SetText(DetailLine(record))
	buttons[0].OnTapped = func() { history.promptRename(record) }
	buttons[1].OnTapped = func() { history.confirmDelete(record) }
}

func rowParts(row *fyne.Container) ([]*widget.Label, []*widget.Button) {
	var labels []*widget.Label
	var buttons []*widget.Button
	for _, child := range row.Objects {
		group, ok := child.(*fyne.Container)
		if !ok {
			continue
		}
		for _, object := range group.Objects {
			switch typed := object.(type) {
			case *widget.Label:
				labels = append(labels, typed)
			case *widget.Button:
				buttons = append(buttons, typed)
			}
		}
	}
	return labels, buttons
}

func (history *Window) promptRename(record storage.Record) {
	entry := widget.NewEntry()
	entry.SetText(record.Name)
	dialog.ShowForm("Rename session", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := history.Rename(record.ID, entry.Text); err != nil {
				history.options.Logger.Printf("history: %v", err)
				dialog.ShowError(err, history.window)
			}
		}, history.window)
}

func (history *Window) confirmDelete(record storage.Record) {
	dialog.ShowConfirm("Delete session", fmt.Sprintf("Delete %q?", record.Name), func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := history.Delete(record.ID); err != nil {
			history.options.Logger.Printf("history: %v", err)
			dialog.ShowError(err, history.window)
		}
	}, history.window)
}

func (history *Window) confirmClear() {
	dialog.ShowConfirm("Clear history", "Delete every saved session?", func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := history.Clear(); err != nil {
			history.options.Logger.Printf("history: %v", err)
			dialog.ShowError(err, history.window)
		}
	}, history.window)
}

// DetailLine renders the time and date line under a record name.
func DetailLine(record storage.Record) string {
	return fmt.Sprintf("%s of %s · %s",
		timefmt.Format(record.ActualTime, timefmt.Floor),
		timefmt.Format(record.Duration, timefmt.Floor),
		record.CreatedAt.Format("2006/01/02 15:04"),
	)
}
