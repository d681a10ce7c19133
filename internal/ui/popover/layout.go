package popover

import "fyne.io/fyne/v2"

// displayLayout stacks the time display above the state label and centers
// both horizontally.
type displayLayout struct{}

func (layout *displayLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	display := objects[0]
	state := objects[1]

	displaySize := display.MinSize()
	stateSize := state.MinSize()
	contentHeight := displaySize.Height + stateSize.Height + 4
	top := (size.Height - contentHeight) / 2
	if top < 0 {
		top = 0
	}

	display.Move(fyne.NewPos(centered(size.Width, displaySize.Width), top))
	display.Resize(displaySize)
	state.Move(fyne.NewPos(centered(size.Width, stateSize.Width), top+displaySize.Height+4))
	state.Resize(stateSize)
}

func (layout *displayLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	displaySize := objects[0].MinSize()
	stateSize := objects[1].MinSize()
	width := displaySize.Width
	if stateSize.Width > width {
		width = stateSize.Width
	}
	return fyne.NewSize(width+20, displaySize.Height+stateSize.Height+16)
}

func centered(available, width float32) float32 {
	x := (available - width) / 2
	if x < 0 {
		return 0
	}
	return x
}
