package session

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// tapArea wraps the session body so a tap anywhere toggles the countdown
// text and controls.
type tapArea struct {
	widget.BaseWidget
	body     fyne.CanvasObject
	onTapped func()
}

func newTapArea(body fyne.CanvasObject, onTapped func()) *tapArea {
	area := &tapArea{body: body, onTapped: onTapped}
	area.ExtendBaseWidget(area)
	return area
}

func (area *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(area.body)
}

func (area *tapArea) Tapped(*fyne.PointEvent) {
	if area.onTapped != nil {
		area.onTapped()
	}
}
