// Package breathing renders the breathing circle. The circle is a radial
// gradient whose diameter and alpha follow cadence frames; all frame math
// lives in internal/core/cadence, this widget only draws poses.
package breathing

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"stillpoint/internal/core/cadence"
)

const baseDiameter = float32(200)

// Circle is the breathing circle canvas object. SetFrame must run on the
// UI thread; the session screen marshals cadence callbacks with fyne.Do.
type Circle struct {
	root     *fyne.Container
	gradient *canvas.RadialGradient
	inner    color.NRGBA
	outer    color.NRGBA
	frame    cadence.Frame
}

// New creates a circle with the theme's gradient colors, posed at rest.
func New(colors [2]color.NRGBA) *Circle {
	circle := &Circle{
		inner: colors[0],
		outer: colors[1],
		frame: cadence.Rest(),
	}
	circle.gradient = canvas.NewRadialGradient(circle.inner, circle.outer)
	circle.root = container.New(&circleLayout{circle: circle}, circle.gradient)
	circle.applyOpacity()
	return circle
}

// CanvasObject returns the drawable root.
func (circle *Circle) CanvasObject() fyne.CanvasObject {
	return circle.root
}

// SetColors swaps the gradient for a new theme.
func (circle *Circle) SetColors(colors [2]color.NRGBA) {
	circle.inner = colors[0]
	circle.outer = colors[1]
	circle.applyOpacity()
}

// SetFrame poses the circle for one cadence frame.
func (circle *Circle) SetFrame(frame cadence.Frame) {
	circle.frame = frame
	circle.applyOpacity()
	circle.root.Layout.Layout(circle.root.Objects, circle.root.Size())
	canvas.Refresh(circle.gradient)
}

func (circle *Circle) applyOpacity() {
	alpha := uint8(circle.frame.Opacity * 255)
	inner := circle.inner
	outer := circle.outer
	inner.A = alpha
	outer.A = alpha
	circle.gradient.StartColor = inner
	circle.gradient.EndColor = outer
}

// circleLayout centers the gradient and sizes it by the current frame's
// scale.
type circleLayout struct {
	circle *Circle
}

func (layout *circleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	side := baseDiameter * float32(cadence.PeakScale)
	return fyne.NewSize(side, side)
}

func (layout *circleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	diameter := baseDiameter * float32(layout.circle.frame.Scale)
	for _, object := range objects {
		object.Resize(fyne.NewSize(diameter, diameter))
		object.Move(fyne.NewPos((size.Width-diameter)/2, (size.Height-diameter)/2))
	}
}
