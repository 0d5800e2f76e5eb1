// Package history renders practice totals and the last seven days of
// minutes as a bar chart drawn with canvas primitives.
package history

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"stillpoint/internal/core/model"
	"stillpoint/internal/ui/theme"
)

const chartDays = 7

// Screen is the practice history view.
type Screen struct {
	content fyne.CanvasObject
}

// New builds the history screen from a stats snapshot.
func New(data model.SessionStats, selected theme.Theme, onBack func()) *Screen {
	totals := container.NewGridWithColumns(2,
		summaryCell("Total minutes", data.TotalMinutes),
		summaryCell("Sessions", data.TotalSessions),
	)

	chartTitle := widget.NewLabelWithStyle("Last 7 days", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	chart := newBarChart(lastDays(data, chartDays, time.Now()), selected.Circle[0])

	backButton := widget.NewButton("Back", func() {
		if onBack != nil {
			onBack()
		}
	})

	content := container.NewBorder(
		container.NewVBox(totals, chartTitle),
		backButton,
		nil, nil,
		chart,
	)
	return &Screen{content: content}
}

// Content returns the screen's root object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

func summaryCell(label string, value int) fyne.CanvasObject {
	number := widget.NewLabelWithStyle(fmt.Sprintf("%d", value), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	caption := widget.NewLabelWithStyle(label, fyne.TextAlignCenter, fyne.TextStyle{})
	return container.NewVBox(number, caption)
}

// dayBucket is one chart column.
type dayBucket struct {
	label   string
	minutes int
}

// lastDays collects the trailing window from the daily ledger, oldest
// first; days without practice chart as zero.
func lastDays(data model.SessionStats, days int, now time.Time) []dayBucket {
	buckets := make([]dayBucket, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		buckets = append(buckets, dayBucket{
			label:   day.Format("Mon"),
			minutes: data.DailyMinutes[day.Format("2006-01-02")],
		})
	}
	return buckets
}

func newBarChart(buckets []dayBucket, barColor color.NRGBA) fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(buckets)*2)
	for _, bucket := range buckets {
		bar := canvas.NewRectangle(barColor)
		label := canvas.NewText(bucket.label, color.NRGBA{R: 255, G: 255, B: 255, A: 200})
		label.TextSize = 11
		label.Alignment = fyne.TextAlignCenter
		objects = append(objects, bar, label)
	}
	return container.New(&barChartLayout{buckets: buckets}, objects...)
}

// barChartLayout expects interleaved bar/label pairs in bucket order.
type barChartLayout struct {
	buckets []dayBucket
}

const (
	chartLabelHeight = float32(18)
	chartMinHeight   = float32(140)
)

func (layout *barChartLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(float32(len(layout.buckets))*28, chartMinHeight)
}

func (layout *barChartLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(layout.buckets) == 0 {
		return
	}
	maxMinutes := 1
	for _, bucket := range layout.buckets {
		if bucket.minutes > maxMinutes {
			maxMinutes = bucket.minutes
		}
	}

	columnWidth := size.Width / float32(len(layout.buckets))
	barWidth := columnWidth * 0.6
	barArea := size.Height - chartLabelHeight

	for index, bucket := range layout.buckets {
		if index*2+1 >= len(objects) {
			break
		}
		bar := objects[index*2]
		label := objects[index*2+1]

		barHeight := barArea * float32(bucket.minutes) / float32(maxMinutes)
		left := float32(index)*columnWidth + (columnWidth-barWidth)/2

		bar.Resize(fyne.NewSize(barWidth, barHeight))
		bar.Move(fyne.NewPos(left, barArea-barHeight))
		label.Resize(fyne.NewSize(columnWidth, chartLabelHeight))
		label.Move(fyne.NewPos(float32(index)*columnWidth, barArea))
	}
}
