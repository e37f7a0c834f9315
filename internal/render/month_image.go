package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lessonhub/lessonhub/internal/model"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth     = 1120
	imageHeight    = 860
	headerHeight   = 70
	weekdayRowH    = 30
	cellPadding    = 6.0
	entryHeight    = 16.0
	entrySpacing   = 3.0
	entryRadius    = 3.0
	maxEntriesCell = 5
	totalColumns   = 7
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 220}
	gridLineColor   = color.NRGBA{150, 150, 150, 255}
	dayNumberColor  = color.RGBA{110, 115, 120, 220}
	evenCellColor   = color.NRGBA{240, 240, 240, 255}
	oddCellColor    = color.NRGBA{224, 224, 224, 255}
	overflowColor   = color.RGBA{90, 95, 100, 220}
	entryTextColor  = color.RGBA{20, 24, 28, 230}
	pendingColor    = color.RGBA{255, 205, 110, 255}
	acceptedColor   = color.RGBA{133, 193, 85, 220}
	rejectedColor   = color.RGBA{255, 120, 120, 220}
	cancelledColor  = color.RGBA{158, 158, 158, 200}
	completedColor  = color.RGBA{120, 170, 255, 220}
	defaultEntryCol = color.RGBA{220, 220, 220, 200}
)

var weekdayLabels = [totalColumns]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthImage рисует месячную сетку по готовой проекции календаря и
// возвращает PNG. Сама проекция считается в CalendarService; здесь только
// отрисовка.
func MonthImage(view *model.MonthView) ([]byte, error) {
	if view == nil {
		return nil, fmt.Errorf("nil month view")
	}

	entriesByDay := groupEntriesByDay(view)
	rows := gridRows(view)

	dc := createCanvas()
	drawHeader(dc, view)
	drawWeekdayLabels(dc)

	cellWidth := float64(imageWidth) / totalColumns
	cellHeight := float64(imageHeight-headerHeight-weekdayRowH) / float64(rows)

	for day := 1; day <= view.DaysInMonth; day++ {
		cellIndex := view.FirstWeekday + day - 1
		col := cellIndex % totalColumns
		row := cellIndex / totalColumns

		x := float64(col) * cellWidth
		y := float64(headerHeight+weekdayRowH) + float64(row)*cellHeight

		drawDayCell(dc, x, y, cellWidth, cellHeight, day, entriesByDay[day])
	}

	drawGrid(dc, rows, cellWidth, cellHeight)

	return encodeImage(dc)
}

// groupEntriesByDay раскладывает записи по числам месяца
func groupEntriesByDay(view *model.MonthView) map[int][]model.CalendarEntry {
	byDay := make(map[int][]model.CalendarEntry)
	for _, e := range view.Entries {
		if e.ScheduledAt.Year() == view.Year && e.ScheduledAt.Month() == view.Month {
			day := e.ScheduledAt.Day()
			byDay[day] = append(byDay[day], e)
		}
	}
	return byDay
}

// gridRows считает количество строк сетки для месяца
func gridRows(view *model.MonthView) int {
	cells := view.FirstWeekday + view.DaysInMonth
	rows := cells / totalColumns
	if cells%totalColumns != 0 {
		rows++
	}
	return rows
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца и годом
func drawHeader(dc *gg.Context, view *model.MonthView) {
	title := fmt.Sprintf("%s %d", view.Month.String(), view.Year)

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/2, 0.5, 0.5)
}

// drawWeekdayLabels рисует строку с днями недели
func drawWeekdayLabels(dc *gg.Context) {
	cellWidth := float64(imageWidth) / totalColumns

	dc.SetColor(dayNumberColor)
	for i, label := range weekdayLabels {
		x := float64(i)*cellWidth + cellWidth/2
		y := float64(headerHeight) + float64(weekdayRowH)/2
		dc.DrawStringAnchored(label, x, y, 0.5, 0.5)
	}
}

// drawDayCell рисует ячейку дня с номером и записями
func drawDayCell(dc *gg.Context, x, y, w, h float64, day int, entries []model.CalendarEntry) {
	if day%2 == 0 {
		dc.SetColor(evenCellColor)
	} else {
		dc.SetColor(oddCellColor)
	}
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	dc.SetColor(dayNumberColor)
	dc.DrawString(fmt.Sprintf("%d", day), x+cellPadding, y+cellPadding+10)

	shown := len(entries)
	if shown > maxEntriesCell {
		shown = maxEntriesCell
	}

	for i := 0; i < shown; i++ {
		e := entries[i]
		ey := y + cellPadding + 16 + float64(i)*(entryHeight+entrySpacing)
		if ey+entryHeight > y+h-cellPadding {
			break
		}

		dc.SetColor(statusColor(e.Status))
		dc.DrawRoundedRectangle(x+cellPadding, ey, w-2*cellPadding, entryHeight, entryRadius)
		dc.Fill()

		dc.SetColor(entryTextColor)
		label := fmt.Sprintf("%s #%d", e.ScheduledAt.Format("15:04"), e.BookingID)
		dc.DrawString(label, x+cellPadding+4, ey+entryHeight-4)
	}

	if len(entries) > shown {
		dc.SetColor(overflowColor)
		dc.DrawString(fmt.Sprintf("+%d more", len(entries)-shown), x+cellPadding, y+h-cellPadding)
	}
}

// drawGrid рисует линии сетки поверх ячеек
func drawGrid(dc *gg.Context, rows int, cellWidth, cellHeight float64) {
	dc.SetColor(gridLineColor)
	dc.SetLineWidth(1)

	top := float64(headerHeight + weekdayRowH)
	bottom := top + float64(rows)*cellHeight

	for i := 0; i <= totalColumns; i++ {
		x := float64(i) * cellWidth
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()
	}
	for i := 0; i <= rows; i++ {
		y := top + float64(i)*cellHeight
		dc.DrawLine(0, y, float64(imageWidth), y)
		dc.Stroke()
	}
}

// statusColor возвращает цвет записи по статусу бронирования
func statusColor(status model.BookingStatus) color.Color {
	switch status {
	case model.BookingStatusPending:
		return pendingColor
	case model.BookingStatusAccepted:
		return acceptedColor
	case model.BookingStatusRejected:
		return rejectedColor
	case model.BookingStatusCancelled:
		return cancelledColor
	case model.BookingStatusCompleted:
		return completedColor
	default:
		return defaultEntryCol
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode month image: %w", err)
	}
	return buf.Bytes(), nil
}
