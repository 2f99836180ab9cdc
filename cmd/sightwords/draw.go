package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleOverlay    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	stylePrediction = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Message flash: normal and inverted phases alternate every flashPhase
// milliseconds until flashPeriod has passed.
const (
	flashPhase  = 125
	flashPeriod = 4 * flashPhase
)

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriod {
		return false
	}
	phase := elapsed / flashPhase
	return phase == 1 || phase == 3
}

// flashes reports whether messages of type t flash when shown.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

func (a *App) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()

	a.drawCanvas()
	if a.showHelp {
		a.drawHelpOverlay(w, h)
	}
	a.drawStatusBar(w, h)
}

// drawCanvas renders the current frame and maps each pair of vertically
// stacked pixels onto one upper-half-block cell.
func (a *App) drawCanvas() {
	frame := a.surface.Repaint()
	if frame.Width == 0 || frame.Height == 0 {
		return
	}
	img, err := a.canvas.Image(frame)
	if err != nil {
		return
	}

	for row := 0; row < frame.Height/2; row++ {
		for col := 0; col < frame.Width; col++ {
			top := img.RGBAAt(col, row*2)
			bottom := img.RGBAAt(col, row*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			a.screen.SetContent(col, row, '▀', nil, style)
		}
	}

	for _, p := range frame.Prediction {
		if !p.Finite() {
			continue
		}
		col, row := int(math.Floor(p.X)), int(math.Floor(p.Y/2))
		if col < 0 || row < 0 || col >= frame.Width || row >= frame.Height/2 {
			continue
		}
		bg := img.RGBAAt(col, row*2)
		a.screen.SetContent(col, row, '·', nil, stylePrediction.Background(tcellColor(bg)))
	}
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (a *App) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	words := a.surface.Words()
	index := 0
	for i, word := range words {
		if word == a.surface.Word() {
			index = i
		}
	}
	a.drawString(1, y, fmt.Sprintf("[%d/%d] %s", index+1, len(words), a.surface.Word()), styleStatus)

	// Mode
	modeStr := a.modeString()
	a.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	// Message
	if a.message != "" {
		style := styleMsgInfo
		switch a.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(a.messageType) && flashInverted(a.now().UnixMilli()-a.messageFlashStart.Load()) {
			style = style.Reverse(true)
		}
		msg := truncate(a.message, max(w/2-2, 0))
		a.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	a.drawString(1, y, a.helpString(), styleHelp)
}

func (a *App) modeString() string {
	mode := "RAW"
	if a.surface.Smoothing() {
		mode = "SMOOTH"
	}
	if a.surface.Capturing() {
		mode += " DRAWING"
	}
	if a.recorder != nil {
		mode += " REC"
	}
	return mode
}

func (a *App) helpString() string {
	if a.showHelp {
		return "Any key:Close"
	}
	return "Drag:Trace  N/P:Word  C:Clear  F:Fill  R:Smoothing  S:Save  H:Help  Q:Quit"
}

var helpLines = []string{
	"Left drag     trace the word",
	"N, Space, →   next word",
	"P, ←          previous word",
	"C             clear strokes",
	"F             fill or outline the word",
	"R             toggle smoothing",
	"S             save the picture",
	"G             switch renderer (native, gg)",
	"T             switch file type (png, svg)",
	"Q, Esc        quit",
}

func (a *App) drawHelpOverlay(w, h int) {
	boxW := 48
	boxH := len(helpLines) + 4
	boxX := max((w-boxW)/2, 0)
	boxY := max((h-reservedRows-boxH)/2, 0)

	a.drawBox(boxX, boxY, boxW, boxH, styleOverlay)
	a.drawString(boxX+2, boxY+1, "Keys", styleOverlay.Bold(true))
	for i, line := range helpLines {
		a.drawString(boxX+2, boxY+3+i, line, styleOverlay)
	}
	a.drawString(boxX+2, boxY+boxH-1, fmt.Sprintf(" %s / %s ", a.config.Renderer, a.config.FileType), styleBorder)
}

func (a *App) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	a.screen.SetContent(x, y, '┌', nil, styleBorder)
	a.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	a.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	a.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		a.screen.SetContent(i, y, '─', nil, styleBorder)
		a.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		a.screen.SetContent(x, i, '│', nil, styleBorder)
		a.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			a.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (a *App) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		a.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
