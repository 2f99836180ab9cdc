// Command sightwords is a terminal tracing surface for sight words.
//
// The canvas uses half-block characters, so every terminal cell holds two
// vertically stacked pixels. Drag with the left mouse button to trace the
// word.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/sightwords/pkg/capture"
	"github.com/ha1tch/sightwords/pkg/config"
	"github.com/ha1tch/sightwords/pkg/logging"
	"github.com/ha1tch/sightwords/pkg/raster"
	"github.com/ha1tch/sightwords/pkg/recording"
	"github.com/ha1tch/sightwords/pkg/surface"
)

const usage = `sightwords - trace a sight word

Usage:
  sightwords [options] [word...]

Options:
  -c, --config <path>   Config file (default ~/.sightwords.toml)
  -r, --record <path>   Record the session to a JSON file on exit
  -l, --log <path>      Write a debug log to a file
  -h, --help            Show this help

Words given on the command line replace the configured word list.
`

// exportScale converts canvas pixels to exported image pixels. A half-block
// pixel is roughly 8x8 screen pixels in common terminal fonts.
const exportScale = 8

// reservedRows are the help and status bars below the canvas.
const reservedRows = 2

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// App is the tracing application.
type App struct {
	screen  tcell.Screen
	surface *surface.Surface
	canvas  *raster.NativePNG
	config  config.Config
	cfgPath string

	recorder   *recording.Recorder
	recordPath string

	// Mouse buttons held at the previous mouse event.
	buttons tcell.ButtonMask

	showHelp          bool
	message           string
	messageType       MessageType
	messageFlashStart atomic.Int64
	now               func() time.Time
}

func main() {
	var cfgPath, recordPath, logPath string
	var words []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "--config":
			if i+1 < len(args) {
				cfgPath = args[i+1]
				i++
			}
		case "-r", "--record":
			if i+1 < len(args) {
				recordPath = args[i+1]
				i++
			}
		case "-l", "--log":
			if i+1 < len(args) {
				logPath = args[i+1]
				i++
			}
		case "-h", "--help", "help":
			fmt.Print(usage)
			return
		default:
			if strings.HasPrefix(args[i], "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
				fmt.Print(usage)
				os.Exit(1)
			}
			words = append(words, args[i])
		}
	}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log %s: %v\n", logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if cfgPath == "" {
		cfgPath = config.Path()
	}
	cfg, cfgErr := config.Load(cfgPath)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	app, err := newApp(screen, cfg, cfgPath, words)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if recordPath != "" {
		app.startRecording(recordPath)
	}
	if cfgErr != nil {
		app.showMessage("Config: "+cfgErr.Error(), MsgWarning)
	}

	app.run()
	screen.Fini()

	if err := app.close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp creates an app drawing on screen. The surface is sized to the
// screen's canvas area. Non-empty words replace the configured list for
// this session only.
func newApp(screen tcell.Screen, cfg config.Config, cfgPath string, words []string) (*App, error) {
	session := cfg
	// Screen-pixel minimums are far too wide for half-block pixels.
	session.Stroke.MinWidth = 1
	if len(words) > 0 {
		session.Words = words
	}

	w, h := canvasSize(screen.Size())
	s, err := surface.FromConfig(session, w, h)
	if err != nil {
		return nil, err
	}

	opts := raster.DefaultOptions()
	opts.GuideWidth = 0.75
	opts.Supersample = 2

	return &App{
		screen:  screen,
		surface: s,
		canvas:  raster.NewNative(opts),
		config:  cfg,
		cfgPath: cfgPath,
		now:     time.Now,
	}, nil
}

// canvasSize returns the canvas size in pixels for a cols x rows screen.
func canvasSize(cols, rows int) (w, h int) {
	return max(cols, 0), max(rows-reservedRows, 0) * 2
}

// cellCenter returns the canvas position of the centre of a terminal cell.
func cellCenter(col, row int) (x, y float64) {
	return float64(col) + 0.5, float64(row)*2 + 1
}

func (a *App) startRecording(path string) {
	w, h := a.surface.Size()
	a.recorder = recording.NewRecorder(w, h, a.surface.Word(), a.now())
	a.recordPath = path
}

func (a *App) run() {
	// Periodic refresh while a status message is flashing
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond) // 20fps for smooth flash
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				start := a.messageFlashStart.Load()
				if start == 0 {
					continue
				}
				elapsed := time.Now().UnixMilli() - start
				if elapsed >= 0 && elapsed < flashPeriod+200 {
					a.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		a.draw()
		a.screen.Show()

		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			// Same-size events are skipped. The surface still clears on every real size change.
			a.resize()
			a.screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh event for flash animation - just redraw
		}
	}
}

// resize matches the surface to the screen. Strokes are discarded.
func (a *App) resize() {
	w, h := canvasSize(a.screen.Size())
	if cw, ch := a.surface.Size(); cw == w && ch == h {
		return
	}
	a.surface.Resize(w, h)
	if a.recorder != nil {
		a.recorder.Resize(w, h, a.now())
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if a.showHelp {
		a.showHelp = false
		return false
	}

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRight:
		a.changeWord(a.surface.NextWord)
		return false
	case tcell.KeyLeft:
		a.changeWord(a.surface.PrevWord)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'n', ' ':
		a.changeWord(a.surface.NextWord)
	case 'p':
		a.changeWord(a.surface.PrevWord)
	case 'c':
		a.surface.Clear()
		if a.recorder != nil {
			a.recorder.Clear(a.now())
		}
		a.showMessage("Cleared", MsgInfo)
	case 'f':
		if a.surface.ToggleFill() {
			a.showMessage("Word filled", MsgInfo)
		} else {
			a.showMessage("Word outlined", MsgInfo)
		}
	case 'r':
		a.surface.SetSmoothing(!a.surface.Smoothing())
		if a.surface.Smoothing() {
			a.showMessage("Smoothing on", MsgSuccess)
		} else {
			a.showMessage("Smoothing off", MsgSuccess)
		}
	case 's':
		a.export()
	case 'g':
		a.toggleRenderer()
	case 't':
		a.toggleFileType()
	case 'h', '?':
		a.showHelp = true
	}
	return false
}

func (a *App) changeWord(step func() string) {
	word := step()
	if a.recorder != nil {
		a.recorder.Word(word, a.now())
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&(tcell.WheelUp|tcell.WheelDown|tcell.WheelLeft|tcell.WheelRight) != 0 {
		return
	}
	col, row := ev.Position()
	x, y := cellCenter(col, row)
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	prev := a.buttons
	a.buttons = buttons
	now := a.now()

	if a.showHelp {
		return
	}

	var err error
	switch {
	case buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0:
		err = a.surface.PointerDownAt(x, y, capture.ButtonPrimary, now)
		if a.recorder != nil {
			a.recorder.Down(x, y, capture.ButtonPrimary, now)
		}
	case buttons&tcell.Button1 != 0:
		err = a.surface.PointerMoveAt(x, y, now)
		if a.recorder != nil {
			a.recorder.Move(x, y, now)
		}
	case prev&tcell.Button1 != 0:
		err = a.surface.PointerUpAt(x, y, capture.ButtonPrimary, now)
		if a.recorder != nil {
			a.recorder.Up(x, y, capture.ButtonPrimary, now)
		}
	case buttons&tcell.Button2 != 0 && prev&tcell.Button2 == 0:
		err = a.surface.PointerDownAt(x, y, capture.ButtonSecondary, now)
	}
	if err != nil {
		a.showMessage("Stroke dropped: "+err.Error(), MsgError)
	}
}

// export writes the current frame, magnified to screen resolution, to the
// configured directory in the configured format.
func (a *App) export() {
	backend, err := raster.ForFile(a.config.Renderer, a.config.FileType, raster.DefaultOptions())
	if err != nil {
		a.showMessage(err.Error(), MsgError)
		return
	}

	dir := a.config.LastDir
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("%s-%s.%s", a.surface.Word(), a.now().Format("20060102-150405"), a.config.FileType)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		a.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	err = backend.Render(f, a.surface.Repaint().Scale(exportScale))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		a.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	a.showMessage("Saved "+path, MsgSuccess)
}

func (a *App) toggleRenderer() {
	if a.config.Renderer == config.RendererGG {
		a.config.Renderer = config.RendererNative
	} else {
		a.config.Renderer = config.RendererGG
	}
	a.saveConfig("Renderer: " + a.config.Renderer)
}

func (a *App) toggleFileType() {
	if a.config.FileType == config.FileTypeSVG {
		a.config.FileType = config.FileTypePNG
	} else {
		a.config.FileType = config.FileTypeSVG
	}
	a.saveConfig("File type: " + strings.ToUpper(a.config.FileType))
}

func (a *App) saveConfig(msg string) {
	if a.cfgPath == "" {
		a.showMessage(msg, MsgSuccess)
		return
	}
	if err := config.Save(a.cfgPath, a.config); err != nil {
		a.showMessage(msg+" (not saved: "+err.Error()+")", MsgWarning)
		return
	}
	a.showMessage(msg, MsgSuccess)
}

func (a *App) showMessage(msg string, msgType MessageType) {
	a.message = msg
	a.messageType = msgType
	a.messageFlashStart.Store(a.now().UnixMilli())
	// Trigger immediate refresh for flash animation
	if a.screen != nil {
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// close releases the surface and writes the recording, if any.
func (a *App) close() error {
	var errs []error
	if err := a.surface.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing surface: %w", err))
	}
	if a.recorder != nil {
		if err := recording.Save(a.recordPath, a.recorder.Recording()); err != nil {
			errs = append(errs, fmt.Errorf("saving recording: %w", err))
		}
	}
	return errors.Join(errs...)
}
