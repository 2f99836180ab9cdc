// Command strokes works with recorded tracing sessions offline.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/sightwords/pkg/capture"
	"github.com/ha1tch/sightwords/pkg/config"
	"github.com/ha1tch/sightwords/pkg/fsm"
	"github.com/ha1tch/sightwords/pkg/logging"
	"github.com/ha1tch/sightwords/pkg/raster"
	"github.com/ha1tch/sightwords/pkg/recording"
	"github.com/ha1tch/sightwords/pkg/surface"
)

const usage = `strokes - sight word tracing toolkit

Usage:
  strokes <command> [options]

Commands:
  render     Replay a recording and write the final frame (png, svg)
  info       Show recording information
  fsm        Print the stroke capture state machine
  config     Show or create the configuration file

Examples:
  strokes render session.json -o session.png
  strokes render session.json -o session.svg --raw
  strokes render session.json -o session.png --renderer gg --no-guide
  strokes info session.json
  strokes fsm --dot | dot -Tpng -o capture.png
  strokes config --init

Global options:
  -v, --verbose   Log stroke lifecycle to stderr
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := verbose(os.Args[2:])

	switch cmd {
	case "render":
		cmdRender(args)
	case "info":
		cmdInfo(args)
	case "fsm":
		cmdFSM(args)
	case "config":
		cmdConfig(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// verbose strips -v from args and enables debug logging if it was present.
func verbose(args []string) []string {
	out := args[:0:0]
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: slog.LevelDebug})))
			continue
		}
		out = append(out, a)
	}
	return out
}

func cmdRender(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: strokes render <recording> -o <output.png|output.svg> [--renderer native|gg] [--raw] [--no-guide] [--fill] [--config path]")
		os.Exit(1)
	}

	input := args[0]
	var output, renderer, cfgPath string
	var raw, noGuide, fill bool

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-r", "--renderer":
			if i+1 < len(args) {
				renderer = args[i+1]
				i++
			}
		case "-c", "--config":
			if i+1 < len(args) {
				cfgPath = args[i+1]
				i++
			}
		case "--raw":
			raw = true
		case "--no-guide":
			noGuide = true
		case "--fill":
			fill = true
		}
	}

	if output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file required (-o)")
		os.Exit(1)
	}

	cfg := loadConfig(cfgPath)
	if renderer == "" {
		renderer = cfg.Renderer
	}
	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	if fileType != config.FileTypePNG && fileType != config.FileTypeSVG {
		fmt.Fprintf(os.Stderr, "Error: unsupported output format: %s\n", filepath.Ext(output))
		os.Exit(1)
	}

	rec, err := recording.Load(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	s, err := surface.FromConfig(cfg, rec.Width, rec.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating surface: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()
	s.SetSmoothing(cfg.Smoothing && !raw)
	if fill && !s.Fill() {
		s.ToggleFill()
	}

	if err := recording.Replay(rec, s); err != nil {
		// Failed strokes are dropped; the rest still render.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	opts := raster.DefaultOptions()
	opts.NoGuide = noGuide
	backend, err := raster.ForFile(renderer, fileType, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	if err := backend.Render(f, s.Repaint()); err != nil {
		f.Close()
		os.Remove(output)
		fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", output, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	stats := s.Stats()
	fmt.Printf("%s: %d strokes (%d smoothed, %d raw, %d aborted) via %s\n",
		output, len(s.History()), stats.Smoothed, stats.Raw, stats.Aborted, backend.Name())
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: strokes info <recording>")
		os.Exit(1)
	}

	input := args[0]
	rec, err := recording.Load(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	sum := rec.Summarize()
	fmt.Printf("Version:     %d\n", rec.Version)
	fmt.Printf("Size:        %dx%d\n", rec.Width, rec.Height)
	if rec.Word != "" {
		fmt.Printf("Word:        %s\n", rec.Word)
	}
	fmt.Printf("Events:      %d\n", sum.Events)
	fmt.Printf("Strokes:     %d\n", sum.Strokes)
	if sum.Resizes > 0 {
		fmt.Printf("Resizes:     %d\n", sum.Resizes)
	}
	fmt.Printf("Duration:    %s\n", rec.Duration())
	if len(sum.Words) > 1 {
		fmt.Printf("Words:       %v\n", sum.Words)
	}
}

func cmdFSM(args []string) {
	var dot bool
	var output string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--dot":
			dot = true
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	t := capture.Transitions()
	text := t.String()
	if dot {
		text = fsm.GenerateDOT(t, "stroke capture")
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(text)
}

func cmdConfig(args []string) {
	path := config.Path()
	var initialize bool

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--init":
			initialize = true
		case "-c", "--config":
			if i+1 < len(args) {
				path = args[i+1]
				i++
			}
		}
	}

	if initialize {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
			os.Exit(1)
		}
		if err := config.Save(path, config.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Path:        %s\n", path)
	fmt.Printf("Words:       %v\n", cfg.Words)
	fmt.Printf("Renderer:    %s\n", cfg.Renderer)
	fmt.Printf("File type:   %s\n", cfg.FileType)
	fmt.Printf("Smoothing:   %v\n", cfg.Smoothing)
	fmt.Printf("Tension:     %g\n", cfg.Stroke.Tension)
}

func loadConfig(path string) config.Config {
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg
}
