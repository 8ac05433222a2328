package demo

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snapback/history"
)

// model is the demo's tracked state. The fields live at fixed addresses
// inside the App for its whole lifetime, which is exactly the contract
// the engine requires.
type model struct {
	X, Y  int64
	Glyph rune
}

// Options configures the demo application.
type Options struct {
	ConfigPath string
}

// App runs the interactive demo.
type App struct {
	opts  Options
	cfg   Config
	hist  *history.History
	model model

	screen  tcell.Screen
	watcher *fsnotify.Watcher
	status  string
	quit    bool
}

// New creates the demo application, loading configuration if a path was
// given.
func New(opts Options) (*App, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	return &App{
		opts:  opts,
		cfg:   cfg,
		hist:  history.New(cfg.History.Options()...),
		model: model{Glyph: '@'},
	}, nil
}

// Run owns the terminal until the user quits.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	a.screen = screen
	defer screen.Fini()

	if a.opts.ConfigPath != "" {
		if err := a.watchConfig(); err != nil {
			a.status = fmt.Sprintf("config watch unavailable: %v", err)
		}
	}

	for !a.quit {
		a.draw()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			a.handleKey(ev)
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			a.reloadConfig()
		}
	}

	return nil
}

// Shutdown releases everything the app owns. Safe after a failed Run.
func (a *App) Shutdown() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	a.hist.Close()
}

// handleKey applies one key event to the model and engine.
func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyUp:
		a.move(0, -1)
	case tcell.KeyDown:
		a.move(0, 1)
	case tcell.KeyLeft:
		a.move(-1, 0)
	case tcell.KeyRight:
		a.move(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit = true
		case 'c':
			if a.hist.Commit("Edit") {
				a.status = "committed"
			} else {
				a.status = "nothing to commit"
			}
		case 'u':
			if a.hist.Undo() {
				a.status = "undid " + a.topLabel(a.hist.PeekRedo)
			} else {
				a.status = "nothing to undo"
			}
		case 'r':
			if a.hist.Redo() {
				a.status = "redid " + a.topLabel(a.hist.PeekUndo)
			} else {
				a.status = "nothing to redo"
			}
		default:
			a.setGlyph(ev.Rune())
		}
	}
}

// move registers both coordinates before mutating so one commit captures
// the whole step. An untracked mutation would be invisible to undo, so
// on a tracking failure the model is left alone.
func (a *App) move(dx, dy int64) {
	if err := history.Track(a.hist, &a.model.X); err != nil {
		a.status = fmt.Sprintf("track failed: %v", err)
		return
	}
	if err := history.Track(a.hist, &a.model.Y); err != nil {
		a.status = fmt.Sprintf("track failed: %v", err)
		return
	}
	a.model.X += dx
	a.model.Y += dy
	a.status = ""
}

func (a *App) setGlyph(r rune) {
	if err := history.Track(a.hist, &a.model.Glyph); err != nil {
		a.status = fmt.Sprintf("track failed: %v", err)
		return
	}
	a.model.Glyph = r
	a.status = ""
}

func (a *App) topLabel(peek func() (history.BatchInfo, bool)) string {
	info, ok := peek()
	if !ok {
		return "?"
	}
	return fmt.Sprintf("%q", info.Label)
}

// watchConfig posts an interrupt into the event loop whenever the config
// file changes, so the loop re-reads it without polling.
func (a *App) watchConfig() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(a.opts.ConfigPath); err != nil {
		_ = watcher.Close()
		return err
	}
	a.watcher = watcher

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

// reloadConfig re-reads the config file and applies what can change on a
// live engine: the undo depth limit. Capacity hints only shape the next
// engine; history is never dropped on reload.
func (a *App) reloadConfig() {
	cfg, err := LoadConfig(a.opts.ConfigPath)
	if err != nil {
		a.status = fmt.Sprintf("config reload failed: %v", err)
		return
	}
	a.cfg = cfg
	a.hist.SetLimit(cfg.History.Limit)
	a.status = "config reloaded"
}

// draw renders the full frame.
func (a *App) draw() {
	s := a.screen
	s.Clear()

	width, height := s.Size()
	style := tcell.StyleDefault
	bold := style.Bold(true)

	a.drawText(0, 0, bold, "snapback demo")
	a.drawText(0, 1, style, "arrows move, any letter sets glyph, c commit, u undo, r redo, q quit")

	// Glyph at its model position, clamped to the visible area.
	gx := clamp(int(a.model.X)+width/2, 0, width-1)
	gy := clamp(int(a.model.Y)+height/2, 3, height-3)
	s.SetContent(gx, gy, a.model.Glyph, nil, bold)

	state := fmt.Sprintf("x=%d y=%d glyph=%c pending=%d", a.model.X, a.model.Y, a.model.Glyph, a.hist.PendingCount())
	stacks := fmt.Sprintf("undo %d (%d B)  redo %d (%d B)",
		a.hist.UndoCount(), a.hist.UndoSize(), a.hist.RedoCount(), a.hist.RedoSize())

	a.drawText(0, height-2, style, state+"  "+stacks)
	a.drawText(0, height-1, style, a.status)

	s.Show()
}

func (a *App) drawText(x, y int, style tcell.Style, text string) {
	// Range over a string yields byte offsets; keep a separate column so
	// multi-byte runes don't shift later cells.
	col := x
	for _, r := range text {
		a.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
