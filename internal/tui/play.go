package tui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/control"
	"github.com/san-kum/pingsim/internal/game"
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
	"github.com/san-kum/pingsim/internal/sim"
)

const (
	canvasCols      = 80
	canvasRows      = 24
	statsWidth      = 40
	historyCapacity = 300
	frameInterval   = time.Second / 60
)

type tickMsg time.Time

type configMsg struct{ cfg *config.Config }

type configErrMsg struct{ err error }

// Scoreboard is the score display handed to the game. The view reads it
// on every frame.
type Scoreboard struct {
	Score int
	Last  time.Time
}

func (s *Scoreboard) ShowScore(score int) {
	s.Score = score
	s.Last = time.Now()
}

// heightHistory records the highest sphere after every completed frame.
type heightHistory struct {
	values []float64
}

func (h *heightHistory) OnFrame(f sim.Frame) {
	top := 0.0
	first := true
	for _, b := range f.World.Bodies() {
		if b.IsStatic() {
			continue
		}
		if first || b.Position[1] > top {
			top = b.Position[1]
			first = false
		}
	}
	if len(h.values) == historyCapacity {
		h.values = h.values[1:]
	}
	h.values = append(h.values, top)
}

// Options configure the play view.
type Options struct {
	Theme   string
	Watcher *config.Watcher
	Logger  *log.Logger
	Now     func() time.Time
}

// Model is the bubbletea model of the play command. The game is only
// touched from Update, so all simulation work stays on one goroutine.
type Model struct {
	game       *game.Game
	scoreboard *Scoreboard
	viewport   *render.Viewport
	hold       *control.Hold
	watcher    *config.Watcher
	logger     *log.Logger
	now        func() time.Time

	theme  Theme
	styles styles

	heights   *heightHistory
	substeps  int
	paused    bool
	showHelp  bool
	status    string
	lastFrame time.Time
	fps       float64
}

func NewModel(g *game.Game, sb *Scoreboard, opts Options) Model {
	if sb == nil {
		sb = &Scoreboard{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	theme := GetTheme(opts.Theme)
	heights := &heightHistory{values: make([]float64, 0, historyCapacity)}
	g.Loop().AddObserver(heights)
	return Model{
		game:       g,
		scoreboard: sb,
		viewport:   render.NewViewport(canvasCols, canvasRows, render.NewCamera()),
		hold:       control.NewHold(g.Config().Input.HoldTimeout),
		watcher:    opts.Watcher,
		logger:     logger,
		now:        now,
		theme:      theme,
		styles:     newStyles(theme),
		heights:    heights,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForConfig blocks on the watcher and turns its next result into a
// message. It is re-issued after every delivery.
func waitForConfig(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Updates:
			if !ok {
				return nil
			}
			return configMsg{cfg}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return configErrMsg{err}
		}
	}
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return tea.Batch(tick(), waitForConfig(m.watcher))
	}
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		cols := msg.Width - statsWidth - 4
		rows := msg.Height - 1
		if cols > 10 && rows > 5 {
			m.viewport.Resize(cols, rows)
		}
	case tickMsg:
		m.frame(time.Time(msg))
		return m, tick()
	case configMsg:
		if err := m.game.ApplyConfig(msg.cfg); err != nil {
			m.status = "config rejected: " + err.Error()
		} else {
			m.hold.Timeout = msg.cfg.Input.HoldTimeout
			m.status = "config reloaded"
		}
		m.logger.Printf("[tui] %s", m.status)
		return m, waitForConfig(m.watcher)
	case configErrMsg:
		m.status = "config error: " + msg.err.Error()
		m.logger.Printf("[tui] %s", m.status)
		return m, waitForConfig(m.watcher)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cam := m.viewport.Camera
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "space":
		// Terminals report key repeats but never releases.
		if m.hold.Press(m.now()) {
			m.game.Press()
		}
	case "n":
		if _, err := m.game.SpawnSphere(); err != nil {
			m.status = err.Error()
			m.logger.Printf("[tui] spawn: %v", err)
		}
	case "p":
		m.paused = !m.paused
	case "left", "h":
		cam.Orbit(-0.1, 0)
	case "right", "l":
		cam.Orbit(0.1, 0)
	case "up", "k":
		cam.Orbit(0, 0.05)
	case "down", "j":
		cam.Orbit(0, -0.05)
	case "+", "=":
		cam.Zoom(0.9)
	case "-", "_":
		cam.Zoom(1.1)
	case "t":
		m.theme = nextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) frame(t time.Time) {
	if m.hold.Update(m.now()) {
		m.game.ReleasePaddle()
	}
	if !m.lastFrame.IsZero() {
		if dt := t.Sub(m.lastFrame).Seconds(); dt > 0 {
			m.fps = 0.9*m.fps + 0.1/dt
		}
	}
	m.lastFrame = t
	if m.paused {
		return
	}

	f, err := m.game.Tick()
	if err != nil {
		m.logger.Printf("[tui] %v", err)
		return
	}
	m.substeps = f.Substeps
}

func (m Model) View() string {
	st := m.styles
	canvasView := st.canvas.Render(m.viewport.Render(m.game.Proxies()))

	var s strings.Builder
	s.WriteString(st.header.Render("PINGSIM") + "\n")

	state := "RUNNING"
	if m.paused {
		state = "PAUSED"
	}
	s.WriteString(st.value.Render(state) + "\n\n")

	s.WriteString(st.label.Render("Score") + st.score.Render(fmt.Sprintf("%d", m.scoreboard.Score)) + "\n")

	w := m.game.World()
	awake, asleep := 0, 0
	for _, b := range m.game.Spheres() {
		if b.SleepState() == physics.Sleeping {
			asleep++
		} else {
			awake++
		}
	}
	s.WriteString(st.label.Render("Spheres") + st.value.Render(fmt.Sprintf("%d awake, %d asleep", awake, asleep)) + "\n")

	paddle := m.game.Paddle()
	paddleStyle := st.value
	if paddle.State() == control.Rising {
		paddleStyle = st.active
	}
	s.WriteString(st.label.Render("Paddle") + paddleStyle.Render(fmt.Sprintf("%s y=%.2f", paddle.State(), paddle.Height())) + "\n")
	s.WriteString(st.label.Render("Time") + st.value.Render(fmt.Sprintf("%.2fs", w.Time())) + "\n")
	s.WriteString(st.label.Render("Contacts") + st.value.Render(fmt.Sprintf("%d", w.ContactCount())) + "\n")
	s.WriteString(st.label.Render("Frame") + st.value.Render(fmt.Sprintf("%.0f fps, %d sub-steps", m.fps, m.substeps)) + "\n")
	fb := m.game.Feedback()
	s.WriteString(st.label.Render("Sounds") + st.value.Render(fmt.Sprintf("%d played, %d quiet", fb.Played(), fb.Ignored())) + "\n")
	if skipped := m.game.Loop().Skipped(); skipped > 0 || w.DroppedTime() > 0 {
		s.WriteString(st.label.Render("Dropped") + st.warn.Render(fmt.Sprintf("%d frames, %d slow", skipped, w.DroppedTime())) + "\n")
	}

	if len(m.heights.values) > 1 {
		chart := asciigraph.Plot(m.heights.values, asciigraph.Height(5), asciigraph.Width(statsWidth-12), asciigraph.Caption("Highest sphere"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.status != "" {
		s.WriteString(st.warn.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SPACE:paddle N:spawn P:pause\n←→↑↓:orbit +/-:zoom T:theme\n?:help Q:quit"))

	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  SPACE     raise the paddle (hold; released after a short pause)
  N         drop a new sphere
  P         pause or resume
  ARROWS    orbit the camera (h j k l also work)
  + / -     zoom
  T         cycle themes
  ?         toggle this help
  Q         quit
`

// Run starts the interactive program and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
