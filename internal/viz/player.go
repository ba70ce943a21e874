package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dpend/internal/dynamo"
)

const (
	width  = 60
	height = 24

	// TrailSeconds is how much history each bob leaves behind.
	TrailSeconds = 1.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().MarginTop(1)
)

var speeds = []float64{0.25, 0.5, 1, 2, 4}

type TickMsg time.Time

// Player replays a finished trajectory in real time. It never integrates;
// every frame is a stored sample.
type Player struct {
	title     string
	tr        *dynamo.Trajectory
	positions []dynamo.Position
	energy    []float64
	canvas    *Canvas
	layout    Layout
	frame     int
	speed     int
	elapsed   float64
	last      time.Time
	running   bool
	showHelp  bool
}

// NewPlayer prepares a replay. energy may be nil; if given it must be
// index-aligned with the trajectory.
func NewPlayer(title string, tr *dynamo.Trajectory, energy []float64) *Player {
	c := NewCanvas(width, height)
	return &Player{
		title:     title,
		tr:        tr,
		positions: tr.Positions(),
		energy:    energy,
		canvas:    c,
		layout:    NewLayout(c),
		speed:     2,
		running:   true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p *Player) Init() tea.Cmd {
	return tick()
}

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			p.running = !p.running
			p.last = time.Time{}
		case "r":
			p.Seek(0)
		case "[":
			p.Seek(p.frame - 1)
		case "]":
			p.Seek(p.frame + 1)
		case "+", "=":
			p.speed = min(p.speed+1, len(speeds)-1)
		case "-", "_":
			p.speed = max(p.speed-1, 0)
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			p.showHelp = !p.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		if p.running && !p.last.IsZero() {
			p.Advance(now.Sub(p.last).Seconds())
		}
		p.last = now
		return p, tick()
	}
	return p, nil
}

// Advance moves playback forward by wall seconds scaled by the current
// speed. Playback stops on the last sample.
func (p *Player) Advance(wall float64) {
	if p.tr.Len() == 0 || p.tr.Dt <= 0 {
		return
	}
	p.elapsed += wall * speeds[p.speed]
	p.frame = min(int(p.elapsed/p.tr.Dt), p.tr.Len()-1)
	if p.frame == p.tr.Len()-1 {
		p.running = false
	}
}

// Seek jumps to sample i, clamped to the trajectory.
func (p *Player) Seek(i int) {
	p.frame = max(0, min(i, p.tr.Len()-1))
	p.elapsed = float64(p.frame) * p.tr.Dt
}

func (p *Player) Frame() int { return p.frame }

func (p *Player) draw() {
	p.canvas.Clear()
	DrawFrame(p.canvas, p.layout, TrailWindow(p.positions, p.frame, p.tr.Dt, TrailSeconds))
}

func (p *Player) View() string {
	if p.tr.Len() == 0 {
		return "empty trajectory\n"
	}
	p.draw()
	canvasView := canvasStyle.Render(p.canvas.String())

	sample := p.tr.Samples[p.frame]
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(p.title), CurrentTheme.Primary, CurrentTheme.Secondary) + "\n\n")
	status := StatusRunning.Render("PLAYING")
	if !p.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  x%.2g\n", status, speeds[p.speed]))
	s.WriteString(ProgressBar(float64(p.frame)/float64(max(1, p.tr.Len()-1)), 30) + "\n\n")

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", sample.Time)) + "\n")
	s.WriteString(labelStyle.Render("θ1") + valueStyle.Render(fmt.Sprintf("%+.3f", sample.State[dynamo.Theta1])) + "\n")
	s.WriteString(labelStyle.Render("θ2") + valueStyle.Render(fmt.Sprintf("%+.3f", sample.State[dynamo.Theta2])) + "\n")
	s.WriteString(labelStyle.Render("ω1") + valueStyle.Render(fmt.Sprintf("%+.3f", sample.State[dynamo.Omega1])) + "\n")
	s.WriteString(labelStyle.Render("ω2") + valueStyle.Render(fmt.Sprintf("%+.3f", sample.State[dynamo.Omega2])) + "\n")

	if len(p.energy) > p.frame && p.frame > 0 {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", p.energy[p.frame])) + "\n")
		chart := asciigraph.Plot(p.energy[:p.frame+1], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Foreground(CurrentTheme.Muted).Render(Separator(30) + "\nSP:Pause R:Restart Q:Quit\n[ ]:Step  +/-:Speed ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if p.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from t = 0       ║
║  Q        - Quit                     ║
║  [        - Previous frame           ║
║  ]        - Next frame               ║
║  + / -    - Playback speed           ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Play runs the replay until the user quits.
func Play(title string, tr *dynamo.Trajectory, energy []float64) error {
	_, err := tea.NewProgram(NewPlayer(title, tr, energy), tea.WithAltScreen()).Run()
	return err
}

// Snapshot renders the frame at sample i without starting a program.
func Snapshot(tr *dynamo.Trajectory, i int, w, h int) *Canvas {
	c := NewCanvas(w, h)
	DrawFrame(c, NewLayout(c), TrailWindow(tr.Positions(), i, tr.Dt, TrailSeconds))
	return c
}
