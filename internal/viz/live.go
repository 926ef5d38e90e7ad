package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/throwsim/internal/bodies"
	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
)

const (
	canvasWidth  = 80
	canvasHeight = 24

	minSpeed = 0.125
	maxSpeed = 8.0
)

type TickMsg time.Time

// Model replays a finished trajectory frame by frame. It never steps the
// physics itself; everything shown was integrated before the program
// started.
type Model struct {
	body   bodies.Body
	result *flight.Result

	canvas *Canvas
	vp     Viewport

	t       float64 // playback time
	cursor  int     // sample index at or before t
	speed   float64
	fps     int
	playing bool

	coms    []geom.Vec2
	heights []float64

	recording bool
	gifPath   string
	frames    []*image.Paletted

	showHelp bool
}

// NewModel precomputes the camera and the center-of-mass track for the
// whole trajectory so playback is allocation-free.
func NewModel(body bodies.Body, result *flight.Result, fps int, gifPath string) Model {
	canvas := NewCanvas(canvasWidth, canvasHeight)

	coms := make([]geom.Vec2, len(result.States))
	heights := make([]float64, len(result.States))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, x := range result.States {
		com := bodies.CenterOfMass(x)
		coms[i] = com
		heights[i] = x[flight.IY]
		minX = math.Min(minX, com.X)
		minY = math.Min(minY, com.Y)
		maxX = math.Max(maxX, com.X)
		maxY = math.Max(maxY, com.Y)
	}
	if len(result.States) == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	// Keep the ground line in frame and leave room for the spinning body.
	minY = math.Min(minY, 0)
	vp := FitViewport(canvas, minX, minY, maxX, maxY, body.Reach()*1.25)

	if fps <= 0 {
		fps = 30
	}

	return Model{
		body:    body,
		result:  result,
		canvas:  canvas,
		vp:      vp,
		speed:   1.0,
		fps:     fps,
		playing: true,
		coms:    coms,
		heights: heights,
		gifPath: gifPath,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles playback controls and the frame clock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.seek(0)
		case "[":
			m.playing = false
			m.seek(m.t - 0.1)
		case "]":
			m.playing = false
			m.seek(m.t + 0.1)
		case "+", "=":
			m.speed = math.Min(m.speed*1.5, maxSpeed)
		case "-", "_":
			m.speed = math.Max(m.speed/1.5, minSpeed)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.playing {
			m.advance(m.speed / float64(m.fps))
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance moves playback time forward, looping at the end of the
// trajectory.
func (m *Model) advance(dt float64) {
	if m.result.Len() == 0 {
		return
	}
	end := m.result.Times[m.result.Len()-1]
	t := m.t + dt
	if t > end {
		t = 0
	}
	m.seek(t)
}

// seek positions the cursor at the last sample not after t.
func (m *Model) seek(t float64) {
	n := m.result.Len()
	if n == 0 {
		return
	}
	end := m.result.Times[n-1]
	if t < 0 {
		t = 0
	}
	if t > end {
		t = end
	}
	m.t = t

	if t < m.result.Times[m.cursor] {
		m.cursor = 0
	}
	for m.cursor+1 < n && m.result.Times[m.cursor+1] <= t {
		m.cursor++
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.result.Len() == 0 {
		return
	}

	m.canvas.DrawGround(m.vp, 0)

	for i := 0; i <= m.cursor; i++ {
		m.canvas.DrawMarker(m.vp, m.coms[i])
	}

	state := m.result.States[m.cursor]
	for _, seg := range m.body.Silhouette(state) {
		m.canvas.DrawSegment(m.vp, seg)
	}

	cx, cy := m.vp.ToScreen(bodies.CenterOfMass(state))
	m.canvas.Dot(cx, cy)
}

// View renders the canvas beside the instrument panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper("thrown "+m.body.Name())) + "\n")

	status := statusRunning.Render("PLAYING")
	if !m.playing {
		status = statusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + statusRecording.Render("REC")
	}
	s.WriteString(fmt.Sprintf("%s  %.2gx\n\n", status, m.speed))

	var state flight.State
	end := 0.0
	if m.result.Len() > 0 {
		state = m.result.States[m.cursor]
		end = m.result.Times[m.result.Len()-1]
	} else {
		state = flight.NewState(0, 0, 0, 0, 0, 0)
	}

	frac := 0.0
	if end > 0 {
		frac = m.t / end
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs / %.2fs", m.t, end)) + "\n")
	s.WriteString(labelStyle.Render("") + valueStyle.Render(ProgressBar(frac, 20)) + "\n\n")

	s.WriteString(labelStyle.Render("Height") + valueStyle.Render(fmt.Sprintf("%.2f m", state[flight.IY])) + "\n")
	s.WriteString(labelStyle.Render("Angle") + valueStyle.Render(fmt.Sprintf("%.2f rad", geom.WrapAngle(state[flight.ITheta]))) + "\n")
	s.WriteString(labelStyle.Render("Spin") + valueStyle.Render(fmt.Sprintf("%.2f rad/s", state[flight.IOmega])) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f J", m.body.Energy(state))) + "\n")

	if m.cursor > 0 {
		chart := asciigraph.Plot(m.heights[:m.cursor+1],
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("height"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Restart Q:Quit\n[ ]:Scrub +/-:Speed\nG:Record T:Theme ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause / resume playback  ║
║  R        - Restart from release     ║
║  [        - Step back 0.1s           ║
║  ]        - Step forward 0.1s        ║
║  + / -    - Faster / slower          ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// captureFrame rasterizes the braille grid into a paletted image, one
// 4x4 pixel block per dot.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})

	dotW, dotH := charW/2, charH/4
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - 0x2800)
			if pattern == 0 {
				continue
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}

	delay := 100 / m.fps
	if delay < 2 {
		delay = 2
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	path := m.gifPath
	if path == "" {
		path = "throw.gif"
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
