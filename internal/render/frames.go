package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/throwsim/internal/bodies"
	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
	"github.com/san-kum/throwsim/internal/logging"
)

// ErrNoFFmpeg is returned when MP4 encoding is requested but ffmpeg is
// not on the PATH.
var ErrNoFFmpeg = errors.New("render: ffmpeg not found on PATH")

var (
	bgColor     = color.RGBA{20, 20, 20, 255}
	groundColor = color.RGBA{170, 170, 170, 255}
	bodyColor   = color.RGBA{240, 200, 80, 255}
	trailColor  = color.RGBA{70, 90, 110, 255}
	comColor    = color.RGBA{240, 70, 70, 255}
)

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawCircleFilled(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))

	rsq := r * r
	b := img.Bounds()

	for y := minY; y <= maxY; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			dx := (float64(x) + 0.5) - cx
			dy := (float64(y) + 0.5) - cy
			if dx*dx+dy*dy <= rsq {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawThickLine stamps small circles along the segment.
func drawThickLine(img *image.RGBA, x1, y1, x2, y2, width float64, c color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist < 1e-6 {
		drawCircleFilled(img, x1, y1, width/2, c)
		return
	}
	steps := int(dist / 0.8)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		drawCircleFilled(img, x1+t*dx, y1+t*dy, width/2, c)
	}
}

// camera maps world coordinates to pixels with a uniform scale and a
// flipped y axis.
type camera struct {
	ppm    float64 // pixels per meter
	minX   float64
	maxY   float64
	width  int
	height int
}

func newCamera(body bodies.Body, result *flight.Result, width, height int) camera {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, x := range result.States {
		minX = math.Min(minX, x[flight.IX])
		minY = math.Min(minY, x[flight.IY])
		maxX = math.Max(maxX, x[flight.IX])
		maxY = math.Max(maxY, x[flight.IY])
	}
	if result.Len() == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	margin := body.Reach() * 1.5
	minX -= margin
	maxX += margin
	minY = math.Min(minY-margin, -0.25)
	maxY += margin

	ppm := math.Min(float64(width)/(maxX-minX), float64(height)/(maxY-minY))

	// Center the slack axis.
	minX -= (float64(width)/ppm - (maxX - minX)) / 2
	maxY += (float64(height)/ppm - (maxY - minY)) / 2

	return camera{ppm: ppm, minX: minX, maxY: maxY, width: width, height: height}
}

func (c camera) at(p geom.Vec2) (float64, float64) {
	return (p.X - c.minX) * c.ppm, (c.maxY - p.Y) * c.ppm
}

// drawFrame paints one state onto img: ground, trail up to the frame
// time, silhouette, center of mass.
func drawFrame(img *image.RGBA, cam camera, body bodies.Body, x flight.State, trail []geom.Vec2) {
	fill(img, bgColor)

	gx0, gy := cam.at(geom.V(cam.minX, 0))
	gx1, _ := cam.at(geom.V(cam.minX+float64(cam.width)/cam.ppm, 0))
	drawThickLine(img, gx0, gy, gx1, gy, 2, groundColor)

	for _, p := range trail {
		tx, ty := cam.at(p)
		drawCircleFilled(img, tx, ty, 1.2, trailColor)
	}

	for _, seg := range body.Silhouette(x) {
		ax, ay := cam.at(seg.A)
		bx, by := cam.at(seg.B)
		drawThickLine(img, ax, ay, bx, by, 4, bodyColor)
	}

	cx, cy := cam.at(bodies.CenterOfMass(x))
	drawCircleFilled(img, cx, cy, 3.5, comColor)
}

// sampleAt linearly interpolates the trajectory at time t, drawing its
// scratch state from pool. Callers return the state with pool.Put once
// the frame is painted.
func sampleAt(pool *flight.StatePool, result *flight.Result, t float64) flight.State {
	times := result.Times
	n := len(times)
	i := sort.SearchFloat64s(times, t)
	if i <= 0 {
		return pool.GetAndCopy(result.States[0])
	}
	if i >= n {
		return pool.GetAndCopy(result.States[n-1])
	}

	span := times[i] - times[i-1]
	if span <= 0 {
		return pool.GetAndCopy(result.States[i])
	}
	frac := (t - times[i-1]) / span

	a, b := result.States[i-1], result.States[i]
	out := pool.Get()
	for k := range a {
		out[k] = a[k] + frac*(b[k]-a[k])
	}
	return out
}

// RenderFrames writes the trajectory as a PNG sequence named
// frame_%06d.png, resampled at fps. Frames render in parallel since each
// one depends only on the trajectory. Returns the number of frames.
func RenderFrames(framesDir string, body bodies.Body, result *flight.Result, fps, width, height int) (int, error) {
	if result.Len() == 0 {
		return 0, fmt.Errorf("render: empty trajectory")
	}
	if fps <= 0 {
		fps = 30
	}

	if err := CleanFrames(framesDir); err != nil {
		return 0, err
	}

	duration := result.Times[result.Len()-1] - result.Times[0]
	total := int(math.Round(duration*float64(fps))) + 1
	cam := newCamera(body, result, width, height)

	// Full center-of-mass track; each frame slices its prefix.
	track := make([]geom.Vec2, result.Len())
	for i, x := range result.States {
		track[i] = bodies.CenterOfMass(x)
	}

	logging.L().Info("rendering frames",
		zap.Int("frames", total),
		zap.Int("fps", fps),
		zap.String("dir", framesDir))

	pool := flight.NewStatePool(len(result.States[0]))

	var mu sync.Mutex
	var firstErr error
	flight.ParallelFor(total, 16, func(start, end int) {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		for frame := start; frame < end; frame++ {
			t := result.Times[0] + float64(frame)/float64(fps)
			x := sampleAt(pool, result, t)

			upto := sort.SearchFloat64s(result.Times, t)
			drawFrame(img, cam, body, x, track[:upto])
			pool.Put(x)

			if err := writePNG(filepath.Join(framesDir, fmt.Sprintf("frame_%06d.png", frame)), img); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
		}
	})
	if firstErr != nil {
		return 0, firstErr
	}

	logging.L().Info("frames written", zap.Int("frames", total))
	return total, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create frame: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := png.Encode(bw, img); err != nil {
		f.Close()
		return fmt.Errorf("render: encode frame: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CleanFrames removes PNG frames left by earlier runs so encoders never
// mix trajectories.
func CleanFrames(framesDir string) error {
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return err
	}
	frames, err := listFrames(framesDir)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}

func listFrames(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// RenderGIF writes the trajectory as an animated GIF without external
// tools. The palette holds exactly the drawing colors so quantization is
// lossless.
func RenderGIF(path string, body bodies.Body, result *flight.Result, fps, width, height int) error {
	if result.Len() == 0 {
		return fmt.Errorf("render: empty trajectory")
	}
	if fps <= 0 {
		fps = 30
	}

	duration := result.Times[result.Len()-1] - result.Times[0]
	total := int(math.Round(duration*float64(fps))) + 1
	cam := newCamera(body, result, width, height)

	track := make([]geom.Vec2, result.Len())
	for i, x := range result.States {
		track[i] = bodies.CenterOfMass(x)
	}

	palette := color.Palette{bgColor, groundColor, bodyColor, trailColor, comColor}
	delay := 100 / fps
	if delay < 2 {
		delay = 2
	}

	anim := gif.GIF{LoopCount: 0}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pool := flight.NewStatePool(len(result.States[0]))
	for frame := 0; frame < total; frame++ {
		t := result.Times[0] + float64(frame)/float64(fps)
		x := sampleAt(pool, result, t)

		upto := sort.SearchFloat64s(result.Times, t)
		drawFrame(img, cam, body, x, track[:upto])
		pool.Put(x)

		pimg := image.NewPaletted(img.Bounds(), palette)
		draw.Draw(pimg, img.Bounds(), img, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, pimg)
		anim.Delay = append(anim.Delay, delay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create gif: %w", err)
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// EncodeMP4 stitches a frame sequence into a video using ffmpeg.
func EncodeMP4(framesDir string, fps int, outMP4 string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrNoFFmpeg
	}

	cmd := exec.Command("ffmpeg",
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", filepath.Join(framesDir, "frame_%06d.png"),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outMP4,
	)
	cmd.Stdout = nil
	cmd.Stderr = nil

	logging.L().Info("encoding mp4", zap.String("out", outMP4), zap.Int("fps", fps))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("render: ffmpeg: %w", err)
	}
	logging.L().Info("mp4 created", zap.String("out", outMP4))
	return nil
}
