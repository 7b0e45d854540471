package app

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"guidraw/pkg/drawlist"
	"guidraw/pkg/stage"
)

const logoAsset = "logo.png"

var (
	panelBG     = [4]uint8{38, 41, 46, 240}
	panelBorder = [4]uint8{90, 95, 105, 255}
	headerBG    = [4]uint8{55, 90, 140, 255}
	textColor   = [4]uint8{220, 222, 226, 255}
	dimText     = [4]uint8{150, 153, 160, 255}
	accent      = [4]uint8{120, 180, 255, 255}
	warnColor   = [4]uint8{230, 90, 80, 255}
)

// buildFrame rebuilds the draw list for one frame.
func (app *App) buildFrame(vp stage.Viewport) {
	app.list.Reset()

	if app.showDemo {
		app.buildDemo()
	}
	if app.showStats {
		fx, _ := vp.Factors()
		app.buildStats(vp.DisplayWidth / fx)
	}
}

func (app *App) buildDemo() {
	l := app.list
	elapsed := float32(time.Since(app.start).Seconds())

	panel := drawlist.Rect{X: 40, Y: 40, W: 400, H: 460}
	l.FillRect(panel, panelBG)
	l.StrokeRect(panel, 1, panelBorder)
	l.FillRect(drawlist.Rect{X: panel.X, Y: panel.Y, W: panel.W, H: 26}, headerBG)
	app.atlas.Draw(l, [2]float32{panel.X + 10, panel.Y + 6}, textColor, "guidraw demo")

	// Color swatches
	swatches := [][4]uint8{
		{230, 80, 70, 255}, {240, 160, 50, 255}, {230, 220, 70, 255},
		{100, 200, 90, 255}, {80, 150, 230, 255}, {160, 100, 220, 255},
	}
	for i, col := range swatches {
		l.FillRect(drawlist.Rect{X: panel.X + 14 + float32(i)*30, Y: panel.Y + 40, W: 24, H: 24}, col)
	}
	app.atlas.Draw(l, [2]float32{panel.X + 14 + float32(len(swatches))*30 + 6, panel.Y + 44}, dimText, "fills")

	// Animated gauge
	center := [2]float32{panel.X + 100, panel.Y + 160}
	l.FillCircle(center, 64, [4]uint8{48, 52, 58, 255})
	l.StrokeCircle(center, 64, 4, panelBorder)
	angle := elapsed * 1.4
	tip := [2]float32{
		center[0] + 52*float32(math.Cos(float64(angle))),
		center[1] + 52*float32(math.Sin(float64(angle))),
	}
	l.StrokeLine(center, tip, 3, accent)
	l.FillCircle(center, 6, accent)

	// Triangle and pentagon
	l.FillTriangle(
		[2]float32{panel.X + 210, panel.Y + 210},
		[2]float32{panel.X + 250, panel.Y + 120},
		[2]float32{panel.X + 290, panel.Y + 210},
		[4]uint8{240, 160, 50, 255},
	)
	pentagon := make([][2]float32, 5)
	for i := range pentagon {
		a := float64(i)*2*math.Pi/5 - math.Pi/2
		pentagon[i] = [2]float32{
			panel.X + 340 + 36*float32(math.Cos(a)),
			panel.Y + 170 + 36*float32(math.Sin(a)),
		}
	}
	l.FillConvexPoly(pentagon, [4]uint8{100, 200, 90, 200})

	// Sine wave polyline
	wave := make([][2]float32, 48)
	for i := range wave {
		t := float32(i) / float32(len(wave)-1)
		wave[i] = [2]float32{
			panel.X + 14 + t*(panel.W-28),
			panel.Y + 270 + 22*float32(math.Sin(float64(t*6+elapsed*2))),
		}
	}
	l.StrokePolyline(wave, 2, accent, false)

	// Clipped overflow: circles drawn wider than the clip window
	clip := drawlist.Rect{X: panel.X + 14, Y: panel.Y + 320, W: panel.W - 28, H: 70}
	l.PushClip(clip)
	for i := 0; i < 9; i++ {
		cx := clip.X - 30 + float32(i)*60 + 40*float32(math.Sin(float64(elapsed)))
		l.FillCircle([2]float32{cx, clip.Y + 35}, 26, swatches[i%len(swatches)])
	}
	l.PopClip()
	l.StrokeRect(clip, 1, panelBorder)
	app.atlas.Draw(l, [2]float32{clip.X, clip.Y + clip.H + 6}, dimText, "scissored")

	// Logo image, when the asset exists
	app.ensureLogo()
	if app.logoOK {
		l.Image(app.logo, drawlist.Rect{X: panel.X + 14, Y: panel.Y + 418, W: 32, H: 32},
			[2]float32{0, 0}, [2]float32{1, 1}, drawlist.White)
		app.atlas.Draw(l, [2]float32{panel.X + 54, panel.Y + 426}, dimText, logoAsset)
	}
}

// ensureLogo registers the logo texture once its asset has decoded.
func (app *App) ensureLogo() {
	if app.logoTried || !app.assets.IsLoaded(logoAsset) {
		return
	}
	app.logoTried = true

	img, err := app.assets.Get(logoAsset)
	if err != nil {
		return
	}
	id, err := app.renderer.RegisterImage(img)
	if err != nil {
		slog.Warn("logo upload failed", "error", err)
		return
	}
	app.logo = id
	app.logoOK = true
}

func (app *App) buildStats(w float32) {
	l := app.list

	// Counts are sampled before the overlay adds its own geometry.
	lines := []string{
		fmt.Sprintf("fps      %d", app.fps),
		fmt.Sprintf("vertices %d", len(l.Vertices())),
		fmt.Sprintf("indices  %d", len(l.Indices())),
		fmt.Sprintf("commands %d", len(l.Commands())),
	}

	lineH := app.atlas.LineHeight()
	box := drawlist.Rect{X: w - 170, Y: 10, W: 160, H: lineH*float32(len(lines)) + 16}
	l.FillRect(box, [4]uint8{20, 22, 26, 200})
	l.StrokeRect(box, 1, panelBorder)

	pos := [2]float32{box.X + 8, box.Y + 8}
	for _, line := range lines {
		app.atlas.Draw(l, pos, textColor, line)
		pos[1] += lineH
	}

	if l.Truncated() {
		app.atlas.Draw(l, [2]float32{box.X + 8, box.Y + box.H + 4}, warnColor, "list truncated")
	}
}
