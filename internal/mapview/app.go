package mapview

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/mapforge/battlemap/internal/mapgen"
)

// tilePx is the pixel size of one tile in the world buffer.
const tilePx = 16

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// hudPanelWidth is the right-hand info panel width in pixels.
const hudPanelWidth = 300

// biomeCycle is the order the B key steps through.
var biomeCycle = []mapgen.Biome{
	mapgen.BiomeTemperateForest,
	mapgen.BiomeGrassland,
	mapgen.BiomeAlpine,
	mapgen.BiomeWetland,
	mapgen.BiomeArid,
}

// App is the interactive map viewer. It owns the current generated map
// and regenerates it in response to key input.
type App struct {
	width  int
	height int
	offX   int // pixel offset from window left to map left
	offY   int // pixel offset from window top to map top

	seed     mapgen.Seed
	biomeIdx int
	current  *mapgen.Map
	genErr   error
	genTime  time.Duration

	showHUD      bool
	showFeatures bool // outline feature bounds
	prevKeys     map[ebiten.Key]bool

	// Offscreen buffer for the rasterised tile grid; rebuilt per
	// generation, blitted with a fit-to-window scale on every frame.
	worldBuf *ebiten.Image
}

func New(mapW, mapH int, seed mapgen.Seed) *App {
	a := &App{
		width:    borderWidth + mapW*tilePx + borderWidth + hudPanelWidth,
		height:   borderWidth + mapH*tilePx + borderWidth,
		offX:     borderWidth,
		offY:     borderWidth,
		seed:     seed,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	a.regenerate(mapW, mapH)
	return a
}

func (a *App) Width() int  { return a.width }
func (a *App) Height() int { return a.height }

func (a *App) regenerate(mapW, mapH int) {
	req := mapgen.DefaultRequest("viewer", mapW, mapH, a.seed)
	req.Biome = biomeCycle[a.biomeIdx]
	start := time.Now()
	m, err := mapgen.Generate(req)
	a.genTime = time.Since(start)
	a.genErr = err
	if err != nil {
		log.Printf("generation failed: %v", err)
		return
	}
	a.current = m
	a.rebuildWorld()
}

// keyPressed reports a rising edge on k.
func (a *App) keyPressed(k ebiten.Key) bool {
	down := ebiten.IsKeyPressed(k)
	was := a.prevKeys[k]
	a.prevKeys[k] = down
	return down && !was
}

func (a *App) Update() error {
	mapW, mapH := a.mapDims()

	if a.keyPressed(ebiten.KeyR) {
		// Fresh random seed; the viewer is the only place wall-clock
		// entropy is allowed to enter.
		n := time.Now().UnixNano()%mapgen.MaxSeed + 1
		seed, err := mapgen.SeedFromNumber(n)
		if err == nil {
			a.seed = seed
			a.regenerate(mapW, mapH)
		}
	}
	if a.keyPressed(ebiten.KeyN) {
		next := int64(a.seed)%mapgen.MaxSeed + 1
		seed, err := mapgen.SeedFromNumber(next)
		if err == nil {
			a.seed = seed
			a.regenerate(mapW, mapH)
		}
	}
	if a.keyPressed(ebiten.KeyB) {
		a.biomeIdx = (a.biomeIdx + 1) % len(biomeCycle)
		a.regenerate(mapW, mapH)
	}
	if a.keyPressed(ebiten.KeyF) {
		a.showFeatures = !a.showFeatures
	}
	if a.keyPressed(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
	if a.keyPressed(ebiten.KeyC) && a.current != nil {
		if err := clipboard.WriteAll(buildReport(a.current)); err != nil {
			log.Printf("clipboard copy failed: %v", err)
		}
	}
	return nil
}

func (a *App) mapDims() (int, int) {
	if a.current == nil {
		return 50, 40
	}
	return a.current.Dimensions.Width, a.current.Dimensions.Height
}

// rebuildWorld rasterises the current map into the world buffer.
func (a *App) rebuildWorld() {
	g := a.current.Grid()
	w, h := g.Cols*tilePx, g.Rows*tilePx
	if a.worldBuf == nil || a.worldBuf.Bounds().Dx() != w || a.worldBuf.Bounds().Dy() != h {
		a.worldBuf = ebiten.NewImage(w, h)
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			t := g.At(col, row)
			c := terrainColor(t.Terrain)
			c = shadeByHeight(c, t.HeightMul)
			vector.DrawFilledRect(a.worldBuf,
				float32(col*tilePx), float32(row*tilePx),
				tilePx, tilePx, c, false)
		}
	}
}

// shadeByHeight darkens low ground and brightens high ground.
func shadeByHeight(c color.RGBA, heightMul float64) color.RGBA {
	f := 0.75 + 0.25*heightMul // heightMul is in [0.5, 1.5]
	scale := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			s = 255
		}
		return uint8(s)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 18, B: 22, A: 255})

	if a.current == nil {
		msg := "generation failed"
		if a.genErr != nil {
			msg = a.genErr.Error()
		}
		ebitenutil.DebugPrintAt(screen, msg, a.offX, a.offY)
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(a.offX), float64(a.offY))
	screen.DrawImage(a.worldBuf, op)

	if a.showFeatures {
		a.drawFeatureBounds(screen)
	}
	if a.showHUD {
		a.drawHUD(screen)
	}
	a.drawHover(screen)
}

// drawFeatureBounds outlines every feature's bounding area.
func (a *App) drawFeatureBounds(screen *ebiten.Image) {
	for _, f := range a.current.Features() {
		c := categoryColor(f.Category)
		x := float32(a.offX + f.Area.X*tilePx)
		y := float32(a.offY + f.Area.Y*tilePx)
		w := float32(f.Area.Width * tilePx)
		h := float32(f.Area.Height * tilePx)
		vector.StrokeRect(screen, x, y, w, h, 1, c, false)
	}
}

func categoryColor(c mapgen.FeatureCategory) color.RGBA {
	switch c {
	case mapgen.CategoryRelief:
		return color.RGBA{R: 200, G: 160, B: 60, A: 200}
	case mapgen.CategoryNatural:
		return color.RGBA{R: 70, G: 190, B: 120, A: 200}
	case mapgen.CategoryArtificial:
		return color.RGBA{R: 230, G: 90, B: 70, A: 200}
	default:
		return color.RGBA{R: 160, G: 160, B: 220, A: 200}
	}
}

func (a *App) drawHUD(screen *ebiten.Image) {
	g := a.current.Grid()
	panelX := a.offX + g.Cols*tilePx + borderWidth
	face := basicfont.Face7x13
	white := color.RGBA{R: 230, G: 230, B: 230, A: 255}

	lines := []string{
		fmt.Sprintf("seed   %d", int64(a.seed)),
		fmt.Sprintf("biome  %s", a.current.Metadata.Biome),
		fmt.Sprintf("size   %dx%d", g.Cols, g.Rows),
		fmt.Sprintf("gen    %s", a.genTime.Round(time.Millisecond)),
		fmt.Sprintf("feats  %d", a.current.FeatureCount()),
		"",
		"[R] random seed",
		"[N] next seed",
		"[B] cycle biome",
		"[F] feature bounds",
		"[C] copy report",
		"[H] toggle HUD",
	}
	y := a.offY + 14
	for _, l := range lines {
		text.Draw(screen, l, face, panelX, y, white)
		y += 16
	}

	y += 8
	for _, t := range featureTypeOrder {
		n := len(a.current.FeaturesOfType(t))
		if n == 0 {
			continue
		}
		text.Draw(screen, fmt.Sprintf("%-13s %d", t, n), face, panelX, y, white)
		y += 16
	}
}

// featureTypeOrder fixes the HUD listing order.
var featureTypeOrder = []mapgen.FeatureType{
	mapgen.FeatureRiver,
	mapgen.FeatureLake,
	mapgen.FeatureSpring,
	mapgen.FeatureWetland,
	mapgen.FeatureForest,
	mapgen.FeatureGrassland,
	mapgen.FeatureBuilding,
	mapgen.FeatureRoad,
	mapgen.FeatureBridge,
	mapgen.FeatureRockOutcrop,
	mapgen.FeatureCave,
	mapgen.FeatureSinkhole,
}

// drawHover shows tactical info for the tile under the cursor.
func (a *App) drawHover(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	col := (mx - a.offX) / tilePx
	row := (my - a.offY) / tilePx
	g := a.current.Grid()
	if mx < a.offX || my < a.offY || !g.InBounds(col, row) {
		return
	}
	t := g.At(col, row)
	info := fmt.Sprintf("(%d,%d) %s  move %.2f  cover %s  conceal %s",
		col, row, t.Terrain, t.MovementCost, t.Cover, t.Concealment)
	if t.PrimaryFeature != "" {
		info += "  " + string(t.PrimaryFeature)
	}
	ebitenutil.DebugPrintAt(screen, info, a.offX, a.height-18)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}
