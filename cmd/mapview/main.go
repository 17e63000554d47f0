package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mapforge/battlemap/internal/mapgen"
	"github.com/mapforge/battlemap/internal/mapview"
)

func main() {
	var seedArg string
	var width, height int
	flag.StringVar(&seedArg, "seed", "epic-mountain-valley", "seed (string)")
	flag.IntVar(&width, "width", 50, "map width in tiles")
	flag.IntVar(&height, "height", 40, "map height in tiles")
	flag.Parse()

	seed, err := mapgen.SeedFromString(seedArg)
	if err != nil {
		log.Fatal(err)
	}

	app := mapview.New(width, height, seed)
	ebiten.SetWindowTitle("Battle Map Viewer")
	ebiten.SetWindowSize(app.Width(), app.Height())
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
