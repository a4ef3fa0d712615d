package main

import (
	"flag"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/server"
)

func main() {
	addr := flag.String("addr", "", "serve observer websocket on this address (e.g. :8080)")
	watch := flag.Bool("watch", false, "hot-reload prefabs/ edits into the running sim")
	headless := flag.Bool("headless", false, "run the simulation without a window")
	flag.Parse()

	var hub *server.Hub
	if *addr != "" {
		hub = server.NewHub()
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		go func() {
			log.Printf("observer hub listening on %s", *addr)
			if err := http.ListenAndServe(*addr, mux); err != nil {
				log.Fatal(err)
			}
		}()
	}

	var watcher *prefabs.Watcher
	if *watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	game, err := NewGame(hub, watcher)
	if err != nil {
		log.Fatal(err)
	}

	if *headless {
		runHeadless(game)
		return
	}

	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("topdown")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// runHeadless drives the fixed-tick loop on a wall-clock ticker. The threat
// orbits the arena so agents have something to perceive.
func runHeadless(g *Game) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for range ticker.C {
		autopilotThreat(g)
		g.Step()
	}
}

func autopilotThreat(g *Game) {
	tr, ok := ecs.Get(g.world, g.threat, component.TransformComponent)
	if !ok {
		return
	}
	t := g.world.Now() * 0.25
	tr.X = baseWidth/2 + math.Cos(t)*340
	tr.Y = baseHeight/2 + math.Sin(t)*240
}
