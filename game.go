package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/entity"
	"github.com/milk9111/topdown/ecs/system"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/server"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickRate    = 60
	threatSpeed = 150.0
	agentSize   = 18.0
	threatSize  = 14.0
)

type wallRect struct {
	x, y, w, h float64
}

type Game struct {
	world  *ecs.World
	agents *system.AgentSystem
	hub    *server.Hub
	watch  *prefabs.Watcher

	threat ecs.Entity
	walls  []wallRect
	paused bool
}

func NewGame(hub *server.Hub, watch *prefabs.Watcher) (*Game, error) {
	world := ecs.NewWorld(1.0 / tickRate)

	pw := ecs.NewPhysicsWorld(baseWidth, baseHeight)
	world.SetPhysicsWorld(pw)

	walls := arenaWalls()
	for _, wr := range walls {
		pw.AddWall(wr.x, wr.y, wr.w, wr.h)
	}

	agents := system.NewAgentSystem()
	world.AddSystem(system.NewPerceptionSystem())
	world.AddSystem(agents)
	world.AddSystem(system.NewCombatSystem())
	world.AddSystem(system.NewAlertSystem())
	world.AddSystem(system.NewMovementSystem(system.NewGridPathfinder(pw, 32)))

	g := &Game{
		world:  world,
		agents: agents,
		hub:    hub,
		watch:  watch,
		walls:  walls,
	}
	if err := g.populate(); err != nil {
		return nil, err
	}
	return g, nil
}

// arenaWalls returns the border walls plus two interior occluders that break
// line of sight across the middle of the arena.
func arenaWalls() []wallRect {
	const t = 16.0
	return []wallRect{
		{0, 0, baseWidth, t},
		{0, baseHeight - t, baseWidth, t},
		{0, 0, t, baseHeight},
		{baseWidth - t, 0, t, baseHeight},
		{520, 180, 240, 36},
		{360, 420, 36, 200},
	}
}

func (g *Game) populate() error {
	grunt, err := prefabs.LoadArchetype("grunt")
	if err != nil {
		return fmt.Errorf("load grunt archetype: %w", err)
	}
	sentry, err := prefabs.LoadArchetype("sentry")
	if err != nil {
		return fmt.Errorf("load sentry archetype: %w", err)
	}

	entity.BuildAgent(g.world, grunt, 180, 140, []component.Waypoint{
		{X: 180, Y: 140},
		{X: 460, Y: 140},
		{X: 460, Y: 340},
		{X: 180, Y: 340},
	})
	entity.BuildAgent(g.world, grunt, 940, 560, []component.Waypoint{
		{X: 940, Y: 560},
		{X: 1140, Y: 560},
		{X: 1140, Y: 300},
	})
	// no waypoints: the sentry holds its post until something wakes it
	entity.BuildAgent(g.world, sentry, 900, 120, nil)

	g.threat = entity.BuildThreat(g.world, baseWidth/2, baseHeight/2, 80)
	return nil
}

// Step advances the simulation one fixed tick and publishes observer
// snapshots. The headless runner calls this directly.
func (g *Game) Step() {
	g.drainReloads()
	g.world.Update()
	g.logEvents()

	if g.hub != nil && g.world.Tick()%3 == 0 {
		g.hub.Broadcast(g.snapshot())
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	g.handleDebugKeys()
	if g.paused {
		return nil
	}

	g.moveThreat(g.inputAxis())
	g.Step()
	return nil
}

func (g *Game) inputAxis() (float64, float64) {
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += 1
	}
	return dx, dy
}

func (g *Game) moveThreat(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	tr, ok := ecs.Get(g.world, g.threat, component.TransformComponent)
	if !ok {
		return
	}
	if h, ok := ecs.Get(g.world, g.threat, component.HealthComponent); ok && !h.IsAlive() {
		return
	}

	length := math.Hypot(dx, dy)
	step := threatSpeed * g.world.DT()
	x := tr.X + dx/length*step
	y := tr.Y + dy/length*step

	const margin = 24.0
	tr.X = math.Max(margin, math.Min(baseWidth-margin, x))
	tr.Y = math.Max(margin, math.Min(baseHeight-margin, y))
}

func (g *Game) handleDebugKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if h, ok := ecs.Get(g.world, g.threat, component.HealthComponent); ok {
			h.Current = h.Max
			h.Dead = false
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		if e, ok := g.nearestAgent(); ok {
			system.RequestStun(g.world, e, 3)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		if e, ok := g.nearestAgent(); ok {
			system.RequestKill(g.world, e)
		}
	}
}

// nearestAgent finds the living agent closest to the threat.
func (g *Game) nearestAgent() (ecs.Entity, bool) {
	tr, ok := ecs.Get(g.world, g.threat, component.TransformComponent)
	if !ok {
		return 0, false
	}

	var best ecs.Entity
	bestDist := math.Inf(1)
	found := false
	ecs.ForEach2(g.world, component.AgentStateComponent, component.TransformComponent, func(e ecs.Entity, st *component.AgentState, at *component.Transform) {
		if !st.Alive() {
			return
		}
		d := math.Hypot(at.X-tr.X, at.Y-tr.Y)
		if d < bestDist {
			best, bestDist, found = e, d, true
		}
	})
	return best, found
}

func (g *Game) logEvents() {
	for _, evt := range g.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventStateChange:
			log.Printf("agent %s: %v", evt.Entity, evt.Data)
		case ecs.EventDeath:
			log.Printf("agent %s died", evt.Entity)
		}
	}
}

func (g *Game) snapshot() server.WorldSnapshot {
	snap := server.WorldSnapshot{Tick: g.world.Tick()}
	ecs.ForEach2(g.world, component.AgentComponent, component.AgentStateComponent, func(e ecs.Entity, ag *component.Agent, st *component.AgentState) {
		tr, ok := ecs.Get(g.world, e, component.TransformComponent)
		if !ok {
			return
		}
		frac := 0.0
		if h, ok := ecs.Get(g.world, e, component.HealthComponent); ok {
			frac = h.Fraction()
		}
		snap.Agents = append(snap.Agents, server.AgentSnapshot{
			ID:     e.String(),
			Name:   ag.Name,
			X:      tr.X,
			Y:      tr.Y,
			State:  st.Current.String(),
			Health: frac,
		})
	})
	return snap
}

// drainReloads applies pending prefab and script edits to live agents.
func (g *Game) drainReloads() {
	if g.watch == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watch.Events:
			if !ok {
				g.watch = nil
				return
			}
			g.applyReload(path)
		case err, ok := <-g.watch.Errors:
			if ok && err != nil {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) applyReload(path string) {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	if ext == ".tengo" {
		log.Printf("reload script %s", base)
		g.agents.InvalidateScripts()
		return
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	spec, err := prefabs.LoadArchetype(name)
	if err != nil {
		log.Printf("reload archetype %s: %v", name, err)
		return
	}
	tuned := spec.Agent()

	count := 0
	ecs.ForEach(g.world, component.AgentComponent, func(e ecs.Entity, ag *component.Agent) {
		if ag.Name != tuned.Name {
			return
		}
		*ag = tuned
		count++
	})
	log.Printf("reload archetype %s: retuned %d agents", name, count)
}

var stateColors = map[component.BehaviorState]color.RGBA{
	component.StateIdle:    colornames.Slategray,
	component.StatePatrol:  colornames.Steelblue,
	component.StateAlert:   colornames.Gold,
	component.StateChase:   colornames.Darkorange,
	component.StateCombat:  colornames.Crimson,
	component.StateSearch:  colornames.Mediumpurple,
	component.StateReturn:  colornames.Seagreen,
	component.StateDead:    colornames.Dimgray,
	component.StateStunned: colornames.Lightskyblue,
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 26, B: 32, A: 255})

	for _, wr := range g.walls {
		vector.FillRect(screen, float32(wr.x), float32(wr.y), float32(wr.w), float32(wr.h), colornames.Darkslategray, false)
	}

	ecs.ForEach2(g.world, component.AgentStateComponent, component.TransformComponent, func(e ecs.Entity, st *component.AgentState, tr *component.Transform) {
		clr, ok := stateColors[st.Current]
		if !ok {
			clr = colornames.White
		}
		half := float32(agentSize / 2)
		vector.FillRect(screen, float32(tr.X)-half, float32(tr.Y)-half, agentSize, agentSize, clr, false)

		// facing tick
		fx := tr.X + math.Cos(tr.Heading)*agentSize
		fy := tr.Y + math.Sin(tr.Heading)*agentSize
		vector.StrokeLine(screen, float32(tr.X), float32(tr.Y), float32(fx), float32(fy), 2, colornames.Lightgrey, false)
	})

	if tr, ok := ecs.Get(g.world, g.threat, component.TransformComponent); ok {
		clr := colornames.White
		if h, ok := ecs.Get(g.world, g.threat, component.HealthComponent); ok && !h.IsAlive() {
			clr = colornames.Dimgray
		}
		half := float32(threatSize / 2)
		vector.FillRect(screen, float32(tr.X)-half, float32(tr.Y)-half, threatSize, threatSize, clr, false)
	}

	status := fmt.Sprintf("FPS: %.0f    tick: %d    WASD move | Space pause | T stun | K kill | R revive", ebiten.ActualFPS(), g.world.Tick())
	if g.paused {
		status += "    [paused]"
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
