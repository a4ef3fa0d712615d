package system

import (
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
)

const (
	hookEnter = "enter"
	hookExit  = "exit"
)

// Behavior scripts export onEnter(engine, from, to) and onExit(engine, from,
// to); this dispatcher is appended so one compiled program serves both hooks.
const hookDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __from, __to)
} else if __phase == "exit" {
	onExit(__engine, __from, __to)
}
`

// scriptRuntime runs optional per-archetype tengo hooks on state
// transitions. Scripts are compiled once per archetype; a script that fails
// to compile or run is logged and disabled rather than breaking the tick.
type scriptRuntime struct {
	cache map[string]*compiledHooks
}

type compiledHooks struct {
	compiled *tengo.Compiled
	broken   bool
}

func newScriptRuntime() *scriptRuntime {
	return &scriptRuntime{cache: map[string]*compiledHooks{}}
}

func (rt *scriptRuntime) runHook(ctx *tickContext, phase string, from, to component.BehaviorState) {
	if rt == nil || ctx == nil || ctx.Agent == nil {
		return
	}
	name := strings.TrimSpace(ctx.Agent.Script)
	if name == "" {
		return
	}

	hooks := rt.load(name)
	if hooks == nil || hooks.broken {
		return
	}

	engine := buildScriptEngine(ctx)
	c := hooks.compiled
	if err := c.Set("__phase", phase); err != nil {
		return
	}
	if err := c.Set("__engine", engine); err != nil {
		return
	}
	if err := c.Set("__from", from.String()); err != nil {
		return
	}
	if err := c.Set("__to", to.String()); err != nil {
		return
	}
	if err := c.Run(); err != nil {
		log.Printf("behavior: entity=%s script %s %s hook error: %v", ctx.Entity, name, phase, err)
		hooks.broken = true
	}
}

func (rt *scriptRuntime) load(name string) *compiledHooks {
	if hooks, ok := rt.cache[name]; ok {
		return hooks
	}

	hooks := &compiledHooks{}
	rt.cache[name] = hooks

	src, err := prefabs.LoadScript(name)
	if err != nil {
		log.Printf("behavior: load script %s: %v", name, err)
		hooks.broken = true
		return hooks
	}

	script := tengo.NewScript(append(src, []byte("\n"+hookDispatchScript)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__from", "")
	_ = script.Add("__to", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		log.Printf("behavior: compile script %s: %v", name, err)
		hooks.broken = true
		return hooks
	}
	hooks.compiled = compiled
	return hooks
}

func buildScriptEngine(ctx *tickContext) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["health_fraction"] = &tengo.UserFunction{Name: "health_fraction", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctx.Health.Fraction()}, nil
	}}

	values["distance_to_threat"] = &tengo.UserFunction{Name: "distance_to_threat", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctx.Percep.Distance}, nil
	}}

	values["threat_visible"] = &tengo.UserFunction{Name: "threat_visible", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.Percep.Visible {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["set_speed_scale"] = &tengo.UserFunction{Name: "set_speed_scale", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		f, ok := tengo.ToFloat64(args[0])
		if !ok || f <= 0 {
			return tengo.FalseValue, nil
		}
		ctx.State.SpeedScale = f
		return tengo.TrueValue, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: ctx.Transform.X},
			&tengo.Float{Value: ctx.Transform.Y},
		}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, strings.Trim(a.String(), "\""))
		}
		log.Printf("behavior: entity=%s %s", ctx.Entity, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
