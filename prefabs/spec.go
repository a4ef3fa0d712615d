package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/topdown/ecs/component"
)

// ArchetypeSpec is the YAML shape of an agent archetype prefab. Distances
// are world units, durations seconds. Zero values fall back to defaults so
// prefabs only need to state what they change.
type ArchetypeSpec struct {
	Name string `yaml:"name"`

	MoveSpeed  float64 `yaml:"move_speed"`
	ChaseSpeed float64 `yaml:"chase_speed"`
	TurnRate   float64 `yaml:"turn_rate"`

	DetectionRange float64 `yaml:"detection_range"`
	FollowRange    float64 `yaml:"follow_range"`
	AttackRange    float64 `yaml:"attack_range"`

	AttackCooldown float64 `yaml:"attack_cooldown"`
	AttackWindup   float64 `yaml:"attack_windup"`
	AttackDamage   float64 `yaml:"attack_damage"`

	CombatTimeout         float64 `yaml:"combat_timeout"`
	MinTransitionInterval float64 `yaml:"min_transition_interval"`
	AlertReactionDelay    float64 `yaml:"alert_reaction_delay"`
	AlertRadius           float64 `yaml:"alert_radius"`
	ArrivalEpsilon        float64 `yaml:"arrival_epsilon"`

	Health float64 `yaml:"health"`

	Flee struct {
		Enabled   bool    `yaml:"enabled"`
		Threshold float64 `yaml:"threshold"`
	} `yaml:"flee"`

	Patrol struct {
		Dwell  float64 `yaml:"dwell"`
		Random bool    `yaml:"random"`
	} `yaml:"patrol"`

	Search struct {
		Sweeps int     `yaml:"sweeps"`
		Pause  float64 `yaml:"pause"`
	} `yaml:"search"`

	Script string `yaml:"script"`
}

// LoadArchetype reads and parses an archetype prefab by file name
// (basename, .yaml optional).
func LoadArchetype(name string) (*ArchetypeSpec, error) {
	file := name
	if len(file) < 5 || file[len(file)-5:] != ".yaml" {
		file += ".yaml"
	}
	data, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", file, err)
	}
	var spec ArchetypeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", file, err)
	}
	if spec.Name == "" {
		spec.Name = name
	}
	return &spec, nil
}

// Agent converts the prefab into the runtime tuning component, filling
// defaults for anything the prefab left unset.
func (s *ArchetypeSpec) Agent() component.Agent {
	a := component.Agent{
		Name:                  s.Name,
		MoveSpeed:             valueOr(s.MoveSpeed, 60),
		ChaseSpeed:            valueOr(s.ChaseSpeed, 110),
		TurnRate:              valueOr(s.TurnRate, 6),
		DetectionRange:        valueOr(s.DetectionRange, 160),
		FollowRange:           valueOr(s.FollowRange, 260),
		AttackRange:           valueOr(s.AttackRange, 28),
		AttackCooldown:        valueOr(s.AttackCooldown, 1.2),
		AttackWindup:          valueOr(s.AttackWindup, 0.35),
		AttackDamage:          valueOr(s.AttackDamage, 8),
		CombatTimeout:         valueOr(s.CombatTimeout, 6),
		MinTransitionInterval: valueOr(s.MinTransitionInterval, 0.2),
		AlertReactionDelay:    valueOr(s.AlertReactionDelay, 1.5),
		AlertRadius:           valueOr(s.AlertRadius, 140),
		ArrivalEpsilon:        valueOr(s.ArrivalEpsilon, 6),
		FleeEnabled:           s.Flee.Enabled,
		FleeThreshold:         valueOr(s.Flee.Threshold, 0.3),
		PatrolDwell:           valueOr(s.Patrol.Dwell, 1.0),
		PatrolRandom:          s.Patrol.Random,
		SearchSweeps:          intOr(s.Search.Sweeps, 4),
		SearchPause:           valueOr(s.Search.Pause, 0.6),
		Script:                s.Script,
	}
	return a
}

// MaxHealth returns the prefab health with a sane default.
func (s *ArchetypeSpec) MaxHealth() float64 {
	return valueOr(s.Health, 40)
}

func valueOr(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
