package prefabs

import (
	"testing"
)

func TestLoadArchetype(t *testing.T) {
	cases := []struct {
		name      string
		file      string
		wantName  string
		wantErr   bool
		wantFlee  bool
		wantSpeed float64
	}{
		{"grunt_basename", "grunt", "grunt", false, true, 60},
		{"grunt_with_extension", "grunt.yaml", "grunt", false, true, 60},
		{"sentry", "sentry", "sentry", false, false, 45},
		{"missing", "nope", "", true, false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := LoadArchetype(c.file)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", c.file)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadArchetype(%q): %v", c.file, err)
			}
			if spec.Name != c.wantName {
				t.Fatalf("name = %q, want %q", spec.Name, c.wantName)
			}
			agent := spec.Agent()
			if agent.FleeEnabled != c.wantFlee {
				t.Fatalf("flee = %v, want %v", agent.FleeEnabled, c.wantFlee)
			}
			if agent.MoveSpeed != c.wantSpeed {
				t.Fatalf("move speed = %v, want %v", agent.MoveSpeed, c.wantSpeed)
			}
		})
	}
}

func TestArchetypeDefaults(t *testing.T) {
	// a completely empty spec falls back to the full default tuning
	spec := &ArchetypeSpec{Name: "bare"}
	agent := spec.Agent()

	if agent.MoveSpeed != 60 || agent.ChaseSpeed != 110 {
		t.Fatalf("speed defaults wrong: move=%v chase=%v", agent.MoveSpeed, agent.ChaseSpeed)
	}
	if agent.DetectionRange != 160 || agent.FollowRange != 260 || agent.AttackRange != 28 {
		t.Fatalf("range defaults wrong: %v/%v/%v", agent.DetectionRange, agent.FollowRange, agent.AttackRange)
	}
	if agent.MinTransitionInterval != 0.2 {
		t.Fatalf("debounce default = %v, want 0.2", agent.MinTransitionInterval)
	}
	if agent.FleeEnabled {
		t.Fatalf("flee should default off")
	}
	if agent.SearchSweeps != 4 {
		t.Fatalf("sweeps default = %d, want 4", agent.SearchSweeps)
	}
	if spec.MaxHealth() != 40 {
		t.Fatalf("health default = %v, want 40", spec.MaxHealth())
	}
}

func TestArchetypeOverridesStick(t *testing.T) {
	spec, err := LoadArchetype("sentry")
	if err != nil {
		t.Fatalf("LoadArchetype: %v", err)
	}
	agent := spec.Agent()

	if agent.CombatTimeout != 10 {
		t.Fatalf("combat timeout = %v, want 10", agent.CombatTimeout)
	}
	if !agent.PatrolRandom {
		t.Fatalf("sentry patrol should be randomized")
	}
	if agent.Script != "berserker.tengo" {
		t.Fatalf("script = %q, want berserker.tengo", agent.Script)
	}
	// unset in the prefab, so the default applies
	if agent.MinTransitionInterval != 0.2 {
		t.Fatalf("debounce = %v, want default 0.2", agent.MinTransitionInterval)
	}
	if spec.MaxHealth() != 70 {
		t.Fatalf("health = %v, want 70", spec.MaxHealth())
	}
}

func TestLoadScript(t *testing.T) {
	cases := []string{
		"berserker.tengo",
		"scripts/berserker.tengo",
		"prefabs/scripts/berserker.tengo",
	}
	for _, name := range cases {
		data, err := LoadScript(name)
		if err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("LoadScript(%q): empty script", name)
		}
	}
}
