// Package instance generates the benchmark's scenario instances and reads
// and writes them as YAML.
package instance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/bossfight/engine/bestiary"
	"github.com/nathoo/bossfight/engine/dungeon"
	"github.com/nathoo/bossfight/types"
)

// Party composition levels.
const (
	MagicOnly = "magic-only"
	MeleeOnly = "melee-only"
	Balanced  = "balanced"
)

// Levels lists every level in generation order.
var Levels = []string{MagicOnly, MeleeOnly, Balanced}

// Class pools drawn from per level.
var (
	MagicClasses  = []string{"Wizard", "Sorcerer"}
	MeleeClasses  = []string{"Fighter", "Rogue", "Cleric"}
	RangedClasses = []string{"Wizard", "Sorcerer", "Ranger"}
)

// Generation defaults.
const (
	DefaultSeed          = 123
	DefaultPerExperiment = 10
	ModeGuided           = "guided"
)

// Source is the randomness the generator draws from.
type Source interface {
	Intn(n int) int
}

// SheetProvider looks up class capability sheets.
type SheetProvider interface {
	Lookup(class string) (types.Sheet, error)
}

// Options controls generation.
type Options struct {
	PerExperiment int // instances per experiment, DefaultPerExperiment when 0
	MaxRounds     int
	Potions       int
}

// Experiment groups the instances of one level/difficulty pair.
type Experiment struct {
	Name       string           `yaml:"name"`
	Level      string           `yaml:"level"`
	Difficulty string           `yaml:"difficulty"`
	Instances  []types.Instance `yaml:"instances"`
}

// Set is a full instance file.
type Set struct {
	Seed        int64        `yaml:"seed"`
	Experiments []Experiment `yaml:"experiments"`
}

// Generate draws every experiment's instances. seed is recorded in the set;
// src must already be seeded with it.
func Generate(sheets SheetProvider, src Source, seed int64, opts Options) (*Set, error) {
	n := opts.PerExperiment
	if n <= 0 {
		n = DefaultPerExperiment
	}

	set := &Set{Seed: seed}
	for _, level := range Levels {
		for _, difficulty := range bestiary.Difficulties {
			exp := Experiment{
				Name:       level + "_" + difficulty,
				Level:      level,
				Difficulty: difficulty,
			}
			for id := 0; id < n; id++ {
				inst, err := generateOne(sheets, src, level, difficulty, opts)
				if err != nil {
					return nil, fmt.Errorf("%s instance %d: %w", exp.Name, id, err)
				}
				inst.ID = id
				inst.Experiment = exp.Name
				exp.Instances = append(exp.Instances, inst)
			}
			set.Experiments = append(set.Experiments, exp)
		}
	}
	return set, nil
}

func generateOne(sheets SheetProvider, src Source, level, difficulty string, opts Options) (types.Instance, error) {
	classA, classB, err := pickClasses(src, level)
	if err != nil {
		return types.Instance{}, err
	}
	sheetA, err := sheets.Lookup(classA)
	if err != nil {
		return types.Instance{}, err
	}
	sheetB, err := sheets.Lookup(classB)
	if err != nil {
		return types.Instance{}, err
	}
	boss, err := bestiary.Generate(difficulty, src)
	if err != nil {
		return types.Instance{}, err
	}

	return types.Instance{
		Mode:      ModeGuided,
		Seed:      int64(src.Intn(1 << 30)),
		ClassA:    classA,
		ClassB:    classB,
		SheetA:    sheetA,
		SheetB:    sheetB,
		BossSheet: boss,
		Dungeon:   dungeon.Labels(dungeon.Generate(src)),
		MaxRounds: opts.MaxRounds,
		Potions:   opts.Potions,
	}, nil
}

func pickClasses(src Source, level string) (string, string, error) {
	pick := func(pool []string) string { return pool[src.Intn(len(pool))] }
	switch level {
	case MagicOnly:
		return pick(MagicClasses), pick(MagicClasses), nil
	case MeleeOnly:
		return pick(MeleeClasses), pick(MeleeClasses), nil
	case Balanced:
		return pick(MeleeClasses), pick(RangedClasses), nil
	}
	return "", "", fmt.Errorf("unknown level %q", level)
}

// All flattens the set into a single instance list in file order.
func (s *Set) All() []types.Instance {
	var out []types.Instance
	for _, e := range s.Experiments {
		out = append(out, e.Instances...)
	}
	return out
}

// Find returns the instance with the given experiment name and ID.
func (s *Set) Find(experiment string, id int) (types.Instance, bool) {
	for _, e := range s.Experiments {
		if e.Name != experiment {
			continue
		}
		for _, inst := range e.Instances {
			if inst.ID == id {
				return inst, true
			}
		}
	}
	return types.Instance{}, false
}

// Save writes the set as YAML.
func Save(path string, s *Set) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding instances: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a YAML instance file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(s.Experiments) == 0 {
		return nil, fmt.Errorf("%s: no experiments", path)
	}
	return &s, nil
}
