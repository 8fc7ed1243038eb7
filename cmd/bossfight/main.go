// Bossfight runs two-adventurers-versus-boss combat episodes between
// language-model participants and scores the outcome.
//
// Usage:
//
//	bossfight run [--instances <file>] [--experiment <name>] [--game <id>]
//	              [--agent autopilot|gemini|script] [--boss autopilot|gemini|script]
//	              [--script <file>] [--trace] [--no-store]
//	bossfight generate [--seed <n>] [--per <n>] [--out <file>]
//	bossfight replay [--plain] <transcript.json>
//	bossfight scores
//	bossfight --version
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/nathoo/bossfight/agent"
	"github.com/nathoo/bossfight/cli"
	"github.com/nathoo/bossfight/config"
	"github.com/nathoo/bossfight/engine"
	"github.com/nathoo/bossfight/engine/events"
	"github.com/nathoo/bossfight/engine/instance"
	"github.com/nathoo/bossfight/engine/prompt"
	"github.com/nathoo/bossfight/engine/resolve"
	"github.com/nathoo/bossfight/engine/save"
	"github.com/nathoo/bossfight/loader"
	"github.com/nathoo/bossfight/store"
	"github.com/nathoo/bossfight/tui"
	"github.com/nathoo/bossfight/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage:
  bossfight run [--instances <file>] [--experiment <name>] [--game <id>]
                [--agent autopilot|gemini|script] [--boss autopilot|gemini|script]
                [--script <file>] [--trace] [--no-store]
  bossfight generate [--seed <n>] [--per <n>] [--out <file>]
  bossfight replay [--plain] <transcript.json>
  bossfight scores
  bossfight --version
`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if args[0] == "--version" {
		fmt.Printf("bossfight %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail("Error loading configuration: %v", err)
	}
	level, err := cfg.Level()
	if err != nil {
		fail("Error: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch args[0] {
	case "run":
		err = runCmd(ctx, cfg, args[1:])
	case "generate":
		err = generateCmd(cfg, args[1:])
	case "replay":
		err = replayCmd(args[1:])
	case "scores":
		err = scoresCmd(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err != nil {
		fail("Error: %v", err)
	}
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

// flagValue returns the argument following args[*i], advancing i.
func flagValue(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("%s requires a value", args[*i])
	}
	*i++
	return args[*i], nil
}

func flagInt(args []string, i *int) (int, error) {
	name := args[*i]
	v, err := flagValue(args, i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, v)
	}
	return n, nil
}

type runOptions struct {
	instances  string
	experiment string
	game       int
	agent      string
	boss       string
	script     string
	trace      bool
	noStore    bool
}

func parseRun(args []string) (runOptions, error) {
	opts := runOptions{agent: "autopilot"}
	var err error
	for i := 0; i < len(args) && err == nil; i++ {
		switch args[i] {
		case "--instances":
			opts.instances, err = flagValue(args, &i)
		case "--experiment":
			opts.experiment, err = flagValue(args, &i)
		case "--game":
			opts.game, err = flagInt(args, &i)
		case "--agent":
			opts.agent, err = flagValue(args, &i)
		case "--boss":
			opts.boss, err = flagValue(args, &i)
		case "--script":
			opts.script, err = flagValue(args, &i)
		case "--trace":
			opts.trace = true
		case "--no-store":
			opts.noStore = true
		default:
			err = fmt.Errorf("unknown argument %q", args[i])
		}
	}
	if opts.boss == "" {
		opts.boss = opts.agent
	}
	return opts, err
}

func loadRoster(cfg config.Config) (*loader.Roster, error) {
	if cfg.ContentDir != "" {
		return loader.Load(cfg.ContentDir)
	}
	return loader.LoadDefault()
}

func loadPrompts(cfg config.Config) (*prompt.Set, error) {
	if cfg.PromptDir != "" {
		return prompt.Load(cfg.PromptDir)
	}
	return prompt.Default()
}

func generateSet(cfg config.Config, seed int64, per int) (*instance.Set, error) {
	roster, err := loadRoster(cfg)
	if err != nil {
		return nil, err
	}
	return instance.Generate(roster, engine.NewRNG(seed), seed, instance.Options{
		PerExperiment: per,
		MaxRounds:     cfg.MaxRounds,
		Potions:       cfg.Potions,
	})
}

// selectInstances applies the --experiment and --game filters.
func selectInstances(set *instance.Set, opts runOptions) ([]types.Instance, error) {
	var out []types.Instance
	for _, inst := range set.All() {
		if opts.experiment != "" && inst.Experiment != opts.experiment {
			continue
		}
		if opts.game != 0 && inst.ID != opts.game {
			continue
		}
		out = append(out, inst)
	}
	if len(out) == 0 {
		return nil, errors.New("no instances match the given filters")
	}
	return out, nil
}

// generators builds the text-generation collaborators named by kind.
type generators struct {
	cfg    config.Config
	script *agent.Scripted
	gemini *agent.Gemini
}

func (g *generators) pick(ctx context.Context, kind string, eng *engine.Engine) (resolve.Generator, error) {
	switch kind {
	case "autopilot":
		return agent.NewAutopilot(eng.RNG), nil
	case "script":
		if g.script == nil {
			return nil, errors.New("--script is required for the script agent")
		}
		return g.script, nil
	case "gemini":
		if g.gemini == nil {
			if g.cfg.GeminiAPIKey == "" {
				return nil, errors.New("GEMINI_API_KEY is not set")
			}
			gm, err := agent.NewGemini(ctx, g.cfg.GeminiAPIKey, g.cfg.Model, slog.Default())
			if err != nil {
				return nil, err
			}
			g.gemini = gm
		}
		return g.gemini, nil
	}
	return nil, fmt.Errorf("unknown agent %q", kind)
}

func (g *generators) close() {
	if g.gemini != nil {
		g.gemini.Close()
	}
}

func runCmd(ctx context.Context, cfg config.Config, args []string) error {
	opts, err := parseRun(args)
	if err != nil {
		return err
	}

	var set *instance.Set
	if opts.instances != "" {
		set, err = instance.Load(opts.instances)
	} else {
		set, err = generateSet(cfg, instance.DefaultSeed, instance.DefaultPerExperiment)
	}
	if err != nil {
		return err
	}
	insts, err := selectInstances(set, opts)
	if err != nil {
		return err
	}
	prompts, err := loadPrompts(cfg)
	if err != nil {
		return err
	}

	gens := &generators{cfg: cfg}
	defer gens.close()
	if opts.script != "" {
		if gens.script, err = agent.LoadScript(opts.script); err != nil {
			return err
		}
	}

	var st *store.Store
	if !opts.noStore {
		if st, err = store.Open(ctx, cfg.DB); err != nil {
			return err
		}
		defer st.Close()
	}

	c := cli.New()
	c.Trace = opts.trace
	for _, inst := range insts {
		if inst.MaxRounds == 0 {
			inst.MaxRounds = cfg.MaxRounds
		}
		if inst.Potions == 0 {
			inst.Potions = cfg.Potions
		}
		eng, err := engine.New(inst, engine.Options{
			Prompts: prompts,
			Logger:  slog.Default(),
			Sinks:   []events.Sink{c.Sink()},
		})
		if err != nil {
			return err
		}
		adv, err := gens.pick(ctx, opts.agent, eng)
		if err != nil {
			return err
		}
		boss, err := gens.pick(ctx, opts.boss, eng)
		if err != nil {
			return err
		}

		_, playErr := c.Play(ctx, eng, agent.Split{Adventurers: adv, Boss: boss})
		if err := record(ctx, cfg, st, eng); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if playErr != nil {
			slog.Warn("episode aborted", "game_id", inst.ID, "experiment", inst.Experiment, "err", playErr)
		}
	}
	return nil
}

// record writes the transcript file and, when a store is open, the episode row.
func record(ctx context.Context, cfg config.Config, st *store.Store, eng *engine.Engine) error {
	tr := save.FromEngine(eng)
	path, err := save.WriteFile(cfg.Transcripts, tr)
	if err != nil {
		return err
	}
	slog.Info("transcript written", "path", path)
	if st == nil {
		return nil
	}
	ep, err := store.FromTranscript(tr)
	if err != nil {
		return err
	}
	id, err := st.SaveEpisode(ctx, ep)
	if err != nil {
		return err
	}
	slog.Debug("episode stored", "id", id)
	return nil
}

func generateCmd(cfg config.Config, args []string) error {
	seed := int64(instance.DefaultSeed)
	per := instance.DefaultPerExperiment
	out := ""
	var err error
	for i := 0; i < len(args) && err == nil; i++ {
		switch args[i] {
		case "--seed":
			var n int
			n, err = flagInt(args, &i)
			seed = int64(n)
		case "--per":
			per, err = flagInt(args, &i)
		case "--out":
			out, err = flagValue(args, &i)
		default:
			err = fmt.Errorf("unknown argument %q", args[i])
		}
	}
	if err != nil {
		return err
	}

	set, err := generateSet(cfg, seed, per)
	if err != nil {
		return err
	}
	if out != "" {
		if err := instance.Save(out, set); err != nil {
			return err
		}
	}
	cli.New().Instances(set)
	return nil
}

func replayCmd(args []string) error {
	plain := false
	var path string
	for _, a := range args {
		switch a {
		case "--plain":
			plain = true
		default:
			if path == "" {
				path = a
			}
		}
	}
	if path == "" {
		return errors.New("replay requires a transcript file")
	}
	tr, err := save.ReadFile(path)
	if err != nil {
		return err
	}
	if plain || !isTerminal() {
		cli.New().Replay(tr)
		return nil
	}
	return tui.Run(tr)
}

func scoresCmd(ctx context.Context, cfg config.Config) error {
	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	standings, err := st.Scoreboard(ctx)
	if err != nil {
		return err
	}
	cli.New().Scoreboard(standings)
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
