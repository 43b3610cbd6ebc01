package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strconv"
	"time"

	"github.com/galtonlab/galton/internal/bean"
	"github.com/galtonlab/galton/internal/config"
	"github.com/galtonlab/galton/internal/history"
	"github.com/galtonlab/galton/internal/logging"
	"github.com/galtonlab/galton/internal/machine"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <slot_count> <bean_count> <luck|skill> [debug]",
		Short: "Run a bean machine experiment",
		Long: `Run a complete experiment: drop the given number of beans through a board
with the given number of slots and print the final slot distribution.

The optional trailing "debug" argument prints the board after every step.
Skill-mode runs with the same seed always produce the same distribution.

Examples:
  galton run 10 400 luck
  galton run 20 1000 skill debug
  galton run 10 400 skill --seed 42 --repeat 2 --filter upper`,
		Args: cobra.RangeArgs(3, 4),
		RunE: runExperiment,
	}

	cmd.Flags().Int64("seed", 0, "Base random seed (0 = config value, falling back to wall clock)")
	cmd.Flags().Int("repeat", 0, "Additional repeat trials after the first run")
	cmd.Flags().String("filter", "", "Half filter applied at the end: upper or lower")
	cmd.Flags().Bool("no-history", false, "Do not record the run in the history database")

	return cmd
}

// runParams holds the validated positional arguments of a run.
type runParams struct {
	slotCount int
	beanCount int
	mode      bean.Mode
	debug     bool
}

// parseRunArgs validates the positional arguments. A nil result with a nil
// error means the arguments were invalid and usage was already printed;
// the run must not proceed.
func parseRunArgs(args []string, errOut io.Writer) (*runParams, error) {
	slotCount, err := strconv.Atoi(args[0])
	if err != nil || slotCount < 1 {
		showRunUsage(errOut)
		return nil, nil
	}
	beanCount, err := strconv.Atoi(args[1])
	if err != nil || beanCount < 0 {
		showRunUsage(errOut)
		return nil, nil
	}
	mode, err := bean.ParseMode(args[2])
	if err != nil {
		showRunUsage(errOut)
		return nil, nil
	}
	debug := false
	if len(args) == 4 {
		if args[3] != "debug" {
			showRunUsage(errOut)
			return nil, nil
		}
		debug = true
	}
	return &runParams{slotCount: slotCount, beanCount: beanCount, mode: mode, debug: debug}, nil
}

// showRunUsage prints the positional-argument contract.
func showRunUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: galton run slot_count bean_count <luck | skill> [debug]")
	fmt.Fprintln(w, "Example: galton run 10 400 luck")
	fmt.Fprintln(w, "Example: galton run 20 1000 skill debug")
}

func runExperiment(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	params, err := parseRunArgs(args, out)
	if err != nil || params == nil {
		return err
	}

	root, _ := cmd.Flags().GetString("root")
	jsonOut, _ := cmd.Flags().GetBool("json")
	seedFlag, _ := cmd.Flags().GetInt64("seed")
	repeats, _ := cmd.Flags().GetInt("repeat")
	filter, _ := cmd.Flags().GetString("filter")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	if filter != "" && filter != "upper" && filter != "lower" {
		return fmt.Errorf("invalid filter: %s (must be upper or lower)", filter)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	seed := seedFlag
	if !cmd.Flags().Changed("seed") {
		seed = cfg.Simulation.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
	}

	galtonDir := filepath.Join(root, ".galton")
	stepLog := logging.NewStepLogger(galtonDir, cfg.Logging.Level)
	defer stepLog.Close()

	logger.Debug("starting experiment",
		"slots", params.slotCount, "beans", params.beanCount,
		"mode", params.mode.String(), "seed", seed)

	m, err := machine.New(params.slotCount)
	if err != nil {
		return err
	}

	// Each bean owns an independent stream so runs are reproducible
	// bean-by-bean regardless of draw order.
	beans := make([]machine.Bean, params.beanCount)
	for i := range beans {
		b, err := bean.New(params.slotCount, params.mode, rand.New(rand.NewSource(seed+int64(i))))
		if err != nil {
			return err
		}
		beans[i] = b
	}
	m.Reset(beans)

	driveToTerminal(m, params.debug, out, stepLog)

	for trial := 1; trial <= repeats; trial++ {
		if !jsonOut {
			fmt.Fprintf(out, "Trial %d slot bean counts:\n%s\n", trial, m.SlotString())
		}
		m.Repeat()
		driveToTerminal(m, params.debug, out, stepLog)
	}

	if filter != "" {
		switch filter {
		case "upper":
			m.UpperHalf()
		case "lower":
			m.LowerHalf()
		}
		logger.Debug("applied half filter", "filter", filter)
	}

	counts := make([]int, params.slotCount)
	for i := range counts {
		counts[i] = m.SlotBeanCount(i)
	}

	if jsonOut {
		json.NewEncoder(out).Encode(map[string]any{
			"slot_count":  params.slotCount,
			"bean_count":  params.beanCount,
			"mode":        params.mode.String(),
			"seed":        seed,
			"repeats":     repeats,
			"filter":      filter,
			"slot_counts": counts,
			"average":     m.AverageSlotBeanCount(),
		})
	} else {
		fmt.Fprintln(out, "Slot bean counts:")
		fmt.Fprintln(out, m.SlotString())
		fmt.Fprintf(out, "Average slot: %.3f\n", m.AverageSlotBeanCount())
	}

	if cfg.History.Enabled && !noHistory {
		if err := recordRun(cmd.Context(), galtonDir, history.Run{
			SlotCount:  params.slotCount,
			BeanCount:  params.beanCount,
			Mode:       params.mode.String(),
			Seed:       seed,
			SlotCounts: counts,
			Average:    m.AverageSlotBeanCount(),
		}); err != nil {
			// History is best effort; the experiment already succeeded.
			logger.Warn("recording run history", "error", err)
		}
	}

	return nil
}

// driveToTerminal advances the machine until it reports no change,
// optionally printing the board and tracing every step.
func driveToTerminal(m *machine.Machine, debug bool, out io.Writer, stepLog *logging.StepLogger) {
	if debug {
		fmt.Fprintln(out, m)
	}
	for step := 0; ; step++ {
		changed := m.AdvanceStep()
		stepLog.Log(stepEvent(m, step, changed))
		if !changed {
			return
		}
		if debug {
			fmt.Fprintln(out, m)
		}
	}
}

// stepEvent snapshots the machine for the step trace.
func stepEvent(m *machine.Machine, step int, changed bool) logging.StepEvent {
	inFlight := make([]int, m.SlotCount())
	slots := make([]int, m.SlotCount())
	for y := 0; y < m.SlotCount(); y++ {
		inFlight[y] = m.InFlightBeanXPos(y)
		slots[y] = m.SlotBeanCount(y)
	}
	return logging.StepEvent{
		Step:      step,
		Remaining: m.RemainingBeanCount(),
		InFlight:  inFlight,
		Slots:     slots,
		Changed:   changed,
	}
}

// recordRun appends the finished run to the history database.
func recordRun(ctx context.Context, galtonDir string, run history.Run) error {
	store, err := history.NewStore(galtonDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	_, err = store.SaveRun(ctx, run)
	return err
}
