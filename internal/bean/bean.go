// Package bean models a single bean falling through a Galton box.
//
// A bean tracks its logical column (x-position) as it descends the
// triangular peg grid one row per step. At every peg it either keeps its
// column ("fell left") or increments it ("fell right"). Two choice modes
// exist: luck beans draw left/right uniformly from their random source,
// skill beans aim for a fixed target column drawn once at construction,
// so their path is fully determined and survives any number of resets.
package bean

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Mode selects the choice rule a bean uses at each peg.
type Mode int

const (
	// ModeLuck draws left/right uniformly at each peg.
	ModeLuck Mode = iota
	// ModeSkill aims deterministically for a target column fixed at
	// construction time.
	ModeSkill
)

// String returns the mode name as used on the command line.
func (m Mode) String() string {
	switch m {
	case ModeLuck:
		return "luck"
	case ModeSkill:
		return "skill"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a command-line mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "luck":
		return ModeLuck, nil
	case "skill":
		return ModeSkill, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (must be luck or skill)", s)
	}
}

// Bean is one bean in the machine. The zero value is not usable; construct
// with New.
type Bean struct {
	slotCount  int
	xpos       int
	mode       Mode
	skillLevel int
	rng        *rand.Rand
}

// New creates a bean for a machine with slotCount terminal slots.
//
// In skill mode the target column is drawn once here: a Gaussian with mean
// (slotCount-1)/2 and the binomial standard deviation sqrt(slotCount*0.25),
// rounded and clamped to a valid column. In luck mode rng is drawn from on
// every Choose call. Beans constructed from the same rng share one stream;
// give each bean its own seeded source for per-bean reproducibility.
func New(slotCount int, mode Mode, rng *rand.Rand) (*Bean, error) {
	if slotCount < 1 {
		return nil, fmt.Errorf("slot count must be positive, got %d", slotCount)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}

	b := &Bean{
		slotCount: slotCount,
		mode:      mode,
		rng:       rng,
	}

	if mode == ModeSkill {
		avg := float64(slotCount-1) * 0.5
		stdev := math.Sqrt(float64(slotCount) * 0.5 * 0.5)
		level := int(math.Round(rng.NormFloat64()*stdev + avg))
		if level < 0 {
			level = 0
		}
		if level > slotCount-1 {
			level = slotCount - 1
		}
		b.skillLevel = level
	}

	return b, nil
}

// Choose advances the bean one row deeper, deciding whether it keeps its
// column or moves one to the right. The machine calls this at most
// slotCount-1 times per drop, so the column never leaves [0, slotCount).
func (b *Bean) Choose() {
	switch b.mode {
	case ModeSkill:
		if b.xpos < b.skillLevel {
			b.xpos++
		}
	case ModeLuck:
		if b.rng.Intn(2) == 1 {
			b.xpos++
		}
	}
}

// XPos returns the bean's current column.
func (b *Bean) XPos() int {
	return b.xpos
}

// Reset returns the bean to column 0. The skill target is untouched, so a
// skill bean retraces the same path on every drop.
func (b *Bean) Reset() {
	b.xpos = 0
}

// Mode returns the bean's choice mode.
func (b *Bean) Mode() Mode {
	return b.mode
}
