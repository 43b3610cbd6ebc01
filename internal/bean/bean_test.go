package bean

import (
	"math/rand"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		slotCount int
		rng       *rand.Rand
		wantErr   bool
	}{
		{name: "valid", slotCount: 5, rng: rand.New(rand.NewSource(42))},
		{name: "single slot", slotCount: 1, rng: rand.New(rand.NewSource(42))},
		{name: "zero slots", slotCount: 0, rng: rand.New(rand.NewSource(42)), wantErr: true},
		{name: "negative slots", slotCount: -3, rng: rand.New(rand.NewSource(42)), wantErr: true},
		{name: "nil rng", slotCount: 5, rng: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{ModeLuck, ModeSkill} {
				b, err := New(tt.slotCount, mode, tt.rng)
				if tt.wantErr {
					if err == nil {
						t.Errorf("New(%d, %v) expected error, got none", tt.slotCount, mode)
					}
					continue
				}
				if err != nil {
					t.Fatalf("New(%d, %v): %v", tt.slotCount, mode, err)
				}
				if got := b.XPos(); got != 0 {
					t.Errorf("new bean starts at column %d, want 0", got)
				}
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "luck", want: ModeLuck},
		{input: "skill", want: ModeSkill},
		{input: "LUCK", want: ModeLuck},
		{input: "Skill", want: ModeSkill},
		{input: "", wantErr: true},
		{input: "random", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeLuck.String() != "luck" || ModeSkill.String() != "skill" {
		t.Errorf("mode names: got %q and %q", ModeLuck, ModeSkill)
	}
}

func TestLuckChooseStaysInBounds(t *testing.T) {
	const slotCount = 8
	for seed := int64(0); seed < 50; seed++ {
		b, err := New(slotCount, ModeLuck, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		// A bean gets at most slotCount-1 choices in one drop.
		for i := 0; i < slotCount-1; i++ {
			b.Choose()
			if x := b.XPos(); x < 0 || x >= slotCount {
				t.Fatalf("seed %d: column %d out of [0, %d) after %d choices", seed, x, slotCount, i+1)
			}
		}
	}
}

func TestLuckChooseIsRoughlyFair(t *testing.T) {
	b, err := New(2, ModeLuck, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const trials = 10000
	rights := 0
	for i := 0; i < trials; i++ {
		b.Choose()
		rights += b.XPos()
		b.Reset()
	}

	// 10k draws at p=0.5; anything within 48%..52% is comfortably inside
	// the expected spread for a seeded source.
	if rights < 4800 || rights > 5200 {
		t.Errorf("got %d rights out of %d, want about half", rights, trials)
	}
}

func TestSkillChooseIsDeterministic(t *testing.T) {
	const slotCount = 10
	b, err := New(slotCount, ModeSkill, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	drop := func() int {
		b.Reset()
		for i := 0; i < slotCount-1; i++ {
			b.Choose()
		}
		return b.XPos()
	}

	first := drop()
	for i := 0; i < 5; i++ {
		if got := drop(); got != first {
			t.Fatalf("drop %d landed at column %d, first landed at %d", i+2, got, first)
		}
	}
}

func TestSkillLevelClampedToValidColumn(t *testing.T) {
	// Many seeds, small board: Gaussian tails must clamp into range.
	for seed := int64(0); seed < 200; seed++ {
		b, err := New(2, ModeSkill, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		b.Choose()
		if x := b.XPos(); x < 0 || x > 1 {
			t.Fatalf("seed %d: column %d out of [0, 2)", seed, x)
		}
	}
}

func TestResetIsIdempotent(t *testing.T) {
	b, err := New(6, ModeLuck, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 5; i++ {
		b.Choose()
	}
	b.Reset()
	if b.XPos() != 0 {
		t.Fatalf("after reset: column %d, want 0", b.XPos())
	}
	b.Reset()
	if b.XPos() != 0 {
		t.Fatalf("after second reset: column %d, want 0", b.XPos())
	}
}
