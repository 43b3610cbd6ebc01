// Package simulation provides a phase-driven test harness for validating
// the bean machine's invariants across whole experiments.
//
// The harness exercises the real engine with no mocks. Scenarios are Go
// builders that construct a seeded bean population and drive the machine
// through an ordered list of phases (run to termination, repeat, half
// filters), capturing a state snapshot after each phase for property-based
// assertions. With CheckEveryStep enabled (the default), mass conservation
// and column bounds are verified after every single AdvanceStep, so a
// violation is reported at the exact tick it first appears.
//
// Usage:
//
//	func TestSkillRepeatability(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:      "skill-repeat",
//	        SlotCount: 5,
//	        BeanCount: 3,
//	        Mode:      bean.ModeSkill,
//	        Seed:      42,
//	        Phases:    []simulation.PhaseKind{simulation.PhaseRun, simulation.PhaseRepeat, simulation.PhaseRun},
//	    })
//	    simulation.AssertSlotsEqual(t, result.Phases[0], result.Phases[2])
//	}
package simulation
