package engine

// EngineOptions holds the UCI-tunable runtime knobs that are not
// search-pruning toggles (those live in Params instead, so the two
// concerns don't share one name): hash size, thread count, skill
// level, and how chatty progress reporting is.
type EngineOptions struct {
	Hash               int
	Threads            int
	ExperimentSettings bool
	ProgressMinNodes   int

	// SkillLevel is the UCI "Skill Level" knob, 0..20; below 20 it
	// caps search depth and scales available time down so the engine
	// plays below its full strength.
	SkillLevel int
}

func NewEngineOptions() EngineOptions {
	return EngineOptions{
		Hash:             16,
		Threads:          1,
		ProgressMinNodes: 1_000_000,
		SkillLevel:       20,
	}
}
