package workout

// Seed returns the collection shown on first run: two example training days
// whose exercises start with a single history entry dated today.
func Seed(f *Factory) Collection {
	today := f.Today()
	ex := func(name, sets, reps, weight string) Exercise {
		return Exercise{
			ID:                  f.id("ex"),
			Name:                name,
			Sets:                sets,
			Reps:                reps,
			CurrentTargetWeight: weight,
			History:             []HistoryEntry{{Date: today, Weight: weight}},
		}
	}

	return Collection{
		{
			ID:   f.id("group"),
			Name: "Leg Day",
			Exercises: []Exercise{
				ex("Squat", "4", "10", "80"),
				ex("Leg Press 45°", "4", "12", "120"),
			},
		},
		{
			ID:   f.id("group"),
			Name: "Chest & Triceps",
			Exercises: []Exercise{
				ex("Bench Press", "4", "8", "70"),
			},
		},
	}
}
