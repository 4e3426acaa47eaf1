package storage

import (
	"log/slog"

	"liftlog/internal/workout"
)

// CollectionKey is the single key holding the whole collection.
const CollectionKey = "workoutGroups"

// LoadResult says where a loaded collection came from.
type LoadResult int

const (
	// LoadOK means the stored document was read and decoded.
	LoadOK LoadResult = iota
	// LoadSeeded means nothing was stored yet and the example groups were used.
	LoadSeeded
	// LoadRecovered means the stored document was unreadable and an empty
	// collection was used instead.
	LoadRecovered
)

func (r LoadResult) String() string {
	switch r {
	case LoadOK:
		return "ok"
	case LoadSeeded:
		return "seeded"
	case LoadRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Load reads the collection from kv. It never fails: an absent key yields the
// seed collection and an unreadable one yields an empty collection. The
// problem is logged; the previous file is still available as the .bak copy
// after the next write.
func Load(kv KV, f *workout.Factory) (workout.Collection, LoadResult) {
	raw, ok, err := kv.Get(CollectionKey)
	if err != nil {
		slog.Warn("Failed to read workouts, starting empty", "error", err)
		return workout.Collection{}, LoadRecovered
	}
	if !ok {
		return workout.Seed(f), LoadSeeded
	}

	c, err := Decode([]byte(raw))
	if err != nil {
		slog.Warn("Stored workouts are invalid, starting empty", "error", err)
		return workout.Collection{}, LoadRecovered
	}
	return c, LoadOK
}

// Save writes the whole collection under CollectionKey.
func Save(kv KV, c workout.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	return kv.Set(CollectionKey, string(data))
}
