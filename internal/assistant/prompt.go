package assistant

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"liftlog/internal/workout"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

// NoWorkouts replaces the summary when the collection is empty.
const NoWorkouts = "No workouts created yet."

// SystemInstruction renders the system prompt around a workout summary as
// produced by FormatWorkouts.
func SystemInstruction(summary string) string {
	templateValues := map[string]any{
		"workouts": summary,
	}

	prompt := systemPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}
	return strings.TrimSpace(prompt)
}

// FormatWorkouts renders group and exercise names as compact JSON, e.g.
// [{"name":"Leg Day","exercises":["Squat"]}].
func FormatWorkouts(c workout.Collection) string {
	if len(c) == 0 {
		return NoWorkouts
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(workout.Summarize(c)); err != nil {
		return NoWorkouts
	}
	return strings.TrimSpace(buf.String())
}
