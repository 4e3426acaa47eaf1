// Package assistant turns model output into workout actions and display
// segments, and talks to the text-generation provider.
package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"liftlog/internal/workout"
)

// Reply is the interpreted form of one assistant response. It is either a
// StructuredCreate or a PlainMessage.
type Reply interface {
	isReply()
}

// StructuredCreate asks for a new workout group.
type StructuredCreate struct {
	GroupName string
	Exercises []ExerciseDraft
}

// PlainMessage is free text shown as is.
type PlainMessage struct {
	Text string
}

func (StructuredCreate) isReply() {}
func (PlainMessage) isReply()     {}

// ExerciseDraft is one exercise proposed by the assistant.
type ExerciseDraft struct {
	Name string `json:"name"`
	Sets string `json:"sets"`
	Reps string `json:"reps"`
}

// UnmarshalJSON accepts numbers wherever text is expected; models often write
// "sets": 4 instead of "4".
func (d *ExerciseDraft) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name lenientText `json:"name"`
		Sets lenientText `json:"sets"`
		Reps lenientText `json:"reps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("exercise is null")
	}
	*d = ExerciseDraft{Name: string(raw.Name), Sets: string(raw.Sets), Reps: string(raw.Reps)}
	return nil
}

type lenientText string

func (t *lenientText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = lenientText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = lenientText(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = lenientText(strconv.FormatBool(b))
		return nil
	}
	if string(data) == "null" {
		*t = ""
		return nil
	}
	return fmt.Errorf("expected text, got %s", data)
}

// Interpret classifies raw model output. The whole response must be a single
// JSON object, optionally wrapped in one Markdown code fence, with a
// non-empty string groupName and an exercises array; anything else is a
// PlainMessage carrying raw unchanged.
func Interpret(raw string) Reply {
	doc, ok := unfence(strings.TrimSpace(raw))
	if !ok || !strings.HasPrefix(doc, "{") {
		return PlainMessage{Text: raw}
	}

	var fields map[string]json.RawMessage
	if err := decodeSingle(doc, &fields); err != nil {
		return PlainMessage{Text: raw}
	}

	var name string
	if err := json.Unmarshal(fields["groupName"], &name); err != nil || strings.TrimSpace(name) == "" {
		return PlainMessage{Text: raw}
	}

	list := bytes.TrimSpace(fields["exercises"])
	if len(list) == 0 || list[0] != '[' {
		return PlainMessage{Text: raw}
	}
	var drafts []ExerciseDraft
	if err := json.Unmarshal(list, &drafts); err != nil {
		return PlainMessage{Text: raw}
	}
	if drafts == nil {
		drafts = []ExerciseDraft{}
	}

	return StructuredCreate{GroupName: name, Exercises: drafts}
}

// unfence strips one enclosing ``` fence (with an optional language tag).
// Text that opens a fence without closing it is rejected.
func unfence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return s, true
	}
	if !strings.HasSuffix(s, "```") || len(s) < 6 {
		return "", false
	}
	body := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return "", false
	}
	tag := strings.TrimSpace(body[3:nl])
	if strings.ContainsAny(tag, " \t{[") {
		return "", false
	}
	return strings.TrimSpace(body[nl+1:]), true
}

func decodeSingle(doc string, v any) error {
	dec := json.NewDecoder(strings.NewReader(doc))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after object")
	}
	return nil
}

// GroupCreator is the mutator a StructuredCreate is applied to.
type GroupCreator interface {
	AddGroup(name string, initial []workout.ExerciseSpec) string
}

// Applied is the result of Apply.
type Applied struct {
	// Text is the assistant message to show.
	Text string
	// GroupID is set when a group was created.
	GroupID string
	Created bool
}

// Apply performs the action a reply asks for. A StructuredCreate adds the
// group through creator and yields a confirmation; a PlainMessage yields its
// text.
func Apply(reply Reply, creator GroupCreator) Applied {
	switch r := reply.(type) {
	case StructuredCreate:
		specs := make([]workout.ExerciseSpec, len(r.Exercises))
		for i, d := range r.Exercises {
			specs[i] = workout.ExerciseSpec{Name: d.Name, Sets: d.Sets, Reps: d.Reps}
		}
		id := creator.AddGroup(r.GroupName, specs)
		return Applied{Text: Confirmation(r.GroupName), GroupID: id, Created: true}
	case PlainMessage:
		return Applied{Text: r.Text}
	default:
		return Applied{}
	}
}

// Confirmation is the message shown after a group was created.
func Confirmation(groupName string) string {
	return fmt.Sprintf("Great! I created the workout group \"%s\" for you. Check it out in the Workouts tab!", groupName)
}
