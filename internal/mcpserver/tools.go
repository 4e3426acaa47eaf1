package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"liftlog/internal/workout"

	"github.com/elliotchance/pie/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// =============================================================================
// list_workouts
// =============================================================================

type listWorkoutsTool struct {
	store Store
}

type exerciseView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sets          string `json:"sets"`
	Reps          string `json:"reps"`
	CurrentWeight string `json:"current_weight"`
	Entries       int    `json:"entries"`
}

type groupView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Exercises []exerciseView `json:"exercises"`
}

func (t *listWorkoutsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_workouts",
		mcp.WithDescription("List every workout group with its exercises, sets, reps and current target weight (kg)."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *listWorkoutsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errResult := current(ctx, t.store)
	if errResult != nil {
		return errResult, nil
	}
	groups := pie.Map(c, func(g workout.Group) groupView {
		exercises := pie.Map(g.Exercises, func(ex workout.Exercise) exerciseView {
			return exerciseView{
				ID:            ex.ID,
				Name:          ex.Name,
				Sets:          ex.Sets,
				Reps:          ex.Reps,
				CurrentWeight: ex.CurrentTargetWeight,
				Entries:       len(ex.History),
			}
		})
		if exercises == nil {
			exercises = []exerciseView{}
		}
		return groupView{ID: g.ID, Name: g.Name, Exercises: exercises}
	})
	if groups == nil {
		groups = []groupView{}
	}
	return jsonResult(groups)
}

// =============================================================================
// exercise_history
// =============================================================================

type exerciseHistoryTool struct {
	store Store
}

func (t *exerciseHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("exercise_history",
		mcp.WithDescription("Show the logged weights of one exercise, newest first."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Workout group id or name")),
		mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id or name")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *exerciseHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errResult := current(ctx, t.store)
	if errResult != nil {
		return errResult, nil
	}
	g, ex, errResult := resolve(c, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(struct {
		Group         string                 `json:"group"`
		Exercise      string                 `json:"exercise"`
		CurrentWeight string                 `json:"current_weight"`
		History       []workout.HistoryEntry `json:"history"`
	}{
		Group:         g.Name,
		Exercise:      ex.Name,
		CurrentWeight: ex.CurrentTargetWeight,
		History:       workout.SortedHistory(ex),
	})
}

// =============================================================================
// log_weight
// =============================================================================

type logWeightTool struct {
	store Store
}

func (t *logWeightTool) Definition() mcp.Tool {
	return mcp.NewTool("log_weight",
		mcp.WithDescription("Register today's weight (kg) for an exercise. It becomes the current target and is added to the history."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Workout group id or name")),
		mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id or name")),
		mcp.WithString("weight", mcp.Required(), mcp.Description("Weight in kg, e.g. \"62.5\"")),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func (t *logWeightTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireString("weight")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	weight = strings.TrimSpace(weight)
	if weight == "" {
		return mcp.NewToolResultError("weight must not be empty"), nil
	}

	c, errResult := current(ctx, t.store)
	if errResult != nil {
		return errResult, nil
	}
	g, ex, errResult := resolve(c, req)
	if errResult != nil {
		return errResult, nil
	}
	if !t.store.AppendWeight(g.ID, ex.ID, weight) {
		return mcp.NewToolResultError(fmt.Sprintf("exercise %q no longer exists", ex.Name)), nil
	}

	slog.Info("Weight logged over MCP", "group_id", g.ID, "exercise_id", ex.ID)
	return mcp.NewToolResultText(fmt.Sprintf("Logged %s kg for %s (%s).", weight, ex.Name, g.Name)), nil
}

// =============================================================================
// Helpers
// =============================================================================

// current reloads the store and returns its collection.
func current(ctx context.Context, store Store) (workout.Collection, *mcp.CallToolResult) {
	if err := store.Reload(ctx); err != nil {
		slog.Error("Failed to reload workouts", "error", err)
		return nil, mcp.NewToolResultError(fmt.Sprintf("could not read workouts: %v", err))
	}
	return store.Snapshot(), nil
}

// resolve finds the group and exercise named by the request arguments. Ids
// win over names; names match ignoring case.
func resolve(c workout.Collection, req mcp.CallToolRequest) (workout.Group, workout.Exercise, *mcp.CallToolResult) {
	groupRef, err := req.RequireString("group")
	if err != nil {
		return workout.Group{}, workout.Exercise{}, mcp.NewToolResultError(err.Error())
	}
	exerciseRef, err := req.RequireString("exercise")
	if err != nil {
		return workout.Group{}, workout.Exercise{}, mcp.NewToolResultError(err.Error())
	}

	gi := lookup(c, groupRef, func(g workout.Group) (string, string) { return g.ID, g.Name })
	if gi < 0 {
		return workout.Group{}, workout.Exercise{}, mcp.NewToolResultError(fmt.Sprintf("no workout group %q", groupRef))
	}
	g := c[gi]

	ei := lookup(g.Exercises, exerciseRef, func(ex workout.Exercise) (string, string) { return ex.ID, ex.Name })
	if ei < 0 {
		return g, workout.Exercise{}, mcp.NewToolResultError(fmt.Sprintf("no exercise %q in %q", exerciseRef, g.Name))
	}
	return g, g.Exercises[ei], nil
}

func lookup[T any](items []T, ref string, key func(T) (id, name string)) int {
	ref = strings.TrimSpace(ref)
	if i := pie.FindFirstUsing(items, func(v T) bool { id, _ := key(v); return id == ref }); i >= 0 {
		return i
	}
	return pie.FindFirstUsing(items, func(v T) bool {
		_, name := key(v)
		return strings.EqualFold(strings.TrimSpace(name), ref)
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
