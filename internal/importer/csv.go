package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"liftlog/internal/workout"
)

// csvColumns is the expected column order. A header row naming them is
// optional.
var csvColumns = []string{"group", "exercise", "sets", "reps", "weight"}

// CSVImporter reads one exercise per row: group,exercise,sets,reps,weight.
// The weight column may be missing or empty.
type CSVImporter struct{}

// Name returns the importer name.
func (c *CSVImporter) Name() string {
	return "csv"
}

// Preview parses the sheet, grouping rows by group name in order of first
// appearance. Rows without a group or exercise name are reported and
// skipped.
func (c *CSVImporter) Preview(r io.Reader) ([]PreviewGroup, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var (
		groups   []PreviewGroup
		index    = map[string]int{}
		warnings []string
	)

	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if first && isHeader(record) {
			first = false
			continue
		}
		first = false
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}

		field := func(i int) string {
			if i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		groupName, name := field(0), field(1)
		if groupName == "" || name == "" {
			warnings = append(warnings, fmt.Sprintf("line %d: group and exercise are required", line))
			continue
		}

		ex := workout.Exercise{
			Name:                name,
			Sets:                field(2),
			Reps:                field(3),
			CurrentTargetWeight: field(4),
		}

		key := normalize(groupName)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, PreviewGroup{Name: groupName})
		}
		groups[i].Exercises = append(groups[i].Exercises, ex)
	}

	if len(groups) == 0 && len(warnings) == 0 {
		return nil, nil, errors.New("no rows found")
	}
	return groups, warnings, nil
}

func isHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}
	name := strings.TrimPrefix(record[0], "\ufeff") // UTF-8 BOM from spreadsheet exports
	return normalize(name) == csvColumns[0] && normalize(record[1]) == csvColumns[1]
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
