// Package grid expands a plan's week count into the fixed three-column
// workout grid. Output is fully determined by its inputs.
package grid

import "fmt"

const DaysPerWeek = 3

type Kind string

const (
	Recovery  Kind = "Recovery"
	Speed     Kind = "Speed"
	Endurance Kind = "Endurance"
)

// Kinds lists the columns in display order; index i is day i+1.
var Kinds = [DaysPerWeek]Kind{Recovery, Speed, Endurance}

var cannedWorkouts = map[int][DaysPerWeek]string{
	1: {"20 min ez", "10 min ez, 10 min (8:30-9 pace), 10 min ez", "3.5 miles"},
	2: {"20 min ez", "10 min ez, 10 min (8:30-9 pace), 10 min ez", "4.5 miles"},
	3: {"25 min ez", "10 min ez, 15 min (8:30-9 pace), 10 min ez", "6 miles"},
	4: {"30 min ez", "10 min ez, 15 min (8:30-9 pace), 10 min ez", "5 miles"},
	5: {"30 min ez", "10 min ez, 15 min (8:30-9 pace), 10 min ez", "5-5.5 miles"},
	6: {"20 min ez", "10 min ez, 15 min (8:30-9 pace), 10 min ez", "4.5 miles"},
	7: {"20 min ez", "20 min ez or rest", "RACE"},
}

var fallbackWorkouts = [DaysPerWeek]string{"Easy run", "Tempo run", "Long run"}

// Completion reports whether a (week, day) cell has been logged.
type Completion interface {
	Has(week, day int) bool
}

type Cell struct {
	Week      int    `json:"week"`
	Day       int    `json:"day"`
	PlanID    string `json:"plan_id"`
	Kind      Kind   `json:"kind"`
	Workout   string `json:"workout"`
	Completed bool   `json:"completed"`
}

type Row struct {
	Week  int               `json:"week"`
	Label string            `json:"label"`
	Cells [DaysPerWeek]Cell `json:"cells"`
}

// Generate builds one row per week. A nil completion marks every cell open.
func Generate(planID string, weeks int, completed Completion) []Row {
	if weeks < 1 {
		return []Row{}
	}
	rows := make([]Row, 0, weeks)
	for week := 1; week <= weeks; week++ {
		workouts := Workouts(week)
		row := Row{Week: week, Label: fmt.Sprintf("Week %d", week)}
		for i := range row.Cells {
			day := i + 1
			row.Cells[i] = Cell{
				Week:      week,
				Day:       day,
				PlanID:    planID,
				Kind:      Kinds[i],
				Workout:   workouts[i],
				Completed: completed != nil && completed.Has(week, day),
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Workouts returns the display text for each day of a week.
func Workouts(week int) [DaysPerWeek]string {
	if w, ok := cannedWorkouts[week]; ok {
		return w
	}
	return fallbackWorkouts
}

// Headers are the column titles after the week label.
func Headers() [DaysPerWeek]string {
	var h [DaysPerWeek]string
	for i, k := range Kinds {
		h[i] = fmt.Sprintf("Day %d: %s", i+1, k)
	}
	return h
}

// Title is the heading of the workout modal for a cell.
func Title(week, day int) string {
	name := "Workout"
	if ValidDay(day) {
		name = string(Kinds[day-1])
	}
	return fmt.Sprintf("Week %d - Day %d: %s", week, day, name)
}

func ValidDay(day int) bool {
	return day >= 1 && day <= DaysPerWeek
}
