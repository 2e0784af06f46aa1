package store

import "time"

type DistanceUnit string

const (
	Miles      DistanceUnit = "miles"
	Kilometers DistanceUnit = "km"
)

// Valid reports whether u is one of the supported units.
func (u DistanceUnit) Valid() bool {
	return u == Miles || u == Kilometers
}

type Plan struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Name         string    `json:"name"`
	Weeks        int       `json:"weeks"`
	RaceDistance string    `json:"race_distance"`
	CreatedAt    time.Time `json:"created_at"`
}

type WorkoutLog struct {
	ID             string       `json:"id"`
	PlanID         string       `json:"plan_id"`
	Week           int          `json:"week"`
	Day            int          `json:"day"`
	ActualTime     *float64     `json:"actual_time"`
	ActualDistance *float64     `json:"actual_distance"`
	ActualPace     *float64     `json:"actual_pace"`
	DistanceUnit   DistanceUnit `json:"distance_unit"`
	Intensity      *int         `json:"intensity"`
	Notes          string       `json:"notes"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// WorkoutInput carries the mutable fields written by SaveWorkoutLog.
type WorkoutInput struct {
	PlanID         string
	Week           int
	Day            int
	ActualTime     *float64
	ActualDistance *float64
	ActualPace     *float64
	DistanceUnit   DistanceUnit
	Intensity      *int
	Notes          string
}

type Cell struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

// CellSet is the set of grid cells that have a persisted log.
type CellSet map[Cell]struct{}

func (s CellSet) Has(week, day int) bool {
	_, ok := s[Cell{Week: week, Day: day}]
	return ok
}

func (s CellSet) Add(week, day int) {
	s[Cell{Week: week, Day: day}] = struct{}{}
}
