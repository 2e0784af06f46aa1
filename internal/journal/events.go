package journal

import "github.com/KevinDKao/running-diary/internal/store"

type EventKind string

const (
	KindLoadPlans     EventKind = "LoadPlans"
	KindCreatePlan    EventKind = "CreatePlan"
	KindDeletePlan    EventKind = "DeletePlan"
	KindSelectPlan    EventKind = "SelectPlan"
	KindCellClicked   EventKind = "CellClicked"
	KindCancelWorkout EventKind = "CancelWorkout"
	KindSaveWorkout   EventKind = "SaveWorkout"
)

// Event is a user action handed to Orchestrator.Dispatch.
type Event interface {
	Kind() EventKind
}

type LoadPlans struct{}

type CreatePlan struct {
	Name         string `json:"name"`
	Weeks        *int   `json:"weeks"`
	RaceDistance string `json:"race_distance"`
}

type DeletePlan struct {
	PlanID string `json:"plan_id"`
}

type SelectPlan struct {
	PlanID string `json:"plan_id"`
}

// CellClicked carries the click counter of the cell since it was last
// rendered. Zero means the cell was drawn, not clicked.
type CellClicked struct {
	Week   int    `json:"week"`
	Day    int    `json:"day"`
	PlanID string `json:"plan_id"`
	Clicks int    `json:"clicks"`
}

type CancelWorkout struct{}

type SaveWorkout struct {
	ActualTime     *float64           `json:"actual_time"`
	ActualDistance *float64           `json:"actual_distance"`
	ActualPace     *float64           `json:"actual_pace"`
	DistanceUnit   store.DistanceUnit `json:"distance_unit"`
	Intensity      *int               `json:"intensity"`
	Notes          string             `json:"notes"`
}

func (LoadPlans) Kind() EventKind     { return KindLoadPlans }
func (CreatePlan) Kind() EventKind    { return KindCreatePlan }
func (DeletePlan) Kind() EventKind    { return KindDeletePlan }
func (SelectPlan) Kind() EventKind    { return KindSelectPlan }
func (CellClicked) Kind() EventKind   { return KindCellClicked }
func (CancelWorkout) Kind() EventKind { return KindCancelWorkout }
func (SaveWorkout) Kind() EventKind   { return KindSaveWorkout }
