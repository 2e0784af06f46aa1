// Package view shapes store output into what the client renders.
package view

import (
	"context"
	"errors"

	"github.com/KevinDKao/running-diary/internal/grid"
	"github.com/KevinDKao/running-diary/internal/store"
)

const (
	SelectPlanMessage   = "Select a training plan to view the schedule"
	PlanNotFoundMessage = "Plan not found"

	DefaultIntensity = 3
)

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PlanOptions keeps the store's ordering.
func PlanOptions(plans []store.Plan) []Option {
	opts := make([]Option, 0, len(plans))
	for _, p := range plans {
		opts = append(opts, Option{Label: p.Name, Value: p.ID})
	}
	return opts
}

type GridView struct {
	PlanID       string                   `json:"plan_id,omitempty"`
	PlanName     string                   `json:"plan_name,omitempty"`
	RaceDistance string                   `json:"race_distance,omitempty"`
	Headers      [grid.DaysPerWeek]string `json:"headers"`
	Rows         []grid.Row               `json:"rows"`
	Empty        string                   `json:"empty,omitempty"`
}

func EmptyGrid(message string) GridView {
	return GridView{Headers: grid.Headers(), Rows: []grid.Row{}, Empty: message}
}

// GridSource is the slice of the store needed to build a grid.
type GridSource interface {
	GetPlan(ctx context.Context, planID string) (store.Plan, error)
	GetCompletedCells(ctx context.Context, planID string) (store.CellSet, error)
}

// Grid builds the grid for a plan. A missing plan is an empty state, not an error.
func Grid(ctx context.Context, src GridSource, planID string) (GridView, error) {
	if planID == "" {
		return EmptyGrid(SelectPlanMessage), nil
	}
	plan, err := src.GetPlan(ctx, planID)
	if errors.Is(err, store.ErrNotFound) {
		return EmptyGrid(PlanNotFoundMessage), nil
	}
	if err != nil {
		return GridView{}, err
	}
	done, err := src.GetCompletedCells(ctx, planID)
	if err != nil {
		return GridView{}, err
	}
	return GridView{
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		RaceDistance: plan.RaceDistance,
		Headers:      grid.Headers(),
		Rows:         grid.Generate(plan.ID, plan.Weeks, done),
	}, nil
}

type ModalState string

const (
	ModalClosed   ModalState = "closed"
	ModalNew      ModalState = "open-new"
	ModalExisting ModalState = "open-existing"
)

type Modal struct {
	State          ModalState         `json:"state"`
	Title          string             `json:"title"`
	Week           int                `json:"week,omitempty"`
	Day            int                `json:"day,omitempty"`
	PlanID         string             `json:"plan_id,omitempty"`
	ActualTime     *float64           `json:"actual_time"`
	ActualDistance *float64           `json:"actual_distance"`
	ActualPace     *float64           `json:"actual_pace"`
	DistanceUnit   store.DistanceUnit `json:"distance_unit"`
	Intensity      int                `json:"intensity"`
	Notes          string             `json:"notes"`
}

func (m Modal) IsOpen() bool {
	return m.State == ModalNew || m.State == ModalExisting
}

// ClosedModal is the reset form: no cell, default unit and intensity.
func ClosedModal() Modal {
	return Modal{State: ModalClosed, DistanceUnit: store.Miles, Intensity: DefaultIntensity}
}

// Prefill opens the form for a cell, copying the existing log when there is one.
func Prefill(week, day int, planID string, log *store.WorkoutLog) Modal {
	m := Modal{
		State:        ModalNew,
		Title:        grid.Title(week, day),
		Week:         week,
		Day:          day,
		PlanID:       planID,
		DistanceUnit: store.Miles,
		Intensity:    DefaultIntensity,
	}
	if log == nil {
		return m
	}

	m.State = ModalExisting
	m.ActualTime = log.ActualTime
	m.ActualDistance = log.ActualDistance
	m.ActualPace = log.ActualPace
	m.Notes = log.Notes
	if log.DistanceUnit != "" {
		m.DistanceUnit = log.DistanceUnit
	}
	if log.Intensity != nil {
		m.Intensity = *log.Intensity
	}
	return m
}
