// Package journal maps user actions onto store writes and recomputed view
// state. Every action validates, performs at most one store transaction and
// returns the pieces of view state that changed.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KevinDKao/running-diary/internal/grid"
	"github.com/KevinDKao/running-diary/internal/session"
	"github.com/KevinDKao/running-diary/internal/store"
	"github.com/KevinDKao/running-diary/internal/stream"
	"github.com/KevinDKao/running-diary/internal/view"

	"go.uber.org/zap"
)

type Store interface {
	CreatePlan(ctx context.Context, sess session.Session, name string, weeks int, raceDistance string) (string, error)
	GetPlans(ctx context.Context, sess session.Session) ([]store.Plan, error)
	GetPlan(ctx context.Context, planID string) (store.Plan, error)
	DeletePlan(ctx context.Context, planID string) (bool, error)
	SaveWorkoutLog(ctx context.Context, in store.WorkoutInput) (string, error)
	GetWorkoutLog(ctx context.Context, planID string, week, day int) (store.WorkoutLog, error)
	GetCompletedCells(ctx context.Context, planID string) (store.CellSet, error)
	GetLogs(ctx context.Context, planID string) ([]store.WorkoutLog, error)
}

type Publisher interface {
	Publish(ctx context.Context, sessionID string, ev stream.Event)
}

// Response holds only what changed. Nil fields mean "leave as is"; a nil
// Options slice is distinct from an empty one.
type Response struct {
	Options      []view.Option  `json:"options"`
	Selected     *string        `json:"selected,omitempty"`
	Grid         *view.GridView `json:"grid,omitempty"`
	Modal        *view.Modal    `json:"modal,omitempty"`
	ResetForm    bool           `json:"reset_form,omitempty"`
	Notification *Notification  `json:"notification,omitempty"`
}

type Orchestrator struct {
	store  Store
	modals ModalStore
	events Publisher
	log    *zap.Logger
}

func NewOrchestrator(st Store, modals ModalStore, events Publisher, logger *zap.Logger) *Orchestrator {
	if modals == nil {
		modals = NewMemoryModalStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{store: st, modals: modals, events: events, log: logger}
}

// Dispatch handles one event. Validation failures return a *ValidationError
// together with a response carrying the danger notification; any other error
// is a storage fault.
func (o *Orchestrator) Dispatch(ctx context.Context, sess session.Session, ev Event) (Response, error) {
	var (
		resp Response
		err  error
	)
	switch e := ev.(type) {
	case LoadPlans:
		resp, err = o.loadPlans(ctx, sess)
	case CreatePlan:
		resp, err = o.createPlan(ctx, sess, e)
	case DeletePlan:
		resp, err = o.deletePlan(ctx, sess, e)
	case SelectPlan:
		resp, err = o.selectPlan(ctx, sess, e)
	case CellClicked:
		resp, err = o.cellClicked(ctx, sess, e)
	case CancelWorkout:
		resp, err = o.cancelWorkout(ctx, sess)
	case SaveWorkout:
		resp, err = o.saveWorkout(ctx, sess, e)
	default:
		err = invalid("unsupported action")
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		o.log.Debug("action rejected", zap.String("kind", kindOf(ev)), zap.String("reason", verr.Message))
		return Response{Notification: notify("Error", verr.Message, SeverityDanger)}, err
	case err != nil:
		o.log.Error("action failed", zap.String("kind", kindOf(ev)), zap.String("session_id", sess.ID), zap.Error(err))
		return Response{}, err
	}
	return resp, nil
}

// Modal returns the session's current workout form.
func (o *Orchestrator) Modal(ctx context.Context, sess session.Session) (view.Modal, error) {
	return o.modals.Load(ctx, sess.ID)
}

// Logs lists the workout logs of one of the session's plans. A plan that
// does not exist, or belongs to another session, has no logs.
func (o *Orchestrator) Logs(ctx context.Context, sess session.Session, planID string) ([]store.WorkoutLog, error) {
	if _, err := o.scoped(sess).GetPlan(ctx, planID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []store.WorkoutLog{}, nil
		}
		return nil, err
	}
	return o.store.GetLogs(ctx, planID)
}

func (o *Orchestrator) loadPlans(ctx context.Context, sess session.Session) (Response, error) {
	opts, err := o.options(ctx, sess)
	if err != nil {
		return Response{}, err
	}
	return Response{Options: opts}, nil
}

func (o *Orchestrator) createPlan(ctx context.Context, sess session.Session, e CreatePlan) (Response, error) {
	name := strings.TrimSpace(e.Name)
	distance := strings.TrimSpace(e.RaceDistance)
	if name == "" || distance == "" || e.Weeks == nil {
		return Response{}, invalid("Please fill in all fields")
	}
	if *e.Weeks < 1 {
		return Response{}, invalid("Weeks must be at least 1")
	}

	id, err := o.store.CreatePlan(ctx, sess, name, *e.Weeks, distance)
	if err != nil {
		return Response{}, err
	}
	opts, err := o.options(ctx, sess)
	if err != nil {
		return Response{}, err
	}
	g, err := view.Grid(ctx, o.scoped(sess), id)
	if err != nil {
		return Response{}, err
	}

	o.log.Info("plan created", zap.String("session_id", sess.ID), zap.String("plan_id", id), zap.Int("weeks", *e.Weeks))
	o.publish(ctx, sess, stream.Event{Kind: stream.PlansChanged, PlanID: id})
	return Response{
		Options:      opts,
		Selected:     &id,
		Grid:         &g,
		ResetForm:    true,
		Notification: notify("Success", fmt.Sprintf("Training plan '%s' created successfully!", name), SeveritySuccess),
	}, nil
}

func (o *Orchestrator) deletePlan(ctx context.Context, sess session.Session, e DeletePlan) (Response, error) {
	if e.PlanID == "" {
		return Response{}, nil
	}

	name := "Unknown"
	plan, err := o.scoped(sess).GetPlan(ctx, e.PlanID)
	switch {
	case err == nil:
		removed, err := o.store.DeletePlan(ctx, e.PlanID)
		if err != nil {
			return Response{}, err
		}
		if removed {
			name = plan.Name
		}
	case !errors.Is(err, store.ErrNotFound):
		return Response{}, err
	}

	// A form left open on the deleted plan can no longer be saved.
	modal, err := o.modals.Load(ctx, sess.ID)
	if err != nil {
		return Response{}, err
	}
	if modal.PlanID == e.PlanID {
		if err := o.modals.Clear(ctx, sess.ID); err != nil {
			return Response{}, err
		}
	}

	opts, err := o.options(ctx, sess)
	if err != nil {
		return Response{}, err
	}

	o.log.Info("plan deleted", zap.String("session_id", sess.ID), zap.String("plan_id", e.PlanID))
	o.publish(ctx, sess, stream.Event{Kind: stream.PlansChanged, PlanID: e.PlanID})
	none := ""
	empty := view.EmptyGrid(view.SelectPlanMessage)
	return Response{
		Options:      opts,
		Selected:     &none,
		Grid:         &empty,
		Notification: notify("Deleted", fmt.Sprintf("Training plan '%s' deleted successfully!", name), SeveritySuccess),
	}, nil
}

func (o *Orchestrator) selectPlan(ctx context.Context, sess session.Session, e SelectPlan) (Response, error) {
	g, err := view.Grid(ctx, o.scoped(sess), e.PlanID)
	if err != nil {
		return Response{}, err
	}
	return Response{Selected: &e.PlanID, Grid: &g}, nil
}

func (o *Orchestrator) cellClicked(ctx context.Context, sess session.Session, e CellClicked) (Response, error) {
	if e.Clicks <= 0 {
		return Response{}, nil
	}
	if e.PlanID == "" || e.Week < 1 || !grid.ValidDay(e.Day) {
		return Response{}, invalid("Invalid workout cell")
	}

	plan, err := o.scoped(sess).GetPlan(ctx, e.PlanID)
	if errors.Is(err, store.ErrNotFound) {
		return Response{Notification: notify("Not found", view.PlanNotFoundMessage, SeverityWarning)}, nil
	}
	if err != nil {
		return Response{}, err
	}
	if e.Week > plan.Weeks {
		return Response{}, invalid("Week %d is outside this %d-week plan", e.Week, plan.Weeks)
	}

	var existing *store.WorkoutLog
	log, err := o.store.GetWorkoutLog(ctx, e.PlanID, e.Week, e.Day)
	switch {
	case err == nil:
		existing = &log
	case !errors.Is(err, store.ErrNotFound):
		return Response{}, err
	}

	modal := view.Prefill(e.Week, e.Day, e.PlanID, existing)
	if err := o.modals.Save(ctx, sess.ID, modal); err != nil {
		return Response{}, err
	}
	return Response{Modal: &modal}, nil
}

func (o *Orchestrator) cancelWorkout(ctx context.Context, sess session.Session) (Response, error) {
	if err := o.modals.Clear(ctx, sess.ID); err != nil {
		return Response{}, err
	}
	closed := view.ClosedModal()
	return Response{Modal: &closed}, nil
}

func (o *Orchestrator) saveWorkout(ctx context.Context, sess session.Session, e SaveWorkout) (Response, error) {
	modal, err := o.modals.Load(ctx, sess.ID)
	if err != nil {
		return Response{}, err
	}
	if !modal.IsOpen() || modal.PlanID == "" || modal.Week == 0 || modal.Day == 0 {
		return Response{}, invalid("No workout selected")
	}

	unit := e.DistanceUnit
	if unit == "" {
		unit = store.Miles
	}
	if !unit.Valid() {
		return Response{}, invalid("Distance unit must be miles or km")
	}
	if e.Intensity != nil && (*e.Intensity < 1 || *e.Intensity > 5) {
		return Response{}, invalid("Intensity must be between 1 and 5")
	}

	_, err = o.store.SaveWorkoutLog(ctx, store.WorkoutInput{
		PlanID:         modal.PlanID,
		Week:           modal.Week,
		Day:            modal.Day,
		ActualTime:     e.ActualTime,
		ActualDistance: e.ActualDistance,
		ActualPace:     e.ActualPace,
		DistanceUnit:   unit,
		Intensity:      e.Intensity,
		Notes:          e.Notes,
	})
	if err != nil {
		return Response{}, err
	}
	if err := o.modals.Clear(ctx, sess.ID); err != nil {
		return Response{}, err
	}

	g, err := view.Grid(ctx, o.scoped(sess), modal.PlanID)
	if err != nil {
		return Response{}, err
	}

	o.publish(ctx, sess, stream.Event{Kind: stream.GridChanged, PlanID: modal.PlanID})
	closed := view.ClosedModal()
	return Response{
		Grid:         &g,
		Modal:        &closed,
		Notification: notify("Saved", fmt.Sprintf("%s logged", grid.Title(modal.Week, modal.Day)), SeveritySuccess),
	}, nil
}

func (o *Orchestrator) options(ctx context.Context, sess session.Session) ([]view.Option, error) {
	plans, err := o.store.GetPlans(ctx, sess)
	if err != nil {
		return nil, err
	}
	return view.PlanOptions(plans), nil
}

func (o *Orchestrator) publish(ctx context.Context, sess session.Session, ev stream.Event) {
	if o.events != nil {
		o.events.Publish(ctx, sess.ID, ev)
	}
}

func (o *Orchestrator) scoped(sess session.Session) scopedStore {
	return scopedStore{Store: o.store, sess: sess}
}

// scopedStore hides plans of other sessions behind store.ErrNotFound.
type scopedStore struct {
	Store
	sess session.Session
}

func (s scopedStore) GetPlan(ctx context.Context, planID string) (store.Plan, error) {
	plan, err := s.Store.GetPlan(ctx, planID)
	if err != nil {
		return store.Plan{}, err
	}
	if plan.SessionID != s.sess.ID {
		return store.Plan{}, store.ErrNotFound
	}
	return plan, nil
}

func kindOf(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return string(ev.Kind())
}
