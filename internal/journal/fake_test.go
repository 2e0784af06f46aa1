package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KevinDKao/running-diary/internal/session"
	"github.com/KevinDKao/running-diary/internal/store"
	"github.com/KevinDKao/running-diary/internal/stream"

	"github.com/google/uuid"
)

// memStore mirrors store.Store semantics in memory.
type memStore struct {
	mu     sync.Mutex
	clock  time.Time
	plans  map[string]store.Plan
	logs   map[string]store.WorkoutLog
	writes int
	err    error
}

func newMemStore() *memStore {
	return &memStore{
		clock: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		plans: map[string]store.Plan{},
		logs:  map[string]store.WorkoutLog{},
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) CreatePlan(_ context.Context, sess session.Session, name string, weeks int, raceDistance string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	id := uuid.NewString()
	m.plans[id] = store.Plan{ID: id, SessionID: sess.ID, Name: name, Weeks: weeks, RaceDistance: raceDistance, CreatedAt: m.tick()}
	m.writes++
	return id, nil
}

func (m *memStore) GetPlans(_ context.Context, sess session.Session) ([]store.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	plans := []store.Plan{}
	for _, p := range m.plans {
		if p.SessionID == sess.ID {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

func (m *memStore) GetPlan(_ context.Context, planID string) (store.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return store.Plan{}, m.err
	}
	p, ok := m.plans[planID]
	if !ok {
		return store.Plan{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) DeletePlan(_ context.Context, planID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for id, l := range m.logs {
		if l.PlanID == planID {
			delete(m.logs, id)
		}
	}
	_, ok := m.plans[planID]
	delete(m.plans, planID)
	m.writes++
	return ok, nil
}

func (m *memStore) SaveWorkoutLog(_ context.Context, in store.WorkoutInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.writes++
	now := m.tick()
	for id, l := range m.logs {
		if l.PlanID == in.PlanID && l.Week == in.Week && l.Day == in.Day {
			l.ActualTime, l.ActualDistance, l.ActualPace = in.ActualTime, in.ActualDistance, in.ActualPace
			l.DistanceUnit, l.Intensity, l.Notes = in.DistanceUnit, in.Intensity, in.Notes
			l.UpdatedAt = now
			m.logs[id] = l
			return id, nil
		}
	}
	id := uuid.NewString()
	m.logs[id] = store.WorkoutLog{
		ID: id, PlanID: in.PlanID, Week: in.Week, Day: in.Day,
		ActualTime: in.ActualTime, ActualDistance: in.ActualDistance, ActualPace: in.ActualPace,
		DistanceUnit: in.DistanceUnit, Intensity: in.Intensity, Notes: in.Notes,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (m *memStore) GetWorkoutLog(_ context.Context, planID string, week, day int) (store.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return store.WorkoutLog{}, m.err
	}
	for _, l := range m.logs {
		if l.PlanID == planID && l.Week == week && l.Day == day {
			return l, nil
		}
	}
	return store.WorkoutLog{}, store.ErrNotFound
}

func (m *memStore) GetCompletedCells(_ context.Context, planID string) (store.CellSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cells := store.CellSet{}
	for _, l := range m.logs {
		if l.PlanID == planID {
			cells.Add(l.Week, l.Day)
		}
	}
	return cells, nil
}

func (m *memStore) GetLogs(_ context.Context, planID string) ([]store.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	logs := []store.WorkoutLog{}
	for _, l := range m.logs {
		if l.PlanID == planID {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Week != logs[j].Week {
			return logs[i].Week < logs[j].Week
		}
		return logs[i].Day < logs[j].Day
	})
	return logs, nil
}

func (m *memStore) countLogs(planID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.logs {
		if l.PlanID == planID {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []stream.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev stream.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

var _ Store = (*store.Store)(nil)
var _ Store = (*memStore)(nil)
