package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"il2-rankmod/light/internal/jobs"
	"il2-rankmod/light/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMissions struct {
	rows []entities.MissionRow
}

func (f *fakeMissions) add(id int64, date string, squadronID int64) {
	d := date
	f.rows = append(f.rows, entities.MissionRow{ID: id, Date: &d, SquadronID: squadronID})
}

func (f *fakeMissions) Latest(ctx context.Context) (*entities.MissionRow, error) {
	if len(f.rows) == 0 {
		return nil, nil
	}
	last := f.rows[len(f.rows)-1]
	return &last, nil
}

func (f *fakeMissions) After(ctx context.Context, afterID int64) ([]entities.MissionRow, error) {
	var out []entities.MissionRow
	for _, r := range f.rows {
		if r.ID > afterID {
			out = append(out, r)
		}
	}
	return out, nil
}

type passCall struct {
	squadronID int64
	date       string
}

type fakePass struct {
	calls []passCall
	err   error
}

func (f *fakePass) Run(ctx context.Context, squadronID int64, missionDate string) (jobs.PassSummary, error) {
	f.calls = append(f.calls, passCall{squadronID, missionDate})
	return jobs.PassSummary{}, f.err
}

type probeFunc func(ctx context.Context) bool

func (f probeFunc) IsRunning(ctx context.Context) bool { return f(ctx) }

func TestDayChangeMonitor_OnePassPerDay(t *testing.T) {
	missions := &fakeMissions{}
	missions.add(5, "1942-11-19", 10)
	pass := &fakePass{}
	m := NewDayChangeMonitor(missions, pass, nil, time.Millisecond, nil)
	ctx := context.Background()

	require.NoError(t, m.Tick(ctx))
	id, day := m.State()
	assert.Equal(t, int64(5), id)
	assert.Equal(t, "1942.11.19", day)
	assert.Empty(t, pass.calls)

	missions.add(6, "1942.11.19", 10)
	require.NoError(t, m.Tick(ctx))
	assert.Empty(t, pass.calls)

	missions.add(7, "1942-11-20 05:00:00", 10)
	missions.add(8, "1942.11.20", 11)
	require.NoError(t, m.Tick(ctx))
	assert.Equal(t, []passCall{{10, "1942.11.20"}}, pass.calls)

	missions.add(9, "1942.11.21", 11)
	require.NoError(t, m.Tick(ctx))
	require.NoError(t, m.Tick(ctx))
	assert.Equal(t, []passCall{{10, "1942.11.20"}, {11, "1942.11.21"}}, pass.calls)
}

func TestDayChangeMonitor_EmptyCareerPrimesOnFirstMission(t *testing.T) {
	missions := &fakeMissions{}
	pass := &fakePass{}
	m := NewDayChangeMonitor(missions, pass, nil, time.Millisecond, nil)
	ctx := context.Background()

	require.NoError(t, m.Tick(ctx))
	id, _ := m.State()
	assert.Equal(t, int64(-1), id)

	missions.add(1, "1941.06.22", 10)
	require.NoError(t, m.Tick(ctx))
	assert.Empty(t, pass.calls)

	missions.add(2, "1941.06.23", 10)
	require.NoError(t, m.Tick(ctx))
	assert.Len(t, pass.calls, 1)
}

func TestDayChangeMonitor_SkipsUnreadableDates(t *testing.T) {
	missions := &fakeMissions{}
	missions.add(1, "1942.11.19", 10)
	pass := &fakePass{}
	m := NewDayChangeMonitor(missions, pass, nil, time.Millisecond, nil)
	ctx := context.Background()
	require.NoError(t, m.Tick(ctx))

	missions.add(2, "sometime in winter", 10)
	missions.rows = append(missions.rows, entities.MissionRow{ID: 3, SquadronID: 10})
	require.NoError(t, m.Tick(ctx))
	assert.Empty(t, pass.calls)

	id, day := m.State()
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "1942.11.19", day)
}

func TestDayChangeMonitor_PassErrorStopsTick(t *testing.T) {
	missions := &fakeMissions{}
	missions.add(1, "1942.11.19", 10)
	pass := &fakePass{err: errors.New("database is locked")}
	m := NewDayChangeMonitor(missions, pass, nil, time.Millisecond, nil)
	ctx := context.Background()
	require.NoError(t, m.Tick(ctx))

	missions.add(2, "1942.11.20", 10)
	missions.add(3, "1942.11.21", 10)
	assert.Error(t, m.Tick(ctx))
	assert.Len(t, pass.calls, 1)

	pass.err = nil
	require.NoError(t, m.Tick(ctx))
	assert.Equal(t, []passCall{{10, "1942.11.20"}, {10, "1942.11.21"}}, pass.calls)
}

func TestDayChangeMonitor_RunStopsWhenGameExits(t *testing.T) {
	missions := &fakeMissions{}
	missions.add(1, "1942.11.19", 10)

	var polls atomic.Int32
	probe := probeFunc(func(ctx context.Context) bool { return polls.Add(1) <= 3 })
	m := NewDayChangeMonitor(missions, &fakePass{}, probe, time.Millisecond, nil)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, int32(4), polls.Load())
}

func TestDayChangeMonitor_RunHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	probe := probeFunc(func(ctx context.Context) bool { return true })
	m := NewDayChangeMonitor(&fakeMissions{}, &fakePass{}, probe, time.Hour, nil)

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
