package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/testutil"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	status types.SensorStatus
	err    error
	reads  atomic.Int32
}

func (f *fixedSource) Read(ctx context.Context, _ string) (types.SensorStatus, error) {
	f.reads.Add(1)
	return f.status, f.err
}

type recorder struct {
	mu      sync.Mutex
	updates map[string][]SensorUpdate
	events  []services.Event
}

func newRecorder() *recorder {
	return &recorder{updates: map[string][]SensorUpdate{}}
}

func (r *recorder) Broadcast(topic string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates[topic] = append(r.updates[topic], data.(SensorUpdate))
}

func (r *recorder) Publish(_ context.Context, event services.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) count(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.updates[topic])
}

func (r *recorder) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func createPot(t *testing.T, id string, details string) models.Pot {
	t.Helper()

	user := models.User{Name: "Ada", Email: id + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(&user).Error)

	pot := models.Pot{ID: id, UserID: user.ID, Name: "Kitchen"}

	if details != "" {
		require.NoError(t, pot.SetPlantData(&types.PlantData{
			ID:      "p1",
			Name:    "Monstera",
			Details: json.RawMessage(details),
		}))
	}

	require.NoError(t, db.DB.Create(&pot).Error)
	return pot
}

func TestSchedulerPollsPots(t *testing.T) {
	testutil.UseTestDatabase(t)

	pot := createPot(t, "pot-1", `{"growth":{"minimum_temperature":{"deg_c":25}}}`)
	createPot(t, "pot-empty", "")

	source := &fixedSource{status: types.SensorStatus{Temperature: 21, Humidity: 45, LightLevel: 500, SoilMoisture: 40}}
	rec := newRecorder()

	s := NewScheduler(Options{
		Source:        source,
		Publisher:     rec,
		Broadcast:     rec.Broadcast,
		Interval:      10 * time.Millisecond,
		RecordHistory: true,
	})
	require.NoError(t, s.Start())

	topic := realtime.SensorsTopic(pot.ID)
	require.Eventually(t, func() bool { return rec.count(topic) >= 3 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()

	assert.Zero(t, rec.count(realtime.SensorsTopic("pot-empty")))

	rec.mu.Lock()
	update := rec.updates[topic][0]
	rec.mu.Unlock()

	assert.Equal(t, "pot-1", update.PotID)
	assert.Equal(t, types.HealthStatusNeedsAttention, update.Analysis.Status)
	assert.Equal(t, []string{"Too Cold"}, update.Analysis.Issues)
	assert.Equal(t, 40.0, update.Metrics.SoilMoisture)
	assert.Len(t, update.Environment, 4)

	// health.changed is only published on the first reading
	eventTypes := rec.eventTypes()
	assert.Equal(t, services.EventSensorReading, eventTypes[0])
	assert.Equal(t, services.EventHealthChanged, eventTypes[1])
	healthEvents := 0
	for _, eventType := range eventTypes {
		if eventType == services.EventHealthChanged {
			healthEvents++
		}
	}
	assert.Equal(t, 1, healthEvents)

	var readings int64
	require.NoError(t, db.DB.Model(&models.SensorReading{}).Where("pot_id = ?", pot.ID).Count(&readings).Error)
	assert.GreaterOrEqual(t, readings, int64(3))

	assert.Equal(t, false, s.GetStatus()["running"])
	assert.Equal(t, 0, s.GetStatus()["active_pots"])
}

func TestSchedulerAddRemove(t *testing.T) {
	testutil.UseTestDatabase(t)

	pot := createPot(t, "pot-2", `{}`)
	source := &fixedSource{err: errors.New("offline")}
	rec := newRecorder()

	s := NewScheduler(Options{Source: source, Publisher: rec, Broadcast: rec.Broadcast, Interval: time.Hour})
	defer s.Stop()

	s.AddPot(pot)
	assert.Equal(t, 1, s.GetStatus()["active_pots"])
	require.Eventually(t, func() bool { return source.reads.Load() == 1 }, time.Second, 5*time.Millisecond)

	// failed reads are not broadcast
	assert.Zero(t, rec.count(realtime.SensorsTopic(pot.ID)))

	require.NoError(t, pot.SetPlantData(nil))
	s.UpdatePot(pot)
	assert.Equal(t, 0, s.GetStatus()["active_pots"])

	s.RemovePot("missing")
}

func TestProfileOf(t *testing.T) {
	pot := models.Pot{ID: "p"}
	assert.Nil(t, ProfileOf(pot).EffectiveGrowth())

	require.NoError(t, pot.SetPlantData(&types.PlantData{Details: json.RawMessage(`{"main_species":{"growth":{"maximum_temperature":{"deg_c":28}}}}`)}))
	growth := ProfileOf(pot).EffectiveGrowth()
	require.NotNil(t, growth)
	assert.Equal(t, 28.0, *growth.MaximumTemperature.DegC)
}

func TestGlobalWrappersWithoutScheduler(t *testing.T) {
	globalScheduler = nil

	AddPot(models.Pot{ID: "x"})
	RemovePot("x")
	UpdatePot(models.Pot{ID: "x"})
	Shutdown()

	assert.Nil(t, Status())
}
