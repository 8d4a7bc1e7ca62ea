// Package sensors reads the current environment of a pot.
package sensors

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/greengenius/greengenius/internal/types"
)

type Source interface {
	Read(ctx context.Context, potID string) (types.SensorStatus, error)
}

// New returns an HTTP source when a device URL is configured, otherwise the
// simulated Arduino.
func New(sourceURL string) Source {
	if sourceURL == "" {
		return NewSimulated(uint64(time.Now().UnixNano()))
	}

	return NewHTTPSource(sourceURL, 10*time.Second)
}

// Simulated produces readings around typical indoor values until real
// hardware is attached.
type Simulated struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulated(seed uint64) *Simulated {
	return &Simulated{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Simulated) Read(ctx context.Context, _ string) (types.SensorStatus, error) {
	if err := ctx.Err(); err != nil {
		return types.SensorStatus{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return types.SensorStatus{
		Temperature:  roundTenth(s.uniform(20, 24)),
		Humidity:     roundTenth(s.uniform(40, 50)),
		LightLevel:   float64(s.between(450, 550)),
		SoilMoisture: float64(s.between(30, 50)),
	}, nil
}

func (s *Simulated) uniform(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}

// between is inclusive on both ends.
func (s *Simulated) between(lo, hi int) int {
	return lo + s.rnd.IntN(hi-lo+1)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
