package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
)

// Options controls the artificial run delay. Zero values take the
// production defaults (2-5 seconds).
type Options struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Engine produces randomized attack-simulation outcomes. It is pure with
// respect to its inputs except for the random source and the wall clock,
// and its delay is the only intentional suspension point in the system.
type Engine struct {
	minDelay time.Duration
	maxDelay time.Duration
}

func New(opts Options) *Engine {
	if opts.MinDelay == 0 {
		opts.MinDelay = 2 * time.Second
	}
	if opts.MaxDelay == 0 {
		opts.MaxDelay = 5 * time.Second
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	return &Engine{minDelay: opts.MinDelay, maxDelay: opts.MaxDelay}
}

// Run executes one simulation: it sleeps for a uniformly drawn delay and
// then builds the outcome payload. It never returns an error; internal
// failures are captured inside the payload itself.
func (e *Engine) Run(ctx context.Context, rawType string, config map[string]interface{}) (payload *domain.ResultPayload) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[error] operation=engine.run type=%s panic=%v", rawType, r)
			payload = failurePayload(rawType, fmt.Errorf("%v", r))
		}
	}()

	start := time.Now()
	delay := e.minDelay
	if span := e.maxDelay - e.minDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(delay)

	return generate(rawType, config, start, time.Now(), delay)
}

// generate builds the outcome payload without sleeping. Split out from Run
// so the distribution properties can be exercised at volume.
func generate(rawType string, config map[string]interface{}, start, end time.Time, delay time.Duration) *domain.ResultPayload {
	typ := domain.ParseType(rawType)
	prof := profiles[typ]

	delaySec := int(delay / time.Second)
	success := rand.Float64() < prof.successProb
	metrics := prof.metrics(delaySec)

	message := fmt.Sprintf("%s simulation completed successfully", typ)
	if !success {
		message = fmt.Sprintf("%s simulation failed - countermeasures effective", typ)
	}
	if config == nil {
		config = map[string]interface{}{}
	}

	return &domain.ResultPayload{
		SimulationType: string(typ),
		Success:        success,
		Metrics:        metrics,
		Timestamp:      end.UTC().Format(time.RFC3339),
		Duration:       int64(end.Sub(start) / time.Second),
		Message:        message,
		Details: &domain.ResultDetails{
			StartTime: start.UTC().Format(time.RFC3339),
			EndTime:   end.UTC().Format(time.RFC3339),
			Config:    config,
			Performance: map[string]int{
				"cpuUsage":       ri(20, 80),
				"memoryUsage":    ri(40, 60),
				"networkTraffic": ri(100, 1000),
			},
		},
	}
}

func failurePayload(rawType string, err error) *domain.ResultPayload {
	typ := domain.ParseType(rawType)
	return &domain.ResultPayload{
		SimulationType: string(typ),
		Success:        false,
		Error:          err.Error(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Message:        fmt.Sprintf("Simulation execution failed: %s", err.Error()),
	}
}

// ri draws an integer uniformly from [min, min+width).
func ri(min, width int) int {
	return min + rand.Intn(width)
}

// rb draws true with probability p.
func rb(p float64) bool {
	return rand.Float64() < p
}
