package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metricRanges pins the documented distribution for every integer metric
// of every simulation type: metric -> [min, min+width).
var metricRanges = map[domain.SimulationType]map[string][2]int{
	domain.TypeDDoS: {
		"requestsPerSecond":  {1000, 10000},
		"targetResponseTime": {100, 500},
		"successfulBlocks":   {20, 80},
		"totalRequests":      {10000, 50000},
		"blockedRequests":    {8000, 40000},
		"averageLatency":     {50, 200},
	},
	domain.TypeMalware: {
		"detectionRate":  {60, 40},
		"filesScanned":   {10000, 50000},
		"threatsFound":   {1, 5},
		"quarantined":    {1, 3},
		"falsePositives": {0, 2},
		"systemImpact":   {5, 20},
	},
	domain.TypePhishing: {
		"emailsSent":           {50, 100},
		"clickRate":            {5, 30},
		"credentialsHarvested": {1, 10},
		"targetsReached":       {100, 200},
		"securityAlerts":       {5, 15},
	},
	domain.TypeRansomware: {
		"filesEncrypted":  {100, 1000},
		"encryptionTime":  {5, 30},
		"detectionTime":   {10, 60},
		"ransomDemand":    {10000, 50000},
		"affectedSystems": {1, 10},
	},
	domain.TypeSQLInjection: {
		"queriesAttempted":    {5, 20},
		"successful":          {1, 8},
		"dataExfiltrated":     {100, 1000},
		"vulnerableEndpoints": {1, 5},
		"securityPatches":     {0, 3},
	},
}

var boolMetrics = map[domain.SimulationType][]string{
	domain.TypePhishing:     {"detected"},
	domain.TypeRansomware:   {"recoveryPossible", "backupStatus"},
	domain.TypeSQLInjection: {"blocked"},
}

// durationMetric names the metric that echoes the run delay, for the
// types that report one.
var durationMetric = map[domain.SimulationType]string{
	domain.TypeDDoS:         "duration",
	domain.TypeMalware:      "scanDuration",
	domain.TypePhishing:     "campaignDuration",
	domain.TypeSQLInjection: "attackDuration",
}

func TestGenerate_MetricTables(t *testing.T) {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)

	for typ, ranges := range metricRanges {
		t.Run(string(typ), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				p := generate(string(typ), nil, start, end, 3*time.Second)
				require.Equal(t, string(typ), p.SimulationType)

				for metric, r := range ranges {
					v, ok := p.Metrics[metric]
					require.True(t, ok, "metric %s missing", metric)
					n, ok := v.(int)
					require.True(t, ok, "metric %s should be an int", metric)
					assert.GreaterOrEqual(t, n, r[0], "metric %s below range", metric)
					assert.Less(t, n, r[0]+r[1], "metric %s above range", metric)
				}
				for _, metric := range boolMetrics[typ] {
					_, ok := p.Metrics[metric].(bool)
					assert.True(t, ok, "metric %s should be a bool", metric)
				}
			}
		})
	}
}

func TestGenerate_DurationMetricMatchesDelay(t *testing.T) {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	for typ, metric := range durationMetric {
		p := generate(string(typ), nil, start, start.Add(4*time.Second), 4*time.Second)
		assert.Equal(t, 4, p.Metrics[metric], "type %s", typ)
	}
}

func TestGenerate_UnknownTypeFallsBackToDDoS(t *testing.T) {
	start := time.Now()
	p := generate("Zero-Day", nil, start, start.Add(2*time.Second), 2*time.Second)

	assert.Equal(t, string(domain.TypeDDoS), p.SimulationType)
	assert.Contains(t, p.Metrics, "requestsPerSecond")
	assert.Contains(t, p.Metrics, "blockedRequests")
}

func TestGenerate_SuccessRates(t *testing.T) {
	const n = 10000
	const tolerance = 0.03

	want := map[domain.SimulationType]float64{
		domain.TypeDDoS:         0.70,
		domain.TypeMalware:      0.75,
		domain.TypePhishing:     0.60,
		domain.TypeRansomware:   0.80,
		domain.TypeSQLInjection: 0.65,
	}

	start := time.Now()
	for typ, prob := range want {
		t.Run(string(typ), func(t *testing.T) {
			successes := 0
			for i := 0; i < n; i++ {
				if generate(string(typ), nil, start, start, 0).Success {
					successes++
				}
			}
			observed := float64(successes) / n
			assert.InDelta(t, prob, observed, tolerance,
				"observed success rate %.4f for %s", observed, typ)
		})
	}
}

func TestGenerate_MessageReflectsOutcome(t *testing.T) {
	start := time.Now()
	sawSuccess, sawFailure := false, false

	for i := 0; i < 500 && !(sawSuccess && sawFailure); i++ {
		p := generate(string(domain.TypePhishing), nil, start, start, 0)
		if p.Success {
			sawSuccess = true
			assert.Equal(t, "Phishing simulation completed successfully", p.Message)
		} else {
			sawFailure = true
			assert.Equal(t, "Phishing simulation failed - countermeasures effective", p.Message)
		}
	}
	assert.True(t, sawSuccess, "expected at least one success in 500 draws")
	assert.True(t, sawFailure, "expected at least one failure in 500 draws")
}

func TestGenerate_DetailsEchoConfig(t *testing.T) {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	cfg := map[string]interface{}{"target": "10.0.0.5", "intensity": "high"}

	p := generate(string(domain.TypeMalware), cfg, start, end, 2*time.Second)

	require.NotNil(t, p.Details)
	assert.Equal(t, cfg, p.Details.Config)
	assert.Equal(t, start.Format(time.RFC3339), p.Details.StartTime)
	assert.Equal(t, end.Format(time.RFC3339), p.Details.EndTime)
	assert.Equal(t, int64(2), p.Duration)

	perf := p.Details.Performance
	for metric, r := range map[string][2]int{
		"cpuUsage":       {20, 80},
		"memoryUsage":    {40, 60},
		"networkTraffic": {100, 1000},
	} {
		assert.GreaterOrEqual(t, perf[metric], r[0], metric)
		assert.Less(t, perf[metric], r[0]+r[1], metric)
	}
}

func TestGenerate_NilConfigBecomesEmptyObject(t *testing.T) {
	start := time.Now()
	p := generate(string(domain.TypeDDoS), nil, start, start, 0)

	require.NotNil(t, p.Details)
	assert.NotNil(t, p.Details.Config)
	assert.Empty(t, p.Details.Config)
}

func TestGenerate_PayloadRoundTrip(t *testing.T) {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	p := generate(string(domain.TypeRansomware), map[string]interface{}{"k": "v"}, start, start.Add(time.Second), time.Second)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	require.True(t, json.Valid(raw))

	parsed, err := domain.ParseResult(string(raw))
	require.NoError(t, err)
	assert.Equal(t, p.SimulationType, parsed.SimulationType)
	assert.Equal(t, p.Success, parsed.Success)
	assert.Equal(t, p.Message, parsed.Message)
	assert.Equal(t, p.Timestamp, parsed.Timestamp)
	assert.Len(t, parsed.Metrics, len(p.Metrics))
}

func TestRun_CompletesWithinConfiguredDelay(t *testing.T) {
	eng := New(Options{MinDelay: 5 * time.Millisecond, MaxDelay: 20 * time.Millisecond})

	begin := time.Now()
	p := eng.Run(context.Background(), string(domain.TypeDDoS), nil)
	elapsed := time.Since(begin)

	require.NotNil(t, p)
	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
	assert.Empty(t, p.Error)

	_, err := time.Parse(time.RFC3339, p.Timestamp)
	assert.NoError(t, err)
}

func TestNew_DefaultsAndClamping(t *testing.T) {
	t.Run("zero options take production defaults", func(t *testing.T) {
		eng := New(Options{})
		assert.Equal(t, 2*time.Second, eng.minDelay)
		assert.Equal(t, 5*time.Second, eng.maxDelay)
	})

	t.Run("inverted bounds clamp max to min", func(t *testing.T) {
		eng := New(Options{MinDelay: 3 * time.Second, MaxDelay: time.Second})
		assert.Equal(t, eng.minDelay, eng.maxDelay)
	})
}

func TestFailurePayload(t *testing.T) {
	p := failurePayload("Malware", assert.AnError)

	assert.Equal(t, string(domain.TypeMalware), p.SimulationType)
	assert.False(t, p.Success)
	assert.Equal(t, assert.AnError.Error(), p.Error)
	assert.Contains(t, p.Message, "Simulation execution failed")

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}
