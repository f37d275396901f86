package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rshade/co2cast/internal/dataset"
	"github.com/rshade/co2cast/internal/forecast"
	"github.com/rshade/co2cast/internal/metrics"
)

// maxLatency bounds a single forecast against the sample dataset.
const maxLatency = 100 * time.Millisecond

func newBenchEngine(tb testing.TB) *Engine {
	tb.Helper()
	store, err := dataset.LoadSample(zerolog.Nop())
	require.NoError(tb, err)
	eng, err := New(store, forecast.DefaultParams(), zerolog.Nop(), metrics.New())
	require.NoError(tb, err)
	return eng
}

// BenchmarkWMA measures a WMA forecast including period selection.
func BenchmarkWMA(b *testing.B) {
	eng := newBenchEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.WMA(ctx, "Canada", 0)
	}
}

// BenchmarkRelatedRates measures a related-rates forecast with two benchmarks.
func BenchmarkRelatedRates(b *testing.B) {
	eng := newBenchEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.RelatedRates(ctx, "Canada")
	}
}

// BenchmarkRecommend measures strategy selection plus the chosen forecast.
func BenchmarkRecommend(b *testing.B) {
	eng := newBenchEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.Recommend(ctx, "India")
	}
}

func TestLatencyRequirement(t *testing.T) {
	eng := newBenchEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"WMA", func() error { _, err := eng.WMA(ctx, "Canada", 0); return err }},
		{"RelatedRates", func() error { _, err := eng.RelatedRates(ctx, "Canada"); return err }},
		{"Recommend", func() error { _, err := eng.Recommend(ctx, "China"); return err }},
		{"Period", func() error { _, err := eng.Period(ctx, "Brazil"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			require.NoError(t, tt.fn())
			elapsed := time.Since(start)

			if elapsed > maxLatency {
				t.Errorf("%s took %v, exceeds %v limit", tt.name, elapsed, maxLatency)
			} else {
				t.Logf("%s completed in %v", tt.name, elapsed)
			}
		})
	}
}

// TestConcurrentForecasts runs every country through Recommend from many
// goroutines against one shared engine.
func TestConcurrentForecasts(t *testing.T) {
	eng := newBenchEngine(t)
	names := make([]string, 0)
	for _, c := range eng.Countries() {
		names = append(names, c.Name)
	}

	const goroutines = 64
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(country string) {
			defer wg.Done()
			if _, err := eng.Recommend(context.Background(), country); err != nil {
				errs <- fmt.Errorf("%s: %w", country, err)
			}
		}(names[i%len(names)])
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
