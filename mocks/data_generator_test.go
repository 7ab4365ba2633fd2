package mocks

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)

	if len(data) != 100 {
		t.Errorf("expected 100 ticks, got %d", len(data))
	}

	if err := types.ValidateTicks(data); err != nil {
		t.Errorf("generated ticks are invalid: %v", err)
	}

	for i := 1; i < len(data); i++ {
		actualInterval := data[i].Time.Sub(data[i-1].Time)
		if actualInterval != config.Interval {
			t.Errorf("unexpected interval at index %d: expected %v, got %v",
				i, config.Interval, actualInterval)
		}
	}

	if data[0].Price != config.InitialPrice {
		t.Errorf("expected first price %f, got %f", config.InitialPrice, data[0].Price)
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	// Same seed should produce same results
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(42)

	config := DefaultConfig()
	config.Count = 10

	data1 := gen1.Generate(config)
	data2 := gen2.Generate(config)

	for i := range data1 {
		if data1[i] != data2[i] {
			t.Errorf("data not reproducible at index %d: got %+v and %+v", i, data1[i], data2[i])
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(123)

	config := DefaultConfig()
	config.Count = 10

	data1 := gen1.Generate(config)
	data2 := gen2.Generate(config)

	sameCount := 0
	for i := range data1 {
		if data1[i].Price == data2[i].Price {
			sameCount++
		}
	}

	// The first tick is always the initial price.
	if sameCount == len(data1) {
		t.Error("different seeds produced identical data")
	}
}

func TestGenerate10K(t *testing.T) {
	data := Generate10K()

	if len(data) != 10000 {
		t.Errorf("expected 10000 ticks, got %d", len(data))
	}

	if data[1].Time.Sub(data[0].Time) != time.Hour {
		t.Errorf("expected hourly ticks, got %v", data[1].Time.Sub(data[0].Time))
	}
}

func TestGenerateMultiSeries(t *testing.T) {
	ids := []string{"1", "2", "3"}
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 50

	series := gen.GenerateMultiSeries(ids, config)

	if len(series) != len(ids) {
		t.Fatalf("expected %d series, got %d", len(ids), len(series))
	}

	for _, id := range ids {
		if len(series[id]) != config.Count {
			t.Errorf("expected %d ticks for %s, got %d", config.Count, id, len(series[id]))
		}

		if !series[id][0].Time.Equal(config.StartTime) {
			t.Errorf("series %s does not start at %v", id, config.StartTime)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Count != 365 {
		t.Errorf("expected default count 365, got %d", config.Count)
	}

	if config.Interval != 24*time.Hour {
		t.Errorf("expected default interval 24h, got %v", config.Interval)
	}

	if config.InitialPrice != 100.0 {
		t.Errorf("expected default initial price 100.0, got %f", config.InitialPrice)
	}
}
