package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/geometry"
	"github.com/df07/go-rtiow/pkg/material"
)

// recordingLogger collects log lines for assertions
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func newMaterialsScene(t *testing.T) *MockScene {
	t.Helper()
	metal, err := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	if err != nil {
		t.Fatal(err)
	}
	glass, err := material.NewDielectric(1.5)
	if err != nil {
		t.Fatal(err)
	}
	return &MockScene{
		world: geometry.NewWorld(
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, 0),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, 1),
			geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, 2),
			geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, 3),
			geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, 3),
		),
		materials: []material.Material{
			material.NewLambertian(core.NewVec3(0.8, 0.3, 0.3)),
			material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)),
			metal,
			glass,
		},
	}
}

func TestWorkerPool_MatchesSequentialRender(t *testing.T) {
	scene := newMaterialsScene(t)
	config := Config{Width: 24, Height: 12, SamplesPerPixel: 3, MaxDepth: 10, HitEpsilon: 0.001}

	sequential, err := Render(scene, DefaultCamera(), config, core.NewPixelSampler(99))
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			parallel, stats, err := RenderParallel(context.Background(), scene, DefaultCamera(), config, PixelSamplerFactory(99), workers, nil)
			if err != nil {
				t.Fatal(err)
			}

			if len(parallel) != len(sequential) {
				t.Fatalf("Expected %d pixels, got %d", len(sequential), len(parallel))
			}
			for k := range sequential {
				if !parallel[k].Equals(sequential[k]) {
					t.Fatalf("Pixel %d differs: sequential %v, parallel %v", k, sequential[k], parallel[k])
				}
			}

			if stats.Rows != config.Height {
				t.Errorf("Expected %d rows, got %d", config.Height, stats.Rows)
			}
			if stats.TotalSamples != config.Width*config.Height*config.SamplesPerPixel {
				t.Errorf("Expected %d samples, got %d", config.Width*config.Height*config.SamplesPerPixel, stats.TotalSamples)
			}
			if stats.Workers != workers {
				t.Errorf("Expected %d workers, got %d", workers, stats.Workers)
			}
		})
	}
}

func TestWorkerPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := Config{Width: 16, Height: 64, SamplesPerPixel: 2, MaxDepth: 5, HitEpsilon: 0.001}
	pixels, _, err := RenderParallel(ctx, newMaterialsScene(t), DefaultCamera(), config, PixelSamplerFactory(1), 4, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if pixels != nil {
		t.Error("Expected no pixels from a cancelled render")
	}
}

func TestWorkerPool_InvalidConfig(t *testing.T) {
	_, _, err := RenderParallel(context.Background(), newMaterialsScene(t), DefaultCamera(), Config{}, PixelSamplerFactory(1), 2, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestWorkerPool_LogsProgress(t *testing.T) {
	logger := &recordingLogger{}
	config := Config{Width: 4, Height: 20, SamplesPerPixel: 1, MaxDepth: 3, HitEpsilon: 0.001}

	if _, _, err := RenderParallel(context.Background(), newMaterialsScene(t), DefaultCamera(), config, PixelSamplerFactory(5), 2, logger); err != nil {
		t.Fatal(err)
	}

	if len(logger.lines) != 10 {
		t.Fatalf("Expected a progress line every 2 rows (10 lines), got %d", len(logger.lines))
	}
	if !strings.Contains(logger.lines[len(logger.lines)-1], "Rows remaining: 0") {
		t.Errorf("Expected the last progress line to report completion, got %q", logger.lines[len(logger.lines)-1])
	}
}

func TestNewWorkerPool_DefaultsToCPUCount(t *testing.T) {
	rt := newTestRaytracer(t, &MockScene{world: geometry.NewWorld()}, testConfig())
	if wp := NewWorkerPool(rt, 0, PixelSamplerFactory(1), nil); wp.GetNumWorkers() < 1 {
		t.Errorf("Expected at least one worker, got %d", wp.GetNumWorkers())
	}
}
