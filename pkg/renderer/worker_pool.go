package renderer

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-rtiow/pkg/core"
)

// SamplerFactory creates the sampler owned by one worker
type SamplerFactory func() core.Sampler

// PixelSamplerFactory gives every worker its own per-pixel sampler for seed.
// Output is then identical to a sequential render with core.NewPixelSampler(seed).
func PixelSamplerFactory(seed uint64) SamplerFactory {
	return func() core.Sampler {
		return core.NewPixelSampler(seed)
	}
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Row     int
	Samples int
}

// WorkerPool renders rows of an image in parallel.
// Rows are disjoint slices of one output buffer, so workers never share writes.
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
	newSampler SamplerFactory
	logger     core.Logger
}

// NewWorkerPool creates a worker pool with the specified number of workers (0 = use CPU count)
func NewWorkerPool(raytracer *Raytracer, numWorkers int, newSampler SamplerFactory, logger core.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &WorkerPool{
		raytracer:  raytracer,
		numWorkers: numWorkers,
		newSampler: newSampler,
		logger:     logger,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Render renders every row and returns the pixels in emission order once all workers finish
func (wp *WorkerPool) Render(ctx context.Context) ([]core.Vec3, RenderStats, error) {
	start := time.Now()
	config := wp.raytracer.Config()
	width, height := config.Width, config.Height
	pixels := make([]core.Vec3, width*height)

	taskQueue := make(chan int)
	resultQueue := make(chan RowResult, height)
	g, ctx := errgroup.WithContext(ctx)

	// Feed rows top to bottom
	g.Go(func() error {
		defer close(taskQueue)
		for j := height - 1; j >= 0; j-- {
			select {
			case taskQueue <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < wp.numWorkers; w++ {
		g.Go(func() error {
			sampler := wp.newSampler()
			for j := range taskQueue {
				if err := ctx.Err(); err != nil {
					return err
				}
				offset := wp.raytracer.PixelIndex(0, j)
				wp.raytracer.RenderRow(j, pixels[offset:offset+width], sampler)
				resultQueue <- RowResult{Row: j, Samples: width * config.SamplesPerPixel}
			}
			return nil
		})
	}

	stats := RenderStats{
		TotalPixels: width * height,
		Workers:     wp.numWorkers,
	}
	progressEvery := max(1, height/10)

	g.Go(func() error {
		for stats.Rows < height {
			select {
			case result := <-resultQueue:
				stats.Rows++
				stats.TotalSamples += result.Samples
				if stats.Rows%progressEvery == 0 {
					wp.logger.Printf("Rows remaining: %d\n", height-stats.Rows)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, err
	}

	stats.Elapsed = time.Since(start)
	return pixels, stats, nil
}

// RenderParallel renders the scene with a pool of workers, each owning the sampler newSampler returns
func RenderParallel(ctx context.Context, scene Scene, camera *Camera, config Config, newSampler SamplerFactory, numWorkers int, logger core.Logger) ([]core.Vec3, RenderStats, error) {
	rt, err := NewRaytracer(scene, camera, config)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return NewWorkerPool(rt, numWorkers, newSampler, logger).Render(ctx)
}
