package rayfire

import (
	"context"
	"runtime"
	"sync"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// FireRequest is one independent ray of a batch.
type FireRequest struct {
	Volume    mesh.EntityHandle
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// FireResult carries the outcome of the request at Index.
type FireResult struct {
	Index int
	Hit   Intersection
	Err   error
}

type fireTask struct {
	index int
	req   FireRequest
}

// FireBatch fires every request on a pool of workers, each request with a
// fresh history. Results come back in request order. When ctx is cancelled
// the remaining requests are not fired; their results hold ctx.Err() and
// FireBatch returns it as well.
func (e *Engine) FireBatch(ctx context.Context, reqs []FireRequest, workers int, opts ...FireOption) ([]FireResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	results := make([]FireResult, len(reqs))
	taskQueue := make(chan fireTask, len(reqs))
	for i, r := range reqs {
		taskQueue <- fireTask{index: i, req: r}
	}
	close(taskQueue)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			history := e.NewRayHistory()
			for task := range taskQueue {
				res := FireResult{Index: task.index}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					history.Reset()
					res.Hit, res.Err = e.RayFire(task.req.Volume, task.req.Origin, task.req.Direction, history, opts...)
				}
				results[task.index] = res
			}
		}()
	}
	wg.Wait()

	return results, ctx.Err()
}
