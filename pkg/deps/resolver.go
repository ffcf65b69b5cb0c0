package deps

import (
	"context"
	"sync"
	"sync/atomic"
)

// Fetcher retrieves package metadata from a registry.
type Fetcher interface {
	// Fetch retrieves the package name at the given version or version
	// requirement ("" for the latest). If refresh is true, cached data is
	// bypassed.
	Fetch(ctx context.Context, name, version string, refresh bool) (*Package, error)
}

// Resolver expands direct dependencies into their transitive closure
// using the registry fetcher of each ecosystem.
type Resolver struct {
	fetchers map[Ecosystem]Fetcher
	opts     Options
}

// NewResolver creates a Resolver. Dependencies of ecosystems without a
// fetcher are kept but never expanded.
func NewResolver(fetchers map[Ecosystem]Fetcher, opts Options) *Resolver {
	return &Resolver{fetchers: fetchers, opts: opts.WithDefaults()}
}

// Expand walks the registry dependency graph breadth-first from direct,
// which are taken to be at the depth they carry. Each (ecosystem, name)
// appears once in the result, at the shallowest depth it was reached, so
// cycles terminate. Nodes at MaxDepth are kept without being fetched. A
// failed lookup marks the node Unresolved and does not stop the walk.
//
// The result lists direct first, then each level in discovery order.
func (r *Resolver) Expand(ctx context.Context, direct []Dependency) ([]Dependency, error) {
	visited := make(map[Key]bool, len(direct))
	out := make([]Dependency, 0, len(direct))
	var frontier []int
	for _, d := range direct {
		if visited[d.Key()] {
			continue
		}
		visited[d.Key()] = true
		out = append(out, d)
		frontier = append(frontier, len(out)-1)
	}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var fetchable []int
		for _, i := range frontier {
			if out[i].Depth < r.opts.MaxDepth && r.fetchers[out[i].Ecosystem] != nil {
				fetchable = append(fetchable, i)
			}
		}
		c := &crawler{
			ctx:     ctx,
			opts:    r.opts,
			fetcher: r.fetchers,
			jobs:    make(chan job, len(fetchable)),
			results: make(chan result, len(fetchable)),
		}
		jobs := make([]job, len(fetchable))
		for n, i := range fetchable {
			jobs[n] = job{index: i, dep: out[i]}
		}
		results, err := c.run(jobs)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return nil, err
		}

		var next []int
		for _, i := range fetchable {
			res := results[i]
			parent := out[i]
			if res.err != nil {
				r.opts.Logger("resolve %s %s: %v", parent.Ecosystem, parent.Name, res.err)
				out[i].Unresolved = true
				continue
			}
			if res.pkg == nil {
				continue
			}
			for _, req := range res.pkg.Dependencies {
				child := Dependency{
					Name:      req.Name,
					Version:   req.Version,
					Ecosystem: parent.Ecosystem,
					Depth:     parent.Depth + 1,
					Manifest:  parent.Manifest,
				}
				if visited[child.Key()] {
					continue
				}
				visited[child.Key()] = true
				out = append(out, child)
				next = append(next, len(out)-1)
			}
		}
		frontier = next
	}
	return out, nil
}

// crawler fetches one BFS level on a bounded pool of workers.
type crawler struct {
	ctx     context.Context
	opts    Options
	fetcher map[Ecosystem]Fetcher

	jobs    chan job
	results chan result
	wg      sync.WaitGroup
	pending int64
}

type job struct {
	index int
	dep   Dependency
}

type result struct {
	job
	pkg *Package
	err error
}

func (c *crawler) run(jobs []job) (map[int]result, error) {
	out := make(map[int]result, len(jobs))
	if len(jobs) == 0 {
		return out, nil
	}

	workers := min(c.opts.Workers, len(jobs))
	for range workers {
		c.wg.Add(1)
		go c.worker()
	}

	atomic.StoreInt64(&c.pending, int64(len(jobs)))
	for _, j := range jobs {
		c.jobs <- j
	}
	close(c.jobs)

	err := c.collect(out)
	c.wg.Wait()
	return out, err
}

func (c *crawler) worker() {
	defer c.wg.Done()
	for j := range c.jobs {
		if c.ctx.Err() != nil {
			c.results <- result{job: j, err: c.ctx.Err()}
			continue
		}
		f := c.fetcher[j.dep.Ecosystem]
		pkg, err := f.Fetch(c.ctx, j.dep.Name, j.dep.Version, c.opts.Refresh)
		c.results <- result{job: j, pkg: pkg, err: err}
	}
}

func (c *crawler) collect(out map[int]result) error {
	for {
		select {
		case r := <-c.results:
			out[r.index] = r
			if atomic.AddInt64(&c.pending, -1) == 0 {
				return nil
			}
		case <-c.ctx.Done():
			return c.ctx.Err()
		}
	}
}
