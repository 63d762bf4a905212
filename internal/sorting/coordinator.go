package sorting

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"

	"dcimsort/internal/logging"
)

// DirCreator creates target directories. Under simulate nothing is
// created; the directory is only recorded.
type DirCreator interface {
	EnsureCreated(path string, simulate bool) error
}

// DirRequest asks the coordinator goroutine for one directory.
type DirRequest struct {
	Path      string
	Reply     chan error
	CacheOnly bool
}

// Coordinator is the only component that creates directories during a run.
// Used directly it is a synchronous DirCreator for single goroutine runs.
// After Start it serves DirRequests from one goroutine, and workers talk to
// it through Client handles.
type Coordinator struct {
	logger *slog.Logger

	// Owned by the serving goroutine after Start.
	cache   map[uint64]struct{}
	created []string

	requests chan DirRequest
	done     chan struct{}
	once     sync.Once
}

func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{
		logger: logging.NewComponentLogger(logger, "dirmgr"),
		cache:  make(map[uint64]struct{}),
	}
}

// EnsureCreated creates path and its parents unless the path was seen
// before. It must not be called concurrently or after Start.
func (c *Coordinator) EnsureCreated(path string, simulate bool) error {
	return c.ensure(path, simulate)
}

func (c *Coordinator) ensure(path string, cacheOnly bool) error {
	clean := filepath.Clean(path)
	key := xxhash.Sum64String(clean)
	if _, ok := c.cache[key]; ok {
		return nil
	}
	if cacheOnly {
		c.record(key, clean)
		c.logger.Debug("directory would be created", logging.String("directory", clean))
		return nil
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return err
	}
	c.record(key, clean)
	c.logger.Debug("directory created", logging.String("directory", clean))
	return nil
}

func (c *Coordinator) record(key uint64, path string) {
	c.cache[key] = struct{}{}
	c.created = append(c.created, path)
}

// Start launches the serving goroutine. Requests are handled one at a time
// in arrival order.
func (c *Coordinator) Start() {
	c.once.Do(func() {
		c.requests = make(chan DirRequest)
		c.done = make(chan struct{})
		go c.serve()
	})
}

func (c *Coordinator) serve() {
	defer close(c.done)
	for req := range c.requests {
		req.Reply <- c.ensure(req.Path, req.CacheOnly)
	}
	c.logger.Debug("directory coordinator stopped", logging.Int("directories", len(c.created)))
}

// Client returns a handle that forwards EnsureCreated calls to the serving
// goroutine. Start must have been called.
func (c *Coordinator) Client() DirCreator {
	return coordinatorClient{requests: c.requests}
}

// Close stops the serving goroutine and waits for it to exit. Clients must
// not be used afterwards.
func (c *Coordinator) Close() {
	if c.requests == nil {
		return
	}
	close(c.requests)
	<-c.done
}

// Directories returns the directories created, or recorded under simulate,
// in request order. With a running goroutine it is only valid after Close.
func (c *Coordinator) Directories() []string {
	return append([]string(nil), c.created...)
}

type coordinatorClient struct {
	requests chan<- DirRequest
}

func (cl coordinatorClient) EnsureCreated(path string, simulate bool) error {
	reply := make(chan error, 1)
	cl.requests <- DirRequest{Path: path, Reply: reply, CacheOnly: simulate}
	return <-reply
}
