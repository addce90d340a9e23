// Package harness runs the posts API against an isolated store so that its
// HTTP behavior can be checked against what is actually stored.
//
// A harness goes through four phases: [Start] acquires the store and the
// server once, [Harness.Seed] and [Harness.Wipe] surround every case, and
// [Harness.Stop] releases everything. [New] and [Harness.Case] bind those
// phases to the scope of a [testing.T].
package harness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.hacdias.com/posts/config"
	"go.hacdias.com/posts/core"
	"go.hacdias.com/posts/database"
	"go.hacdias.com/posts/fixtures"
	"go.hacdias.com/posts/log"
	"go.hacdias.com/posts/server"
	"go.uber.org/zap"
)

const (
	DefaultSeedSize = 10

	readyTimeout   = 10 * time.Second
	requestTimeout = 10 * time.Second
)

type Options struct {
	// Database is the store the API runs against. It must be dedicated to
	// the harness since it is wiped after every case. When the driver is
	// empty, a bolt store in a temporary directory is used.
	Database config.Database

	// SeedSize is the number of posts seeded before every case.
	SeedSize int

	// Seed makes the fixtures reproducible. Nil picks a random seed, which
	// is logged on start.
	Seed *int64
}

type Harness struct {
	// URL is the base URL of the running API.
	URL string

	// DB is a direct handle to the store, used to cross-check responses.
	DB database.Database

	Fixtures *fixtures.Generator

	seedSize int
	log      *zap.SugaredLogger
	client   *http.Client
	server   *server.Server
	served   chan error
	tempDir  string
}

// Start opens the store and starts the API on a loopback port. On error
// everything acquired so far is released.
func Start(ctx context.Context, opts Options) (*Harness, error) {
	h := &Harness{
		seedSize: opts.SeedSize,
		log:      log.S().Named("harness"),
		client:   &http.Client{Timeout: requestTimeout},
	}

	if h.seedSize <= 0 {
		h.seedSize = DefaultSeedSize
	}

	if opts.Seed == nil {
		h.Fixtures = fixtures.NewRandom()
	} else {
		h.Fixtures = fixtures.New(*opts.Seed)
	}
	h.log.Infow("generating fixtures", "seed", h.Fixtures.Seed())

	err := h.start(ctx, opts.Database)
	if err != nil {
		_ = h.Stop()
		return nil, err
	}

	return h, nil
}

func (h *Harness) start(ctx context.Context, cfg config.Database) error {
	if cfg.Driver == "" {
		dir, err := os.MkdirTemp("", "posts-harness-")
		if err != nil {
			return err
		}

		h.tempDir = dir
		cfg = config.Database{
			Driver: config.DriverBolt,
			Path:   filepath.Join(dir, "posts.db"),
		}
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open test database: %w", err)
	}
	h.DB = db

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	h.URL = "http://" + ln.Addr().String()
	h.server = server.NewServer(&config.Config{}, db)
	h.served = make(chan error, 1)

	go func() {
		h.served <- h.server.Serve(ln)
	}()

	return h.waitReady(ctx)
}

// waitReady polls the API until it answers any request.
func (h *Harness) waitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("api did not become ready at %s: %w", h.URL, ctx.Err())
		case err := <-h.served:
			h.served <- err
			return fmt.Errorf("api stopped while starting: %w", err)
		case <-ticker.C:
			_, err := h.Do(ctx, http.MethodHead, "/", nil)
			if err == nil {
				h.log.Debugf("api ready at %s", h.URL)
				return nil
			}
		}
	}
}

// Stop stops the API and releases the store. It is safe to call on a
// partially started harness.
func (h *Harness) Stop() error {
	var errs *multierror.Error

	if h.server != nil {
		errs = multierror.Append(errs, h.server.Stop())
		if err := <-h.served; err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = multierror.Append(errs, err)
		}
		h.server = nil
	}

	if h.DB != nil {
		errs = multierror.Append(errs, h.DB.Close())
		h.DB = nil
	}

	if h.tempDir != "" {
		errs = multierror.Append(errs, os.RemoveAll(h.tempDir))
		h.tempDir = ""
	}

	return errs.ErrorOrNil()
}

func (h *Harness) SeedSize() int {
	return h.seedSize
}

// Seed inserts a fresh batch of generated posts and returns them with their
// identifiers.
func (h *Harness) Seed(ctx context.Context) ([]core.Post, error) {
	h.log.Info("seeding blog data")

	posts := h.Fixtures.Posts(h.seedSize)
	ids, err := h.DB.InsertMany(ctx, posts)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	for i := range posts {
		posts[i].ID = ids[i]
	}

	return posts, nil
}

// Wipe removes all data from the store.
func (h *Harness) Wipe(ctx context.Context) error {
	h.log.Warn("deleting database")
	return h.DB.Drop(ctx)
}
