package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Open returns a reader for a local path or an http(s) URL.
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("get %s: %s", location, resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(location)
}

// TableLoader produces one count table.
type TableLoader func(ctx context.Context) (*Dataset, error)

// BoundaryLoader produces the boundary collection.
type BoundaryLoader func(ctx context.Context) (*Boundaries, error)

// Loaders are the three startup loads.
type Loaders struct {
	Confirmed  TableLoader
	Deaths     TableLoader
	Boundaries BoundaryLoader
}

// FileTable reads a CSV count table from a path or URL.
func FileTable(location string, opts CSVOptions) TableLoader {
	return func(ctx context.Context) (*Dataset, error) {
		rc, err := Open(ctx, location)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ReadCSV(rc, opts)
	}
}

// FileBoundaries reads GeoJSON or TopoJSON from a path or URL.
func FileBoundaries(location, object string) BoundaryLoader {
	return func(ctx context.Context) (*Boundaries, error) {
		rc, err := Open(ctx, location)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ReadBoundaries(rc, object)
	}
}

// LoadAll runs the three loads concurrently. The first failure cancels the others
// and fails the whole load; there is no partial bundle.
func LoadAll(ctx context.Context, l Loaders) (*Bundle, error) {
	g, gctx := errgroup.WithContext(ctx)
	var b Bundle
	g.Go(func() error {
		ds, err := runTable(gctx, l.Confirmed)
		if err != nil {
			return fmt.Errorf("load confirmed: %w", err)
		}
		b.Confirmed = ds
		return nil
	})
	g.Go(func() error {
		ds, err := runTable(gctx, l.Deaths)
		if err != nil {
			return fmt.Errorf("load deaths: %w", err)
		}
		b.Deaths = ds
		return nil
	})
	g.Go(func() error {
		if l.Boundaries == nil {
			return fmt.Errorf("load boundaries: no loader configured")
		}
		if err := gctx.Err(); err != nil {
			return fmt.Errorf("load boundaries: %w", err)
		}
		bd, err := l.Boundaries(gctx)
		if err == nil {
			err = gctx.Err()
		}
		if err != nil {
			return fmt.Errorf("load boundaries: %w", err)
		}
		b.Boundaries = bd
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

func runTable(ctx context.Context, load TableLoader) (*Dataset, error) {
	if load == nil {
		return nil, fmt.Errorf("no loader configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := load(ctx)
	if err != nil {
		return nil, err
	}
	// local reads ignore ctx, so a deadline that passed mid-read still fails the load
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}
