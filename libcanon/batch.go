package libcanon

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CanonizeAll canonizes every graph using up to the given number of workers, each with its own Canonizer.
// workers <= 0 uses one worker per CPU.
//
// The first failure cancels the graphs not yet started and is returned; graphs already canonized stay canonized.
func CanonizeAll(ctx context.Context, graphs []*Graph, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	canonizers := make(chan *Canonizer, workers)
	for i := 0; i < workers; i++ {
		canonizers <- NewCanonizer()
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)

	for i, X := range graphs {
		if grpCtx.Err() != nil {
			break
		}
		i, X := i, X
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			cz := <-canonizers
			defer func() { canonizers <- cz }()

			if err := X.CanonizeWith(cz); err != nil {
				return errors.Wrapf(err, "graph #%d", i)
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
