package sync

import (
	"context"
	"fmt"

	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/timeline"
)

// Sync reconciles one day (or keeps reconciling until interrupted when
// Watch is set). Pull lets the vault win; Push lets local state win.
type Sync struct {
	Date  string
	Push  bool
	Watch bool

	Reconciler *reconciler.Reconciler
}

func (n *Sync) Do(ctx context.Context) error {
	if n.Date == "" {
		n.Date = timeline.Today()
	}

	if n.Watch {
		fmt.Printf("watching vault, pulling every %s\n", n.Reconciler.Interval)
		return n.Reconciler.Run(ctx)
	}

	if n.Push {
		if err := n.Reconciler.Push(ctx, n.Date); err != nil {
			return err
		}
		fmt.Printf("pushed %s\n", n.Date)
		return nil
	}

	if err := n.Reconciler.Pull(ctx, n.Date); err != nil {
		return err
	}
	fmt.Printf("pulled %s\n", n.Date)
	return nil
}
