package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/rollcall/internal/attendance/store"
	"github.com/aussiebroadwan/rollcall/pkg/slogx"
)

// DefaultHousekeepingInterval is how often expired invites and stale
// location snapshots are swept.
const DefaultHousekeepingInterval = 15 * time.Minute

// DefaultSnapshotTTL is how long a location snapshot stays relevant before
// housekeeping removes it.
const DefaultSnapshotTTL = 24 * time.Hour

// Housekeeping periodically deletes expired invites and stale location
// snapshots. Start it once at boot and Stop it on shutdown.
type Housekeeping struct {
	Store       store.Store
	Interval    time.Duration
	SnapshotTTL time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func (h *Housekeeping) interval() time.Duration {
	if h.Interval > 0 {
		return h.Interval
	}
	return DefaultHousekeepingInterval
}

func (h *Housekeeping) snapshotTTL() time.Duration {
	if h.SnapshotTTL > 0 {
		return h.SnapshotTTL
	}
	return DefaultSnapshotTTL
}

// Start launches the sweep loop in its own goroutine.
func (h *Housekeeping) Start(ctx context.Context) {
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})

	go func() {
		defer close(h.doneCh)

		ticker := time.NewTicker(h.interval())
		defer ticker.Stop()

		for {
			select {
			case <-h.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.sweep(ctx)
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the current sweep to finish.
func (h *Housekeeping) Stop() {
	if h.stopCh == nil {
		return
	}
	close(h.stopCh)
	<-h.doneCh
}

func (h *Housekeeping) sweep(ctx context.Context) {
	log := slogx.FromContext(ctx)

	invites, err := h.Store.Invites().DeleteExpiredInvites(ctx)
	if err != nil {
		log.Error("failed to sweep expired invites", slog.Any("error", err))
	} else if invites > 0 {
		log.Info("swept expired invites", slog.Int64("count", invites))
	}

	cutoff := time.Now().Add(-h.snapshotTTL())
	snaps, err := h.Store.Locations().DeleteStaleSnapshots(ctx, cutoff)
	if err != nil {
		log.Error("failed to sweep stale location snapshots", slog.Any("error", err))
	} else if snaps > 0 {
		log.Info("swept stale location snapshots", slog.Int64("count", snaps))
	}
}
