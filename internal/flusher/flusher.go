package flusher

import (
	"context"
	"sync"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/flusher/config"
	"github.com/rs/zerolog"
)

const flushTimeout = 30 * time.Second

// Flusher periodically deletes expired outstanding and blacklisted tokens
type Flusher struct {
	conf config.FlushConf
	zlog zerolog.Logger
	repo Repository
	now  func() time.Time

	wg   sync.WaitGroup
	stop context.CancelFunc
}

type Repository interface {
	FlushExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

func NewFlusher(conf config.FlushConf, zlog zerolog.Logger, repo Repository) *Flusher {
	return &Flusher{
		conf: conf,
		zlog: zlog,
		repo: repo,
		now:  time.Now,
	}
}

// Start runs the flush loop until ctx is cancelled or Stop is called
func (f *Flusher) Start(ctx context.Context) {
	ctx, f.stop = context.WithCancel(ctx)
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run(ctx)
	}()
}

// Stop cancels the loop and waits for it to exit
func (f *Flusher) Stop() {
	if f.stop != nil {
		f.stop()
	}
	f.wg.Wait()
}

func (f *Flusher) run(ctx context.Context) {
	ticker := time.NewTicker(f.conf.Interval)
	defer ticker.Stop()

	f.zlog.Debug().Msgf("token flusher started, interval %v", f.conf.Interval)
	for {
		select {
		case <-ctx.Done():
			f.zlog.Debug().Msg("token flusher stopped")
			return
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush removes expired tokens once and returns how many were removed
func (f *Flusher) Flush(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	n, err := f.repo.FlushExpiredTokens(ctx, f.now())
	if err != nil {
		f.zlog.Error().Err(err).Msg("unable to flush expired tokens")
		return 0
	}
	if n > 0 {
		f.zlog.Info().Msgf("flushed %d expired tokens", n)
	}
	return n
}
