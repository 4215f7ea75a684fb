package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper deletes pending assistant actions whose TTL has passed.
type Sweeper interface {
	SweepExpiredPendingActions(ctx context.Context) (int64, error)
}

type PendingSweeper struct {
	log          *logrus.Logger
	sweeper      Sweeper
	interval     time.Duration
	initialDelay time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	stopOnce     sync.Once
}

func NewPendingSweeper(log *logrus.Logger, sweeper Sweeper, interval, initialDelay time.Duration) *PendingSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if initialDelay < 0 {
		initialDelay = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &PendingSweeper{
		log:          log,
		sweeper:      sweeper,
		interval:     interval,
		initialDelay: initialDelay,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
}

func (s *PendingSweeper) Start() {
	s.log.WithFields(logrus.Fields{
		"interval":      s.interval.String(),
		"initial_delay": s.initialDelay.String(),
	}).Info("Pending action sweeper started")
	go s.run()
}

// Stop cancels the loop and waits for an in-flight sweep to return. Safe to call more than once.
func (s *PendingSweeper) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.done
		s.log.Info("Pending action sweeper stopped")
	})
}

func (s *PendingSweeper) run() {
	defer close(s.done)

	delay := time.NewTimer(s.initialDelay)
	defer delay.Stop()

	select {
	case <-s.ctx.Done():
		return
	case <-delay.C:
		s.sweep()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *PendingSweeper) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("error", fmt.Sprintf("panic: %v", r)).Error("Panic in pending action sweep")
		}
	}()

	n, err := s.sweeper.SweepExpiredPendingActions(ctx)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Pending action sweep failed")
		return
	}
	if n > 0 {
		s.log.WithField("deleted", n).Info("Expired pending actions deleted")
	}
}
