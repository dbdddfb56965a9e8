package screener

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/logger"
)

// Runner executes one screening pass (satisfied by *Pipeline)
type Runner interface {
	Run(ctx context.Context, progress ProgressFunc) (*contracts.Result, error)
}

const (
	sharedRunKey = "run"

	// SharedRunTimeout bounds a pass that outlives every caller
	SharedRunTimeout = 15 * time.Minute
)

// Shared collapses overlapping runs into one.
// Callers that arrive while a run is in flight join it: they receive its
// remaining progress events and its result. The tracker only ever sees the
// events of that single run, so its progress never goes backwards.
// ⭐ SSOT: API 요청의 실행 중복 제거는 이 구조체에서만
type Shared struct {
	runner  Runner
	tracker *Tracker
	logger  *logger.Logger

	group singleflight.Group

	mu     sync.Mutex
	subs   map[int]ProgressFunc
	nextID int
}

// NewShared wraps runner. tracker may be nil.
func NewShared(runner Runner, tracker *Tracker, log *logger.Logger) *Shared {
	return &Shared{
		runner:  runner,
		tracker: tracker,
		logger:  log.WithComponent("shared_run"),
		subs:    make(map[int]ProgressFunc),
	}
}

// Run starts a pass or joins the one in flight.
// The pass itself is not tied to ctx: a caller that goes away stops waiting,
// the others keep their run.
func (s *Shared) Run(ctx context.Context, progress ProgressFunc) (*contracts.Result, error) {
	id := s.subscribe(progress)
	defer s.unsubscribe(id)

	ch := s.group.DoChan(sharedRunKey, func() (val interface{}, err error) {
		// DoChan would re-panic on its own goroutine; hand it back to the caller instead
		defer func() {
			if r := recover(); r != nil {
				err = &runPanic{value: r}
			}
		}()

		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedRunTimeout)
		defer cancel()
		return s.runner.Run(runCtx, s.broadcast)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Joined in-flight screening run")
		}
		if res.Err != nil {
			var rp *runPanic
			if errors.As(res.Err, &rp) {
				panic(rp.value)
			}
			return nil, res.Err
		}
		return res.Val.(*contracts.Result), nil
	}
}

type runPanic struct {
	value interface{}
}

func (p *runPanic) Error() string {
	return fmt.Sprintf("screening run panicked: %v", p.value)
}

func (s *Shared) subscribe(fn ProgressFunc) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if fn != nil {
		s.subs[id] = fn
	}
	return id
}

func (s *Shared) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs, id)
}

// broadcast is the ProgressFunc of the underlying run.
// 구독자 호출은 mutex 안에서: unsubscribe 이후에는 호출되지 않음
func (s *Shared) broadcast(p contracts.Progress) {
	if s.tracker != nil {
		s.tracker.Update(p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fn := range s.subs {
		fn(p)
	}
}
