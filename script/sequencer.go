package script

import (
	"context"
	"fmt"
	"time"

	"github.com/brettbedarf/vfshell/internal/util"
	"github.com/brettbedarf/vfshell/shell"
	"github.com/hashicorp/go-multierror"
)

// Dispatcher executes a single command line within a session.
type Dispatcher interface {
	Dispatch(sess *shell.Session, line string) error
}

// Sleeper pauses between steps. It returns early with ctx's error once ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to [Sleeper].
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

var (
	// TimerSleeper waits on a real timer.
	TimerSleeper Sleeper = SleeperFunc(timerSleep)

	// NoDelay never waits. It only reports cancellation.
	NoDelay Sleeper = SleeperFunc(func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	})
)

func timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Sequencer replays command lines one at a time, strictly in order.
type Sequencer struct {
	Dispatcher Dispatcher
	StartDelay time.Duration // before the first step
	Delay      time.Duration // between two steps
	Sleeper    Sleeper       // TimerSleeper if nil
}

func New(d Dispatcher, startDelay, delay time.Duration) *Sequencer {
	return &Sequencer{
		Dispatcher: d,
		StartDelay: startDelay,
		Delay:      delay,
		Sleeper:    TimerSleeper,
	}
}

// Run executes the steps of lines in sess on the calling goroutine.
//
// A failing step is reported by the dispatcher and recorded, then the next
// step runs. The returned error aggregates all step failures. If ctx is
// cancelled the pending steps are dropped and ctx's error is returned; if
// the session ends the pending steps are dropped as well.
func (s *Sequencer) Run(ctx context.Context, sess *shell.Session, lines []string) error {
	logger := util.GetLogger("Script.Run").With().Str("session", sess.ID.String()).Logger()

	steps := Filter(lines)
	if len(steps) == 0 {
		sess.Println(emptyScriptMessage)
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sess.Context(), cancel)
	defer stop()

	sleeper := s.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper
	}

	var result *multierror.Error
	q := NewQueue(steps)
	logger.Debug().Int("steps", q.Len()).Msg("Starting replay")

	delay := s.StartDelay
	for q.Len() > 0 {
		if err := sleeper.Sleep(runCtx, delay); err != nil || sess.Terminated() {
			dropped := q.Discard()
			logger.Info().Int("dropped", dropped).Msg("Replay cancelled")
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return result.ErrorOrNil()
		}
		delay = s.Delay

		step, _ := q.Pop()
		sess.Echo(step.Text)
		if err := s.Dispatcher.Dispatch(sess, step.Text); err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", step.Line, err))
		}
	}

	logger.Debug().Int("failed", failedCount(result)).Msg("Replay finished")
	return result.ErrorOrNil()
}

func failedCount(err *multierror.Error) int {
	if err == nil {
		return 0
	}
	return len(err.Errors)
}
