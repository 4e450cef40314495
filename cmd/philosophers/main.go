// Command philosophers runs a dining-philosophers simulation over the
// locking-container primitives, selectable by locking strategy, to
// demonstrate (and, with the right flags, deliberately trigger) the
// deadlock each strategy either permits or prevents.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ta0kira/locking-container/internal/harness"
	"github.com/ta0kira/locking-container/pkg/auth"
	"github.com/ta0kira/locking-container/pkg/cell"
	"github.com/ta0kira/locking-container/pkg/handle"
	"github.com/ta0kira/locking-container/pkg/lock"
	"github.com/ta0kira/locking-container/pkg/lockerr"
	"github.com/ta0kira/locking-container/pkg/metalock"
)

type handleWrite = handle.Write[int]
type handleRead = handle.Read[int]

// Exit codes, matching the original test harness this program reimplements.
const (
	exitSuccess         = 0
	exitBadArgs         = 1
	exitThreadSpawn     = 2
	exitDeadlockTimeout = 3
	exitLogicInvariant  = 4
	exitOSError         = 5
)

// Lock method selects the deadlock-prevention strategy applied to chopstick
// acquisition.
type lockMethod int

const (
	methodUnsafe lockMethod = iota
	methodAuth
	methodMultiLock
	methodOrdered
)

// Lock type selects the primitive backing each chopstick.
type lockType int

const (
	lockTypeRW lockType = iota
	lockTypeW
	lockTypeDumb
)

// Auth type selects the tracker policy used when a lock method consults one.
type authType int

const (
	authTypeRW authType = iota
	authTypeW
	authTypeOrderedRW
	authTypeOrderedW
)

type options struct {
	threads        int
	lockMethod     int
	tryDeadlock    int
	lockType       int
	authType       int
	timeoutSeconds int
}

func main() {
	sc := &harness.SubCommand{EnvPrefix: "PHILOSOPHERS"}
	sc.Cmd = &cobra.Command{
		Use:   "run",
		Short: "Run a dining-philosophers simulation over a chosen locking strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), optionsFromConf(sc.Conf))
		},
	}
	flags := sc.Cmd.Flags()
	flags.Int("threads", 5, "number of philosophers, 2-256")
	flags.Int("lock_method", 0, "0 unsafe, 1 auth, 2 multi-lock, 3 ordered")
	flags.Int("try_deadlock", 0, "1 to always acquire chopsticks in a cycle-prone order")
	flags.Int("lock_type", 0, "0 rw, 1 w, 2 dumb")
	flags.Int("auth_type", 0, "0 rw, 1 w, 2 ordered-rw, 3 ordered-w")
	flags.Int("timeout_seconds", 5, "seconds to wait before declaring a deadlock")

	root := &cobra.Command{Use: "philosophers"}
	harness.BindAll(root, sc)
	root.SetArgs(os.Args[1:])

	harness.InitLogging(false)

	if err := root.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			log.Error().Err(err).Int("exit_code", exitErr.code).Msg("run failed")
			os.Exit(exitErr.code)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitBadArgs)
	}
}

// optionsFromConf reads every field through conf rather than off the flag
// set directly, the way dgraph's bulk loader builds its options struct
// (dgraph/cmd/bulk/run.go) entirely from Bulk.Conf.GetString/GetInt calls —
// the level of indirection that actually makes --config and env-var
// overrides take effect, instead of just being bound and then ignored.
func optionsFromConf(conf *viper.Viper) *options {
	return &options{
		threads:        conf.GetInt("threads"),
		lockMethod:     conf.GetInt("lock_method"),
		tryDeadlock:    conf.GetInt("try_deadlock"),
		lockType:       conf.GetInt("lock_type"),
		authType:       conf.GetInt("auth_type"),
		timeoutSeconds: conf.GetInt("timeout_seconds"),
	}
}

type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func fail(code int, err error) *exitCodeError { return &exitCodeError{code: code, err: err} }

func validate(o *options) error {
	if o.threads < 2 || o.threads > 256 {
		return fail(exitBadArgs, errors.New("threads must be in [2, 256]"))
	}
	if o.lockMethod < int(methodUnsafe) || o.lockMethod > int(methodOrdered) {
		return fail(exitBadArgs, errors.New("lock_method must be in [0, 3]"))
	}
	if o.tryDeadlock != 0 && o.tryDeadlock != 1 {
		return fail(exitBadArgs, errors.New("try_deadlock must be 0 or 1"))
	}
	if o.lockType < int(lockTypeRW) || o.lockType > int(lockTypeDumb) {
		return fail(exitBadArgs, errors.New("lock_type must be in [0, 2]"))
	}
	if o.authType < int(authTypeRW) || o.authType > int(authTypeOrderedW) {
		return fail(exitBadArgs, errors.New("auth_type must be in [0, 3]"))
	}
	if o.timeoutSeconds < 1 {
		return fail(exitBadArgs, errors.New("timeout_seconds must be >= 1"))
	}
	if lockMethod(o.lockMethod) == methodUnsafe && o.authType != int(authTypeRW) {
		return fail(exitBadArgs, errors.New("auth_type must be 0 when lock_method is unsafe"))
	}
	if lockType(o.lockType) == lockTypeDumb && lockMethod(o.lockMethod) != methodUnsafe {
		return fail(exitBadArgs, errors.New("lock_type dumb is only valid with lock_method unsafe"))
	}
	if lockMethod(o.lockMethod) == methodOrdered &&
		authType(o.authType) != authTypeOrderedRW && authType(o.authType) != authTypeOrderedW {
		return fail(exitBadArgs, errors.New("auth_type must be an ordered variant when lock_method is ordered"))
	}
	return nil
}

// chopstick is a cell holding the id of the last philosopher that took it
// for writing, or -1 if none has; the value is not reset on release. Its lock
// primitive is fixed at construction time based on lock_type and, for the
// ordered method, wrapped with its seat index plus one as its lock order.
type chopstick = cell.Cell[int]

func newChopstick(lt lockType, method lockMethod, order uint64) *chopstick {
	switch lt {
	case lockTypeW:
		if method == methodOrdered {
			return cell.New(-1, lock.Primitive(lock.NewOrdered(&lock.W{}, order)))
		}
		return cell.New(-1, lock.Primitive(&lock.W{}))
	case lockTypeDumb:
		return cell.New(-1, lock.Primitive(&lock.Dumb{}))
	default:
		if method == methodOrdered {
			return cell.New(-1, lock.Primitive(lock.NewOrdered(&lock.RW{}, order)))
		}
		return cell.New(-1, lock.Primitive(&lock.RW{}))
	}
}

func newTracker(at authType) lock.Authorizer {
	switch at {
	case authTypeW:
		return auth.NewWriteOnly()
	case authTypeOrderedRW:
		return auth.NewOrdered(auth.NewRW())
	case authTypeOrderedW:
		return auth.NewOrdered(auth.NewWriteOnly())
	default:
		return auth.NewRW()
	}
}

type philosopher struct {
	id          int
	left, right *chopstick
	tries       int
}

// eatDinner is one philosopher's attempt to pick up both chopsticks (the
// first for writing, recording its id in it, the second for reading),
// retrying with a short sleep between attempts. It
// mirrors the original's retry loop: acquire one side, pause (this is what
// widens the window in which an unprotected run can deadlock), then try the
// other side, releasing and retrying from scratch on failure.
func (p *philosopher) eatDinner(ctx context.Context, method lockMethod, at authType, ml *metalock.MetaLock) error {
	first, second := p.left, p.right
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if p.tries > 0 {
			time.Sleep(time.Millisecond * time.Duration(1+p.tries%10))
		}
		p.tries++

		var tracker lock.Authorizer
		if method != methodUnsafe {
			tracker = newTracker(at)
		}

		var metaHandle *metalock.Handle
		if method == methodMultiLock {
			h, ok := ml.GetWrite(tracker, true)
			if !ok {
				return lockerr.ErrInvariant
			}
			metaHandle = h
		}

		wh, ok := acquireWrite(first, tracker, method, ml)
		if !ok {
			metaHandle.Clear()
			return errors.Wrap(lockerr.ErrInvariant, "failed to acquire first chopstick")
		}
		*wh.Value() = p.id

		time.Sleep(time.Microsecond * 200)

		rh, ok := acquireRead(second, tracker, method, ml)
		if !ok {
			wh.Clear()
			metaHandle.Clear()
			continue
		}
		metaHandle.Clear()

		_ = *rh.Value()
		rh.Clear()
		wh.Clear()
		return nil
	}
}

func acquireWrite(c *chopstick, tracker lock.Authorizer, method lockMethod, ml *metalock.MetaLock) (handleWrite, bool) {
	if method == methodMultiLock {
		return c.GetWriteMulti(tracker, true, ml)
	}
	if tracker == nil {
		return c.GetWrite(true)
	}
	return c.GetWriteAuth(tracker, true)
}

func acquireRead(c *chopstick, tracker lock.Authorizer, method lockMethod, ml *metalock.MetaLock) (handleRead, bool) {
	if method == methodMultiLock {
		return c.GetReadMulti(tracker, true, ml)
	}
	if tracker == nil {
		return c.GetRead(true)
	}
	return c.GetReadAuth(tracker, true)
}

func run(ctx context.Context, o *options) error {
	if err := validate(o); err != nil {
		return err
	}

	method := lockMethod(o.lockMethod)
	lt := lockType(o.lockType)
	at := authType(o.authType)
	runID := uuid.New()
	log.Info().Str("run_id", runID.String()).Int("threads", o.threads).
		Int("lock_method", o.lockMethod).Int("lock_type", o.lockType).
		Msg("starting dining philosophers")

	chopsticks := make([]*chopstick, o.threads)
	for i := range chopsticks {
		chopsticks[i] = newChopstick(lt, method, uint64(i+1))
	}

	philosophers := make([]*philosopher, o.threads)
	for i := range philosophers {
		left, right := chopsticks[i], chopsticks[(i+1)%o.threads]
		if o.tryDeadlock == 0 && i%2 == 1 {
			left, right = right, left
		}
		philosophers[i] = &philosopher{id: i, left: left, right: right}
	}

	ml := metalock.New()

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(o.timeoutSeconds)*time.Second)
	defer cancel()

	// Fan out one goroutine per philosopher and collect the first error via
	// errgroup; Wait blocks unconditionally, so the deadlock-timeout race
	// against runCtx still needs its own done channel underneath.
	var g errgroup.Group
	for _, p := range philosophers {
		p := p
		g.Go(func() error { return p.eatDinner(runCtx, method, at, ml) })
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			if errors.Is(err, lockerr.ErrInvariant) {
				return fail(exitLogicInvariant, err)
			}
			return fail(exitOSError, err)
		}
	case <-runCtx.Done():
		log.Error().Msg("deadlock timeout")
		return fail(exitDeadlockTimeout, errors.New("deadlock timeout"))
	}

	for i, p := range philosophers {
		r, ok := chopsticks[i].GetReadAuth(chopsticks[i].NewTracker(), true)
		if !ok {
			return fail(exitLogicInvariant, errors.New("could not read final chopstick state"))
		}
		fmt.Printf("final:\t%d\t%d\t%d\n", i, *r.Value(), p.tries)
		r.Clear()
	}
	return nil
}
