// Command looping runs a configurable number of goroutines reading and
// writing two shared cells — one backed by [lock.RW], one by [lock.W] — for
// a fixed duration, as a manual stress test for contention and starvation
// rather than correctness. It also demonstrates [lock.Dumb] protecting a
// shared writer, where serializing whole writes matters (so bytes from two
// goroutines never interleave) but the read/write distinction [lock.RW]
// offers doesn't — every writer here only ever wants exclusive access.
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ta0kira/locking-container/internal/harness"
	"github.com/ta0kira/locking-container/pkg/auth"
	"github.com/ta0kira/locking-container/pkg/cell"
	"github.com/ta0kira/locking-container/pkg/lock"
)

func main() {
	harness.InitLogging(false)

	var threads int
	var seconds int
	root := &cobra.Command{
		Use:   "looping",
		Short: "Stress-test contention on shared rw- and w-locked cells",
		RunE: func(cmd *cobra.Command, args []string) error {
			run(threads, time.Duration(seconds)*time.Second)
			return nil
		},
	}
	root.Flags().IntVar(&threads, "threads", 10, "number of reader/writer goroutines")
	root.Flags().IntVar(&seconds, "seconds", 5, "how long to run before signaling shutdown")
	root.SetArgs(os.Args[1:])

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("looping run failed")
		os.Exit(1)
	}
}

// stdout is a dumb-lock-protected writer: each send call gets exclusive
// access for the duration of one write, with no read/write distinction to
// bother modeling for something nobody ever reads back through this cell.
var stdout = cell.New(os.Stdout, lock.Primitive(&lock.Dumb{}))

func send(format string, args ...any) {
	w, ok := stdout.GetWrite(true)
	if !ok {
		return
	}
	defer w.Clear()
	fmt.Fprintf(*w.Value(), format, args...)
}

func run(threads int, duration time.Duration) {
	counter := cell.New(threads, lock.Primitive(&lock.RW{}))
	flag := cell.New(0, lock.Primitive(&lock.W{}))

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go worker(i, counter, flag, &wg)
	}

	time.Sleep(duration)

	w, ok := flag.GetWriteAuth(auth.NewWriteOnly(), true)
	if ok {
		*w.Value() = -1
		w.Clear()
	}

	wg.Wait()
	send("looping: all workers exited\n")
}

func worker(id int, counter *cell.Cell[int], flag *cell.Cell[int], wg *sync.WaitGroup) {
	defer wg.Done()
	readTracker := auth.NewRW()

	reads, writes := 0, 0
	for {
		fr, ok := flag.GetReadAuth(auth.NewWriteOnly(), true)
		if !ok {
			continue
		}
		stop := *fr.Value() < 0
		fr.Clear()
		if stop {
			break
		}

		if id%4 == 0 {
			w, ok := counter.GetWriteAuth(readTracker, true)
			if ok {
				*w.Value()++
				writes++
				w.Clear()
			}
		} else {
			r, ok := counter.GetReadAuth(readTracker, true)
			if ok {
				_ = *r.Value()
				reads++
				r.Clear()
			}
		}
	}
	send("thread:\t%d\treads=%d\twrites=%d\n", id, reads, writes)
}
