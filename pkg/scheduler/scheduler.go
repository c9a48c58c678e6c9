// Package scheduler implements the two scheduling regimes of §4.6: a
// single-timed-behavior fast path that runs synchronously on the
// calling goroutine, and a multi-threaded barrier loop — one
// goroutine per timed behavior, coordinated through a shared mutex
// and two condition variables — for everything else. The worker-pool
// shape (goroutines, a mutex-guarded counter, a verbose progress
// ticker) is modeled on the teacher's pkg/search/worker.go.
package scheduler

import (
	"sync"
	"time"

	"github.com/oisee/hdlsim/internal/simlog"
	"github.com/oisee/hdlsim/pkg/eval"
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/sigengine"
)

// Config holds the scheduler's run parameters — a plain struct
// populated by the CLI layer, matching search.Config's style.
type Config struct {
	// Limit is the simulated-time ceiling in picoseconds; the
	// scheduler stops once global time would reach or pass it.
	Limit uint64
	// Verbose enables progress lines reporting simulated time advance,
	// logged through internal/simlog at glog verbosity 1.
	Verbose bool
}

// terminateSignal unwinds a single-timed-behavior's call stack (or a
// worker goroutine's) immediately when a time-terminate statement
// runs — the idiomatic Go analogue of the original's process-exit,
// needed because an arbitrary number of statement/block frames may
// be on the stack above the TimeTerminate node.
type terminateSignal struct{}

// Scheduler runs one IR's registered behaviors to completion.
type Scheduler struct {
	Registry  *ir.Registry
	Engine    *sigengine.Engine
	Evaluator *eval.Evaluator
	Tracer    sigengine.Tracer
	Config    Config

	single bool

	mu            sync.Mutex
	behaviorCond  *sync.Cond
	schedulerCond *sync.Cond

	activeBehaviors int
	numRunning      int
	behaviorsCanRun bool
	globalTime      uint64
	endFlag         bool
}

// New builds a Scheduler wired to tracer (the waveform printer) and
// printer (the print-statement sink) through a fresh sigengine.Engine
// and eval.Evaluator.
func New(reg *ir.Registry, tracer sigengine.Tracer, printer eval.PrintSink, cfg Config) *Scheduler {
	s := &Scheduler{Registry: reg, Config: cfg, Tracer: tracer}
	s.Engine = sigengine.New(tracer, s)
	s.Evaluator = eval.New(s.Engine, s, printer)
	s.behaviorCond = sync.NewCond(&s.mu)
	s.schedulerCond = sync.NewCond(&s.mu)
	return s
}

// Run executes the registered IR: zero timed behaviors settles once;
// exactly one runs the fast path; more than one runs the barrier loop.
func (s *Scheduler) Run() {
	timed := s.Registry.TimedBehaviors()
	switch len(timed) {
	case 0:
		s.Tracer.SetTime(0)
		s.Engine.TouchAll(s.Registry)
		s.Engine.UpdateSignals()
	case 1:
		s.single = true
		s.runSingle(timed[0])
	default:
		s.single = false
		s.runMulti(timed)
	}
}

// --- single-timed-behavior fast path ---

func (s *Scheduler) runSingle(beh *ir.Behavior) {
	s.Tracer.SetTime(0)
	s.Engine.TouchAll(s.Registry)
	s.Engine.UpdateSignals()
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(terminateSignal); !ok {
					panic(r)
				}
			}
		}()
		s.Evaluator.ExecuteStatement(beh.Block, beh.Block.Mode, beh)
	}()
}

func (s *Scheduler) waitSingle(delay uint64, beh *ir.Behavior) {
	beh.ActiveTime += delay
	s.Engine.UpdateSignals()
	s.globalTime = beh.ActiveTime
	s.Tracer.SetTime(s.globalTime)
	sigengine.MarkAllFading(s.Registry)
	if s.Config.Verbose {
		simlog.Schedulerf("time=%dps", s.globalTime)
	}
	if s.globalTime >= s.Config.Limit {
		s.endFlag = true
		panic(terminateSignal{})
	}
}

// --- multi-threaded barrier loop ---

func (s *Scheduler) runMulti(timed []*ir.Behavior) {
	s.numRunning = len(timed)
	s.activeBehaviors = len(timed)
	s.behaviorsCanRun = true

	s.Tracer.SetTime(0)
	s.Engine.TouchAll(s.Registry)
	s.Engine.UpdateSignals()

	var ticker *time.Ticker
	if s.Config.Verbose {
		ticker = time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		go func() {
			for range ticker.C {
				s.mu.Lock()
				t := s.globalTime
				running := s.numRunning
				s.mu.Unlock()
				simlog.Schedulerf("time=%dps running=%d", t, running)
			}
		}()
	}

	for _, beh := range timed {
		beh := beh
		go s.runWorker(beh)
	}

	for s.globalTime < s.Config.Limit {
		s.mu.Lock()
		for s.activeBehaviors > 0 {
			s.schedulerCond.Wait()
		}
		s.behaviorsCanRun = false
		s.mu.Unlock()

		s.Engine.UpdateSignals()

		s.mu.Lock()
		if s.numRunning == 0 {
			s.mu.Unlock()
			break
		}
		next, ok := s.nextWake(timed)
		if !ok {
			s.mu.Unlock()
			break
		}
		s.globalTime = next
		s.mu.Unlock()
		s.Tracer.SetTime(next)

		sigengine.MarkAllFading(s.Registry)

		s.mu.Lock()
		for _, beh := range timed {
			if beh.Timed == ir.TimedRunning && beh.ActiveTime == s.globalTime {
				s.activeBehaviors++
			}
		}
		s.behaviorsCanRun = true
		s.behaviorCond.Broadcast()
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.endFlag = true
	s.mu.Unlock()
	s.behaviorCond.Broadcast()
	for _, beh := range timed {
		if beh.Done != nil {
			<-beh.Done
		}
	}
}

// nextWake returns the minimum ActiveTime among behaviors still
// TimedRunning; ok is false when none remain.
func (s *Scheduler) nextWake(timed []*ir.Behavior) (uint64, bool) {
	var min uint64
	found := false
	for _, beh := range timed {
		if beh.Timed != ir.TimedRunning {
			continue
		}
		if !found || beh.ActiveTime < min {
			min = beh.ActiveTime
			found = true
		}
	}
	return min, found
}

func (s *Scheduler) runWorker(beh *ir.Behavior) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(terminateSignal); !ok {
				panic(r)
			}
		}
		s.mu.Lock()
		if beh.Timed == ir.TimedRunning {
			beh.Timed = ir.TimedFinished
			s.activeBehaviors--
			s.numRunning--
		}
		s.mu.Unlock()
		s.schedulerCond.Signal()
		close(beh.Done)
		simlog.Schedulerf("behavior %s finished", beh.Name())
	}()
	w := eval.New(s.Engine, s, s.Evaluator.Printf)
	w.ExecuteStatement(beh.Block, beh.Block.Mode, beh)
}

func (s *Scheduler) waitMulti(delay uint64, beh *ir.Behavior) {
	s.mu.Lock()
	s.activeBehaviors--
	beh.ActiveTime += delay
	s.mu.Unlock()
	s.schedulerCond.Signal()

	s.mu.Lock()
	for !s.endFlag && !(s.behaviorsCanRun && beh.ActiveTime <= s.globalTime) {
		s.behaviorCond.Wait()
	}
	end := s.endFlag
	s.mu.Unlock()
	if end {
		panic(terminateSignal{})
	}
}

// --- eval.Scheduler ---

// Wait suspends the calling behavior for delay picoseconds, per
// whichever regime is active.
func (s *Scheduler) Wait(delay uint64, beh *ir.Behavior) {
	if s.single {
		s.waitSingle(delay, beh)
		return
	}
	s.waitMulti(delay, beh)
}

// Terminate halts the simulation immediately, unwinding the calling
// goroutine's statement execution and signaling every other worker
// to stop at its next wait.
func (s *Scheduler) Terminate() {
	s.mu.Lock()
	s.endFlag = true
	s.mu.Unlock()
	if !s.single {
		s.behaviorCond.Broadcast()
	}
	panic(terminateSignal{})
}

// Terminated reports whether shutdown has been requested — an
// unbounded time-repeat checks this between iterations so it can stop
// cooperatively even when its body never waits.
func (s *Scheduler) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endFlag
}

// --- sigengine.Runner ---

// RunBehavior executes an untimed behavior synchronously — called
// only from within Engine.UpdateSignals, itself only ever called from
// the scheduler thread.
func (s *Scheduler) RunBehavior(b *ir.Behavior) {
	s.Evaluator.ExecuteStatement(b.Block, b.Block.Mode, b)
}

// RunCode runs an activated external-code node.
func (s *Scheduler) RunCode(c *ir.Code) {
	c.Run()
}
