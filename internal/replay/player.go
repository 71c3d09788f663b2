package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/chart"
	"DoubleDown/internal/model"
	"DoubleDown/internal/simulator"
)

// FlushEvery is the step-index period at which the chart is redrawn.
const FlushEvery = 5

var (
	// ErrAlreadyRunning is returned by Start while a replay is in progress.
	ErrAlreadyRunning = errors.New("replay already running")
	// ErrStopped is returned by Wait when the replay was stopped before finishing.
	ErrStopped = errors.New("replay stopped")
)

// Player drives a Simulator from a single interval timer and pushes each step
// to a Renderer.
type Player struct {
	mu       sync.Mutex
	sim      *simulator.Simulator
	renderer chart.Renderer
	ticker   *time.Ticker
	stop     chan struct{}
	done     chan struct{}
	running  bool
	status   model.Status
	result   *model.Result
	onFinish func(*model.Result)
}

// NewPlayer creates an idle Player rendering to r.
func NewPlayer(r chart.Renderer) *Player {
	return &Player{
		sim:      simulator.New(),
		renderer: r,
		status:   model.StatusReady,
	}
}

// OnFinish registers a callback invoked with the result when a replay completes.
func (p *Player) OnFinish(fn func(*model.Result)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinish = fn
}

// Start makes the opening purchase and starts the timer. A simulator error
// leaves the player idle with no timer.
func (p *Player) Start(ctx context.Context, bars []model.Bar, params model.Params) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	first, err := p.sim.Start(bars, params)
	if err != nil {
		return err
	}
	p.renderer.Begin(first)

	interval := params.Interval
	if interval <= 0 {
		interval = model.DefaultInterval
	}
	p.ticker = time.NewTicker(interval)
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true
	p.result = nil
	p.status = model.StatusRunning

	log.Infof("replay started: %d bars every %s", len(bars), interval)
	go p.loop(ctx, p.ticker, p.stop, p.done)
	return nil
}

func (p *Player) loop(ctx context.Context, ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			p.cancel(stop)
			return
		case <-stop:
			return
		case <-ticker.C:
			if finished := p.tick(stop); finished {
				return
			}
		}
	}
}

// tick runs one step of the run owning stop. It reports true once the loop
// should exit, including when a later run has replaced it.
func (p *Player) tick(stop chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || p.stop != stop {
		return true
	}
	step, done, err := p.sim.Step()
	if err != nil {
		log.Errorf("replay step: %v", err)
		p.halt(model.StatusReady)
		return true
	}
	if done {
		p.finish()
		return true
	}
	p.renderer.Append(step)
	if step.Index%FlushEvery == 0 {
		p.renderer.Flush()
	}
	return false
}

func (p *Player) finish() {
	p.halt(model.StatusDone)
	p.renderer.Flush()
	res, err := p.sim.Finish()
	if err != nil {
		log.Errorf("replay finish: %v", err)
		return
	}
	p.result = res
	p.renderer.Finish(res)
	log.Infof("replay finished: total asset %.2f, profit/loss %+.2f", res.FinalTotalAsset, res.ProfitLoss)
	if p.onFinish != nil {
		p.onFinish(res)
	}
}

// halt clears the timer. Callers hold p.mu.
func (p *Player) halt(status model.Status) {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if p.running {
		close(p.stop)
	}
	p.running = false
	p.status = status
}

// cancel stops the run owning stop, leaving any later run alone.
func (p *Player) cancel(stop chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running && p.stop == stop {
		p.halt(model.StatusReady)
		log.Info("replay cancelled")
	}
}

// Stop clears the timer without finishing the run.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.halt(model.StatusReady)
	log.Info("replay stopped")
}

// Reset stops the replay and clears the simulation and the chart.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.halt(model.StatusReady)
	}
	p.sim.Reset()
	p.renderer.Clear()
	p.result = nil
	p.status = model.StatusReady
}

// Wait blocks until the current replay ends. It returns the result, or
// ErrStopped when the replay was stopped early.
func (p *Player) Wait(ctx context.Context) (*model.Result, error) {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return nil, ErrStopped
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.result == nil {
		return nil, ErrStopped
	}
	return p.result, nil
}

// Running reports whether the timer is active.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Status returns the current lifecycle status.
func (p *Player) Status() model.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// State returns a copy of the simulation state.
func (p *Player) State() model.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sim.State()
}

// Steps returns the steps replayed so far.
func (p *Player) Steps() []model.Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sim.Steps()
}

// Points returns the equity curve so far.
func (p *Player) Points() []model.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sim.Points()
}
