package progress

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// NewBar returns a counting bar rendered to w. Pass io.Discard to track progress only through Pool.
func NewBar(max int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// PeriodicPool logs the state of its bars on every tick and once more on Stop.
type PeriodicPool struct {
	log    zerolog.Logger
	bars   []*progressbar.ProgressBar
	barsMu sync.RWMutex
	stop   chan struct{}
	done   chan struct{}
}

func RunPeriodicPool(log zerolog.Logger, interval time.Duration) *PeriodicPool {
	p := &PeriodicPool{
		log:  log,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.run(interval)
	return p
}

func (p *PeriodicPool) Add(bar ...*progressbar.ProgressBar) {
	p.barsMu.Lock()
	p.bars = append(p.bars, bar...)
	p.barsMu.Unlock()
}

func (p *PeriodicPool) Stop() {
	close(p.stop)
	<-p.done
	p.print()
}

func (p *PeriodicPool) run(interval time.Duration) {
	defer close(p.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.print()
		}
	}
}

func (p *PeriodicPool) print() {
	p.barsMu.RLock()
	defer p.barsMu.RUnlock()
	for _, bar := range p.bars {
		state := bar.State()
		p.log.Info().
			Float64("percent", state.CurrentPercent*100).
			Float64("elapsed_sec", state.SecondsSince).
			Msg("Progress")
	}
}
