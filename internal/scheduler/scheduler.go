package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"FibScope/internal/chart"
	"FibScope/internal/collector"
	"FibScope/internal/model"
	"FibScope/internal/notifier"
	"FibScope/internal/recorder"
	"FibScope/internal/render"
	"FibScope/internal/viewstate"
)

// ErrNotBuilt is returned when no build has succeeded yet.
var ErrNotBuilt = errors.New("chart not built yet")

// Sender delivers chat messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options controls the outputs of each rebuild.
type Options struct {
	HTMLPath string
	PNGPath  string
	HTML     render.HTMLOptions
	Width    int
	Height   int
	// NotifyEveryBuild sends a summary after every rebuild instead of only
	// when a timeframe is degraded.
	NotifyEveryBuild bool
}

// Scheduler owns the current chart build and the cron task refreshing it.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Composer  *chart.Composer
	Notifier  Sender
	Recorder  recorder.Recorder
	// State, when set, remembers the active timeframe across restarts.
	State   *viewstate.Store
	Options Options
	Ctx     context.Context

	snapshot func(ctx context.Context, htmlPath, pngPath string, width, height int) error

	rebuildMu sync.Mutex
	mu        sync.RWMutex
	current   *chart.Build
}

// NewScheduler creates a new Scheduler. tn may be nil to disable notifications.
func NewScheduler(ctx context.Context, col *collector.Collector, comp *chart.Composer, tn Sender, rec recorder.Recorder, opts Options) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Composer:  comp,
		Notifier:  tn,
		Recorder:  rec,
		Options:   opts,
		Ctx:       ctx,
		snapshot:  render.Snapshot,
	}
}

// Register schedules periodic rebuilds.
func (s *Scheduler) Register(rebuildCron string) error {
	if _, err := s.Cron.AddFunc(rebuildCron, s.rebuildTask); err != nil {
		return fmt.Errorf("register rebuild task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler, waits for a running rebuild and saves the
// active timeframe.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	if b := s.Current(); b != nil {
		s.remember(b)
	}
	log.Println("[INFO] scheduler stopped")
}

// Current returns the latest successful build, or nil before the first one.
func (s *Scheduler) Current() *chart.Build {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Scheduler) rebuildTask() {
	if _, err := s.Rebuild(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled rebuild: %v", err)
	}
}

// Rebuild collects every timeframe, composes a new chart, writes the outputs,
// records the build and swaps it in as current. The previous build stays
// current when collection or composition fails.
func (s *Scheduler) Rebuild(ctx context.Context) (*chart.Build, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	log.Println("[INFO] rebuilding chart")
	res, err := s.Collector.Collect(ctx)
	if err != nil {
		s.trySend(ctx, fmt.Sprintf("❌ %s data collection failed: %s", s.Collector.Symbol, html.EscapeString(err.Error())))
		return nil, fmt.Errorf("collect: %w", err)
	}

	comp := *s.Composer
	if tf, ok := s.lastActive(); ok {
		comp.Default = tf
	}
	b, err := comp.Compose(res.Series)
	if err != nil {
		s.trySend(ctx, fmt.Sprintf("❌ %s chart build failed: %s", s.Collector.Symbol, html.EscapeString(err.Error())))
		return nil, fmt.Errorf("compose: %w", err)
	}
	for _, tf := range model.Timeframes {
		if ferr, ok := res.Errors[tf]; ok {
			b.Report.NoteFetchError(tf, ferr)
		}
	}

	if err := s.writeOutputs(ctx, b); err != nil {
		log.Printf("[ERROR] write outputs: %v", err)
	}
	if err := s.Recorder.RecordBuild(recorder.FromBuild(b, s.Collector.Fetcher.Name())); err != nil {
		log.Printf("[ERROR] record build: %v", err)
	}

	s.mu.Lock()
	s.current = b
	s.mu.Unlock()
	s.remember(b)

	degraded := b.Report.Degraded()
	log.Printf("[INFO] build %s ready: active=%s degraded=%d", b.ID, b.View.Active(), len(degraded))
	switch {
	case s.Options.NotifyEveryBuild:
		s.trySend(ctx, notifier.FormatBuildSummary(b))
	case len(degraded) > 0:
		s.trySend(ctx, notifier.FormatDegraded(b.Report))
	}
	return b, nil
}

func (s *Scheduler) writeOutputs(ctx context.Context, b *chart.Build) error {
	if s.Options.HTMLPath == "" {
		return nil
	}
	if err := render.SaveHTML(s.Options.HTMLPath, b.Figure, s.Options.HTML); err != nil {
		return err
	}
	log.Printf("[INFO] chart written to %s", s.Options.HTMLPath)
	if s.Options.PNGPath == "" || s.snapshot == nil {
		return nil
	}
	if err := s.snapshot(ctx, s.Options.HTMLPath, s.Options.PNGPath, s.Options.Width, s.Options.Height); err != nil {
		return err
	}
	log.Printf("[INFO] snapshot written to %s", s.Options.PNGPath)
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/tf":
		return s.selectTimeframe(strings.Join(fields[1:], " "))
	case "/rebuild":
		b, err := s.Rebuild(ctx)
		if err != nil {
			return fmt.Sprintf("❌ rebuild failed: %s", html.EscapeString(err.Error()))
		}
		return notifier.FormatBuildSummary(b)
	case "/status":
		recent, err := s.Recorder.RecentBuilds(5)
		if err != nil {
			log.Printf("[WARN] read build history: %v", err)
		}
		return notifier.FormatStatus(s.Current(), recent)
	default:
		return "Commands:\n• /tf &lt;timeframe&gt; (1m, 5m, 15m, 1h, 1d)\n• /rebuild\n• /status"
	}
}

func (s *Scheduler) selectTimeframe(label string) string {
	b := s.Current()
	if b == nil {
		return "No chart built yet"
	}
	if label == "" {
		return "Usage: /tf &lt;timeframe&gt;"
	}
	t, err := s.selectOn(b, label)
	switch {
	case errors.Is(err, model.ErrUnknownTimeframe):
		return fmt.Sprintf("Unknown timeframe %q", html.EscapeString(label))
	case errors.Is(err, model.ErrTimeframeUnavailable):
		return fmt.Sprintf("%s has no data in this build", html.EscapeString(label))
	case err != nil:
		return "❌ " + html.EscapeString(err.Error())
	}
	tr, _ := b.Report.Lookup(t.Active)
	return notifier.FormatTimeframe(tr)
}

// Select moves the current build's view to label and remembers the new
// selection.
func (s *Scheduler) Select(label string) (chart.Transition, error) {
	b := s.Current()
	if b == nil {
		return chart.Transition{}, ErrNotBuilt
	}
	return s.selectOn(b, label)
}

func (s *Scheduler) selectOn(b *chart.Build, label string) (chart.Transition, error) {
	t, err := b.View.Select(label)
	if err != nil {
		return t, err
	}
	if t.Changed {
		s.remember(b)
	}
	return t, nil
}

// lastActive is the timeframe a new build should open on: the selection of
// the current build, else the remembered one.
func (s *Scheduler) lastActive() (model.Timeframe, bool) {
	if b := s.Current(); b != nil {
		return b.View.Active(), true
	}
	if s.State != nil {
		return s.State.Active()
	}
	return "", false
}

func (s *Scheduler) remember(b *chart.Build) {
	if s.State != nil {
		s.State.Remember(b.View.Active(), b.ID)
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
