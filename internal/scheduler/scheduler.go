package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/collector"
	"QuantResearch/internal/dashboard"
	"QuantResearch/internal/notifier"
	"QuantResearch/internal/recorder"
	"QuantResearch/internal/viewstore"

	"github.com/robfig/cron/v3"
)

// Notifier delivers formatted reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler owns the current view state and runs analysis sessions on a cron
// schedule and on user commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context
	Now       func() time.Time

	// StateFile, when set, receives the view after every change.
	StateFile string

	mu    sync.Mutex
	state dashboard.ViewState

	// rollDays keeps a preset range anchored to today; 0 means fixed dates.
	rollDays int
}

// NewScheduler creates a new Scheduler starting from the given view.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, initial dashboard.ViewState, rollDays int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
		Now:       time.Now,
		state:     initial,
		rollDays:  rollDays,
	}
}

// RegisterAll registers the periodic refresh session.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// State returns the current view state.
func (s *Scheduler) State() dashboard.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update swaps in the state produced by fn. The previous value is never modified.
func (s *Scheduler) update(fn func(dashboard.ViewState) (dashboard.ViewState, error)) (dashboard.ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if err != nil {
		return s.state, err
	}
	s.state = next
	s.persist()
	return next, nil
}

// persist must be called with s.mu held.
func (s *Scheduler) persist() {
	if s.StateFile == "" {
		return
	}
	if err := viewstore.Save(s.StateFile, viewstore.FromView(s.state, s.rollDays)); err != nil {
		log.Printf("[WARN] save view state: %v", err)
	}
}

// RunNow executes one session immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running refresh task")
	state, _ := s.update(func(v dashboard.ViewState) (dashboard.ViewState, error) {
		if s.rollDays > 0 {
			return v.WithDays(s.rollDays, s.Now()), nil
		}
		return v, nil
	})
	if _, err := s.RunSession(s.Ctx, state, "cron"); err != nil {
		s.trySend(notifier.FormatError(err))
	}
}

// RunSession performs one analysis session for state: collect, render,
// notify and record. The failing stage is recorded when any step fails.
func (s *Scheduler) RunSession(ctx context.Context, state dashboard.ViewState, trigger string) (dashboard.Summary, error) {
	began := s.Now()
	fail := func(stage string, err error) (dashboard.Summary, error) {
		log.Printf("[ERROR] %s session for %s: %v", stage, state.Symbol, err)
		if rerr := s.Recorder.RecordFailure(&recorder.FailureRecord{
			RecordedAt: began,
			Symbol:     state.Symbol,
			Start:      state.Start,
			End:        state.End,
			Stage:      stage,
			Error:      err.Error(),
			Trigger:    trigger,
		}); rerr != nil {
			log.Printf("[ERROR] record failure: %v", rerr)
		}
		return dashboard.Summary{}, err
	}

	req, err := state.Request()
	if err != nil {
		return fail("collect", err)
	}
	analysis, err := s.Collector.Collect(ctx, req)
	if err != nil {
		return fail("collect", err)
	}
	if _, err := dashboard.Render(state, analysis); err != nil {
		return fail("render", err)
	}
	summary, err := dashboard.Summarize(state, analysis)
	if err != nil {
		return fail("render", err)
	}
	if err := s.Notifier.SendWithRetry(ctx, notifier.FormatAnalysisReport(summary), 3); err != nil {
		return fail("notify", err)
	}

	values := make(map[string]float64, len(summary.Readings))
	for _, r := range summary.Readings {
		values[r.Name] = r.Value
	}
	if err := s.Recorder.RecordSession(&recorder.SessionRecord{
		RecordedAt: began,
		Symbol:     summary.Symbol,
		Start:      state.Start,
		End:        state.End,
		Weekly:     state.Weekly,
		Indicators: req.Indicators,
		Rows:       summary.Rows,
		LastClose:  summary.LastClose,
		ChangePct:  summary.ChangePct,
		Values:     values,
		Trigger:    trigger,
		Duration:   s.Now().Sub(began),
	}); err != nil {
		log.Printf("[ERROR] record session: %v", err)
	}
	log.Printf("[INFO] session for %s done: %d bars, %d indicators", summary.Symbol, summary.Rows, len(req.Indicators))
	return summary, nil
}

// HandleCommand processes a user command and returns a reply.
// Commands that change the view run a session with the new state.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	// Group chats address bots as /cmd@BotName.
	name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	var (
		state dashboard.ViewState
		err   error
	)
	switch name {
	case "/report":
		state = s.State()
	case "/state":
		return notifier.FormatState(s.State())
	case "/history":
		return s.history()
	case "/symbol":
		state, err = s.update(func(v dashboard.ViewState) (dashboard.ViewState, error) { return v.WithSymbol(arg) })
	case "/range":
		state, err = s.update(func(v dashboard.ViewState) (dashboard.ViewState, error) {
			next, err := v.WithRange(arg, s.Now())
			if err == nil {
				s.rollDays, _ = dashboard.PresetDays(arg)
			}
			return next, err
		})
	case "/toggle":
		state, err = s.update(func(v dashboard.ViewState) (dashboard.ViewState, error) { return v.Toggle(arg) })
	default:
		return notifier.HelpText
	}
	if err != nil {
		return notifier.FormatError(err)
	}

	if _, err := s.RunSession(ctx, state, "command"); err != nil {
		return notifier.FormatFailure(userMessage(state, err))
	}
	return ""
}

func (s *Scheduler) history() string {
	sessions, err := s.Recorder.RecentSessions(5)
	if err != nil {
		return notifier.FormatError(err)
	}
	if len(sessions) == 0 {
		return "暂无历史记录"
	}
	var b strings.Builder
	b.WriteString("🕑 <b>最近分析</b>\n\n")
	for _, rec := range sessions {
		b.WriteString(fmt.Sprintf("%s %s %.2f (%+.2f%%) [%s]\n", rec.RecordedAt.Format("01-02 15:04"),
			rec.Symbol, rec.LastClose, rec.ChangePct, rec.Trigger))
	}
	return b.String()
}

// userMessage maps session errors to the messages a user should see.
func userMessage(state dashboard.ViewState, err error) string {
	switch {
	case errors.Is(err, collector.ErrNoData):
		return "No data found for " + state.Symbol
	case errors.Is(err, calculator.ErrInvalidInput):
		return "Invalid input: " + err.Error()
	}
	return err.Error()
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
