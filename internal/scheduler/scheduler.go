package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mdzio/go-logging"
	"github.com/robfig/cron/v3"

	"github.com/strefethen/sonos-transport/internal/config"
	"github.com/strefethen/sonos-transport/internal/sonos"
	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

var schLog = logging.Get("scheduler")

// DefaultRunTimeout bounds a single scheduled run.
const DefaultRunTimeout = 30 * time.Second

// cronParser accepts the standard 5 field expressions (minute, hour,
// day-of-month, month, day-of-week).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// job is one scheduled transport action.
type job func(ctx context.Context, transport sonos.Transport) error

// Scheduler runs transport actions on cron schedules.
type Scheduler struct {
	transport  sonos.Transport
	cron       *cron.Cron
	runTimeout time.Duration

	mu      sync.Mutex
	entries []cron.EntryID
}

// New creates a scheduler for transport. Schedules are evaluated in loc.
func New(transport sonos.Transport, runTimeout time.Duration, loc *time.Location) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		transport:  transport,
		cron:       cron.New(cron.WithParser(cronParser), cron.WithLocation(loc)),
		runTimeout: runTimeout,
	}
}

// Add validates entry and registers it. Entries may be added before or after
// Start.
func (s *Scheduler) Add(entry config.ScheduleEntry) error {
	schedule, err := cronParser.Parse(entry.Cron)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", entry.Cron, err)
	}
	run, err := buildJob(entry)
	if err != nil {
		return err
	}

	id := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.execute(entry, run)
	}))

	s.mu.Lock()
	s.entries = append(s.entries, id)
	s.mu.Unlock()

	schLog.Infof("Scheduled %s at '%s'", entry.Action, entry.Cron)
	return nil
}

// Len returns the number of registered entries.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start begins running the registered entries in the background.
func (s *Scheduler) Start() {
	schLog.Infof("Starting scheduler with %d entries", s.Len())
	s.cron.Start()
}

// Stop stops the scheduler and waits for running actions to finish.
func (s *Scheduler) Stop() {
	schLog.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) execute(entry config.ScheduleEntry, run job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	if err := run(ctx, s.transport); err != nil {
		schLog.Errorf("Scheduled %s failed: %v", entry.Action, err)
		return
	}
	schLog.Debugf("Scheduled %s completed in %s", entry.Action, time.Since(start).Round(time.Millisecond))
}

// buildJob maps an entry onto its transport call. Arguments are checked here
// so a broken entry is rejected at startup rather than at its first run.
func buildJob(entry config.ScheduleEntry) (job, error) {
	switch entry.Action {
	case "stop":
		return func(ctx context.Context, t sonos.Transport) error { return t.Stop(ctx) }, nil
	case "pause":
		return func(ctx context.Context, t sonos.Transport) error { return t.Pause(ctx) }, nil
	case "play":
		return func(ctx context.Context, t sonos.Transport) error { return t.Play(ctx, entry.Speed) }, nil
	case "next":
		return func(ctx context.Context, t sonos.Transport) error { return t.NextTrack(ctx) }, nil
	case "previous":
		return func(ctx context.Context, t sonos.Transport) error { return t.PreviousTrack(ctx) }, nil
	case "clear_queue":
		return func(ctx context.Context, t sonos.Transport) error { return t.ClearQueue(ctx) }, nil
	case "seek_track":
		if entry.Track < 1 {
			return nil, fmt.Errorf("action seek_track requires track >= 1")
		}
		return func(ctx context.Context, t sonos.Transport) error { return t.SeekTrack(ctx, entry.Track) }, nil
	case "play_mode":
		mode, err := soap.ParsePlayMode(entry.Mode)
		if err != nil {
			return nil, fmt.Errorf("action play_mode: %w", err)
		}
		return func(ctx context.Context, t sonos.Transport) error { return t.SetPlayMode(ctx, mode) }, nil
	case "media_url":
		if entry.URI == "" {
			return nil, fmt.Errorf("action media_url requires uri")
		}
		return func(ctx context.Context, t sonos.Transport) error {
			if err := t.SetMediaURL(ctx, entry.URI, entry.Metadata); err != nil {
				return err
			}
			return t.Play(ctx, entry.Speed)
		}, nil
	case "radio":
		if entry.StationID == "" {
			return nil, fmt.Errorf("action radio requires station_id")
		}
		return func(ctx context.Context, t sonos.Transport) error {
			if err := t.SetTuneInRadio(ctx, entry.StationID, entry.Title); err != nil {
				return err
			}
			return t.Play(ctx, entry.Speed)
		}, nil
	default:
		return nil, fmt.Errorf("unknown schedule action %q", entry.Action)
	}
}
