package replay

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
	"DoubleDown/internal/notifier"
)

// DataView shows a fetched series to the user.
type DataView interface {
	ShowBars(bars []model.Bar)
}

// Session ties fetching, the player and user notifications together the way
// the interactive view drives them.
type Session struct {
	Collector *collector.Collector
	Player    *Player
	Notifier  notifier.Notifier
	View      DataView

	status model.Status
}

// NewSession creates a session. view may be nil.
func NewSession(col *collector.Collector, player *Player, n notifier.Notifier, view DataView) *Session {
	return &Session{Collector: col, Player: player, Notifier: n, View: view, status: model.StatusReady}
}

// Fetch loads a series and reports the outcome as a toast. It returns false
// when nothing usable was loaded.
func (s *Session) Fetch(ctx context.Context, req collector.Request) bool {
	var ve *collector.ValidationError

	s.status = model.StatusFetching
	bars, err := s.Collector.Fetch(ctx, req)
	switch {
	case errors.As(err, &ve):
		s.status = model.StatusReady
		s.Notifier.Notify(ve.Toast())
		return false
	case err != nil:
		s.status = model.StatusFetchFailed
		s.show(nil)
		s.Notifier.Notify(notifier.FetchFailed(err))
		return false
	}

	s.status = model.StatusFetched
	s.show(bars)
	s.Notifier.Notify(notifier.FetchSucceeded(len(bars)))
	return true
}

// Start begins a replay, fetching first when no series is loaded. A second
// Start while running is ignored.
func (s *Session) Start(ctx context.Context, req collector.Request, params model.Params) error {
	if s.Player.Running() {
		log.Debug("start ignored: replay already running")
		return nil
	}
	if len(s.Collector.Bars()) == 0 {
		if !s.Fetch(ctx, req) {
			return nil
		}
	}

	err := s.Player.Start(ctx, s.Collector.Bars(), params)
	var ife *fund.InsufficientFundsError
	switch {
	case errors.As(err, &ife):
		s.Notifier.Notify(notifier.InsufficientFunds(ife.Required, ife.Price, ife.Count))
		return err
	case errors.Is(err, ErrAlreadyRunning):
		return nil
	case err != nil:
		s.Notifier.Notify(notifier.NewToast(notifier.LevelError, err.Error(), ""))
		return err
	}
	s.status = model.StatusRunning
	return nil
}

// Reset stops the replay and drops the loaded series.
func (s *Session) Reset() {
	s.Player.Reset()
	s.Collector.Clear()
	s.show(nil)
	s.status = model.StatusReady
}

// Status reports the session status; the player's status wins while it is active.
func (s *Session) Status() model.Status {
	if ps := s.Player.Status(); ps != model.StatusReady {
		return ps
	}
	return s.status
}

func (s *Session) show(bars []model.Bar) {
	if s.View != nil {
		s.View.ShowBars(bars)
	}
}
