package alerts

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fantasyedge/internal/cache"
	"fantasyedge/internal/domain"
)

// Watermark cache keys, one per check so the checks fail independently.
const (
	watermarkPriceKey = "alerts:lastcheck:price"
	watermarkNewsKey  = "alerts:lastcheck:news"
	watermarkScoreKey = "alerts:lastcheck:scores"
)

// PlayerSource supplies players whose snapshot changed after a watermark.
type PlayerSource interface {
	UpdatedSince(since time.Time) ([]domain.PlayerSnapshot, error)
}

// NewsSource supplies news published after a watermark.
type NewsSource interface {
	ListSince(since time.Time) ([]domain.NewsItem, error)
}

// LiveScoreSource supplies live scores updated after a watermark.
type LiveScoreSource interface {
	ListSince(since time.Time) ([]domain.LiveScore, error)
}

// Poller periodically diffs provider data against cached last-check
// watermarks and publishes alerts for anything new. Watermarks live in the
// cache (TTL 1h) so a process restart does not replay the entire history.
type Poller struct {
	hub    *Hub
	cache  *cache.Store
	player PlayerSource
	news   NewsSource
	scores LiveScoreSource

	interval time.Duration
	cron     *cron.Cron
	now      func() time.Time
	log      zerolog.Logger
}

// NewPoller creates an alert poller. interval defaults to one minute.
func NewPoller(hub *Hub, store *cache.Store, players PlayerSource, news NewsSource, scores LiveScoreSource, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		hub:      hub,
		cache:    store,
		player:   players,
		news:     news,
		scores:   scores,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("component", "alert_poller").Logger(),
	}
}

// SetClock overrides the poller clock. Used by tests.
func (p *Poller) SetClock(now func() time.Time) {
	p.now = now
}

// Start schedules the periodic checks.
func (p *Poller) Start() error {
	p.cron = cron.New()
	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), p.RunChecks); err != nil {
		return fmt.Errorf("failed to schedule alert checks: %w", err)
	}
	p.cron.Start()
	p.log.Info().Dur("interval", p.interval).Msg("Alert poller started")
	return nil
}

// Stop halts the schedule. A tick already in flight runs to completion.
func (p *Poller) Stop() {
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
		p.log.Info().Msg("Alert poller stopped")
	}
}

// RunChecks runs the three checks concurrently. Each is guarded by its own
// watermark; a failed check logs and leaves its watermark untouched so the
// same window is retried next tick, while the others proceed independently.
func (p *Poller) RunChecks() {
	var g errgroup.Group
	g.Go(func() error { return p.checkPriceChanges() })
	g.Go(func() error { return p.checkNews() })
	g.Go(func() error { return p.checkLiveScores() })
	if err := g.Wait(); err != nil {
		p.log.Warn().Err(err).Msg("One or more alert checks failed")
	}
}

func (p *Poller) checkPriceChanges() error {
	since := p.watermark(watermarkPriceKey)
	checkedAt := p.now()

	players, err := p.player.UpdatedSince(since)
	if err != nil {
		p.log.Error().Err(err).Msg("Price check failed")
		return err
	}

	for _, player := range players {
		if player.PriceChange == 0 {
			continue
		}
		p.hub.Publish(domain.Alert{
			Type:      domain.AlertPriceChange,
			Severity:  domain.PriceAlertSeverity(player.PriceChange),
			Message:   fmt.Sprintf("%s price moved %+d to %d", player.Name, player.PriceChange, player.Price),
			Timestamp: p.now(),
			PlayerID:  player.ID,
			TeamID:    player.Team,
			Data: map[string]interface{}{
				"price":  player.Price,
				"change": player.PriceChange,
			},
		})
	}

	p.advanceWatermark(watermarkPriceKey, checkedAt)
	return nil
}

func (p *Poller) checkNews() error {
	since := p.watermark(watermarkNewsKey)
	checkedAt := p.now()

	items, err := p.news.ListSince(since)
	if err != nil {
		p.log.Error().Err(err).Msg("News check failed")
		return err
	}

	for _, item := range items {
		p.hub.Publish(domain.Alert{
			Type:      newsAlertType(item.Type),
			Severity:  newsAlertSeverity(item.Type),
			Message:   item.Headline,
			Timestamp: item.Timestamp,
			PlayerID:  item.PlayerID,
			Data: map[string]interface{}{
				"news_id":   item.ID,
				"news_type": string(item.Type),
			},
		})
	}

	p.advanceWatermark(watermarkNewsKey, checkedAt)
	return nil
}

func (p *Poller) checkLiveScores() error {
	since := p.watermark(watermarkScoreKey)
	checkedAt := p.now()

	scores, err := p.scores.ListSince(since)
	if err != nil {
		p.log.Error().Err(err).Msg("Live score check failed")
		return err
	}

	for _, score := range scores {
		severity := domain.SeverityLow
		if score.Points >= 100 {
			severity = domain.SeverityMedium
		}
		p.hub.Publish(domain.Alert{
			Type:      domain.AlertLiveScore,
			Severity:  severity,
			Message:   fmt.Sprintf("Round %d live score update: %d", score.Round, score.Points),
			Timestamp: score.UpdatedAt,
			PlayerID:  score.PlayerID,
			Data: map[string]interface{}{
				"round":  score.Round,
				"points": score.Points,
			},
		})
	}

	p.advanceWatermark(watermarkScoreKey, checkedAt)
	return nil
}

// watermark loads a check's last-check timestamp. A missing entry (first
// run, or cache expiry after an idle hour) starts from one interval back
// rather than replaying all history.
func (p *Poller) watermark(key string) time.Time {
	var ts time.Time
	ok, err := p.cache.Get(key, &ts)
	if err != nil || !ok {
		return p.now().Add(-p.interval)
	}
	return ts
}

// advanceWatermark stores the new last-check timestamp, best effort.
func (p *Poller) advanceWatermark(key string, ts time.Time) {
	if err := p.cache.Set(key, ts, cache.TTLMedium); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("Failed to persist check watermark")
	}
}

func newsAlertType(t domain.NewsType) domain.AlertType {
	switch t {
	case domain.NewsInjury:
		return domain.AlertInjury
	case domain.NewsRoleChange:
		return domain.AlertRoleChange
	default:
		return domain.AlertTeamNews
	}
}

func newsAlertSeverity(t domain.NewsType) domain.AlertSeverity {
	switch t {
	case domain.NewsInjury:
		return domain.SeverityHigh
	case domain.NewsRoleChange:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
