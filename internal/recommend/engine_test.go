package recommend

import (
	"sort"
	"time"

	"fantasyedge/internal/domain"
	"fantasyedge/internal/pricing"
	"fantasyedge/pkg/logger"
)

// fakePlayers is an in-memory PlayerProvider.
type fakePlayers struct {
	players map[string]domain.PlayerSnapshot
	scores  map[string][]float64
	listErr error
}

func newFakePlayers(players ...domain.PlayerSnapshot) *fakePlayers {
	f := &fakePlayers{
		players: make(map[string]domain.PlayerSnapshot),
		scores:  make(map[string][]float64),
	}
	for _, p := range players {
		f.players[p.ID] = p
	}
	return f
}

func (f *fakePlayers) GetByID(id string) (*domain.PlayerSnapshot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	p, ok := f.players[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePlayers) List() ([]domain.PlayerSnapshot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.players))
	for id := range f.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.PlayerSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.players[id])
	}
	return out, nil
}

func (f *fakePlayers) ListByIDs(ids []string) ([]domain.PlayerSnapshot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.PlayerSnapshot, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayers) ScoreHistory(id string) ([]float64, error) {
	return f.scores[id], nil
}

// fakeNews is an in-memory NewsProvider.
type fakeNews struct {
	items map[string][]domain.NewsItem
}

func (f *fakeNews) ListForPlayer(playerID string, since time.Time) ([]domain.NewsItem, error) {
	var out []domain.NewsItem
	for _, item := range f.items[playerID] {
		if item.Timestamp.After(since) {
			out = append(out, item)
		}
	}
	return out, nil
}

// fakeVenues is an in-memory VenueProvider.
type fakeVenues struct {
	stats   map[string]*domain.VenueStats
	weather map[string]*domain.WeatherForecast
}

func (f *fakeVenues) Stats(venue string) (*domain.VenueStats, error) {
	return f.stats[venue], nil
}

func (f *fakeVenues) Weather(venue string) (*domain.WeatherForecast, error) {
	return f.weather[venue], nil
}

// fakeDVP is an in-memory DVPProvider keyed by team and position.
type fakeDVP struct {
	stats map[string]*domain.DVPStats
}

func dvpKey(team string, position domain.Position) string {
	return team + "|" + string(position)
}

func (f *fakeDVP) Get(team string, position domain.Position) (*domain.DVPStats, error) {
	return f.stats[dvpKey(team, position)], nil
}

// newTestEngine builds an engine on the fakes with caching disabled so every
// test observes a fresh computation.
func newTestEngine(players *fakePlayers, news *fakeNews, venues *fakeVenues, dvp *fakeDVP) *Engine {
	log := logger.New(logger.Config{Level: "error"})
	if news == nil {
		news = &fakeNews{}
	}
	if venues == nil {
		venues = &fakeVenues{}
	}
	if dvp == nil {
		dvp = &fakeDVP{}
	}
	return New(Config{
		Players:     players,
		News:        news,
		Venues:      venues,
		DVP:         dvp,
		Simulator:   pricing.NewSimulator(pricing.DefaultPriceModel, log),
		MagicNumber: 9650,
		Log:         log,
	})
}
