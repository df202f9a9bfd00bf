package search

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/imLOstAU/WeatherWatch/internal/weather"
)

// LocationSearcher resolves a query to candidate locations.
type LocationSearcher interface {
	Search(ctx context.Context, query string) ([]weather.Location, error)
}

// Result is the outcome of one issued search. Seq increases with every
// search issued, so a consumer can tell which query a result belongs to.
type Result struct {
	Seq       uint64
	Query     string
	Locations []weather.Location
	Err       error
}

// Searcher debounces query updates and delivers search results in issue
// order. A response that arrives after a newer one has been delivered is
// dropped, so a slow early request can never overwrite a later one.
type Searcher struct {
	source    LocationSearcher
	debouncer *Debouncer
	results   chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	issued    uint64
	delivered uint64
	closed    bool
}

// NewSearcher creates a Searcher. Results are available on Results() until
// Close is called.
func NewSearcher(ctx context.Context, source LocationSearcher, delay time.Duration) *Searcher {
	ctx, cancel := context.WithCancel(ctx)
	return &Searcher{
		source:    source,
		debouncer: NewDebouncer(delay),
		results:   make(chan Result, 1),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Results delivers the newest search outcomes. When the consumer falls
// behind, an undelivered result is replaced by the newer one.
func (s *Searcher) Results() <-chan Result {
	return s.results
}

// Update records a new query. The search runs once the query has been
// stable for the debounce delay.
func (s *Searcher) Update(query string) {
	s.debouncer.Trigger(func() { s.issue(query) })
}

func (s *Searcher) issue(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.issued++
	seq := s.issued
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.deliver(s.run(seq, query))
	}()
}

func (s *Searcher) run(seq uint64, query string) Result {
	res := Result{Seq: seq, Query: query}
	if strings.TrimSpace(query) == "" {
		res.Locations = []weather.Location{}
		return res
	}

	locations, err := s.source.Search(s.ctx, query)
	if err != nil {
		res.Err = err
		return res
	}
	if len(locations) == 0 {
		res.Err = weather.ErrNoLocations
	}
	res.Locations = locations
	return res
}

func (s *Searcher) deliver(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if res.Seq <= s.delivered {
		log.Printf("Dropping stale search result %d for %q", res.Seq, res.Query)
		return
	}
	s.delivered = res.Seq

	// Only deliver sends, and only under mu, so after draining there is room.
	select {
	case s.results <- res:
	default:
		select {
		case <-s.results:
		default:
		}
		s.results <- res
	}
}

// Close stops pending and in-flight searches and closes Results.
func (s *Searcher) Close() {
	s.debouncer.Stop()
	s.cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	close(s.results)
}
