package watchlist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/vmunix/watchlist/internal/catalog"
	"github.com/vmunix/watchlist/internal/media"
)

// User-facing search messages.
const (
	MessageUnavailable = "Could not reach the remote server. Please verify your network connection"
	MessageNotFound    = "Could not find the movie or show you are looking for. Please check for spelling errors in search terms"
	MessageBadResponse = "Unexpected response from remote server. Please try again later"
	MessageUnexpected  = "Unexpected error"
)

// SearchState is the phase of a search session.
type SearchState int

const (
	NoAction SearchState = iota
	Loading
	Success
	Error
)

func (s SearchState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Failure classifies an Error state.
type Failure int

const (
	FailureNone Failure = iota
	FailureNotFound
	FailureUnavailable
	FailureBadResponse
	FailureUnexpected
)

// SearchStatus is what a display layer renders. Results is set only for
// Success; Failure and Message only for Error.
type SearchStatus struct {
	State   SearchState
	Query   string
	Results []media.Item
	Failure Failure
	Message string
}

// ResultSink receives successful results. Store implements it so that
// later updates to an item show up in the results view.
type ResultSink interface {
	ShowSearchResults(ctx context.Context, results []media.Item) error
}

// Session runs catalog searches one query at a time. A newer search
// supersedes an older one: the older response is discarded when it arrives.
type Session struct {
	catalog catalog.Gateway
	sink    ResultSink
	log     *slog.Logger

	mu         sync.Mutex
	generation uint64
	status     SearchStatus
}

// NewSession creates an idle session. sink may be nil.
func NewSession(cat catalog.Gateway, sink ResultSink, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{catalog: cat, sink: sink, log: log.With("component", "search")}
}

// Status returns the current status.
func (s *Session) Status() SearchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Search runs query against the catalog and returns the status afterwards.
// A blank query resets the session without a catalog call.
func (s *Session) Search(ctx context.Context, query string) SearchStatus {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if query == "" {
		s.status = SearchStatus{State: NoAction}
		s.showResults(ctx, nil)
		s.mu.Unlock()
		return SearchStatus{State: NoAction}
	}
	s.status = SearchStatus{State: Loading, Query: query}
	s.mu.Unlock()

	results, err := s.catalog.SearchByTitle(ctx, query)
	next := resolve(query, results, err)
	if err != nil {
		s.log.Warn("search failed", "query", query, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.log.Debug("discarding stale search response", "query", query)
		return s.status
	}
	s.status = next
	if next.State == Success {
		s.showResults(ctx, results)
	}
	return s.status
}

func (s *Session) showResults(ctx context.Context, results []media.Item) {
	if s.sink == nil {
		return
	}
	if err := s.sink.ShowSearchResults(ctx, results); err != nil {
		s.log.Warn("publish search results failed", "error", err)
	}
}

func resolve(query string, results []media.Item, err error) SearchStatus {
	switch {
	case err == nil && len(results) == 0:
		return failed(query, FailureNotFound)
	case err == nil:
		return SearchStatus{State: Success, Query: query, Results: results}
	case errors.Is(err, catalog.ErrNotFound):
		return failed(query, FailureNotFound)
	case errors.Is(err, catalog.ErrUnavailable):
		return failed(query, FailureUnavailable)
	case errors.Is(err, catalog.ErrBadResponse):
		return failed(query, FailureBadResponse)
	default:
		return failed(query, FailureUnexpected)
	}
}

func failed(query string, f Failure) SearchStatus {
	return SearchStatus{State: Error, Query: query, Failure: f, Message: f.Message()}
}

// Message is the user-facing text for a failure.
func (f Failure) Message() string {
	switch f {
	case FailureNone:
		return ""
	case FailureNotFound:
		return MessageNotFound
	case FailureUnavailable:
		return MessageUnavailable
	case FailureBadResponse:
		return MessageBadResponse
	default:
		return MessageUnexpected
	}
}
