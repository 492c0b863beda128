package watchlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/watchlist/internal/catalog/mocks"
	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/persist"
)

// write is one call seen by recordingWriter.
type write struct {
	op  persist.Op
	key media.Key
	it  media.Item
}

type recordingWriter struct {
	mu     sync.Mutex
	writes []write
}

func (w *recordingWriter) record(op persist.Op, items []media.Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, it := range items {
		w.writes = append(w.writes, write{op: op, key: it.Key(), it: it})
	}
}

func (w *recordingWriter) Insert(items ...media.Item) { w.record(persist.OpInsert, items) }
func (w *recordingWriter) Update(items ...media.Item) { w.record(persist.OpUpdate, items) }
func (w *recordingWriter) Delete(items ...media.Item) { w.record(persist.OpDelete, items) }

func (w *recordingWriter) all() []write {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]write(nil), w.writes...)
}

func (w *recordingWriter) ops() []persist.Op {
	var ops []persist.Op
	for _, wr := range w.all() {
		ops = append(ops, wr.op)
	}
	return ops
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) (*Store, *mocks.MockGateway, *recordingWriter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	cat := mocks.NewMockGateway(ctrl)
	w := &recordingWriter{}
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	s := New(cat, w, opts...)
	t.Cleanup(s.Close)
	return s, cat, w
}

func inception() media.Movie {
	return media.Movie{Details: media.Details{ID: 27205, Title: "Inception", ReleaseYear: 2010, Runtime: 148}}
}

func thrones() media.Series {
	return media.Series{
		Details: media.Details{ID: 1399, Title: "Game of Thrones", ReleaseYear: 2011},
		Seasons: []media.Season{
			{ID: 3624, Title: "Season 1", SeasonNumber: 1, Episodes: []media.Episode{}},
		},
	}
}

func ep(season, episode int, seen bool) media.Episode {
	return media.Episode{
		ID:            int64(season*100 + episode),
		SeasonNumber:  season,
		EpisodeNumber: episode,
		AirDate:       "2011-04-17",
		Title:         media.Coordinate{Season: season, Episode: episode}.String(),
		Seen:          seen,
	}
}

// detailView reads the detail projection.
func detailView(t *testing.T, s *Store) (media.Item, bool) {
	t.Helper()
	var item media.Item
	require.NoError(t, s.do(context.Background(), func(st *state) {
		if st.detail != nil {
			item = s.annotate(st.detail)
		}
	}))
	return item, item != nil
}
