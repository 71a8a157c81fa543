package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type recordingWriter struct {
	mu   sync.Mutex
	docs []interface{}
}

func (w *recordingWriter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs = append(w.docs, docs...)
	return &mongo.InsertManyResult{}, nil
}

func (w *recordingWriter) entries() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Entry, 0, len(w.docs))
	for _, d := range w.docs {
		out = append(out, d.(Entry))
	}
	return out
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := InjectLogger(context.Background(), custom)
	assert.Same(t, custom, WithCtx(ctx))
}

func TestNewPicksFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	New(&buf, false).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	w := &recordingWriter{}
	h := newMongoHandler(w)

	log := slog.New(h).With("request_id", "abc").WithGroup("order")
	log.Info("discount applied", "id", 7)

	h.Close()
	h.Close()

	entries := w.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "discount applied", entries[0].Msg)
	assert.Equal(t, "abc", entries[0].RequestID)
	assert.EqualValues(t, 7, entries[0].Attrs["order.id"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	))

	log.Info("fanned")

	assert.Contains(t, a.String(), "fanned")
	assert.Contains(t, b.String(), "fanned")
}
