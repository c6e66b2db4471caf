package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FibScope/internal/model"
)

type countingFetcher struct {
	bars  []model.Bar
	err   error
	calls int
}

func (f *countingFetcher) Name() string { return "stub" }

func (f *countingFetcher) FetchBars(context.Context, string, model.Timeframe, time.Time, time.Time) ([]model.Bar, error) {
	f.calls++
	return f.bars, f.err
}

var (
	cacheFrom = time.Date(2024, 3, 1, 10, 17, 42, 0, time.UTC)
	cacheTo   = time.Date(2024, 3, 8, 10, 59, 1, 0, time.UTC)
)

func cacheKeyFor(tf model.Timeframe) string {
	iv := tf.Interval()
	return fmt.Sprintf("bars:stub/BTCUSDT:%s:%d:%d", tf, cacheFrom.Truncate(iv).Unix(), cacheTo.Truncate(iv).Unix())
}

func sampleBars() []model.Bar {
	return []model.Bar{
		{Time: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 12},
	}
}

func TestCachingFetcher_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingFetcher{}
	c := NewCachingFetcher(db, 5*time.Minute, inner, "")

	cached, _ := json.Marshal(sampleBars())
	mock.ExpectGet(cacheKeyFor(model.TF1h)).SetVal(string(cached))

	got, err := c.FetchBars(context.Background(), "BTCUSDT", model.TF1h, cacheFrom, cacheTo)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, got[0].Time.Equal(sampleBars()[0].Time))
	assert.Equal(t, 0, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingFetcher_MissStores(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingFetcher{bars: sampleBars()}
	c := NewCachingFetcher(db, 5*time.Minute, inner, "")

	expected, _ := json.Marshal(sampleBars())
	key := cacheKeyFor(model.TF1h)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, expected, 5*time.Minute).SetVal("OK")

	got, err := c.FetchBars(context.Background(), "BTCUSDT", model.TF1h, cacheFrom, cacheTo)
	require.NoError(t, err)
	assert.Equal(t, sampleBars(), got)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingFetcher_CorruptedEntry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingFetcher{bars: sampleBars()}
	c := NewCachingFetcher(db, 5*time.Minute, inner, "")

	expected, _ := json.Marshal(sampleBars())
	key := cacheKeyFor(model.TF1h)
	mock.ExpectGet(key).SetVal("invalid json")
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectSet(key, expected, 5*time.Minute).SetVal("OK")

	got, err := c.FetchBars(context.Background(), "BTCUSDT", model.TF1h, cacheFrom, cacheTo)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingFetcher_InnerErrorNotCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	boom := errors.New("upstream down")
	c := NewCachingFetcher(db, 0, &countingFetcher{err: boom}, "")

	mock.ExpectGet(cacheKeyFor(model.TF1d)).RedisNil()

	_, err := c.FetchBars(context.Background(), "BTCUSDT", model.TF1d, cacheFrom, cacheTo)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingFetcher_NilClientPassesThrough(t *testing.T) {
	inner := &countingFetcher{bars: sampleBars()}
	c := NewCachingFetcher(nil, time.Minute, inner, "x")

	got, err := c.FetchBars(context.Background(), "BTCUSDT", model.TF1h, cacheFrom, cacheTo)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "stub+redis", c.Name())
}
