package navdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fund-calculator/internal/domain"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchCatalog(ctx context.Context) ([]domain.Instrument, error) {
	args := m.Called(ctx)
	instruments, _ := args.Get(0).([]domain.Instrument)
	return instruments, args.Error(1)
}

func (m *mockSource) FetchHistory(ctx context.Context, instrumentID string) (*PriceSeries, error) {
	args := m.Called(ctx, instrumentID)
	series, _ := args.Get(0).(*PriceSeries)
	return series, args.Error(1)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestStoreHistory_FetchesOncePerDay(t *testing.T) {
	ctx := context.Background()
	series := testSeries(t)
	src := new(mockSource)
	src.On("FetchHistory", mock.Anything, "120503").Return(series, nil).Twice()

	clock := &fakeClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	store := NewStore(src, nil, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		got, err := store.History(ctx, "120503")
		require.NoError(t, err)
		assert.Same(t, series, got)
	}
	src.AssertNumberOfCalls(t, "FetchHistory", 1)

	clock.now = time.Date(2024, 5, 11, 0, 1, 0, 0, time.UTC)
	_, err := store.History(ctx, "120503")
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "FetchHistory", 2)
	src.AssertExpectations(t)
}

func TestStoreHistory_FetchErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("FetchHistory", mock.Anything, "1").Return(nil, errors.New("connection refused")).Once()
	src.On("FetchHistory", mock.Anything, "1").Return(testSeries(t), nil).Once()

	store := NewStore(src, NewMemoryCache())
	_, err := store.History(ctx, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	_, err = store.History(ctx, "1")
	require.NoError(t, err)
	src.AssertExpectations(t)
}

func TestStoreCatalog_Memoized(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("FetchCatalog", mock.Anything).Return([]domain.Instrument{
		{Code: "120503", Name: "Axis ELSS Tax Saver Fund - Direct Growth"},
		{Code: "100", Name: "Axis Bluechip Fund - Regular"},
	}, nil).Once()

	store := NewStore(src, nil)
	found, err := store.Search(ctx, "axis", 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	inst, err := store.Resolve(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "Axis Bluechip Fund - Regular", inst.Name)

	_, err = store.Resolve(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	src.AssertExpectations(t)
}

func TestStoreLatestNAV(t *testing.T) {
	src := new(mockSource)
	src.On("FetchHistory", mock.Anything, "120503").Return(testSeries(t), nil)

	latest, err := NewStore(src, nil).LatestNAV(context.Background(), "120503")
	require.NoError(t, err)
	assert.True(t, latest.Date.Equal(day(2023, 1, 3)))
	assert.Equal(t, "10.75", latest.Price.String())
}

func TestStaticSourceThroughStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewStaticSource(testSeries(t)), nil)

	inst, err := store.Resolve(ctx, "120503")
	require.NoError(t, err)
	assert.Equal(t, "120503", inst.Name)

	series, err := store.History(ctx, inst.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())

	_, err = store.History(ctx, "unknown")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
