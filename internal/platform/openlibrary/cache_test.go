package openlibrary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) GetBookDetails(ctx context.Context, isbn string) (BookDetails, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(BookDetails), args.Error(1)
}

// A client pointed at a closed port makes every Redis call fail fast.
func unreachableRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedClient_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	upstream := new(mockFetcher)
	upstream.On("GetBookDetails", ctx, "1234567891234").Return(BookDetails{Title: "Java Book"}, nil).Once()

	c := NewCachedClient(upstream, unreachableRedis(t), time.Hour, nil, nil)

	b, err := c.FetchMetadataForBook(ctx, "1234567891234")
	require.NoError(t, err)
	assert.Equal(t, "Java Book", b.Title)
	upstream.AssertExpectations(t)
}

func TestCachedClient_PropagatesUpstreamError(t *testing.T) {
	ctx := context.Background()
	fetchErr := errors.New("network timeout")
	upstream := new(mockFetcher)
	upstream.On("GetBookDetails", ctx, "1234567891234").Return(BookDetails{}, fetchErr)

	c := NewCachedClient(upstream, unreachableRedis(t), time.Hour, nil, nil)

	_, err := c.FetchMetadataForBook(ctx, "1234567891234")
	assert.ErrorIs(t, err, fetchErr)
}
