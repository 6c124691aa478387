package refresh_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/token/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(resp *graphql.Response, err error) graphql.TransportFunc {
	return func(_ context.Context, _ *graphql.Operation) (*graphql.Response, error) {
		return resp, err
	}
}

func TestRefresher_Refresh(t *testing.T) {
	t.Run("returns the new access token", func(t *testing.T) {
		var got *graphql.Operation
		r := refresh.NewRefresher(graphql.TransportFunc(func(_ context.Context, op *graphql.Operation) (*graphql.Response, error) {
			got = op
			return &graphql.Response{Data: json.RawMessage(`{"refreshToken":{"accessToken":"xyz"}}`)}, nil
		}))

		tok, err := r.Refresh(context.Background(), "r1")
		require.NoError(t, err)
		require.Equal(t, "xyz", tok)
		require.Equal(t, refresh.OperationName, got.OperationName)
		require.Equal(t, refresh.Mutation, got.Query)
		require.Equal(t, "r1", got.Variables["refreshToken"])
		require.Empty(t, got.Headers.Get("Authorization"))
	})

	t.Run("no refresh token", func(t *testing.T) {
		r := refresh.NewRefresher(respond(nil, errors.ErrInternal))
		_, err := r.Refresh(context.Background(), "")
		require.ErrorIs(t, err, errors.ErrNoRefreshToken)
	})

	t.Run("graphql error", func(t *testing.T) {
		r := refresh.NewRefresher(respond(&graphql.Response{Errors: []graphql.Error{{Message: "invalid refresh token"}}}, nil))
		_, err := r.Refresh(context.Background(), "r1")
		require.ErrorIs(t, err, errors.ErrRefreshFailed)
		require.Contains(t, err.Error(), "invalid refresh token")
	})

	t.Run("transport error", func(t *testing.T) {
		r := refresh.NewRefresher(respond(nil, errors.ErrTransport))
		_, err := r.Refresh(context.Background(), "r1")
		require.ErrorIs(t, err, errors.ErrRefreshFailed)
		require.ErrorIs(t, err, errors.ErrTransport)
	})

	t.Run("missing access token", func(t *testing.T) {
		for _, data := range []string{`{"refreshToken":null}`, `{"refreshToken":{"accessToken":""}}`, `null`} {
			r := refresh.NewRefresher(respond(&graphql.Response{Data: json.RawMessage(data)}, nil))
			_, err := r.Refresh(context.Background(), "r1")
			require.ErrorIs(t, err, errors.ErrRefreshFailed, data)
		}
	})
}

func TestRefresher_SharedRefresh(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	transport := graphql.TransportFunc(func(_ context.Context, _ *graphql.Operation) (*graphql.Response, error) {
		calls.Add(1)
		<-release
		return &graphql.Response{Data: json.RawMessage(`{"refreshToken":{"accessToken":"xyz"}}`)}, nil
	})
	r := refresh.NewRefresher(transport, refresh.WithSharedRefresh())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := r.Refresh(context.Background(), "r1")
			assert.NoError(t, err)
			results[i] = tok
		}(i)
	}

	// Give every caller time to join the flight before it completes.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, tok := range results {
		require.Equal(t, "xyz", tok)
	}
}

func TestRefresher_SharedRefreshOutlivesCaller(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	transport := graphql.TransportFunc(func(ctx context.Context, _ *graphql.Operation) (*graphql.Response, error) {
		calls.Add(1)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &graphql.Response{Data: json.RawMessage(`{"refreshToken":{"accessToken":"xyz"}}`)}, nil
	})
	r := refresh.NewRefresher(transport, refresh.WithSharedRefresh())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Refresh(firstCtx, "r1")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		tok string
		err error
	}
	second := make(chan result, 1)
	go func() {
		tok, err := r.Refresh(context.Background(), "r1")
		second <- result{tok, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	require.Equal(t, "xyz", res.tok)
	require.Equal(t, int32(1), calls.Load())
}
