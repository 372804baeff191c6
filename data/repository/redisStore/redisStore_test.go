package redisStore

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSetManyGetDelete(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	store := New(client, "changes")

	_, err := store.Get(ctx, "1", "k")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.SetMany(ctx, "1", map[string]string{"a": `{"x":1}`, "b": "[]"}))

	v, err := store.Get(ctx, "1", "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, v)

	raw, err := mr.Get("1:b")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Zero(t, mr.TTL("1:b"), "records never expire")

	require.NoError(t, store.Delete(ctx, "1", "a", "b"))
	_, err = store.Get(ctx, "1", "a")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWatchIgnoresOwnChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, client := newClient(t)
	local := New(client, "changes")
	remote := New(client, "changes")

	got := make(chan string, 4)
	go func() {
		_ = local.Watch(ctx, func(_ context.Context, namespace string) { got <- namespace })
	}()

	// wait for the subscription to be registered
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, "changes").Result()
		return err == nil && n["changes"] > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, local.SetMany(ctx, "1", map[string]string{"a": "1"}))
	require.NoError(t, remote.SetMany(ctx, "2", map[string]string{"a": "1"}))

	select {
	case ns := <-got:
		assert.Equal(t, "2", ns)
	case <-time.After(2 * time.Second):
		t.Fatal("remote change not delivered")
	}

	select {
	case ns := <-got:
		t.Fatalf("unexpected notification for %s", ns)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDeleteIsNotBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, client := newClient(t)
	local := New(client, "changes")
	remote := New(client, "changes")

	got := make(chan string, 4)
	go func() {
		_ = local.Watch(ctx, func(_ context.Context, namespace string) { got <- namespace })
	}()

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, "changes").Result()
		return err == nil && n["changes"] > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, remote.SetMany(ctx, "3", map[string]string{"a": "1"}))
	require.NoError(t, remote.Delete(ctx, "3", "a"))
	require.NoError(t, remote.SetMany(ctx, "4", map[string]string{"a": "1"}))

	// messages arrive in publish order, so a Delete broadcast would show up between the two writes
	for _, want := range []string{"3", "4"} {
		select {
		case ns := <-got:
			assert.Equal(t, want, ns)
		case <-time.After(2 * time.Second):
			t.Fatalf("change of %s not delivered", want)
		}
	}

	select {
	case ns := <-got:
		t.Fatalf("unexpected notification for %s", ns)
	case <-time.After(100 * time.Millisecond):
	}
}
