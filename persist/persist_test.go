package persist

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/engine"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const content = `<p>Hello <b>World</b></p>`

func bold(t *testing.T, tree *dom.Tree) {
	r := tree.RangeFromOffsets(0, 5)
	_, err := engine.ToggleStyle(tree, r, style.Bold)
	require.NoError(t, err)
}

func TestMemoryStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	m := NewMemoryStore()
	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, m.Set(ctx, "k", "v"))
	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
	m.Delete("k")
	_, found, _ = m.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStoreQuota(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	m := NewMemoryStore(WithQuota(8))
	require.NoError(t, m.Set(ctx, "a", "1234"))
	require.NoError(t, m.Set(ctx, "b", "1234"))
	// replacing a value only counts the new value
	require.NoError(t, m.Set(ctx, "b", "5678"))
	err := m.Set(ctx, "c", "x")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	_, found, _ := m.Get(ctx, "c")
	assert.False(t, found)
}

func TestDirtyAfterRestore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "doc", content))
	tree, err := dom.Parse("")
	require.NoError(t, err)
	c := NewCoordinator(tree, store, "doc")
	found, err := c.Restore(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Hello World", tree.TextContent())
	if c.IsDirty() {
		t.Errorf("expected restored content not to be dirty")
	}
	bold(t, tree)
	if !c.IsDirty() {
		t.Errorf("expected content to be dirty after edit")
	}
	require.NoError(t, c.Save(ctx))
	if c.IsDirty() {
		t.Errorf("expected content not to be dirty after save")
	}
	assert.False(t, c.LastSaved().IsZero())
	stored, _, _ := store.Get(ctx, "doc")
	s, _ := tree.Serialize()
	assert.Equal(t, s, stored)
}

func TestDirtyWithoutStoredContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	empty, _ := dom.Parse("")
	c := NewCoordinator(empty, NewMemoryStore(), "doc")
	found, err := c.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, c.IsDirty(), "empty tree should not be dirty")
	tree, _ := dom.Parse(content)
	c = NewCoordinator(tree, NewMemoryStore(), "doc")
	assert.True(t, c.IsDirty(), "unsaved content should be dirty")
	block, msg := c.BeforeUnload()
	assert.True(t, block)
	assert.Equal(t, UnloadMessage, msg)
	require.NoError(t, c.Save(ctx))
	block, msg = c.BeforeUnload()
	assert.False(t, block)
	assert.Empty(t, msg)
}

func TestSaveFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	tree, _ := dom.Parse(content)
	c := NewCoordinator(tree, NewMemoryStore(WithQuota(4)), "doc")
	err := c.Save(context.Background())
	var perr *PersistError
	require.True(t, errors.As(err, &perr), "expected PersistError, got %v", err)
	assert.Equal(t, "doc", perr.Key)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	s, _ := tree.Serialize()
	assert.Equal(t, content, s, "failed save must not change the tree")
	assert.True(t, c.IsDirty())
	assert.True(t, c.LastSaved().IsZero())
}

func TestAutosave(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	store := NewMemoryStore()
	tree, _ := dom.Parse(content)
	lock := &sync.Mutex{}
	saves := make(chan error, 16)
	c := NewCoordinator(tree, store, "doc", WithLock(lock), WithAutosaveHook(func(err error) {
		saves <- err
	}))
	assert.ErrorIs(t, c.Start(0), ErrInvalidInterval)
	require.NoError(t, c.Start(5*time.Millisecond))
	require.NoError(t, c.Start(5*time.Millisecond)) // no-op
	select {
	case err := <-saves:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("autosave did not happen")
	}
	lock.Lock()
	bold(t, tree)
	edited, _ := tree.Serialize()
	lock.Unlock()
	require.Eventually(t, func() bool {
		v, _, _ := store.Get(ctx, "doc")
		return v == edited
	}, 2*time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop()
	assert.False(t, c.IsDirty())
}

func TestRedisURL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	r := NewRedisStore("redis://localhost:6380/2")
	assert.Equal(t, "localhost:6380", r.client.Options().Addr)
	assert.Equal(t, 2, r.client.Options().DB)
	r.Close()
	r = NewRedisStore("localhost:6379")
	assert.Equal(t, "localhost:6379", r.client.Options().Addr)
	r.Close()
}

func TestRedisUnreachable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	r := NewRedisStoreFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer r.Close()
	tree, _ := dom.Parse(content)
	c := NewCoordinator(tree, r, "doc")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.Restore(ctx)
	assert.Error(t, err)
	err = c.Save(ctx)
	var perr *PersistError
	assert.True(t, errors.As(err, &perr), "expected PersistError, got %v", err)
	assert.True(t, c.IsDirty())
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	r := NewRedisStore(url)
	defer r.Close()
	require.NoError(t, r.Ping(ctx))
	key := "wysiwyg-test-" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, r.Set(ctx, key, content))
	v, found, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, content, v)
	r.client.Del(ctx, key)
}

func TestGormStore(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.persist")
	defer teardown()
	//
	ctx := context.Background()
	g, err := OpenGormStore(dsn)
	require.NoError(t, err)
	defer g.Close()
	key := "wysiwyg-test-" + time.Now().Format(time.RFC3339Nano)
	_, found, err := g.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, g.Set(ctx, key, "first"))
	require.NoError(t, g.Set(ctx, key, content))
	v, found, err := g.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, content, v)
	g.db.Delete(&Content{}, "storage_key = ?", key)
}
