package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-back/domain/ports"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []Message
	failErr  error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	c.messages = append(c.messages, v.(Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-m.Done()
	})
	return m
}

func TestManager_BroadcastReachesAllClients(t *testing.T) {
	m := startManager(t)
	a, b := &fakeConn{}, &fakeConn{}
	m.RegisterClient(a)
	m.RegisterClient(b)
	require.Eventually(t, func() bool { return m.GetTotalClients() == 2 }, time.Second, 5*time.Millisecond)

	m.BroadcastToAll("tarefa.excluida", map[string]uint{"id": 3})

	for _, c := range []*fakeConn{a, b} {
		require.Eventually(t, func() bool { return len(c.received()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "tarefa.excluida", c.received()[0].Type)
	}
}

func TestManager_FailedClientIsDropped(t *testing.T) {
	m := startManager(t)
	good, bad := &fakeConn{}, &fakeConn{failErr: errors.New("broken pipe")}
	m.RegisterClient(good)
	m.RegisterClient(bad)

	m.BroadcastToAll("tarefa.adicionada", nil)

	require.Eventually(t, func() bool { return m.GetTotalClients() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, bad.isClosed())
	assert.False(t, good.isClosed())
}

func TestManager_Unregister(t *testing.T) {
	m := startManager(t)
	conn := &fakeConn{}
	id := m.RegisterClient(conn)
	m.UnregisterClient(id)

	require.Eventually(t, func() bool { return m.GetTotalClients() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, conn.isClosed())
}

type stubSubscriber struct {
	handler ports.TaskEventHandler
	stopped bool
}

func (s *stubSubscriber) Subscribe(_ context.Context, handler ports.TaskEventHandler) error {
	s.handler = handler
	return nil
}

func (s *stubSubscriber) Unsubscribe() error {
	s.stopped = true
	return nil
}

func TestTaskBroadcaster_RelaysSubscribedEvents(t *testing.T) {
	m := startManager(t)
	conn := &fakeConn{}
	m.RegisterClient(conn)

	sub := &stubSubscriber{}
	b := NewTaskBroadcaster(m, sub)
	require.NoError(t, b.Start())
	require.NotNil(t, sub.handler)

	sub.handler(&ports.TaskEvent{Type: ports.TaskEventUpdated, Data: json.RawMessage(`{"id":1}`)})

	require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 5*time.Millisecond)
	msg := conn.received()[0]
	assert.Equal(t, string(ports.TaskEventUpdated), msg.Type)
	assert.JSONEq(t, `{"id":1}`, string(msg.Data.(json.RawMessage)))

	require.NoError(t, b.Stop())
	assert.True(t, sub.stopped)
}

func TestTaskBroadcaster_PublishDirectly(t *testing.T) {
	m := startManager(t)
	conn := &fakeConn{}
	m.RegisterClient(conn)

	b := NewTaskBroadcaster(m, nil)
	require.NoError(t, b.Start())
	require.NoError(t, b.PublishTaskEvent(context.Background(), &ports.TaskEvent{Type: ports.TaskEventCountsChanged, Data: 1}))

	require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, string(ports.TaskEventCountsChanged), conn.received()[0].Type)
}

// stalledConn blocks in WriteJSON until it is closed, like a peer that stopped reading.
type stalledConn struct {
	once   sync.Once
	closed chan struct{}
}

func newStalledConn() *stalledConn {
	return &stalledConn{closed: make(chan struct{})}
}

func (c *stalledConn) WriteJSON(interface{}) error {
	<-c.closed
	return errors.New("connection closed")
}

func (c *stalledConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *stalledConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func TestManager_StalledClientDoesNotBlockPublishers(t *testing.T) {
	m := startManager(t)
	stalled := newStalledConn()
	m.RegisterClient(stalled)

	b := NewTaskBroadcaster(m, nil)
	const events = 200
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < events; i++ {
			_ = b.PublishTaskEvent(context.Background(), &ports.TaskEvent{Type: ports.TaskEventCreated, Data: i})
		}
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing stalled behind a client that does not read")
	}

	require.Eventually(t, stalled.isClosed, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return m.GetTotalClients() == 0 }, time.Second, 5*time.Millisecond)

	healthy := &fakeConn{}
	m.RegisterClient(healthy)
	// events still queued from the burst may arrive first, and a full hub queue drops
	require.Eventually(t, func() bool {
		_ = b.PublishTaskEvent(context.Background(), &ports.TaskEvent{Type: ports.TaskEventCreated, Data: "after"})
		msgs := healthy.received()
		return len(msgs) > 0 && msgs[len(msgs)-1].Data == "after"
	}, time.Second, 5*time.Millisecond)
	assert.False(t, healthy.isClosed())
}

func TestHandleClientMessage_Ping(t *testing.T) {
	conn := &fakeConn{}
	HandleClientMessage(conn, []byte(`{"type":"ping"}`))
	HandleClientMessage(conn, []byte(`not json`))

	msgs := conn.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, "pong", msgs[0].Type)
}
