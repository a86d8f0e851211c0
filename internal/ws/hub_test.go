package ws_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/whiteboard/internal/ws"
)

const testRoomID = "7"

func TestHub_RegisterUnregister(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)

	if hub.TotalClients() != 1 {
		t.Errorf("expected 1 client, got %d", hub.TotalClients())
	}

	hub.Unregister(client)

	if hub.TotalClients() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.TotalClients())
	}
}

func TestHub_Unregister_ReturnsJoinedRooms(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)
	hub.JoinRoom(client, testRoomID)
	hub.JoinRoom(client, "9")

	rooms := hub.Unregister(client)

	if len(rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(rooms))
	}
}

func TestHub_JoinRoom_BroadcastsUserCount(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn1 := newMockConn()
	conn2 := newMockConn()

	client1 := ws.NewClient("c1", "user1", "Alice", conn1)
	client2 := ws.NewClient("c2", "user2", "Bob", conn2)

	hub.Register(client1)
	hub.Register(client2)

	hub.JoinRoom(client1, testRoomID)
	hub.JoinRoom(client2, testRoomID)

	// Give goroutines time to send
	time.Sleep(20 * time.Millisecond)

	// The first member saw both occupancy updates; the last one must have
	// count 2 and a two-user roster.
	messages := conn1.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 user_count messages, got %d", len(messages))
	}

	last := messages[1]
	if last.Type != ws.MessageTypeUserCount {
		t.Errorf("expected user_count type, got %s", last.Type)
	}

	if last.Count != 2 {
		t.Errorf("expected count 2, got %d", last.Count)
	}

	if len(last.Users) != 2 {
		t.Errorf("expected 2 users in roster, got %d", len(last.Users))
	}
}

func TestHub_JoinRoom_DuplicateIsNoop(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)
	hub.JoinRoom(client, testRoomID)
	hub.JoinRoom(client, testRoomID)

	time.Sleep(20 * time.Millisecond)

	// Only the first join broadcasts
	if got := len(conn.Messages()); got != 1 {
		t.Errorf("expected 1 user_count message, got %d", got)
	}

	if hub.RoomCount(testRoomID) != 1 {
		t.Errorf("expected room count 1, got %d", hub.RoomCount(testRoomID))
	}
}

func TestHub_LeaveRoom_NotifiesRemaining(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn1 := newMockConn()
	conn2 := newMockConn()

	client1 := ws.NewClient("c1", "user1", "", conn1)
	client2 := ws.NewClient("c2", "user2", "", conn2)

	hub.Register(client1)
	hub.Register(client2)
	hub.JoinRoom(client1, testRoomID)
	hub.JoinRoom(client2, testRoomID)

	time.Sleep(20 * time.Millisecond)

	before := len(conn1.Messages())

	hub.LeaveRoom(client2, testRoomID)

	time.Sleep(20 * time.Millisecond)

	messages := conn1.Messages()
	if len(messages) != before+1 {
		t.Fatalf("expected one more message, got %d (was %d)", len(messages), before)
	}

	last := messages[len(messages)-1]
	if last.Count != 1 {
		t.Errorf("expected count 1 after leave, got %d", last.Count)
	}

	// The leaver gets no occupancy update for a room it is no longer in
	if got := len(conn2.Messages()); got != 1 {
		t.Errorf("expected leaver to hold 1 message, got %d", got)
	}
}

func TestHub_BroadcastToRoom_ExcludesSender(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn1 := newMockConn()
	conn2 := newMockConn()
	conn3 := newMockConn()

	client1 := ws.NewClient("c1", "user1", "", conn1)
	client2 := ws.NewClient("c2", "user2", "", conn2)
	client3 := ws.NewClient("c3", "user3", "", conn3)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	client1.JoinRoom(testRoomID)
	client2.JoinRoom(testRoomID)
	client3.JoinRoom("other")

	msg := ws.Message{Type: ws.MessageTypeDrawing, RoomID: testRoomID}

	hub.BroadcastToRoom(testRoomID, msg, "c1")

	time.Sleep(20 * time.Millisecond)

	if got := len(conn1.Messages()); got != 0 {
		t.Errorf("sender should not receive drawing broadcast, got %d", got)
	}

	if got := len(conn2.Messages()); got != 1 {
		t.Errorf("peer should receive 1 message, got %d", got)
	}

	if got := len(conn3.Messages()); got != 0 {
		t.Errorf("other-room client should receive nothing, got %d", got)
	}
}

func TestHub_BroadcastToRoom_IncludesSenderWhenNotExcluded(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)
	client.JoinRoom(testRoomID)

	// Chat echoes pass an empty exclude ID so the sender hears its own
	// operation back.
	hub.BroadcastToRoom(testRoomID, ws.Message{Type: ws.MessageTypeChat, RoomID: testRoomID}, "")

	time.Sleep(20 * time.Millisecond)

	if got := len(conn.Messages()); got != 1 {
		t.Errorf("expected sender to receive its echo, got %d messages", got)
	}
}

func TestHub_BroadcastToRoom_PreservesOrder(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)
	client.JoinRoom(testRoomID)

	// Operations broadcast back to back must reach the member in broadcast
	// order: an add followed by a delete of the same shape inverts into a
	// resurrected shape otherwise.
	const count = 50

	for i := range count {
		hub.BroadcastToRoom(testRoomID, ws.Message{
			Type:    ws.MessageTypeChat,
			RoomID:  testRoomID,
			Message: fmt.Sprintf("op-%d", i),
		}, "")
	}

	messages := waitForMessages(t, conn, count)

	for i, msg := range messages[:count] {
		if want := fmt.Sprintf("op-%d", i); msg.Message != want {
			t.Fatalf("message %d arrived out of order: got %q, want %q", i, msg.Message, want)
		}
	}
}

func TestHub_RoomUsers(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	client1 := ws.NewClient("c1", "user1", "Alice", newMockConn())
	client2 := ws.NewClient("c2", "user2", "Bob", newMockConn())

	hub.Register(client1)
	hub.Register(client2)
	client1.JoinRoom(testRoomID)
	client2.JoinRoom(testRoomID)
	client2.JoinRoom("other")

	users := hub.RoomUsers(testRoomID)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	seen := make(map[string]string, len(users))
	for _, u := range users {
		seen[u.UserID] = u.UserName
	}

	if seen["user1"] != "Alice" || seen["user2"] != "Bob" {
		t.Errorf("unexpected roster: %v", users)
	}

	if got := hub.RoomUsers("empty"); len(got) != 0 {
		t.Errorf("expected empty roster, got %v", got)
	}
}

func TestHub_BroadcastToRoom_NoMembers(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	// Broadcast to a room with no members - should not panic
	hub.BroadcastToRoom("empty", ws.Message{Type: ws.MessageTypeChat}, "")
}

func TestHub_Sweep_RemovesDeadClients(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	connAlive := newMockConn()
	connDead := newMockConn()

	alive := ws.NewClient("c1", "user1", "", connAlive)
	dead := ws.NewClient("c2", "user2", "", connDead)

	hub.Register(alive)
	hub.Register(dead)
	hub.JoinRoom(alive, testRoomID)
	hub.JoinRoom(dead, testRoomID)

	time.Sleep(20 * time.Millisecond)

	before := len(connAlive.Messages())

	connDead.kill()

	rooms := hub.Sweep()

	time.Sleep(20 * time.Millisecond)

	if hub.TotalClients() != 1 {
		t.Errorf("expected 1 client after sweep, got %d", hub.TotalClients())
	}

	if len(rooms) != 1 || rooms[0] != testRoomID {
		t.Errorf("expected affected rooms [%s], got %v", testRoomID, rooms)
	}

	if !connDead.IsClosed() {
		t.Error("expected dead connection to be closed")
	}

	// Survivors got a fresh occupancy update
	messages := connAlive.Messages()
	if len(messages) != before+1 {
		t.Fatalf("expected one more message after sweep, got %d (was %d)", len(messages), before)
	}

	if last := messages[len(messages)-1]; last.Count != 1 {
		t.Errorf("expected count 1 after sweep, got %d", last.Count)
	}
}

func TestHub_Sweep_AllAlive(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)
	hub.JoinRoom(client, testRoomID)

	if rooms := hub.Sweep(); len(rooms) != 0 {
		t.Errorf("expected no affected rooms, got %v", rooms)
	}

	if hub.TotalClients() != 1 {
		t.Errorf("expected client to survive sweep, got %d", hub.TotalClients())
	}
}

func TestHub_RunSweeper_StopsOnCancel(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})

	go func() {
		hub.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

type fakeTracker struct {
	mu     sync.Mutex
	joins  []string
	leaves []string
}

func (f *fakeTracker) Join(_ context.Context, roomID, userID, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.joins = append(f.joins, roomID+":"+userID)
}

func (f *fakeTracker) Leave(_ context.Context, roomID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.leaves = append(f.leaves, roomID+":"+userID)
}

func TestHub_TrackerMirrorsMembership(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	tracker := &fakeTracker{}
	hub.SetTracker(tracker)

	conn := newMockConn()
	client := ws.NewClient("c1", "user1", "", conn)

	hub.Register(client)
	hub.JoinRoom(client, testRoomID)
	hub.LeaveRoom(client, testRoomID)
	hub.JoinRoom(client, "9")
	hub.Unregister(client)

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if len(tracker.joins) != 2 {
		t.Errorf("expected 2 joins, got %v", tracker.joins)
	}

	if len(tracker.leaves) != 2 {
		t.Errorf("expected 2 leaves (explicit + disconnect), got %v", tracker.leaves)
	}
}

func TestHub_ConcurrentJoins(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			conn := newMockConn()
			client := ws.NewClient(string(rune('a'+n)), "user", "", conn)

			hub.Register(client)
			hub.JoinRoom(client, testRoomID)
		}(i)
	}

	wg.Wait()

	if hub.RoomCount(testRoomID) != 20 {
		t.Errorf("expected 20 clients in room, got %d", hub.RoomCount(testRoomID))
	}
}
