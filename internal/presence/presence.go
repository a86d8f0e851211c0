// Package presence mirrors room membership into redis so other services can
// read occupancy without talking to the relay. The relay is correct without
// it; every method degrades to a logged warning on redis failure.
package presence

import (
	"context"
	"fmt"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Key layout:
//   presence:room:<roomID>        Set<userID>
//   presence:member:<roomID>:<id> String "1" with TTL (heartbeat)
//   presence:room:names:<roomID>  Hash<userID -> userName>
const (
	keyRoomFmt   = "presence:room:%s"
	keyMemberFmt = "presence:member:%s:%s"
	keyNamesFmt  = "presence:room:names:%s"
)

func roomKey(roomID string) string           { return fmt.Sprintf(keyRoomFmt, roomID) }
func memberKey(roomID, userID string) string { return fmt.Sprintf(keyMemberFmt, roomID, userID) }
func namesKey(roomID string) string          { return fmt.Sprintf(keyNamesFmt, roomID) }

// Member is one room member as recorded in redis.
type Member struct {
	UserID   string
	UserName string
}

// RedisTracker records membership in redis. Member entries carry a TTL so a
// crashed relay's members age out even if Leave never ran.
type RedisTracker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTracker connects to redis at addr. The ttl bounds how long a
// member survives without a Join refresh.
func NewRedisTracker(addr string, ttl time.Duration) *RedisTracker {
	return &RedisTracker{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Join records a member in the room.
func (t *RedisTracker) Join(ctx context.Context, roomID, userID, userName string) {
	pipe := t.rdb.Pipeline()
	pipe.SAdd(ctx, roomKey(roomID), userID)
	pipe.Set(ctx, memberKey(roomID, userID), "1", t.ttl)
	pipe.HSet(ctx, namesKey(roomID), userID, userName)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("presence join failed for room %s: %v", roomID, err)
	}
}

// Leave removes a member from the room.
func (t *RedisTracker) Leave(ctx context.Context, roomID, userID string) {
	pipe := t.rdb.Pipeline()
	pipe.SRem(ctx, roomKey(roomID), userID)
	pipe.Del(ctx, memberKey(roomID, userID))
	pipe.HDel(ctx, namesKey(roomID), userID)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("presence leave failed for room %s: %v", roomID, err)
	}
}

// Members returns the members of a room whose heartbeat key is still alive.
func (t *RedisTracker) Members(ctx context.Context, roomID string) ([]Member, error) {
	userIDs, err := t.rdb.SMembers(ctx, roomKey(roomID)).Result()
	if err != nil {
		return nil, err
	}

	if len(userIDs) == 0 {
		return nil, nil
	}

	pipe := t.rdb.Pipeline()
	existsCmds := make([]*redis.IntCmd, len(userIDs))

	for i, userID := range userIDs {
		existsCmds[i] = pipe.Exists(ctx, memberKey(roomID, userID))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	alive := make([]string, 0, len(userIDs))

	for i, cmd := range existsCmds {
		if cmd.Val() == 1 {
			alive = append(alive, userIDs[i])
		}
	}

	if len(alive) == 0 {
		return nil, nil
	}

	names, err := t.rdb.HMGet(ctx, namesKey(roomID), alive...).Result()
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(alive))

	for i, v := range names {
		name := ""
		if v != nil {
			name, _ = v.(string)
		}

		members = append(members, Member{UserID: alive[i], UserName: name})
	}

	return members, nil
}

// Close releases the redis connection.
func (t *RedisTracker) Close() error {
	return t.rdb.Close()
}
