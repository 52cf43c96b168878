package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/galaxyhost/server/internal/persist"
)

func seedPlayer(t *testing.T, store *persist.MemStore, email, name string) uint32 {
	t.Helper()
	p, err := store.CreatePlayer(context.Background(), email, name, nil)
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p.ID
}

func TestGetRanksDescendingWithTieBreakByPlayerID(t *testing.T) {
	store := persist.NewMemStore(1.0)
	ctx := context.Background()

	p1 := seedPlayer(t, store, "p1@n7.test", "P1")
	p2 := seedPlayer(t, store, "p2@n7.test", "P2")
	p3 := seedPlayer(t, store, "p3@n7.test", "P3")

	store.LeaderboardUpsert(ctx, persist.LeaderboardChallengePoints, p1, 0)
	store.LeaderboardUpsert(ctx, persist.LeaderboardChallengePoints, p2, 0)
	store.LeaderboardUpsert(ctx, persist.LeaderboardChallengePoints, p3, 0)
	store.PlayerDataSet(ctx, p1, "Challenge Points", "100")
	store.PlayerDataSet(ctx, p2, "Challenge Points", "100")
	store.PlayerDataSet(ctx, p3, "Challenge Points", "50")

	cache := NewCache(store, time.Hour)
	entries, err := cache.Get(ctx, persist.LeaderboardChallengePoints)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != p1 || entries[0].Rank != 1 {
		t.Fatalf("expected p1 ranked first (tie-break by lower id), got %+v", entries[0])
	}
	if entries[1].PlayerID != p2 || entries[1].Rank != 2 {
		t.Fatalf("expected p2 ranked second, got %+v", entries[1])
	}
	if entries[2].PlayerID != p3 || entries[2].Rank != 3 || entries[2].Value != 50 {
		t.Fatalf("expected p3 ranked third with value 50, got %+v", entries[2])
	}
}

func TestGetCachesWithinTTL(t *testing.T) {
	store := persist.NewMemStore(1.0)
	ctx := context.Background()
	p1 := seedPlayer(t, store, "p1@n7.test", "P1")
	store.LeaderboardUpsert(ctx, persist.LeaderboardChallengePoints, p1, 10)

	cache := NewCache(store, time.Hour)
	first, err := cache.Get(ctx, persist.LeaderboardChallengePoints)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	store.PlayerDataSet(ctx, p1, "Challenge Points", "99999")
	second, err := cache.Get(ctx, persist.LeaderboardChallengePoints)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second[0].Value != first[0].Value {
		t.Fatalf("expected cached value to be unchanged within TTL, got %d vs %d", second[0].Value, first[0].Value)
	}
}

func TestGetRecomputesAfterTTLExpires(t *testing.T) {
	store := persist.NewMemStore(1.0)
	ctx := context.Background()
	p1 := seedPlayer(t, store, "p1@n7.test", "P1")
	store.LeaderboardUpsert(ctx, persist.LeaderboardChallengePoints, p1, 10)

	cache := NewCache(store, 10*time.Millisecond)
	if _, err := cache.Get(ctx, persist.LeaderboardChallengePoints); err != nil {
		t.Fatalf("get: %v", err)
	}

	store.PlayerDataSet(ctx, p1, "Challenge Points", "500")
	time.Sleep(20 * time.Millisecond)

	entries, err := cache.Get(ctx, persist.LeaderboardChallengePoints)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entries[0].Value != 500 {
		t.Fatalf("expected recomputed value 500 after TTL expiry, got %d", entries[0].Value)
	}
}

func TestN7RatingSumsClassRows(t *testing.T) {
	store := persist.NewMemStore(1.0)
	ctx := context.Background()
	p1 := seedPlayer(t, store, "p1@n7.test", "P1")
	store.LeaderboardUpsert(ctx, persist.LeaderboardN7Rating, p1, 0)
	store.SetPlayerClasses(p1, []persist.PlayerClass{
		{PlayerID: p1, Index: 0, Name: "Soldier", Level: 20, Promotions: 2},
		{PlayerID: p1, Index: 1, Name: "Sentinel", Level: 10, Promotions: 1},
	})

	cache := NewCache(store, time.Hour)
	entries, err := cache.Get(ctx, persist.LeaderboardN7Rating)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// (20 + 20*2) + (10 + 20*1) = 60 + 30 = 90
	if entries[0].Value != 90 {
		t.Fatalf("expected N7 rating 90, got %d", entries[0].Value)
	}
}
