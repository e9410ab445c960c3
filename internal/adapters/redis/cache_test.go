package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "menufront/internal/adapters/redis"
	"menufront/internal/domain"
)

func newCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	in := domain.HotelDetail{ID: 42, Name: "Grand Hyatt", Categories: []domain.Category{
		{ID: 1, HotelID: 42, Name: "Breakfast", MenuItems: []domain.MenuItem{}},
	}}
	if err := c.Set(ctx, "hotel:42", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.HotelDetail
	ok, err := c.Get(ctx, "hotel:42", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.ID != 42 || len(out.Categories) != 1 || out.Categories[0].Name != "Breakfast" {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := newCache(t)

	var out domain.HotelDetail
	ok, err := c.Get(context.Background(), "hotel:404", &out)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatal("expected a miss")
	}
}

func TestCache_DelRemoves(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "hotel:1", domain.HotelDetail{ID: 1}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "hotel:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out domain.HotelDetail
	if ok, _ := c.Get(ctx, "hotel:1", &out); ok {
		t.Fatal("expected a miss after delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "nearby:41.0082:28.9784:5", []domain.HotelSummary{}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var out []domain.HotelSummary
	if ok, _ := c.Get(ctx, "nearby:41.0082:28.9784:5", &out); ok {
		t.Fatal("expected the entry to expire")
	}
}
