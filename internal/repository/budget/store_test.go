package budget

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/artguide/internal/db"
	dbredis "github.com/kailas-cloud/artguide/internal/db/redis"
)

type fakeKV struct {
	values  map[string][]byte
	incrErr error
	getErr  error
	ttls    map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) IncrBy(_ context.Context, key string, val int64) error {
	if f.incrErr != nil {
		return f.incrErr
	}
	cur, _ := strconv.ParseInt(string(f.values[key]), 10, 64)
	f.values[key] = []byte(strconv.FormatInt(cur+val, 10))
	return nil
}

func (f *fakeKV) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if _, ok := f.ttls[key]; ok && nx {
		return nil
	}
	f.ttls[key] = ttl
	return nil
}

func TestStore_IncrByAndGet(t *testing.T) {
	kv := newFakeKV()
	s := New(kv, time.Hour, 2*time.Hour)
	ctx := context.Background()

	key := "artguide:budget:openai:daily:2026-10-19"
	if err := s.IncrBy(ctx, key, 40); err != nil {
		t.Fatalf("IncrBy: %v", err)
	}
	if err := s.IncrBy(ctx, key, 2); err != nil {
		t.Fatalf("IncrBy: %v", err)
	}

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if kv.ttls[key] != time.Hour {
		t.Errorf("daily ttl = %v", kv.ttls[key])
	}
}

func TestStore_MonthlyTTL(t *testing.T) {
	kv := newFakeKV()
	s := New(kv, 0, 0)
	key := "artguide:budget:openai:monthly:2026-10"
	if err := s.IncrBy(context.Background(), key, 1); err != nil {
		t.Fatalf("IncrBy: %v", err)
	}
	if kv.ttls[key] != DefaultMonthlyTTL {
		t.Errorf("monthly ttl = %v, want %v", kv.ttls[key], DefaultMonthlyTTL)
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	s := New(newFakeKV(), 0, 0)
	got, err := s.Get(context.Background(), "artguide:budget:x:daily:2026-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestStore_Errors(t *testing.T) {
	boom := errors.New("boom")

	kv := newFakeKV()
	kv.incrErr = boom
	if err := New(kv, 0, 0).IncrBy(context.Background(), "k", 1); !errors.Is(err, boom) {
		t.Errorf("IncrBy error = %v", err)
	}

	kv = newFakeKV()
	kv.getErr = boom
	if _, err := New(kv, 0, 0).Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Errorf("Get error = %v", err)
	}

	kv = newFakeKV()
	kv.values["k"] = []byte("not-a-number")
	if _, err := New(kv, 0, 0).Get(context.Background(), "k"); err == nil {
		t.Error("expected parse error")
	}
}

func TestStore_OverRueidis(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	key := "artguide:budget:openai:daily:2026-10-19"
	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("INCRBY", key, "17")).
			Return(mock.Result(mock.RedisInt64(17))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXPIRE", key, "172800", "NX")).
			Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", key)).
			Return(mock.Result(mock.RedisBlobString("17"))),
	)

	s := New(dbredis.NewStoreForTest(c), 0, 0)
	ctx := context.Background()
	if err := s.IncrBy(ctx, key, 17); err != nil {
		t.Fatalf("IncrBy: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 17 {
		t.Errorf("got %d, want 17", got)
	}
}
