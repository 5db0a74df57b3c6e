package masterdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/cache"
)

type fakeSource struct {
	calls atomic.Int32
	data  Data
	err   error
	delay time.Duration
}

func (f *fakeSource) MasterData(ctx context.Context, dest any) error {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return f.err
	}
	*(dest.(*Data)) = f.data
	return nil
}

func newTestService(t *testing.T, src *fakeSource) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(src, cache.NewJSON(client, "masterdata", time.Minute, nil), nil), mr
}

func sampleData() Data {
	return Data{
		ListCompanyTypes: {{Code: "supplier", Label: "Supplier"}, {Code: "customer", Label: "Customer"}},
		ListCountries:    {{Code: "ID", Label: "Indonesia"}},
	}
}

func TestLabelFallsBackToCode(t *testing.T) {
	data := sampleData()
	assert.Equal(t, "Supplier", data.Label(ListCompanyTypes, "supplier"))
	assert.Equal(t, "reseller", data.Label(ListCompanyTypes, "reseller"))
	assert.Equal(t, "x", data.Label("unknown", "x"))
	assert.Len(t, data.Options(ListCountries), 1)

	var empty Data
	assert.Equal(t, "ID", empty.Label(ListCountries, "ID"))
}

func TestLookupCachesResult(t *testing.T) {
	src := &fakeSource{data: sampleData()}
	svc, _ := newTestService(t, src)
	ctx := context.Background()

	first, err := svc.Lookup(ctx)
	require.NoError(t, err)
	second, err := svc.Lookup(ctx)
	require.NoError(t, err)

	assert.Equal(t, sampleData(), first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestRefreshForcesReload(t *testing.T) {
	src := &fakeSource{data: sampleData()}
	svc, _ := newTestService(t, src)
	ctx := context.Background()

	_, err := svc.Lookup(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(ctx))
	_, err = svc.Lookup(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, src.calls.Load())
}

func TestLookupSharesConcurrentFetch(t *testing.T) {
	src := &fakeSource{data: sampleData(), delay: 50 * time.Millisecond}
	svc := NewService(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := svc.Lookup(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "Indonesia", data.Label(ListCountries, "ID"))
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, src.calls.Load(), int32(2))
}

func TestLookupSourceFailure(t *testing.T) {
	boom := errors.New("backend down")
	svc, _ := newTestService(t, &fakeSource{err: boom})

	data, err := svc.Lookup(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, data)
}

func TestLookupEmptySourceYieldsEmptyData(t *testing.T) {
	svc := NewService(&fakeSource{}, nil, nil)

	data, err := svc.Lookup(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
}

func TestLookupHonoursCancelledContext(t *testing.T) {
	svc := NewService(&fakeSource{data: sampleData(), delay: 200 * time.Millisecond}, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Lookup(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
