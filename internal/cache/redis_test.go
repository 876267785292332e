package cache

import (
	"context"
	"testing"

	"forum/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	InitRedis("redis://" + mr.Addr() + "/0")
	require.NotNil(t, GetClient())
	t.Cleanup(func() { _ = GetClient().Close() })

	require.NoError(t, GetClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	InitRedis(addr)
	assert.Nil(t, GetClient())
}

func TestInitRedis_InvalidURL(t *testing.T) {
	InitRedis("http://localhost:6379")
	assert.Nil(t, GetClient())
}

func TestMetricsHook_CountsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	before := counterValue(t, observability.RedisErrorRate.WithLabelValues("incr"))

	require.NoError(t, c.Set(context.Background(), "name", "not-a-number", 0).Err())
	assert.Error(t, c.Incr(context.Background(), "name").Err())

	after := counterValue(t, observability.RedisErrorRate.WithLabelValues("incr"))
	assert.Equal(t, before+1, after)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}
