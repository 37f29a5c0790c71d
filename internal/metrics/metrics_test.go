package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReconcile(t *testing.T) {
	before := testutil.CollectAndCount(ReconcileDuration)

	RecordReconcile(120*time.Millisecond, 7, nil)
	assert.Equal(t, float64(7), testutil.ToFloat64(CacheEntries))

	RecordReconcile(time.Second, 3, errors.New("store down"))
	assert.Equal(t, float64(7), testutil.ToFloat64(CacheEntries), "failed pass must not overwrite the gauge")

	assert.GreaterOrEqual(t, testutil.CollectAndCount(ReconcileDuration), before)
}

func TestRecordProviderBatch(t *testing.T) {
	okBefore := testutil.ToFloat64(ProviderBatches.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(ProviderBatches.WithLabelValues("error"))

	RecordProviderBatch(nil)
	RecordProviderBatch(errors.New("quota"))
	RecordProviderBatch(errors.New("quota"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ProviderBatches.WithLabelValues("ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(ProviderBatches.WithLabelValues("error")))
}
