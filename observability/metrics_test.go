package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCheckIncrementsCounterForOperation(t *testing.T) {
	before := testutil.ToFloat64(checksTotal.WithLabelValues("metrics_test_increment", "ok"))
	RecordCheck("metrics_test_increment", 0, 5.0)
	after := testutil.ToFloat64(checksTotal.WithLabelValues("metrics_test_increment", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordCheckRoutesErrorsToErrorStatus(t *testing.T) {
	before := testutil.ToFloat64(checksTotal.WithLabelValues("metrics_test_errors", "errors"))
	RecordCheck("metrics_test_errors", 2, 5.0)
	after := testutil.ToFloat64(checksTotal.WithLabelValues("metrics_test_errors", "errors"))
	require.Equal(t, before+1, after)
}
