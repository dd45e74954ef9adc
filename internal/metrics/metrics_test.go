package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEngagementMutationsCounter(t *testing.T) {
	before := testutil.ToFloat64(EngagementMutations.WithLabelValues(MutationCommentAdded))
	EngagementMutations.WithLabelValues(MutationCommentAdded).Inc()
	after := testutil.ToFloat64(EngagementMutations.WithLabelValues(MutationCommentAdded))

	assert.Equal(t, before+1, after)
}

func TestAggregationSliceFailuresCounter(t *testing.T) {
	AggregationSliceFailures.WithLabelValues("stats").Add(2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(AggregationSliceFailures.WithLabelValues("stats")), 2.0)
}
