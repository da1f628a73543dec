// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDefault(t *testing.T) {
	// meters work before initialization, as no-ops
	Counter("before_init_count").Add(1)
	Gauge("before_init_gauge").Set(5)
	assert.Nil(t, HTTPHandler())
}

func TestPrometheusMeters(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("test_count").Add(3)
	Counter("test_count").Add(2)
	Gauge("test_gauge").Set(7)
	CounterVec("test_count_vec", []string{"op"}).AddWithLabel(1, map[string]string{"op": "stake"})
	Histogram("test_histogram", BucketHTTPReqs).Observe(250)
	HistogramVec("test_histogram_vec", []string{"path"}, BucketHTTPReqs).ObserveWithLabels(250, map[string]string{"path": "tasks"})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := make(map[string]float64)
	for _, fam := range families {
		switch fam.GetName() {
		case namespace + "_test_count":
			found[fam.GetName()] = fam.GetMetric()[0].GetCounter().GetValue()
		case namespace + "_test_gauge":
			found[fam.GetName()] = fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, float64(5), found[namespace+"_test_count"])
	assert.Equal(t, float64(7), found[namespace+"_test_gauge"])
	assert.NotNil(t, HTTPHandler())
}
