package generator

import (
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
)

// latencyStats holds latency percentiles of a benchmark run.
type latencyStats struct {
	Mean   time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Stddev time.Duration
}

func calculateLatencyStats(latencies []time.Duration) latencyStats {
	if len(latencies) == 0 {
		return latencyStats{}
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, lat := range sorted {
		sum += lat
	}
	mean := sum / time.Duration(len(sorted))

	var variance float64
	for _, lat := range sorted {
		diff := float64(lat - mean)
		variance += diff * diff
	}
	variance /= float64(len(sorted))

	return latencyStats{
		Mean:   mean,
		P50:    sorted[len(sorted)/2],
		P95:    sorted[int(float64(len(sorted))*0.95)],
		P99:    sorted[int(float64(len(sorted))*0.99)],
		Stddev: time.Duration(math.Sqrt(variance)),
	}
}

// wideCluster returns a cluster with n POJO backed caches.
func wideCluster(n int) *models.Cluster {
	cluster := personCluster()
	cluster.Caches = nil

	for i := 0; i < n; i++ {
		cluster.Caches = append(cluster.Caches, models.CacheConfig{
			Name:      fmt.Sprintf("cache-%d", i),
			CacheMode: "PARTITIONED",
			StoreFactory: &models.StoreFactory{
				Kind:           models.StoreFactoryJdbcPojo,
				DataSourceBean: "dsH2",
				Dialect:        "H2",
			},
			Metadatas: []models.TypeMetadata{{
				DatabaseTable: fmt.Sprintf("T%d", i),
				KeyType:       "java.lang.Long",
				ValueType:     fmt.Sprintf("org.example.Value%d", i),
				ValueFields: []models.Field{
					{JavaName: "id", JavaType: "long", DatabaseName: "ID", DatabaseType: "BIGINT"},
					{JavaName: "label", JavaType: "java.lang.String", DatabaseName: "LABEL", DatabaseType: "VARCHAR"},
				},
			}},
		})
	}
	return cluster
}

func TestCalculateLatencyStats(t *testing.T) {
	latencies := make([]time.Duration, 0, 100)
	for i := 100; i >= 1; i-- {
		latencies = append(latencies, time.Duration(i)*time.Millisecond)
	}

	stats := calculateLatencyStats(latencies)
	assert.Equal(t, 51*time.Millisecond, stats.P50)
	assert.Equal(t, 100*time.Millisecond, stats.P99)
	assert.Positive(t, stats.Stddev)
	assert.Equal(t, latencyStats{}, calculateLatencyStats(nil))
}

func BenchmarkExport(b *testing.B) {
	for _, caches := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("caches=%d", caches), func(b *testing.B) {
			gen := New()
			builder := bundle.NewBuilder(gen)
			cluster := wideCluster(caches)
			latencies := make([]time.Duration, 0, b.N)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				start := time.Now()
				payload, err := gen.Payload(cluster)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := builder.Export(cluster, payload); err != nil {
					b.Fatal(err)
				}
				latencies = append(latencies, time.Since(start))
			}
			b.StopTimer()

			stats := calculateLatencyStats(latencies)
			b.ReportMetric(float64(stats.P50.Microseconds()), "p50-µs")
			b.ReportMetric(float64(stats.P95.Microseconds()), "p95-µs")
			b.ReportMetric(float64(stats.P99.Microseconds()), "p99-µs")
		})
	}
}
