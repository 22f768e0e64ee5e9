package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	_ "modernc.org/sqlite"
)

// freshRegistry swaps in an empty registry for one test.
func freshRegistry(t *testing.T) {
	t.Helper()
	original := Registry
	Registry = prometheus.NewRegistry()
	t.Cleanup(func() { Registry = original })
}

func gathered(t *testing.T) map[string]bool {
	t.Helper()
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestInit_RegistersAllGroups(t *testing.T) {
	freshRegistry(t)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/summary", "200").Inc()
	RateLimitChecks.WithLabelValues("ip", "true").Inc()
	DBQueriesTotal.WithLabelValues("clusters_list", "success").Inc()
	ExportsTotal.WithLabelValues("success").Inc()
	SummaryOperations.WithLabelValues("select", "success").Inc()
	BundleDownloads.WithLabelValues("sent").Inc()

	names := gathered(t)
	for _, want := range []string{
		"go_goroutines",
		"gridcfg_http_requests_total",
		"gridcfg_ratelimit_checks_total",
		"gridcfg_db_queries_total",
		"gridcfg_exports_total",
		"gridcfg_summary_operations_total",
		"gridcfg_bundle_downloads_total",
		"gridcfg_clusters",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestInit_IdempotentPerRegistry(t *testing.T) {
	freshRegistry(t)

	if err := Init(); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	if err := Init(); err != nil {
		t.Errorf("second Init() error = %v", err)
	}

	// A replaced registry gets its own registration.
	Registry = prometheus.NewRegistry()
	if err := Init(); err != nil {
		t.Fatalf("Init() on new registry error = %v", err)
	}
	if !gathered(t)["go_goroutines"] {
		t.Error("new registry is empty after Init()")
	}
}

func TestMustInit(t *testing.T) {
	freshRegistry(t)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustInit() panicked: %v", r)
		}
	}()
	MustInit()
}

func TestRegisterDB(t *testing.T) {
	freshRegistry(t)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	if err := RegisterDB(db); err != nil {
		t.Fatalf("RegisterDB() error = %v", err)
	}
	if !gathered(t)["go_sql_max_open_connections"] {
		t.Error("connection pool stats not exported")
	}
}

func TestObserveQuery(t *testing.T) {
	DBQueriesTotal.Reset()

	ObserveQuery("clusters_list", time.Now(), nil)
	ObserveQuery("clusters_list", time.Now(), errors.New("boom"))
	ObserveQuery("clusters_list", time.Now(), nil)

	if got := testutil.ToFloat64(DBQueriesTotal.WithLabelValues("clusters_list", "success")); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(DBQueriesTotal.WithLabelValues("clusters_list", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestStatus(t *testing.T) {
	if Status(nil) != "success" {
		t.Errorf("Status(nil) = %q", Status(nil))
	}
	if Status(errors.New("x")) != "error" {
		t.Errorf("Status(err) = %q", Status(errors.New("x")))
	}
}
