package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/metrics"
)

func TestRecorder(t *testing.T) {
	r := metrics.NewRecorder()
	r.TaskFinished("styles", true, 120*time.Millisecond)
	r.TaskFinished("styles", false, 30*time.Millisecond)
	r.TaskFinished("copy", true, time.Millisecond)
	r.ReloadSent("css")
	r.ReloadSent("reload")
	r.ReloadSent("reload")
	r.SetClients(3)

	n, err := testutil.GatherAndCount(r.Registry(), "assetpipe_task_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = testutil.GatherAndCount(r.Registry(), "assetpipe_browser_notifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = testutil.GatherAndCount(r.Registry(), "assetpipe_task_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	const want = `
# HELP assetpipe_livereload_clients Connected live-reload clients
# TYPE assetpipe_livereload_clients gauge
assetpipe_livereload_clients 3
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(want), "assetpipe_livereload_clients"))
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.NewRecorder()
	r.TaskFinished("scripts", true, 50*time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `assetpipe_task_runs_total{result="success",task="scripts"} 1`)
}
