package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/formkiosk/internal/common"
	"github.com/dmitrijs2005/formkiosk/internal/logging"
	"github.com/dmitrijs2005/formkiosk/internal/pipeline"
)

type fakeStore struct {
	pending   []string
	removed   []string
	exportDir string
}

func (f *fakeStore) ListPending(ctx context.Context) ([]string, error) { return f.pending, nil }

func (f *fakeStore) Remove(ctx context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

func (f *fakeStore) ExportAll(ctx context.Context) (string, error) {
	if len(f.pending) == 0 {
		return "", common.ErrNothingToExport
	}
	return f.exportDir, nil
}

type fakeRetrier struct {
	oneErr error
	all    []pipeline.RetryOutcome
}

func (f *fakeRetrier) RetryOne(ctx context.Context, ref string) error { return f.oneErr }

func (f *fakeRetrier) RetryPending(ctx context.Context) ([]pipeline.RetryOutcome, error) {
	return f.all, nil
}

type fakeSession struct {
	paused  int
	resumed int
}

func (f *fakeSession) Pause()  { f.paused++ }
func (f *fakeSession) Resume() { f.resumed++ }

func newTestServer(t *testing.T, store *fakeStore, retrier *fakeRetrier, session *fakeSession) *httptest.Server {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(NewServer(store, retrier, session, log).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestOpenClose_PausesAndResumesSession(t *testing.T) {
	session := &fakeSession{}
	srv := newTestServer(t, &fakeStore{}, &fakeRetrier{}, session)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/open")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, 1, session.paused)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/close")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, 1, session.resumed)
}

func TestListPending(t *testing.T) {
	store := &fakeStore{pending: []string{"KSK-20260830-0001", "KSK-20260830-0002"}}
	srv := newTestServer(t, store, &fakeRetrier{}, &fakeSession{})

	status, body := doJSON(t, http.MethodGet, srv.URL+"/pending")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"KSK-20260830-0001", "KSK-20260830-0002"}, body["references"])
}

func TestListPending_Empty(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &fakeRetrier{}, &fakeSession{})

	status, body := doJSON(t, http.MethodGet, srv.URL+"/pending")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["references"])
}

func TestRetryOne(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &fakeRetrier{}, &fakeSession{})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/pending/KSK-20260830-0001/retry")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["uploaded"])
}

func TestRetryOne_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &fakeRetrier{oneErr: common.ErrNotFound}, &fakeSession{})

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/pending/KSK-20260830-9999/retry")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRetryOne_UploadFailure(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &fakeRetrier{oneErr: errors.New("server down")}, &fakeSession{})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/pending/KSK-20260830-0001/retry")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body["error"], "server down")
}

func TestRetryAll(t *testing.T) {
	retrier := &fakeRetrier{all: []pipeline.RetryOutcome{
		{Reference: "KSK-20260830-0001"},
		{Reference: "KSK-20260830-0002", Err: errors.New("still failing")},
	}}
	srv := newTestServer(t, &fakeStore{}, retrier, &fakeSession{})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/retry")
	assert.Equal(t, http.StatusOK, status)

	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	second := results[1].(map[string]any)
	assert.Equal(t, true, first["uploaded"])
	assert.Equal(t, false, second["uploaded"])
	assert.Contains(t, second["error"], "still failing")
}

func TestPurge(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(t, store, &fakeRetrier{}, &fakeSession{})

	status, _ := doJSON(t, http.MethodDelete, srv.URL+"/pending/KSK-20260830-0001")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, []string{"KSK-20260830-0001"}, store.removed)
}

func TestExport(t *testing.T) {
	store := &fakeStore{pending: []string{"KSK-20260830-0001"}, exportDir: "/data/export/batch-1"}
	srv := newTestServer(t, store, &fakeRetrier{}, &fakeSession{})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/export")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["exported"])
	assert.Equal(t, "/data/export/batch-1", body["path"])
}

func TestExport_NothingPending(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &fakeRetrier{}, &fakeSession{})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/export")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["exported"])
}
