package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/config"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := stdout
	stdout = buf
	t.Cleanup(func() { stdout = prev })
	return buf
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitUsage, exitCode(withCode(exitUsage, errors.New("bad flag"))))
	assert.Nil(t, withCode(exitUsage, nil))

	wrapped := fmt.Errorf("tree 9: %w", application.ErrTreeNotFound)
	assert.Equal(t, exitLegacyMissing, exitCode(classify(wrapped)))
	assert.Equal(t, exitLegacyMissing, exitCode(classify(application.ErrDumpNotFound)))
	assert.Equal(t, exitFailure, exitCode(classify(errors.New("other"))))
	assert.ErrorIs(t, classify(wrapped), application.ErrTreeNotFound)

	assert.Equal(t, exitLegacyMissing, rpcExitCode(40400))
	assert.Equal(t, exitUsage, rpcExitCode(-32602))
	assert.Equal(t, exitUsage, httpExitCode(http.StatusBadRequest))
}

func TestAPIClientUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/migration/available-trees":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":7,"pid":1,"template_title":"Standard"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"legacy tree not found or inactive: 9"}`))
		}
	}))
	defer srv.Close()

	cfg := cliConfig{Transport: "http", Server: srv.URL + "/"}
	var trees []domain.AvailableTree
	require.NoError(t, doTrees(context.Background(), cfg, &trees))
	require.Len(t, trees, 1)
	assert.Equal(t, uint(7), trees[0].ID)
	assert.Equal(t, "Standard", trees[0].TemplateTitle)

	err := doMigrateTree(context.Background(), cfg, 9, application.ScopeCore, nil)
	require.Error(t, err)
	assert.Equal(t, exitLegacyMissing, exitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, cliConfig{Transport: "uds", Server: defaultServer, Socket: defaultSocket}, cfg)

	require.NoError(t, saveConfig(cliConfig{Transport: "http", Server: "http://migrate:9000"}))
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "http://migrate:9000", cfg.Server)
	assert.Equal(t, defaultSocket, cfg.Socket)
}

func TestPrintBatch(t *testing.T) {
	out := captureStdout(t)
	printBatch(application.BatchResult{
		Trees: []application.TreeResult{
			{OldTreeID: 1, NewTreeID: 10, Status: application.StatusSuccess, NodesCount: 3, EdgesCount: 2},
			{OldTreeID: 2, Status: application.StatusFailed, Error: "owner missing"},
		},
		SuccessCount: 1,
		ErrorCount:   1,
	})
	assert.Contains(t, out.String(), "OLD_TREE")
	assert.Contains(t, out.String(), "owner missing")
	assert.Contains(t, out.String(), "1 succeeded, 1 failed")
}

func TestPrintImportSkipped(t *testing.T) {
	out := captureStdout(t)
	printImportResult(application.ImportResult{Skipped: true})
	assert.Contains(t, out.String(), "already imported")
}

func TestRuntimeCloseReleasesDatabase(t *testing.T) {
	a := &app{cfg: config.Config{BcryptCost: 4, EmailDomain: "example.org"}, logger: zap.NewNop()}
	ctx := context.Background()

	rt, err := a.open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	require.NoError(t, rt.db.PingContext(ctx))

	status, err := rt.service.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.MigrationReady)

	require.NoError(t, rt.Close())
	assert.Error(t, rt.db.PingContext(ctx))
}
