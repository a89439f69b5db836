package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testDump = `
-- legacy export
INSERT INTO anagrafica (id, nome, cognome, mail) VALUES (1, 'Mario', 'Rossi', 'mario@example.com');
INSERT INTO anagrafica (id, nome, cognome, mail) VALUES (2, 'Lucia', 'Bianchi', '0');
INSERT INTO anagrafica (id, nome, cognome, mail) VALUES (3, 'Paolo', 'Rossi', '');
INSERT INTO genealogical_tree_template (id, title, template) VALUES (5, 'Standard', 'st1');
INSERT INTO genealogical_tree (id, pid, gttid, flag_active) VALUES (7, 1, 5, 1);
INSERT INTO genealogical_tree_person (id, gtid, pid, trid, position, traid) VALUES (1, 7, 1, 0, 'alto', 1);
INSERT INTO genealogical_tree_person (id, gtid, pid, trid, position, traid) VALUES (2, 7, 2, 0, 'alto', 1);
INSERT INTO genealogical_tree_person (id, gtid, pid, trid, position, traid) VALUES (3, 7, 3, 0, 'basso', 2);
`

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := sqlite.Open(filepath.Join(dir, "router_test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(ctx, db, zap.NewNop()))

	dumpPath := filepath.Join(dir, "dump.sql")
	require.NoError(t, os.WriteFile(dumpPath, []byte(testDump), 0o600))

	reg := prometheus.NewRegistry()
	service := application.NewMigrationService(
		sqlite.NewLegacyRepository(db),
		sqlite.NewTargetRepository(db),
		application.WithMetrics(application.NewMetrics(reg)),
		application.WithPasswordCost(bcrypt.MinCost),
	)
	return NewRouter(service, dumpPath, zap.NewNop(), reg), dumpPath
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestMigrationEndpointsBeforeImport(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, body := do(t, h, http.MethodGet, "/migration/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["migration_ready"])

	rec, body = do(t, h, http.MethodGet, "/migration/available-trees", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = do(t, h, http.MethodPost, "/migration/migrate-core-data", `{"scope":"core"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = do(t, h, http.MethodPost, "/migration/migrate-tree/7", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, application.ErrLegacyNotImported.Error(), body["message"])

	rec, body = do(t, h, http.MethodPost, "/migration/migrate-all-trees", `{"scope":"core"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, application.ErrLegacyNotImported.Error(), body["message"])
}

func TestMigrationRequestValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/migration/migrate-all-trees", `{"scope":"everything"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/migration/migrate-tree/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/migration/migrate-tree/0", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/migration/import-old-database", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportAndMigrateTree(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, body := do(t, h, http.MethodPost, "/migration/import-old-database", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := body["data"].(map[string]any)
	assert.Equal(t, float64(8), result["executed"])
	assert.Equal(t, float64(0), result["failed"])

	rec, body = do(t, h, http.MethodPost, "/migration/import-old-database", `{"force":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["skipped"])

	rec, body = do(t, h, http.MethodGet, "/migration/available-trees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, _ = do(t, h, http.MethodPost, "/migration/migrate-tree/99", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = do(t, h, http.MethodPost, "/migration/migrate-tree/7", `{"scope":"complete"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := body["data"].(map[string]any)
	tree := data["result"].(map[string]any)
	assert.Equal(t, float64(3), tree["nodes_count"])
	assert.Equal(t, float64(3), tree["edges_count"])
	flow := data["flow"].(map[string]any)
	assert.Len(t, flow["nodes"], 3)

	rec, _ = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "liveforever_migrate_trees_total")
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
}
