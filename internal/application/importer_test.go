package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sampleDump = "DROP TABLE IF EXISTS `anagrafica`;\n" +
	"CREATE TABLE `notes` (id int);\n" +
	"INSERT INTO `broken` VALUES (1);\n" +
	"INSERT INTO `anagrafica` (`id`, `nome`) VALUES (1, 'Mario');\n"

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportMissingDump(t *testing.T) {
	importer := NewImporter(newFakeLegacy(), nil, nil)

	_, err := importer.Import(context.Background(), filepath.Join(t.TempDir(), "nope.sql"), false)
	require.ErrorIs(t, err, ErrDumpNotFound)
	assert.Contains(t, err.Error(), "nope.sql")
}

func TestImportCountsAndLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	legacy := newFakeLegacy()
	legacy.failExec = "broken"
	metrics := NewMetrics(prometheus.NewRegistry())
	importer := NewImporter(legacy, zap.New(core), metrics)

	result, err := importer.Import(context.Background(), writeDump(t, sampleDump), false)
	require.NoError(t, err)

	assert.ElementsMatch(t, knownLegacyTables, result.CreatedTables)
	assert.Equal(t, 4, result.Statements)
	assert.Equal(t, 2, result.Executed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Ignored)
	assert.False(t, result.Skipped)
	assert.Len(t, legacy.executed, 2)

	failures := logs.FilterMessage("failed to execute sql statement").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "INSERT INTO `broken` VALUES (1)", failures[0].ContextMap()["statement"])

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.statements.WithLabelValues("executed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.statements.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.statements.WithLabelValues("ignored")))
}

func TestImportSkipsWhenAlreadyImported(t *testing.T) {
	legacy := newFakeLegacy().imported()
	legacy.addPerson(domain.LegacyPerson{ID: 1, FirstName: "Mario"})
	importer := NewImporter(legacy, nil, nil)
	path := writeDump(t, sampleDump)

	result, err := importer.Import(context.Background(), path, false)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, legacy.executed)

	result, err = importer.Import(context.Background(), path, true)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Empty(t, result.CreatedTables)
	assert.Equal(t, 3, result.Executed)
}

func TestImporterStats(t *testing.T) {
	legacy := newFakeLegacy().imported()
	importer := NewImporter(legacy, nil, nil)

	stats, err := importer.Stats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats, "no people means not imported")

	legacy.addPerson(domain.LegacyPerson{ID: 1})
	legacy.addTree(domain.LegacyTree{ID: 2, Active: true}, domain.LegacyTreeMembership{PersonID: 1})
	stats, err = importer.Stats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(1), stats.People)
	assert.Equal(t, int64(1), stats.Trees)
	assert.Equal(t, int64(1), stats.TreePeople)
}

func TestDropsLegacyTable(t *testing.T) {
	cases := []struct {
		stmt string
		want bool
	}{
		{stmt: "DROP TABLE anagrafica", want: true},
		{stmt: "drop table if exists `legacy`.`citta`", want: true},
		{stmt: "DROP TABLE IF EXISTS `logs`, `genealogical_tree`", want: true},
		{stmt: "DROP TABLE IF EXISTS `logs`", want: false},
		{stmt: "DELETE FROM anagrafica", want: false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dropsLegacyTable(tc.stmt), tc.stmt)
	}
}
