package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrDumpNotFound      = errors.New("sql dump not found")
	ErrLegacyNotImported = errors.New("legacy database not imported")
	ErrTreeNotFound      = errors.New("legacy tree not found or inactive")
)

const DefaultDumpPath = "storage/app/Sql1706700_3.sql"

var (
	requiredLegacyTables = []string{"anagrafica", "genealogical_tree"}
	dropTablePattern     = regexp.MustCompile(`(?is)^DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?(.+)$`)
)

type ImportResult struct {
	Path          string   `json:"path"`
	CreatedTables []string `json:"created_tables"`
	Statements    int      `json:"statements"`
	Executed      int      `json:"executed"`
	Failed        int      `json:"failed"`
	Ignored       int      `json:"ignored"`
	Skipped       bool     `json:"skipped"`
}

type Importer struct {
	legacy  domain.LegacyRepository
	logger  *zap.Logger
	metrics *Metrics
}

func NewImporter(legacy domain.LegacyRepository, logger *zap.Logger, metrics *Metrics) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{legacy: legacy, logger: logger, metrics: metrics}
}

// Import creates the legacy tables and executes every statement of the dump
// at path. Statement failures are logged and counted; only a missing dump or
// a schema error aborts. An already imported database is left alone unless
// force is set.
func (i *Importer) Import(ctx context.Context, path string, force bool) (ImportResult, error) {
	if path == "" {
		path = DefaultDumpPath
	}
	result := ImportResult{Path: path}

	if !force {
		imported, err := i.IsImported(ctx)
		if err != nil {
			return result, err
		}
		if imported {
			result.Skipped = true
			i.logger.Info("legacy database already imported, skipping", zap.String("path", path))
			return result, nil
		}
	}

	dump, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w at: %s", ErrDumpNotFound, path)
		}
		return result, fmt.Errorf("read sql dump: %w", err)
	}

	created, err := i.legacy.EnsureSchema(ctx)
	if err != nil {
		return result, fmt.Errorf("create legacy tables: %w", err)
	}
	result.CreatedTables = created

	statements := SplitStatements(string(dump))
	result.Statements = len(statements)
	for _, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if dropsLegacyTable(stmt) {
			result.Ignored++
			i.metrics.statement("ignored")
			i.logger.Info("ignoring drop of legacy table", zap.String("statement", statementPreview(stmt)))
			continue
		}
		if err := i.legacy.Exec(ctx, stmt); err != nil {
			result.Failed++
			i.metrics.statement("failed")
			i.logger.Warn("failed to execute sql statement",
				zap.String("statement", statementPreview(stmt)),
				zap.Error(err),
			)
			continue
		}
		result.Executed++
		i.metrics.statement("executed")
	}

	i.logger.Info("legacy dump imported",
		zap.String("path", path),
		zap.Int("statements", result.Statements),
		zap.Int("executed", result.Executed),
		zap.Int("failed", result.Failed),
		zap.Int("ignored", result.Ignored),
	)
	return result, nil
}

func (i *Importer) IsImported(ctx context.Context) (bool, error) {
	ok, err := i.legacy.HasTables(ctx, requiredLegacyTables...)
	if err != nil || !ok {
		return false, err
	}
	count, err := i.legacy.CountPeople(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Stats returns nil when the legacy database is not imported.
func (i *Importer) Stats(ctx context.Context) (*domain.LegacyStats, error) {
	imported, err := i.IsImported(ctx)
	if err != nil || !imported {
		return nil, err
	}
	stats, err := i.legacy.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// dropsLegacyTable reports whether stmt drops one of the tables the importer
// created. Dumps usually drop and recreate their tables with a dialect the
// target cannot parse, which would leave the table missing.
func dropsLegacyTable(stmt string) bool {
	m := dropTablePattern.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return false
	}
	for _, name := range strings.Split(m[1], ",") {
		name = strings.Trim(strings.TrimSpace(name), "`\"")
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = strings.Trim(name[idx+1:], "`\"")
		}
		if slices.Contains(knownLegacyTables, strings.ToLower(name)) {
			return true
		}
	}
	return false
}
