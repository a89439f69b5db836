package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
)

func doStatus(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "migration.status", nil, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/migration/status", nil, out)
}

func doTrees(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "migration.trees", nil, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/migration/available-trees", nil, out)
}

func doImport(ctx context.Context, cfg cliConfig, force bool, out any) error {
	in := map[string]any{"force": force}
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "migration.import", in, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, "/migration/import-old-database", in, out)
}

func doMigrateTree(ctx context.Context, cfg cliConfig, treeID uint, scope application.Scope, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "migration.tree", map[string]any{"tree_id": treeID, "scope": scope}, out)
	}
	path := "/migration/migrate-tree/" + uintToString(treeID)
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, path, map[string]any{"scope": scope}, out)
}

func doMigrateAll(ctx context.Context, cfg cliConfig, scope application.Scope, out any) error {
	in := map[string]any{"scope": scope}
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "migration.all", in, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, "/migration/migrate-all-trees", in, out)
}

func doRun(ctx context.Context, cfg cliConfig, scope application.Scope, out any) error {
	in := map[string]any{"scope": scope}
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "migration.run", in, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, "/migration/migrate-core-data", in, out)
}

func uintToString(v uint) string {
	return fmt.Sprintf("%d", v)
}
