package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestFromEnv(t *testing.T) {
	lookuper := envconfig.MapLookuper(map[string]string{
		"DMF_DIR":             "/usr/share/nut/dmf",
		"DMF_FUNCTIONS":       "true",
		"DB_USERNAME":         "librenms",
		"DB_PASSWORD":         "secret",
		"DB_HOST":             "db",
		"DB_PORT":             "3306",
		"DB_NAME":             "librenms",
		"CLICKHOUSE_DB":       "nut",
		"CLICKHOUSE_USERNAME": "default",
		"CLICKHOUSE_PASSWORD": "secret",
		"CLICKHOUSE_ADDR":     "clickhouse",
		"CLICKHOUSE_PORT":     "9000",
	})

	var cfg FromEnv
	if err := envconfig.ProcessWith(context.Background(), &cfg, lookuper); err != nil {
		t.Fatalf("ProcessWith() = %v", err)
	}
	if cfg.DmfDir != "/usr/share/nut/dmf" || !cfg.DmfFunctions {
		t.Fatalf("unexpected dmf settings %+v", cfg)
	}
	if cfg.ScanIntervalSeconds != 300 || cfg.WorkersNum != 10 || cfg.ClickhouseTableName != "dmf_identifications" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestFromEnvRequiresDmfDir(t *testing.T) {
	var cfg FromEnv
	err := envconfig.ProcessWith(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatal("expected an error without DMF_DIR")
	}
}
