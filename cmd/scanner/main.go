package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/logingood/nut-dmf/config"
	"github.com/logingood/nut-dmf/devices/sql"
	"github.com/logingood/nut-dmf/dmfsnmp"
	"github.com/logingood/nut-dmf/functions"
	"github.com/logingood/nut-dmf/internal/lgr"
	"github.com/logingood/nut-dmf/storer/chouse"
	"github.com/logingood/nut-dmf/worker"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var cfg config.FromEnv
	if err := envconfig.Process(ctx, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "cannot read config: %v\n", err)
		os.Exit(1)
	}
	logger := lgr.InitializeLogger(cfg.LogLevel)
	defer logger.Sync()

	// handle ctrl + c
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()

	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	var opts []dmfsnmp.Option
	if cfg.DmfFunctions {
		opts = append(opts, dmfsnmp.WithEvaluator(functions.NewLua(logger)))
	}
	parser := dmfsnmp.New(logger, opts...)
	defer parser.Destroy()
	if err := parser.ParseDir(cfg.DmfDir); err != nil {
		logger.Fatal("cannot load dmf directory", zap.String("dir", cfg.DmfDir), zap.Error(err))
	}
	logger.Info("loaded dmf device table", zap.Int("devices", parser.TableCounter()-1))

	db, err := sqlx.Connect("mysql", getConnStringFromCfg(&cfg))
	if err != nil {
		logger.Fatal("error create mysql conn", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("db did not ping", zap.Error(err))
	}

	dbClient := sql.New(db, logger, cfg.DbQuery)

	chConn, err := clickhouse.Open(getClickHouseConn(&cfg))
	if err != nil {
		logger.Fatal("error open clickhouse conn", zap.Error(err))
	}
	defer chConn.Close()

	// the storer outlives ctrl + c so that queued identifications get flushed
	storerGroup, sctx := errgroup.WithContext(context.Background())
	storer := chouse.New(logger, chConn, cfg.ClickhouseQueueLength, cfg.ClickhouseDb, cfg.ClickhouseTableName,
		cfg.ClickhouseBatchSize, time.Duration(cfg.ClickhouseFlushFrequency)*time.Second)
	if err := storer.InitDb(sctx); err != nil {
		logger.Fatal("error init db", zap.Error(err))
	}
	storer.StartQueue(sctx, storerGroup)

	workerGroup, wctx := errgroup.WithContext(ctx)
	q := worker.New(logger, dbClient, time.Duration(cfg.ScanIntervalSeconds)*time.Second, storer.Write,
		parser.DeviceTable(), cfg.ProbeMissingSysOID, workerGroup, cfg.WorkersNum, cfg.WorkersNum)
	if err := q.StartWorkerPool(wctx); err != nil {
		logger.Fatal("error start worker pool", zap.Error(err))
	}
	workerGroup.Go(func() error {
		return q.StartDispatcher(wctx)
	})

	if err := workerGroup.Wait(); err != nil && err != context.Canceled {
		logger.Error("error occurred", zap.Error(err))
	}
	storer.Close()
	if err := storerGroup.Wait(); err != nil {
		logger.Error("error flushing identifications", zap.Error(err))
	}
	logger.Info("have a jolly day")
}

func getConnStringFromCfg(cfg *config.FromEnv) string {
	return fmt.Sprintf("%s:%s@(%s:%s)/%s", cfg.DbUsername, cfg.DbPassword, cfg.DbHost, cfg.DbPort, cfg.DbName)
}

func getClickHouseConn(cfg *config.FromEnv) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.ClickhouseAddr, cfg.ClickhousePort)},
		Auth: clickhouse.Auth{
			Database: cfg.ClickhouseDb,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}
