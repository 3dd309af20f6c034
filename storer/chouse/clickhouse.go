package chouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ClickhouseClient struct {
	dbName         string
	tableName      string
	flushBatchSize int
	flushInterval  time.Duration
	conn           driver.Conn
	queue          chan *models.Identification
	logger         *zap.Logger
}

func New(logger *zap.Logger, conn driver.Conn, queueSize int, dbName, tableName string, flushBatchSize int, flushInterval time.Duration,
) *ClickhouseClient {
	if flushBatchSize < 1 {
		flushBatchSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = time.Minute
	}
	return &ClickhouseClient{
		logger:         logger,
		conn:           conn,
		queue:          make(chan *models.Identification, queueSize),
		dbName:         dbName,
		tableName:      tableName,
		flushBatchSize: flushBatchSize,
		flushInterval:  flushInterval,
	}
}

// Write enqueues one identification; it is the sink of the scanner pipeline.
func (c *ClickhouseClient) Write(id *models.Identification) error {
	c.logger.Debug("enqueue identification", zap.String("hostname", id.Hostname), zap.Bool("matched", id.Matched))
	c.queue <- id
	return nil
}

// Close stops accepting identifications; the queue flushes what it holds.
func (c *ClickhouseClient) Close() {
	close(c.queue)
}

func (c *ClickhouseClient) StartQueue(ctx context.Context, errGroup *errgroup.Group) {
	errGroup.Go(func() error {
		ticker := time.NewTicker(c.flushInterval)
		defer ticker.Stop()

		ids := []*models.Identification{}
		flush := func() {
			if len(ids) == 0 {
				return
			}
			c.logger.Info("insert time", zap.Int("identifications", len(ids)))
			if err := c.insert(ctx, ids); err != nil {
				c.logger.Error("error inserting identifications", zap.Error(err))
			}
			ids = nil
		}

		for {
			select {
			case j, ok := <-c.queue:
				if !ok {
					flush()
					return nil
				}
				ids = append(ids, j)
				if len(ids) >= c.flushBatchSize {
					flush()
				}
			case <-ticker.C:
				flush()
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

func (c *ClickhouseClient) insert(ctx context.Context, ids []*models.Identification) error {
	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s", c.dbName, c.tableName))
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := batch.Append(
			id.Time,
			id.DeviceID,
			id.Hostname,
			id.SysName,
			id.SysObjectID,
			id.Source,
			id.Matched,
			id.MIBName,
			id.MIBVersion,
			id.AutoCheck,
			int32(id.Mappings),
			int32(id.Alarms),
		); err != nil {
			return err
		}
	}
	if err := batch.Send(); err != nil {
		return err
	}
	c.logger.Info("sent successfully", zap.Int("identifications", len(ids)))
	return nil
}

func (c *ClickhouseClient) InitDb(ctx context.Context) error {
	stm := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		time Int64,
		device_id Int32,
		hostname VARCHAR(255),
		sys_name VARCHAR(255),
		sys_object_id VARCHAR(255),
		source LowCardinality(String),
		matched Bool,
		mib_name VARCHAR(255),
		mib_version VARCHAR(64),
		auto_check VARCHAR(255),
		mappings Int32,
		alarms Int32
	)
	ENGINE = MergeTree
	ORDER BY (device_id, time)`,
		c.dbName, c.tableName)
	return c.conn.Exec(ctx, stm)
}
