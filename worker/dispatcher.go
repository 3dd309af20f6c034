package worker

import (
	"context"
	"time"

	"github.com/logingood/nut-dmf/devices"
	"github.com/logingood/nut-dmf/models"
	"github.com/logingood/nut-dmf/snmp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Queue struct {
	logger     *zap.Logger
	inventory  devices.Devices
	jobChan    chan *models.Device
	interval   time.Duration
	processor  snmp.DecorateFunc
	table      []models.DeviceID
	probe      bool
	eg         *errgroup.Group
	numWorkers int
}

// New returns a queue identifying the devices of inventory against table
// and handing the results to processor. With probe set, devices the
// inventory has no sysObjectID for are asked over SNMP.
func New(logger *zap.Logger, inventory devices.Devices, interval time.Duration, processor snmp.DecorateFunc,
	table []models.DeviceID, probe bool, eg *errgroup.Group, numWorkers, queueLength int) *Queue {
	logger.Info("created new queue")
	jobChan := make(chan *models.Device, queueLength)
	return &Queue{
		logger:     logger,
		inventory:  inventory,
		jobChan:    jobChan,
		interval:   interval,
		processor:  processor,
		table:      table,
		probe:      probe,
		numWorkers: numWorkers,
		eg:         eg,
	}
}

// StartDispatcher lists the inventory now and then every interval, until
// ctx is done. It closes the job channel on return.
func (q *Queue) StartDispatcher(ctx context.Context) error {
	defer close(q.jobChan)
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()
	q.logger.Info("start dispatcher to run every", zap.Duration("interval", q.interval))

	for {
		if err := q.dispatch(ctx); err != nil {
			return err
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			q.logger.Info("stopping dispatcher")
			return nil
		}
	}
}

func (q *Queue) dispatch(ctx context.Context) error {
	q.logger.Info("woke up to list devices")
	devs, err := q.inventory.ListDevices(ctx)
	if err != nil {
		return err
	}
	q.logger.Info("found devices", zap.Int("devices", len(devs)))
	for i := range devs {
		dev := &devs[i]
		select {
		case q.jobChan <- dev:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (q *Queue) StartWorkerPool(ctx context.Context) error {
	q.logger.Info("starting worker pool", zap.Int("workers", q.numWorkers))
	for i := 0; i < q.numWorkers; i++ {
		q.eg.Go(func() error {
			for job := range q.jobChan {
				if err := q.worker(ctx, job); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return nil
}

func (q *Queue) worker(ctx context.Context, job *models.Device) error {
	select {
	case <-ctx.Done():
		q.logger.Info("worker is shutting down")
		return nil
	default:
		q.logger.Debug("received a job to process", zap.Int32("device_id", job.DeviceID))
		if err := q.process(job); err != nil {
			q.logger.Warn("identification failed", zap.Int32("device_id", job.DeviceID), zap.Error(err))
		}
		return ctx.Err()
	}
}

func (q *Queue) process(job *models.Device) error {
	id := models.NewIdentification(job)

	// inventory only: the sink and the matcher
	if !q.probe || id.SysObjectID != "" {
		return snmp.Compose(q.processor, snmp.Identifier(q.logger, q.table, nil))(id)
	}

	s := snmp.New(job, q.logger)
	if s == nil {
		return snmp.Compose(q.processor, snmp.Identifier(q.logger, q.table, nil))(id)
	}
	defer s.Close()

	identify := snmp.Compose(
		// hand the result over
		q.processor,

		// match against the dmf table, confirming over snmp
		snmp.Identifier(q.logger, q.table, s),
		s.GetSysObjectID, // always keep at the bottom
	)
	return identify(id)
}
