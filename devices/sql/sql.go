package sql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/logingood/nut-dmf/devices"
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
)

// ListQuery selects the SNMP enabled devices of a LibreNMS inventory.
const ListQuery = `SELECT device_id, hostname, sysName, community, authlevel, authname, authpass, authalgo, cryptopass, cryptoalgo, snmpver, port, transport, sysObjectID, sysDescr, hardware, os, status FROM devices WHERE snmp_disable = 0;`

type Client struct {
	db     *sqlx.DB
	logger *zap.Logger
	query  string
}

var _ devices.Devices = (*Client)(nil)

// New returns an inventory client. An empty query selects ListQuery.
func New(db *sqlx.DB, logger *zap.Logger, query string) *Client {
	if query == "" {
		query = ListQuery
	}
	return &Client{
		db:     db,
		logger: logger,
		query:  query,
	}
}

func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	err := c.db.SelectContext(ctx, &devices, c.query)
	if err != nil {
		c.logger.Error("error list devices", zap.Error(err))
	}
	return devices, err
}
