package snmp

import (
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
)

// Getter reads single OIDs from a device. *Client implements it.
type Getter interface {
	Get(oid string) (value string, present bool, err error)
}

var _ Getter = (*Client)(nil)

// Match returns the first row of a sentinel-terminated device table whose
// sysOID equals sysOID, ignoring leading dots.
func Match(table []models.DeviceID, sysOID string) (models.DeviceID, bool) {
	sysOID = NormalizeOID(sysOID)
	if sysOID == "" {
		return models.DeviceID{}, false
	}
	for _, id := range table {
		if id.IsSentinel() {
			break
		}
		if NormalizeOID(id.SysOID) == sysOID {
			return id, true
		}
	}
	return models.DeviceID{}, false
}

// Identify finds the family of a device. Rows whose sysOID matches are
// confirmed by reading their auto_check OID, rows without one match
// outright. When nothing matched, every auto_check OID of the table is
// tried in turn. A nil getter skips the confirmation reads and accepts the
// first sysOID match.
func Identify(table []models.DeviceID, sysOID string, g Getter) (models.DeviceID, bool) {
	if g == nil {
		return Match(table, sysOID)
	}

	sysOID = NormalizeOID(sysOID)
	if sysOID != "" {
		for _, id := range table {
			if id.IsSentinel() {
				break
			}
			if NormalizeOID(id.SysOID) != sysOID {
				continue
			}
			if id.OID == "" {
				return id, true
			}
			if _, ok, err := g.Get(id.OID); err == nil && ok {
				return id, true
			}
		}
	}

	for _, id := range table {
		if id.IsSentinel() {
			break
		}
		if id.OID == "" {
			continue
		}
		if _, ok, err := g.Get(id.OID); err == nil && ok {
			return id, true
		}
	}
	return models.DeviceID{}, false
}

// GetSysObjectID reads the sysObjectID of the device unless the inventory
// already had it. Keep it at the bottom of a composition: it connects.
func (c *Client) GetSysObjectID(decorator DecorateFunc) DecorateFunc {
	return func(id *models.Identification) error {
		if err := c.Connect(); err != nil {
			return err
		}
		if id.SysObjectID == "" {
			sysOID, err := c.SysObjectID()
			if err != nil {
				c.logger.Warn("could not read sysObjectID", zap.String("hostname", id.Hostname), zap.Error(err))
			} else {
				id.SysObjectID = sysOID
				id.Source = models.SourceProbe
			}
		}
		return decorator(id)
	}
}

// Identifier matches identifications against a device table, confirming
// candidates through getter when it is not nil.
func Identifier(logger *zap.Logger, table []models.DeviceID, getter Getter) Decorator {
	return func(decorator DecorateFunc) DecorateFunc {
		return func(id *models.Identification) error {
			match, ok := Identify(table, id.SysObjectID, getter)
			if ok {
				id.SetFamily(match)
				logger.Debug("identified device", zap.String("hostname", id.Hostname), zap.String("mib", match.MIB))
			} else {
				logger.Debug("no dmf family for device", zap.String("hostname", id.Hostname), zap.String("sysoid", id.SysObjectID))
			}
			return decorator(id)
		}
	}
}
