package models

import "time"

// Where the sysObjectID of an identification came from.
const (
	SourceInventory = "inventory"
	SourceProbe     = "probe"
)

// Identification is the outcome of matching one inventory device against
// the DMF device table.
type Identification struct {
	Time        int64  `ch:"time" json:"time"`
	DeviceID    int32  `ch:"device_id" json:"device_id"`
	Hostname    string `ch:"hostname" json:"hostname"`
	SysName     string `ch:"sys_name" json:"sys_name"`
	SysObjectID string `ch:"sys_object_id" json:"sys_object_id"`
	Source      string `ch:"source" json:"source"`
	Matched     bool   `ch:"matched" json:"matched"`
	MIBName     string `ch:"mib_name" json:"mib_name"`
	MIBVersion  string `ch:"mib_version" json:"mib_version"`
	AutoCheck   string `ch:"auto_check" json:"auto_check"`
	Mappings    int    `ch:"mappings" json:"mappings"`
	Alarms      int    `ch:"alarms" json:"alarms"`
}

// NewIdentification starts an identification from the inventory row.
func NewIdentification(device *Device) *Identification {
	id := &Identification{
		Time:     time.Now().UTC().UnixMilli(),
		DeviceID: device.DeviceID,
	}
	if device.Hostname != nil {
		id.Hostname = *device.Hostname
	}
	if device.SysName != nil {
		id.SysName = *device.SysName
	}
	if device.SysObjectID != nil && *device.SysObjectID != "" {
		id.SysObjectID = *device.SysObjectID
		id.Source = SourceInventory
	}
	return id
}

// SetFamily copies the identifying fields of the matched family.
func (i *Identification) SetFamily(id DeviceID) {
	i.Matched = true
	i.MIBName = id.MIB
	i.AutoCheck = id.OID
	if id.Family != nil {
		i.MIBVersion = id.Family.Version
		i.Mappings = CountMappings(id.Family.SNMP)
		i.Alarms = CountAlarms(id.Family.Alarms)
	}
}
