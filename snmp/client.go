package snmp

import (
	"errors"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
)

// SysObjectIDOid is SNMPv2-MIB::sysObjectID.0.
const SysObjectIDOid = ".1.3.6.1.2.1.1.2.0"

var (
	ErrNotConnected = errors.New("snmp client is not connected")
	ErrNoSysOID     = errors.New("device did not return a sysObjectID")
)

type Client struct {
	client    *gosnmp.GoSNMP
	logger    *zap.Logger
	device    *models.Device
	connected bool
}

var authProtocols = map[string]gosnmp.SnmpV3AuthProtocol{
	"MD5":     gosnmp.MD5,
	"SHA":     gosnmp.SHA,
	"SHA-224": gosnmp.SHA224,
	"SHA-256": gosnmp.SHA256,
	"SHA-384": gosnmp.SHA384,
	"SHA-512": gosnmp.SHA512,
}

var privProtocols = map[string]gosnmp.SnmpV3PrivProtocol{
	"DES":       gosnmp.DES,
	"AES":       gosnmp.AES,
	"AES-192":   gosnmp.AES192,
	"AES-256":   gosnmp.AES256,
	"AES-192-C": gosnmp.AES192C,
	"AES-256-C": gosnmp.AES256C,
}

func New(device *models.Device, logger *zap.Logger) *Client {
	if device.Hostname == nil {
		logger.Error("bad address")
		return nil
	}
	if device.SnmpVer == nil {
		logger.Error("bad version")
		return nil
	}

	g := &gosnmp.GoSNMP{
		Port:                    161,
		Retries:                 3,
		Timeout:                 5 * time.Second,
		Transport:               "udp",
		Target:                  *device.Hostname,
		UseUnconnectedUDPSocket: true,
		MaxOids:                 30,
	}
	if device.Port > 0 {
		g.Port = uint16(device.Port)
	}
	if device.Transport != nil && strings.HasPrefix(*device.Transport, "tcp") {
		g.Transport = "tcp"
	}

	switch *device.SnmpVer {
	case "v1", "1":
		g.Version = gosnmp.Version1
		if device.Community != nil {
			g.Community = *device.Community
		}
	case "v2c":
		g.Version = gosnmp.Version2c
		if device.Community == nil {
			logger.Error("bad community for v2c, must have a community")
			return nil
		}
		g.Community = *device.Community
	case "v3":
		if device.AuthLevel == nil || device.AuthName == nil {
			logger.Error("bad device, v3 needs authlevel and authname", zap.Int32("device_id", device.DeviceID))
			return nil
		}
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		usm := &gosnmp.UsmSecurityParameters{
			UserName:               *device.AuthName,
			AuthenticationProtocol: gosnmp.SHA,
			PrivacyProtocol:        gosnmp.AES,
		}
		if device.AuthPass != nil {
			usm.AuthenticationPassphrase = *device.AuthPass
		}
		if device.CryptoPass != nil {
			usm.PrivacyPassphrase = *device.CryptoPass
		}
		if device.AuthAlgo != nil {
			if p, ok := authProtocols[strings.ToUpper(*device.AuthAlgo)]; ok {
				usm.AuthenticationProtocol = p
			}
		}
		if device.CryptoAlgo != nil {
			if p, ok := privProtocols[strings.ToUpper(*device.CryptoAlgo)]; ok {
				usm.PrivacyProtocol = p
			}
		}
		g.SecurityParameters = usm

		switch *device.AuthLevel {
		case "noAuthNoPriv":
			g.MsgFlags = gosnmp.NoAuthNoPriv
		case "authNoPriv":
			g.MsgFlags = gosnmp.AuthNoPriv
		case "authPriv":
			g.MsgFlags = gosnmp.AuthPriv
		default:
			logger.Error("bad security level", zap.String("authlevel", *device.AuthLevel))
			return nil
		}
	default:
		logger.Error("bad protocol", zap.String("snmpver", *device.SnmpVer))
		return nil
	}

	return &Client{
		client: g,
		logger: logger,
		device: device,
	}
}

func (c *Client) Connect() error {
	if c.connected {
		return nil
	}
	if err := c.client.Connect(); err != nil {
		c.logger.Error("failed to connect", zap.Error(err))
		return err
	}
	c.connected = true
	return nil
}

func (c *Client) Close() {
	if c.connected && c.client.Conn != nil {
		c.client.Conn.Close()
	}
	c.connected = false
}

// Get reads one OID. present is false when the agent answers that the
// object or instance does not exist.
func (c *Client) Get(oid string) (value string, present bool, err error) {
	if !c.connected {
		return "", false, ErrNotConnected
	}
	res, err := c.client.Get([]string{oid})
	if err != nil {
		c.logger.Debug("bad response", zap.String("oid", oid), zap.Error(err))
		return "", false, err
	}
	if len(res.Variables) == 0 {
		return "", false, nil
	}
	value, present = pduString(res.Variables[0])
	return value, present, nil
}

// SysObjectID reads sysObjectID.0 from the device.
func (c *Client) SysObjectID() (string, error) {
	v, ok, err := c.Get(SysObjectIDOid)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return "", ErrNoSysOID
	}
	return NormalizeOID(v), nil
}
