package snmp

import (
	"fmt"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// NormalizeOID returns oid with exactly one leading dot, the form used by
// DMF files. An empty oid stays empty.
func NormalizeOID(oid string) string {
	oid = strings.TrimSpace(oid)
	if oid == "" {
		return ""
	}
	return "." + strings.TrimLeft(oid, ".")
}

// pduString renders the value of pdu, reporting false for the exception
// types agents use for missing objects.
func pduString(pdu gosnmp.SnmpPDU) (string, bool) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return "", false
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b), true
		}
	case gosnmp.ObjectIdentifier:
		if s, ok := pdu.Value.(string); ok {
			return NormalizeOID(s), true
		}
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32,
		gosnmp.TimeTicks, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).String(), true
	}
	return fmt.Sprint(pdu.Value), true
}
