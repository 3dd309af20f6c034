package models

import (
	"context"
	"errors"
)

// LookupEntry translates a raw value read from a device into a NUT string.
type LookupEntry struct {
	OID   int    `json:"oid" yaml:"oid"`
	Value string `json:"value" yaml:"value"`
}

func (e LookupEntry) IsSentinel() bool {
	return e.OID == 0 && e.Value == ""
}

// AlarmEntry describes one alarm a device may raise.
type AlarmEntry struct {
	OID    string `json:"oid" yaml:"oid"`
	Status string `json:"status" yaml:"status"`
	Alarm  string `json:"alarm" yaml:"alarm"`
}

func (e AlarmEntry) IsSentinel() bool {
	return e.OID == "" && e.Status == "" && e.Alarm == ""
}

// MappingEntry binds a NUT variable to a device OID with its scaling and
// formatting metadata.
type MappingEntry struct {
	InfoType   string           `json:"info_type" yaml:"info_type"`
	InfoFlags  int              `json:"info_flags" yaml:"info_flags"`
	Multiplier float64          `json:"multiplier" yaml:"multiplier"`
	OID        string           `json:"oid" yaml:"oid"`
	Default    string           `json:"default" yaml:"default"`
	Flags      uint64           `json:"flags" yaml:"flags"`
	Lookup     []LookupEntry    `json:"lookup,omitempty" yaml:"lookup,omitempty"`
	SetVar     SetVar           `json:"setvar,omitempty" yaml:"setvar,omitempty"`
	Function   *FunctionSnippet `json:"function,omitempty" yaml:"function,omitempty"`
}

func (e *MappingEntry) IsSentinel() bool {
	return e.InfoType == "" && e.InfoFlags == 0 && e.Multiplier == 0 &&
		e.OID == "" && e.Default == "" && e.Flags == 0 &&
		e.Lookup == nil && e.SetVar == SetVarNone && e.Function == nil
}

// FindInfoValue returns the NUT string the lookup table maps v to.
func (e *MappingEntry) FindInfoValue(v int) (string, bool) {
	for _, l := range e.Lookup {
		if l.IsSentinel() {
			break
		}
		if l.OID == v {
			return l.Value, true
		}
	}
	return "", false
}

// FindValueInfo is the reverse of FindInfoValue.
func (e *MappingEntry) FindValueInfo(s string) (int, bool) {
	for _, l := range e.Lookup {
		if l.IsSentinel() {
			break
		}
		if l.Value == s {
			return l.OID, true
		}
	}
	return 0, false
}

var (
	ErrNotComputed = errors.New("mapping has no embedded function")
	ErrNoEvaluator = errors.New("no function evaluator")
)

// Evaluator runs embedded function code. See package functions.
type Evaluator interface {
	Supports(language string) bool
	Evaluate(ctx context.Context, snippet FunctionSnippet, function string) (string, error)
}

// Compute evaluates the mapping's embedded function, which is named after
// the mapping's InfoType.
func (e *MappingEntry) Compute(ctx context.Context, ev Evaluator) (string, error) {
	if e.Function == nil {
		return "", ErrNotComputed
	}
	if ev == nil {
		return "", ErrNoEvaluator
	}
	return ev.Evaluate(ctx, *e.Function, e.InfoType)
}

// DeviceFamily groups everything needed to drive one family of devices.
// The SNMP and Alarms slices end with a sentinel entry.
type DeviceFamily struct {
	Name           string         `json:"name" yaml:"name"`
	MIBName        string         `json:"mib_name" yaml:"mib_name"`
	Version        string         `json:"version" yaml:"version"`
	PowerStatusOID string         `json:"power_status" yaml:"power_status"`
	AutoCheckOID   string         `json:"auto_check" yaml:"auto_check"`
	SysOID         string         `json:"oid" yaml:"oid"`
	SNMP           []MappingEntry `json:"snmp_info,omitempty" yaml:"snmp_info,omitempty"`
	Alarms         []AlarmEntry   `json:"alarms_info,omitempty" yaml:"alarms_info,omitempty"`
}

func (f *DeviceFamily) IsSentinel() bool {
	return f == nil || (f.Name == "" && f.MIBName == "" && f.Version == "" &&
		f.PowerStatusOID == "" && f.AutoCheckOID == "" && f.SysOID == "" &&
		f.SNMP == nil && f.Alarms == nil)
}

// FindInfo returns the mapping for the NUT variable infoType.
func (f *DeviceFamily) FindInfo(infoType string) (*MappingEntry, bool) {
	for i := range f.SNMP {
		if f.SNMP[i].IsSentinel() {
			break
		}
		if f.SNMP[i].InfoType == infoType {
			return &f.SNMP[i], true
		}
	}
	return nil, false
}

// DeviceID is the identification triplet used by discovery. Family points
// back at the descriptor the strings were taken from; it is not owned.
type DeviceID struct {
	OID    string        `json:"auto_check" yaml:"auto_check"`
	MIB    string        `json:"mib_name" yaml:"mib_name"`
	SysOID string        `json:"oid,omitempty" yaml:"oid,omitempty"`
	Family *DeviceFamily `json:"-" yaml:"-"`
}

func (d DeviceID) IsSentinel() bool {
	return d.OID == "" && d.MIB == "" && d.SysOID == "" && d.Family == nil
}

// FunctionSnippet is a named piece of embedded code.
type FunctionSnippet struct {
	Name     string `json:"name" yaml:"name"`
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
}

// CountLookups returns the number of entries before the sentinel.
func CountLookups(entries []LookupEntry) int {
	n := 0
	for n < len(entries) && !entries[n].IsSentinel() {
		n++
	}
	return n
}

func CountAlarms(entries []AlarmEntry) int {
	n := 0
	for n < len(entries) && !entries[n].IsSentinel() {
		n++
	}
	return n
}

func CountMappings(entries []MappingEntry) int {
	n := 0
	for n < len(entries) && !entries[n].IsSentinel() {
		n++
	}
	return n
}

// CountDeviceIDs returns the number of rows of a device table before its sentinel.
func CountDeviceIDs(table []DeviceID) int {
	n := 0
	for n < len(table) && !table[n].IsSentinel() {
		n++
	}
	return n
}
