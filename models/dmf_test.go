package models

import (
	"context"
	"errors"
	"testing"
)

func TestLookupBothWays(t *testing.T) {
	m := &MappingEntry{
		InfoType: "ups.status",
		Lookup:   []LookupEntry{{1, "OL"}, {2, "OB"}, {}, {3, "hidden"}},
	}

	if v, ok := m.FindInfoValue(2); !ok || v != "OB" {
		t.Fatalf("FindInfoValue(2) = %q, %v", v, ok)
	}
	if _, ok := m.FindInfoValue(3); ok {
		t.Fatal("FindInfoValue read past the sentinel")
	}
	if o, ok := m.FindValueInfo("OL"); !ok || o != 1 {
		t.Fatalf("FindValueInfo(OL) = %d, %v", o, ok)
	}
	if _, ok := m.FindValueInfo("LB"); ok {
		t.Fatal("FindValueInfo(LB) found a value")
	}
}

func TestSentinels(t *testing.T) {
	if !(&MappingEntry{}).IsSentinel() || (&MappingEntry{Multiplier: 128}).IsSentinel() {
		t.Fatal("MappingEntry.IsSentinel")
	}
	var nilFamily *DeviceFamily
	if !nilFamily.IsSentinel() || !(&DeviceFamily{}).IsSentinel() || (&DeviceFamily{MIBName: "x"}).IsSentinel() {
		t.Fatal("DeviceFamily.IsSentinel")
	}

	table := []DeviceID{{MIB: "a"}, {MIB: "b"}, {}}
	if n := CountDeviceIDs(table); n != 2 {
		t.Fatalf("CountDeviceIDs() = %d, want 2", n)
	}
	if n := CountAlarms([]AlarmEntry{{Alarm: "LB"}}); n != 1 {
		t.Fatalf("CountAlarms() without sentinel = %d, want 1", n)
	}
	if n := CountLookups(nil); n != 0 {
		t.Fatalf("CountLookups(nil) = %d", n)
	}
}

func TestFindInfo(t *testing.T) {
	f := &DeviceFamily{SNMP: []MappingEntry{{InfoType: "ups.mfr"}, {InfoType: "ups.model"}, {}}}
	if m, ok := f.FindInfo("ups.model"); !ok || m != &f.SNMP[1] {
		t.Fatalf("FindInfo(ups.model) = %v, %v", m, ok)
	}
	if _, ok := f.FindInfo("ups.serial"); ok {
		t.Fatal("FindInfo(ups.serial) found a mapping")
	}
}

type echo struct{}

func (echo) Supports(string) bool { return true }

func (echo) Evaluate(_ context.Context, s FunctionSnippet, function string) (string, error) {
	return s.Name + ":" + function, nil
}

func TestCompute(t *testing.T) {
	m := &MappingEntry{InfoType: "ups.mfr"}
	if _, err := m.Compute(context.Background(), echo{}); !errors.Is(err, ErrNotComputed) {
		t.Fatalf("Compute() = %v, want ErrNotComputed", err)
	}
	m.Function = &FunctionSnippet{Name: "eaton_fn", Language: "lua"}
	if v, err := m.Compute(context.Background(), echo{}); err != nil || v != "eaton_fn:ups.mfr" {
		t.Fatalf("Compute() = %q, %v", v, err)
	}
	if _, err := m.Compute(context.Background(), nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("Compute(nil) = %v, want ErrNoEvaluator", err)
	}
}

func TestParseSetVar(t *testing.T) {
	tests := map[string]bool{
		"input_phases":  true,
		"output_phases": true,
		"bypass_phases": true,
		"":              false,
		"Input_Phases":  false,
	}
	for in, known := range tests {
		sv, ok := ParseSetVar(in)
		if ok != known {
			t.Errorf("ParseSetVar(%q) known = %v, want %v", in, ok, known)
		}
		if ok && string(sv) != in {
			t.Errorf("ParseSetVar(%q) = %q", in, sv)
		}
		if !ok && sv != SetVarNone {
			t.Errorf("ParseSetVar(%q) = %q, want none", in, sv)
		}
	}
}

func TestIdentification(t *testing.T) {
	host, sysOID, empty := "ups1", ".1.3.6.1.4.1.318", ""
	id := NewIdentification(&Device{DeviceID: 3, Hostname: &host, SysObjectID: &sysOID})
	if id.Source != SourceInventory || id.SysObjectID != sysOID || id.Hostname != host {
		t.Fatalf("NewIdentification() = %+v", id)
	}
	if id := NewIdentification(&Device{SysObjectID: &empty}); id.Source != "" {
		t.Fatalf("empty sysObjectID gave source %q", id.Source)
	}

	id.SetFamily(DeviceID{MIB: "apcc", OID: ".1.2", Family: &DeviceFamily{
		Version: "1.2",
		SNMP:    []MappingEntry{{InfoType: "ups.mfr"}, {}},
		Alarms:  []AlarmEntry{{Alarm: "LB"}, {Alarm: "RB"}, {}},
	}})
	if !id.Matched || id.MIBName != "apcc" || id.AutoCheck != ".1.2" || id.MIBVersion != "1.2" ||
		id.Mappings != 1 || id.Alarms != 2 {
		t.Fatalf("SetFamily() = %+v", id)
	}
}
