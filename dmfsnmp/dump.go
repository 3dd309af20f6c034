package dmfsnmp

import (
	"context"
	"fmt"
	"io"

	"github.com/logingood/nut-dmf/models"
)

// DumpFamily writes a human readable listing of f. Mappings computed by an
// embedded function are evaluated when the session has an evaluator.
func (p *Parser) DumpFamily(ctx context.Context, w io.Writer, f *models.DeviceFamily) error {
	if f == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "MIB2NUT: mib_name=%s version=%s power_status=%s auto_check=%s sysoid=%s\n",
		f.MIBName, f.Version, f.PowerStatusOID, f.AutoCheckOID, f.SysOID); err != nil {
		return err
	}

	for i := range f.SNMP {
		m := &f.SNMP[i]
		if m.IsSentinel() {
			break
		}
		if err := p.dumpMapping(ctx, w, m); err != nil {
			return err
		}
	}

	for _, a := range f.Alarms {
		if a.IsSentinel() {
			break
		}
		if _, err := fmt.Fprintf(w, "  alarm: oid=%s status=%s alarm=%s\n", a.OID, a.Status, a.Alarm); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) dumpMapping(ctx context.Context, w io.Writer, m *models.MappingEntry) error {
	line := fmt.Sprintf("  snmp: info_type=%s multiplier=%g oid=%s default=%s info_flags=%d flags=%d",
		m.InfoType, m.Multiplier, m.OID, m.Default, m.InfoFlags, m.Flags)
	if m.SetVar != models.SetVarNone {
		line += " setvar=" + string(m.SetVar)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, l := range m.Lookup {
		if l.IsSentinel() {
			break
		}
		if _, err := fmt.Fprintf(w, "    lookup: %d -> %s\n", l.OID, l.Value); err != nil {
			return err
		}
	}

	if m.Function != nil && p.evaluator != nil {
		v, err := m.Compute(ctx, p.evaluator)
		if err != nil {
			_, err = fmt.Fprintf(w, "    function %s: error: %v\n", m.Function.Name, err)
		} else {
			_, err = fmt.Fprintf(w, "    function %s: %s\n", m.Function.Name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Dump writes every loaded family.
func (p *Parser) Dump(ctx context.Context, w io.Writer) error {
	for _, f := range p.Mib2NutTable() {
		if f == nil {
			break
		}
		if err := p.DumpFamily(ctx, w, f); err != nil {
			return err
		}
	}
	return nil
}
