package dmfsnmp

import (
	"strings"

	"github.com/logingood/nut-dmf/dmfcore"
	"github.com/logingood/nut-dmf/functions"
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
)

// DMF tags. The info tags are also accepted with their words swapped.
const (
	tagNut         = "nut"
	tagMib2Nut     = "mib2nut"
	tagLookup      = "lookup"
	tagAlarm       = "alarm"
	tagSNMP        = "snmp"
	tagFunctionSet = "functionset"
	tagFunction    = "function"
	tagLookupInfo  = "lookup_info"
	tagInfoLookup  = "info_lookup"
	tagSNMPInfo    = "snmp_info"
	tagInfoSNMP    = "info_snmp"
	tagAlarmInfo   = "info_alarm"
)

// Attributes.
const (
	attrName        = "name"
	attrMIBName     = "mib_name"
	attrVersion     = "version"
	attrOID         = "oid"
	attrPowerStatus = "power_status"
	attrAutoCheck   = "auto_check"
	attrSNMPInfo    = "snmp_info"
	attrAlarmsInfo  = "alarms_info"
	attrValue       = "value"
	attrAlarm       = "alarm"
	attrStatus      = "status"
	attrMultiplier  = "multiplier"
	attrDefault     = "default"
	attrLookup      = "lookup"
	attrSetVar      = "setvar"
	attrFunctionSet = "functionset"
	attrLanguage    = "language"
)

// DefaultMultiplier is the scale factor of snmp_info tags without one.
const DefaultMultiplier = 128.0

func newDeviceFamily(name, mibName, version, powerStatus, autoCheck string,
	snmp []models.MappingEntry, sysOID string, alarms []models.AlarmEntry) *models.DeviceFamily {
	return &models.DeviceFamily{
		Name:           name,
		MIBName:        mibName,
		Version:        version,
		PowerStatusOID: powerStatus,
		AutoCheckOID:   autoCheck,
		SysOID:         sysOID,
		SNMP:           snmp,
		Alarms:         alarms,
	}
}

func newMappingEntry(name string, infoFlags int, multiplier float64, oid, dfl string,
	flags uint64, lookup []models.LookupEntry, setvar models.SetVar) *models.MappingEntry {
	return &models.MappingEntry{
		InfoType:   name,
		InfoFlags:  infoFlags,
		Multiplier: multiplier,
		OID:        oid,
		Default:    dfl,
		Flags:      flags,
		Lookup:     lookup,
		SetVar:     setvar,
	}
}

func newFunctionSnippet(name, language string) *models.FunctionSnippet {
	if language == "" {
		language = functions.DefaultLanguage
	}
	return &models.FunctionSnippet{Name: name, Language: language}
}

// builder turns the element events of one document into sections and
// table rows of its session.
type builder struct {
	p *Parser
}

var _ dmfcore.Handler = (*builder)(nil)

func (b *builder) Begin() error {
	b.p.lists = append(b.p.lists, newRegistry())
	return nil
}

func (b *builder) Finish(result error) error {
	// tables are normalized even when the document failed half way
	b.p.resizeTables()
	b.p.function = nil
	b.p.functionText.Reset()
	return result
}

func (b *builder) StartElement(name string, attrs dmfcore.Attrs) error {
	p := b.p
	reg := p.registry()
	sectionName := attrs.Value(attrName)

	switch name {
	case tagNut:
	case tagMib2Nut:
		reg.push(newSection(KindMib2Nut, sectionName))
		b.mib2nut(reg, attrs)
	case tagLookup:
		reg.push(newSection(KindLookup, sectionName))
	case tagAlarm:
		reg.push(newSection(KindAlarm, sectionName))
	case tagSNMP:
		reg.push(newSection(KindSNMP, sectionName))
	case tagLookupInfo, tagInfoLookup:
		b.lookupInfo(reg, name, attrs)
	case tagAlarmInfo:
		b.alarmInfo(reg, name, attrs)
	case tagSNMPInfo, tagInfoSNMP:
		b.snmpInfo(reg, name, attrs)
	case tagFunctionSet:
		if p.evaluator == nil {
			p.logger.Warn("dmf functions are not enabled, functionset is ignored", zap.String("functionset", sectionName))
			return nil
		}
		reg.push(newSection(KindFunctionSet, sectionName))
	case tagFunction:
		b.function(reg, attrs)
	default:
		p.logger.Warn("the tag in dmf is not recognized", zap.String("tag", name))
	}
	return nil
}

func (b *builder) CharData(data []byte) error {
	if b.p.function != nil {
		b.p.functionText.Write(data)
	}
	return nil
}

func (b *builder) EndElement(name string) error {
	p := b.p
	switch name {
	case tagMib2Nut:
		s := p.registry().last()
		if s == nil || s.Kind() != KindMib2Nut || s.Len() == 0 {
			p.logger.Debug("mib2nut closed without a descriptor, not indexed")
			return nil
		}
		f := s.Families()[0]
		p.addDevice(f)
		p.logger.Debug("indexed device family",
			zap.String("mib", f.MIBName), zap.String("sysoid", f.SysOID), zap.Int("counter", p.counter))
	case tagFunction:
		if p.function == nil {
			return nil
		}
		p.function.Code = p.functionText.String()
		if s := p.registry().last(); s != nil && s.Kind() == KindFunctionSet {
			s.functions.Append(p.function)
		}
		p.function = nil
		p.functionText.Reset()
	}
	return nil
}

// current returns the last opened section when it has the given kind.
func (b *builder) current(reg *Registry, kind Kind, tag string) *Section {
	s := reg.last()
	if s == nil || s.Kind() != kind {
		b.p.logger.Warn("dmf tag outside of its container, ignored", zap.String("tag", tag), zap.Stringer("container", kind))
		return nil
	}
	return s
}

func (b *builder) mib2nut(reg *Registry, attrs dmfcore.Attrs) {
	mibName, ok := attrs.Get(attrMIBName)
	if !ok {
		b.p.logger.Debug("mib2nut without mib_name, skipped", zap.String("name", attrs.Value(attrName)))
		return
	}

	var snmp []models.MappingEntry
	if ref, ok := attrs.Get(attrSNMPInfo); ok {
		if s := reg.Find(KindSNMP, ref); s != nil {
			snmp = copyMappings(s.Mappings())
		} else {
			b.p.logger.Warn("mib2nut references an unknown snmp list", zap.String("mib", mibName), zap.String("snmp_info", ref))
		}
	}

	var alarms []models.AlarmEntry
	if ref, ok := attrs.Get(attrAlarmsInfo); ok {
		if s := reg.Find(KindAlarm, ref); s != nil {
			alarms = copyAlarms(s.Alarms())
		} else {
			b.p.logger.Warn("mib2nut references an unknown alarm list", zap.String("mib", mibName), zap.String("alarms_info", ref))
		}
	}

	s := reg.last()
	construct := s.families.Constructor().(func(string, string, string, string, string,
		[]models.MappingEntry, string, []models.AlarmEntry) *models.DeviceFamily)
	s.families.Append(construct(
		attrs.Value(attrName),
		mibName,
		attrs.Value(attrVersion),
		attrs.Value(attrPowerStatus),
		attrs.Value(attrAutoCheck),
		snmp,
		attrs.Value(attrOID),
		alarms,
	))
}

func (b *builder) lookupInfo(reg *Registry, tag string, attrs dmfcore.Attrs) {
	s := b.current(reg, KindLookup, tag)
	if s == nil {
		return
	}
	for _, a := range attrs {
		if a.Name != attrOID && a.Name != attrValue {
			b.p.logger.Info("lookup functions are not supported, attribute ignored",
				zap.String("lookup", s.Name()), zap.String("attr", a.Name))
		}
	}
	oid, ok := attrs.Get(attrOID)
	if !ok {
		return
	}
	s.lookups.Append(newLookupEntry(atoi(oid), attrs.Value(attrValue)))
}

func (b *builder) alarmInfo(reg *Registry, tag string, attrs dmfcore.Attrs) {
	s := b.current(reg, KindAlarm, tag)
	if s == nil {
		return
	}
	alarm, ok := attrs.Get(attrAlarm)
	if !ok {
		return
	}
	s.alarms.Append(newAlarmEntry(attrs.Value(attrOID), attrs.Value(attrStatus), alarm))
}

func (b *builder) snmpInfo(reg *Registry, tag string, attrs dmfcore.Attrs) {
	p := b.p
	s := b.current(reg, KindSNMP, tag)
	if s == nil {
		return
	}
	name := attrs.Value(attrName)

	multiplier := DefaultMultiplier
	if m, ok := attrs.Get(attrMultiplier); ok {
		multiplier = atof(m)
	}

	flags := b.compileFlags(attrs)
	infoFlags := compileInfoFlags(attrs)

	var lookup []models.LookupEntry
	if ref, ok := attrs.Get(attrLookup); ok {
		if l := reg.Find(KindLookup, ref); l != nil {
			lookup = copyLookups(l.Lookups())
		} else {
			p.logger.Warn("snmp_info references an unknown lookup", zap.String("info", name), zap.String("lookup", ref))
		}
	}

	setvar := models.SetVarNone
	if v, ok := attrs.Get(attrSetVar); ok {
		sv, known := models.ParseSetVar(v)
		if !known {
			p.logger.Warn("snmp_info has an unknown setvar, entry dropped", zap.String("info", name), zap.String("setvar", v))
			return
		}
		setvar = sv
		flags |= models.FlagSetInt
	}

	entry := newMappingEntry(name, infoFlags, multiplier, attrs.Value(attrOID), attrs.Value(attrDefault), flags, lookup, setvar)

	if ref, ok := attrs.Get(attrFunctionSet); ok {
		if p.evaluator == nil {
			p.logger.Debug("dmf functions are not enabled, functionset reference ignored", zap.String("info", name))
		} else if fs := reg.Find(KindFunctionSet, ref); fs != nil {
			entry.Function = pickFunction(fs, name)
		} else {
			p.logger.Warn("snmp_info references an unknown functionset", zap.String("info", name), zap.String("functionset", ref))
		}
	}

	s.mappings.Append(entry)
}

func (b *builder) function(reg *Registry, attrs dmfcore.Attrs) {
	p := b.p
	if p.evaluator == nil {
		if !p.warnedNoFunc {
			p.logger.Warn("dmf functions are not enabled, function code is ignored")
			p.warnedNoFunc = true
		}
		return
	}
	s := b.current(reg, KindFunctionSet, tagFunction)
	if s == nil {
		return
	}
	construct := s.functions.Constructor().(func(string, string) *models.FunctionSnippet)
	fn := construct(attrs.Value(attrName), attrs.Value(attrLanguage))
	if !p.evaluator.Supports(fn.Language) {
		p.logger.Warn("function language is not supported", zap.String("function", fn.Name), zap.String("language", fn.Language))
	}
	p.function = fn
	p.functionText.Reset()
}

// pickFunction returns the function of the set named after the mapping, or
// the whole set's code when none is, so that the evaluator can call the
// mapping's global from it.
func pickFunction(fs *Section, infoType string) *models.FunctionSnippet {
	fns := fs.Functions()
	if len(fns) == 0 {
		return nil
	}
	for _, fn := range fns {
		if fn.Name == infoType {
			c := *fn
			return &c
		}
	}
	code := make([]string, 0, len(fns))
	for _, fn := range fns {
		code = append(code, fn.Code)
	}
	return &models.FunctionSnippet{
		Name:     fs.Name(),
		Language: fns[0].Language,
		Code:     strings.Join(code, "\n"),
	}
}

func (b *builder) compileFlags(attrs dmfcore.Attrs) uint64 {
	var flags uint64
	for _, fa := range models.FlagAttributes {
		if fa.Bit == models.FlagFunction && b.p.evaluator == nil {
			continue
		}
		if v, ok := attrs.Get(fa.Attr); ok && v == models.YesValue {
			flags |= fa.Bit
		}
	}
	return flags
}

func compileInfoFlags(attrs dmfcore.Attrs) int {
	infoFlags := 0
	for _, fa := range models.InfoFlagAttributes {
		if v, ok := attrs.Get(fa.Attr); ok && v == models.YesValue {
			infoFlags |= int(fa.Bit)
		}
	}
	return infoFlags
}

func copyLookups(src []models.LookupEntry) []models.LookupEntry {
	dst := make([]models.LookupEntry, len(src)+1)
	copy(dst, src)
	return dst
}

func copyAlarms(src []models.AlarmEntry) []models.AlarmEntry {
	dst := make([]models.AlarmEntry, len(src)+1)
	copy(dst, src)
	return dst
}

func copyMappings(src []*models.MappingEntry) []models.MappingEntry {
	dst := make([]models.MappingEntry, len(src)+1)
	for i, m := range src {
		dst[i] = *m
		if m.Lookup != nil {
			dst[i].Lookup = append([]models.LookupEntry(nil), m.Lookup...)
		}
		if m.Function != nil {
			fn := *m.Function
			dst[i].Function = &fn
		}
	}
	return dst
}
