package dmfsnmp

import (
	"github.com/logingood/nut-dmf/alist"
	"github.com/logingood/nut-dmf/models"
)

// Kind tells which DMF tag a Section was opened by and so which payload it
// carries.
type Kind int

const (
	KindMib2Nut Kind = iota + 1
	KindLookup
	KindAlarm
	KindSNMP
	KindFunctionSet
)

func (k Kind) String() string {
	switch k {
	case KindMib2Nut:
		return tagMib2Nut
	case KindLookup:
		return tagLookup
	case KindAlarm:
		return tagAlarm
	case KindSNMP:
		return tagSNMP
	case KindFunctionSet:
		return tagFunctionSet
	}
	return "unknown"
}

// Section holds the entries accumulated under one container tag. Exactly
// one of the typed lists is set, matching Kind.
type Section struct {
	kind      Kind
	name      string
	families  *alist.List[*models.DeviceFamily]
	lookups   *alist.List[models.LookupEntry]
	alarms    *alist.List[models.AlarmEntry]
	mappings  *alist.List[*models.MappingEntry]
	functions *alist.List[*models.FunctionSnippet]
}

func newLookupEntry(oid int, value string) models.LookupEntry {
	return models.LookupEntry{OID: oid, Value: value}
}

func newAlarmEntry(oid, status, alarm string) models.AlarmEntry {
	return models.AlarmEntry{OID: oid, Status: status, Alarm: alarm}
}

func newSection(kind Kind, name string) *Section {
	s := &Section{kind: kind, name: name}
	switch kind {
	case KindMib2Nut:
		s.families = alist.New[*models.DeviceFamily](name, nil, newDeviceFamily)
	case KindLookup:
		s.lookups = alist.New[models.LookupEntry](name, nil, newLookupEntry)
	case KindAlarm:
		s.alarms = alist.New[models.AlarmEntry](name, nil, newAlarmEntry)
	case KindSNMP:
		s.mappings = alist.New[*models.MappingEntry](name, nil, newMappingEntry)
	case KindFunctionSet:
		s.functions = alist.New[*models.FunctionSnippet](name, nil, newFunctionSnippet)
	}
	return s
}

func (s *Section) Name() string { return s.name }
func (s *Section) Kind() Kind { return s.kind }

func (s *Section) Len() int {
	switch s.kind {
	case KindMib2Nut:
		return s.families.Len()
	case KindLookup:
		return s.lookups.Len()
	case KindAlarm:
		return s.alarms.Len()
	case KindSNMP:
		return s.mappings.Len()
	case KindFunctionSet:
		return s.functions.Len()
	}
	return 0
}

func (s *Section) Families() []*models.DeviceFamily { return s.families.Values() }
func (s *Section) Lookups() []models.LookupEntry { return s.lookups.Values() }
func (s *Section) Alarms() []models.AlarmEntry { return s.alarms.Values() }
func (s *Section) Mappings() []*models.MappingEntry { return s.mappings.Values() }
func (s *Section) Functions() []*models.FunctionSnippet { return s.functions.Values() }

// Destroy releases the section's entries. Descriptors handed out through
// the session tables stay valid; the garbage collector owns them.
func (s *Section) Destroy() {
	if s == nil {
		return
	}
	alist.Destroy(&s.families)
	alist.Destroy(&s.lookups)
	alist.Destroy(&s.alarms)
	alist.Destroy(&s.mappings)
	alist.Destroy(&s.functions)
}

type sectionKey struct {
	kind Kind
	name string
}

// Registry is the list of sections built by one parse, with a name index
// used to resolve cross references between sibling sections.
type Registry struct {
	sections *alist.List[*Section]
	index    map[sectionKey]int
}

func newRegistry() *Registry {
	return &Registry{
		sections: alist.New[*Section]("", (*Section).Destroy, newSection),
		index:    make(map[sectionKey]int),
	}
}

func (r *Registry) push(s *Section) {
	k := sectionKey{kind: s.kind, name: s.name}
	if _, ok := r.index[k]; !ok && s.name != "" {
		r.index[k] = r.sections.Len()
	}
	r.sections.Append(s)
}

// last returns the most recently opened section, nil when there is none.
func (r *Registry) last() *Section {
	return r.sections.Last()
}

// Find returns the first section of the given kind called name.
func (r *Registry) Find(kind Kind, name string) *Section {
	if r == nil {
		return nil
	}
	i, ok := r.index[sectionKey{kind: kind, name: name}]
	if !ok {
		return nil
	}
	return r.sections.At(i)
}

func (r *Registry) Sections() []*Section {
	if r == nil {
		return nil
	}
	return r.sections.Values()
}

func (r *Registry) Destroy() {
	if r == nil {
		return
	}
	alist.Destroy(&r.sections)
	r.index = nil
}
