// Package dmfsnmp builds SNMP device-family descriptors from DMF documents
// and exposes them as the two sentinel-terminated tables consumed by the
// scanner: the device identification table and the MIB-to-NUT table.
package dmfsnmp

import (
	"strings"

	"github.com/logingood/nut-dmf/dmfcore"
	"github.com/logingood/nut-dmf/functions"
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
)

// Parser is one parse session. It can be fed any number of strings, files
// and directories; every parse adds its descriptors to the same tables.
// A Parser is not safe for concurrent use.
type Parser struct {
	logger    *zap.Logger
	core      *dmfcore.Parser
	backend   dmfcore.Backend
	evaluator models.Evaluator

	lists        []*Registry
	deviceTable  []models.DeviceID
	mib2nutTable []*models.DeviceFamily
	counter      int

	// function currently being read, and its accumulated code
	function     *models.FunctionSnippet
	functionText strings.Builder
	warnedNoFunc bool
}

type Option func(*Parser)

// WithEvaluator enables functionset tags. Without an evaluator they are
// logged and skipped.
func WithEvaluator(ev models.Evaluator) Option {
	return func(p *Parser) {
		p.evaluator = ev
	}
}

// WithBackend replaces the built-in encoding/xml backend.
func WithBackend(b dmfcore.Backend) Option {
	return func(p *Parser) {
		p.backend = b
	}
}

func New(logger *zap.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:       logger,
		deviceTable:  make([]models.DeviceID, 1),
		mib2nutTable: make([]*models.DeviceFamily, 1),
		counter:      1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.backend == nil {
		p.backend = dmfcore.NewXMLBackend(logger)
	}
	p.core = dmfcore.New(logger, p.backend, &builder{p: p})
	return p
}

func (p *Parser) ParseString(text string) error {
	return p.core.ParseString(text)
}

func (p *Parser) ParseFile(path string) error {
	return p.core.ParseFile(path)
}

func (p *Parser) ParseDir(dir string) error {
	return p.core.ParseDir(dir)
}

// DeviceTable returns the identification table, sentinel included.
func (p *Parser) DeviceTable() []models.DeviceID {
	if p == nil {
		return nil
	}
	return p.deviceTable
}

// Mib2NutTable returns the descriptor table, nil sentinel included.
func (p *Parser) Mib2NutTable() []*models.DeviceFamily {
	if p == nil {
		return nil
	}
	return p.mib2nutTable
}

// TableCounter is the number of slots of both tables, sentinel included,
// or -1 for a nil session.
func (p *Parser) TableCounter() int {
	if p == nil {
		return -1
	}
	return p.counter
}

// Lists returns one registry per parse run so far.
func (p *Parser) Lists() []*Registry {
	if p == nil {
		return nil
	}
	return p.lists
}

// Evaluator returns the function evaluator, functions.Disabled when the
// session was built without one.
func (p *Parser) Evaluator() models.Evaluator {
	if p == nil || p.evaluator == nil {
		return functions.Disabled{}
	}
	return p.evaluator
}

// FindFamily returns the first loaded descriptor whose MIB name is name.
func (p *Parser) FindFamily(name string) *models.DeviceFamily {
	if p == nil {
		return nil
	}
	for _, f := range p.mib2nutTable {
		if f == nil {
			break
		}
		if f.MIBName == name {
			return f
		}
	}
	return nil
}

// Destroy drops the tables before the registries they point into. It is
// safe to call more than once.
func (p *Parser) Destroy() {
	if p == nil {
		return
	}
	p.deviceTable = nil
	p.mib2nutTable = nil
	for i := len(p.lists) - 1; i >= 0; i-- {
		p.lists[i].Destroy()
	}
	p.lists = nil
	p.counter = 0
	p.function = nil
	p.functionText.Reset()
}

// Destroy destroys *pp and clears the caller's reference.
func Destroy(pp **Parser) {
	if pp == nil || *pp == nil {
		return
	}
	(*pp).Destroy()
	*pp = nil
}

func (p *Parser) registry() *Registry {
	if len(p.lists) == 0 {
		return nil
	}
	return p.lists[len(p.lists)-1]
}

// addDevice fills the sentinel slot of both tables with f and appends a new
// sentinel.
func (p *Parser) addDevice(f *models.DeviceFamily) {
	p.resizeTables()
	p.deviceTable[p.counter-1] = models.DeviceID{
		OID:    f.AutoCheckOID,
		MIB:    f.MIBName,
		SysOID: f.SysOID,
		Family: f,
	}
	p.mib2nutTable[p.counter-1] = f
	p.counter++
	p.resizeTables()
}

// resizeTables extends or truncates both tables to counter slots and zeroes
// the last one.
func (p *Parser) resizeTables() {
	if p.counter < 1 {
		p.counter = 1
	}
	p.deviceTable = resize(p.deviceTable, p.counter)
	p.mib2nutTable = resize(p.mib2nutTable, p.counter)
	p.deviceTable[p.counter-1] = models.DeviceID{}
	p.mib2nutTable[p.counter-1] = nil
}

func resize[T any](s []T, n int) []T {
	if n <= cap(s) {
		return s[:n]
	}
	grown := make([]T, n)
	copy(grown, s)
	return grown
}
