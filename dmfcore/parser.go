// Package dmfcore drives the parsing of DMF documents: it owns the XML
// backend and feeds it an in-memory string, a file or every DMF file of a
// directory, forwarding element events to a format-specific Handler.
package dmfcore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ChunkSize is the size of the blocks read from a file and fed to the backend.
const ChunkSize = 4096

type Parser struct {
	logger  *zap.Logger
	backend Backend
	handler Handler
	loaded  int
}

func New(logger *zap.Logger, backend Backend, handler Handler) *Parser {
	return &Parser{
		logger:  logger,
		backend: backend,
		handler: handler,
	}
}

// acquire loads the backend unless an enclosing call already did.
func (p *Parser) acquire() error {
	if p.loaded == 0 {
		if err := p.backend.Load(); err != nil {
			p.logger.Error("error loading xml backend required for dmf", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}
	p.loaded++
	return nil
}

func (p *Parser) release() {
	p.loaded--
	if p.loaded == 0 {
		p.backend.Unload()
	}
}

// ParseString parses a complete DMF document held in text.
func (p *Parser) ParseString(text string) error {
	p.logger.Debug("parse dmf string")
	if text == "" {
		p.logger.Error("dmf passed in a string is empty")
		return ErrEmptyInput
	}
	return p.ParseReader("string", strings.NewReader(text))
}

// ParseFile parses the DMF document stored at path.
func (p *Parser) ParseFile(path string) error {
	p.logger.Debug("parse dmf file", zap.String("file", path))
	f, err := os.Open(path)
	if err != nil {
		p.logger.Debug("dmf file not found or not readable", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	defer f.Close()

	return p.ParseReader(path, f)
}

// ParseReader parses the DMF document read from r; name only labels logs
// and errors.
func (p *Parser) ParseReader(name string, r io.Reader) error {
	if err := p.handler.Begin(); err != nil {
		p.logger.Error("error parsing dmf (can not initialize)", zap.String("source", name), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrInitCanceled, name, err)
	}

	if err := p.acquire(); err != nil {
		return err
	}
	result := p.feed(name, r)
	p.release()

	if result == nil {
		p.logger.Debug("[--OK--] dmf acquired", zap.String("source", name))
	} else {
		p.logger.Debug("[-FAIL-] dmf acquired", zap.String("source", name), zap.Error(result))
	}

	// the handler still gets to normalize its state after a failure
	return p.handler.Finish(result)
}

func (p *Parser) feed(name string, r io.Reader) error {
	engine := p.backend.NewEngine(p.handler)
	defer engine.Close()

	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := engine.Feed(buf[:n]); ferr != nil {
				p.logger.Error("error parsing dmf (unexpected markup?)", zap.String("source", name), zap.Error(ferr))
				return fmt.Errorf("%w: %s: %v", ErrMalformedMarkup, name, ferr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Error("error reading dmf", zap.String("source", name), zap.Error(err))
			return fmt.Errorf("%w: %s: %v", ErrShortRead, name, err)
		}
		if n == 0 {
			p.logger.Error("error parsing dmf (unexpected short read)", zap.String("source", name))
			return fmt.Errorf("%w: %s", ErrShortRead, name)
		}
	}

	if err := engine.Feed(nil); err != nil {
		p.logger.Error("error parsing dmf (unexpected markup?)", zap.String("source", name), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrMalformedMarkup, name, err)
	}
	return nil
}

// IsDMFName reports whether a directory entry is picked up by ParseDir: the
// last four bytes must be exactly ".dmf" or ".DMF", so "x.Dmf" and
// "x.dmf.bak" are both skipped.
func IsDMFName(name string) bool {
	if len(name) <= 4 {
		return false
	}
	suffix := name[len(name)-4:]
	return suffix == ".dmf" || suffix == ".DMF"
}

// ParseDir parses every DMF file of dir in lexical order. A failing file
// does not stop the batch; the error of the last failing file is returned.
func (p *Parser) ParseDir(dir string) error {
	p.logger.Debug("parse dmf directory", zap.String("dir", dir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.logger.Error("dmf directory not found or not readable", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrNotFound, dir, err)
	}

	// one load for the whole batch
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.release()

	p.logger.Debug("got entries to parse", zap.Int("entries", len(entries)), zap.String("dir", dir))

	var result error
	inspected, failed := 0, 0
	for _, e := range entries {
		if e.IsDir() || !IsDMFName(e.Name()) {
			continue
		}
		inspected++
		path := filepath.Join(dir, e.Name())
		if err := p.ParseFile(path); err != nil {
			failed++
			result = err
		}
	}

	if inspected == 0 {
		p.logger.Warn("no dmf files were found or readable", zap.String("dir", dir))
	} else {
		p.logger.Info("dmf files were inspected", zap.Int("files", inspected), zap.String("dir", dir))
	}
	if failed > 0 {
		p.logger.Warn("some dmf files were not readable", zap.Int("failed", failed), zap.String("dir", dir), zap.Error(result))
	}

	return result
}
