// Package index renders the device identification table of loaded DMF
// files as a small DMF document, so that discovery tools can load the
// index instead of every mapping file.
package index

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/logingood/nut-dmf/dmfsnmp"
	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrMismatch = errors.New("index does not parse back into the same device table")

// Entry is one indexed device family.
type Entry struct {
	AutoCheck string `xml:"auto_check,attr" yaml:"auto_check"`
	MIBName   string `xml:"mib_name,attr,omitempty" yaml:"mib_name,omitempty"`
	SysOID    string `xml:"oid,attr,omitempty" yaml:"oid,omitempty"`
}

type document struct {
	XMLName xml.Name `xml:"nut"`
	Entries []Entry  `xml:"mib2nut"`
}

// Entries returns the rows of table before its sentinel. Rows repeating an
// earlier one are dropped, so reindexing a directory that already holds an
// index does not duplicate it.
func Entries(table []models.DeviceID) []Entry {
	seen := make(map[Entry]bool)
	entries := make([]Entry, 0, len(table))
	for _, id := range table {
		if id.IsSentinel() {
			break
		}
		e := Entry{AutoCheck: id.OID, MIBName: id.MIB, SysOID: id.SysOID}
		if seen[e] {
			continue
		}
		seen[e] = true
		entries = append(entries, e)
	}
	return entries
}

func WriteXML(w io.Writer, table []models.DeviceID) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(document{Entries: Entries(table)}); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func WriteYAML(w io.Writer, table []models.DeviceID) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Entries(table)); err != nil {
		return err
	}
	return enc.Close()
}

// Reindex renders table as XML, parses the result in a fresh session and
// writes it to w only if it yields the same rows. It returns the number of
// indexed entries.
func Reindex(logger *zap.Logger, w io.Writer, table []models.DeviceID) (int, error) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, table); err != nil {
		return 0, err
	}

	check := dmfsnmp.New(logger)
	defer check.Destroy()
	if err := check.ParseString(buf.String()); err != nil {
		return 0, fmt.Errorf("parse index: %w", err)
	}

	want := Entries(table)
	got := Entries(check.DeviceTable())
	if !slices.Equal(want, got) {
		logger.Error("index does not match the loaded device table", zap.Int("want", len(want)), zap.Int("got", len(got)))
		return 0, ErrMismatch
	}

	if _, err := buf.WriteTo(w); err != nil {
		return 0, err
	}
	logger.Info("indexed dmf entries", zap.Int("entries", len(want)))
	return len(want), nil
}
