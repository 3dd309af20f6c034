package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logingood/nut-dmf/dmfcore"
)

const upsDMF = `<nut>
	<lookup name="apc_status">
		<lookup_info oid="2" value="OL"/>
		<lookup_info oid="3" value="OB"/>
	</lookup>
	<snmp name="apc_mib">
		<snmp_info name="ups.status" oid=".1.3.6.1.4.1.318.1.1.1.4.1.1.0" lookup="apc_status"/>
		<snmp_info name="ups.mfr" default="APC" static="yes" absent="yes" string="yes"/>
	</snmp>
	<mib2nut name="apc" mib_name="apcc" version="1.2" oid=".1.3.6.1.4.1.318" auto_check=".1.3.6.1.4.1.318.1.1.1.1.1.1.0" snmp_info="apc_mib"/>
</nut>`

func writeDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "apc.dmf"), []byte(upsDMF), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "apc.dmf.bak"), []byte("<nut>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newRootCmd(&out).ParseAndRun(context.Background(), args)
	return out.String(), err
}

func TestTestCommand(t *testing.T) {
	dir := writeDir(t)
	out, err := run(t, "test", "-family", "apcc", dir)
	if err != nil {
		t.Fatalf("test = %v", err)
	}
	for _, want := range []string{
		"loaded 1 mib2nut entries",
		"apcc sysoid=.1.3.6.1.4.1.318",
		"MIB2NUT: mib_name=apcc version=1.2",
		"lookup: 3 -> OB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestTestCommandReportsPartialBatch(t *testing.T) {
	dir := writeDir(t)
	if err := os.WriteFile(filepath.Join(dir, "broken.dmf"), []byte("<nut><snmp></nut>"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "test", "-family", "apcc", dir)
	if !errors.Is(err, dmfcore.ErrMalformedMarkup) {
		t.Fatalf("test = %v, want ErrMalformedMarkup", err)
	}
	if !strings.Contains(out, "loaded 1 mib2nut entries") || !strings.Contains(out, "MIB2NUT: mib_name=apcc") {
		t.Fatalf("loaded entries were not reported:\n%s", out)
	}
}

func TestTestCommandUnknownFamily(t *testing.T) {
	if _, err := run(t, "test", "-family", "nope", writeDir(t)); err == nil {
		t.Fatal("expected an error for an unknown family")
	}
}

func TestReindexCommand(t *testing.T) {
	dir := writeDir(t)

	out, err := run(t, "reindex", dir)
	if err != nil {
		t.Fatalf("reindex = %v", err)
	}
	if !strings.Contains(out, `mib_name="apcc"`) || !strings.HasPrefix(out, "<?xml") {
		t.Fatalf("unexpected xml index:\n%s", out)
	}

	out, err = run(t, "reindex", "-format", "yaml", dir)
	if err != nil {
		t.Fatalf("reindex yaml = %v", err)
	}
	if !strings.Contains(out, "mib_name: apcc") {
		t.Fatalf("unexpected yaml index:\n%s", out)
	}

	if _, err := run(t, "reindex", "-format", "json", dir); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestDumpCommand(t *testing.T) {
	dir := writeDir(t)
	out, err := run(t, "dump", filepath.Join(dir, "apc.dmf"))
	if err != nil {
		t.Fatalf("dump = %v", err)
	}
	if !strings.Contains(out, "info_type=ups.mfr") {
		t.Fatalf("unexpected dump:\n%s", out)
	}

	if _, err := run(t, "dump", filepath.Join(dir, "missing.dmf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dump missing = %v, want not exist", err)
	}
}

func TestMissingArgument(t *testing.T) {
	for _, cmd := range []string{"test", "reindex", "dump"} {
		if _, err := run(t, cmd); !errors.Is(err, flag.ErrHelp) {
			t.Errorf("%s without a path = %v, want flag.ErrHelp", cmd, err)
		}
	}
}
