// Command dmftool loads DMF mapping files and tests, reindexes or dumps them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logingood/nut-dmf/dmfsnmp"
	"github.com/logingood/nut-dmf/functions"
	"github.com/logingood/nut-dmf/index"
	"github.com/logingood/nut-dmf/internal/lgr"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
)

var rootArgs struct {
	logLevel  string
	functions bool
}

var testArgs struct {
	family string
}

var reindexArgs struct {
	format string
}

func main() {
	root := newRootCmd(os.Stdout)
	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "dmftool: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *ffcli.Command {
	rootFS := flag.NewFlagSet("dmftool", flag.ContinueOnError)
	rootFS.StringVar(&rootArgs.logLevel, "log-level", "warn", "log level of the diagnostics written to stderr")
	rootFS.BoolVar(&rootArgs.functions, "functions", false, "evaluate embedded lua functions")

	return &ffcli.Command{
		Name:       "dmftool",
		ShortUsage: "dmftool [flags] <test|reindex|dump> [command flags] <path>",
		ShortHelp:  "Load NUT DMF mapping files",
		FlagSet:    rootFS,
		Options:    []ff.Option{ff.WithEnvVarPrefix("DMF")},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newTestCmd(out),
			newReindexCmd(out),
			newDumpCmd(out),
		},
	}
}

func newTestCmd(out io.Writer) *ffcli.Command {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&testArgs.family, "family", "", "dump the family with this mib_name")
	return &ffcli.Command{
		Name:       "test",
		ShortUsage: "dmftool test [-family name] <dir>",
		ShortHelp:  "Load a DMF directory and report the device table",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix("DMF")},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			return runTest(ctx, out, newLogger(), args[0], testArgs.family)
		},
	}
}

func newReindexCmd(out io.Writer) *ffcli.Command {
	fs := flag.NewFlagSet("reindex", flag.ContinueOnError)
	fs.StringVar(&reindexArgs.format, "format", "xml", "index format, xml or yaml")
	return &ffcli.Command{
		Name:       "reindex",
		ShortUsage: "dmftool reindex [-format xml|yaml] <dir>",
		ShortHelp:  "Write the sysOID index of a DMF directory to stdout",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix("DMF")},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			return runReindex(out, newLogger(), args[0], reindexArgs.format)
		},
	}
}

func newDumpCmd(out io.Writer) *ffcli.Command {
	return &ffcli.Command{
		Name:       "dump",
		ShortUsage: "dmftool dump <file|dir>",
		ShortHelp:  "Print every loaded family",
		FlagSet:    flag.NewFlagSet("dump", flag.ContinueOnError),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			return runDump(ctx, out, newLogger(), args[0])
		},
	}
}

func newLogger() *zap.Logger {
	return lgr.InitializeLogger(rootArgs.logLevel)
}

func newParser(logger *zap.Logger, withFunctions bool) *dmfsnmp.Parser {
	if withFunctions {
		return dmfsnmp.New(logger, dmfsnmp.WithEvaluator(functions.NewLua(logger)))
	}
	return dmfsnmp.New(logger)
}

func load(p *dmfsnmp.Parser, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return p.ParseDir(path)
	}
	return p.ParseFile(path)
}

func runTest(ctx context.Context, out io.Writer, logger *zap.Logger, dir, family string) error {
	p := newParser(logger, rootArgs.functions)
	defer p.Destroy()
	// a failing file does not hide what the rest of the batch loaded
	parseErr := p.ParseDir(dir)

	fmt.Fprintf(out, "loaded %d mib2nut entries from %s\n", p.TableCounter()-1, dir)
	for _, id := range p.DeviceTable() {
		if id.IsSentinel() {
			break
		}
		fmt.Fprintf(out, "  %s sysoid=%s auto_check=%s\n", id.MIB, id.SysOID, id.OID)
	}

	if family != "" {
		f := p.FindFamily(family)
		if f == nil {
			return errors.Join(parseErr, fmt.Errorf("family %q is not loaded", family))
		}
		if err := p.DumpFamily(ctx, out, f); err != nil {
			return err
		}
	}
	return parseErr
}

func runReindex(out io.Writer, logger *zap.Logger, dir, format string) error {
	p := dmfsnmp.New(logger)
	defer p.Destroy()
	if err := p.ParseDir(dir); err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "xml":
		_, err := index.Reindex(logger, out, p.DeviceTable())
		return err
	case "yaml":
		return index.WriteYAML(out, p.DeviceTable())
	default:
		return fmt.Errorf("unknown index format %q", format)
	}
}

func runDump(ctx context.Context, out io.Writer, logger *zap.Logger, path string) error {
	p := newParser(logger, rootArgs.functions)
	defer p.Destroy()
	if err := load(p, path); err != nil {
		return err
	}
	return p.Dump(ctx, out)
}
