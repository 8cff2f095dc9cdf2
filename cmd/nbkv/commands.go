package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/nbroyles/nbkv/pkg"
	"github.com/pkg/errors"
)

var errExit = errors.New("exit")

// openBound is typed in place of a range bound to leave that side open
const openBound = "-"

type command struct {
	name  string
	usage string
	args  int // required argument count, -1 for 0..2
	run   func(db *pkg.DB, args []string, out io.Writer) error
}

var commands []command

func init() {
	commands = []command{
		{"put", "put <key> <value>", 2, cmdPut},
		{"get", "get <key>", 1, cmdGet},
		{"del", "del <key>", 1, cmdDel},
		{"range", "range [start|-] [end|-]", -1, cmdRange},
		{"compact", "compact", 0, cmdCompact},
		{"len", "len", 0, cmdLen},
		{"stats", "stats", 0, cmdStats},
		{"export", "export [start|-] [end|-]", -1, cmdExport},
		{"help", "help", 0, cmdHelp},
		{"exit", "exit", 0, func(*pkg.DB, []string, io.Writer) error { return errExit }},
	}
}

// handleCommand parses and runs one REPL line. Values may contain spaces:
// everything after the key is the value for put
func handleCommand(db *pkg.DB, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToLower(fields[0])
	for _, c := range commands {
		if c.name != name {
			continue
		}

		args := fields[1:]
		if c.name == "put" && len(args) >= 2 {
			args = splitPut(line)
		}

		if c.args >= 0 && len(args) != c.args || c.args < 0 && len(args) > 2 {
			return errors.Errorf("usage: %s", c.usage)
		}

		if err := c.run(db, args, out); err != nil && err != errExit {
			return errors.Wrap(err, c.name)
		} else if err != nil {
			return err
		}

		return nil
	}

	return errors.Errorf("unknown command %q. type 'help' for commands", fields[0])
}

// splitPut returns the key and the raw remainder of a put line
func splitPut(line string) []string {
	rest := strings.TrimSpace(line)[len("put"):]
	rest = strings.TrimLeft(rest, " \t")
	key := strings.Fields(rest)[0]
	value := strings.TrimLeft(rest[len(key):], " \t")

	return []string{key, value}
}

func bounds(args []string) ([]byte, []byte) {
	var start, end []byte
	if len(args) > 0 && args[0] != openBound {
		start = []byte(args[0])
	}
	if len(args) > 1 && args[1] != openBound {
		end = []byte(args[1])
	}

	return start, end
}

func cmdPut(db *pkg.DB, args []string, out io.Writer) error {
	db.Put([]byte(args[0]), []byte(args[1]))
	fmt.Fprintln(out, "OK")
	return nil
}

func cmdGet(db *pkg.DB, args []string, out io.Writer) error {
	fmt.Fprintln(out, formatResult(db.Get([]byte(args[0]))))
	return nil
}

func cmdDel(db *pkg.DB, args []string, out io.Writer) error {
	db.Delete([]byte(args[0]))
	fmt.Fprintln(out, "OK")
	return nil
}

func cmdRange(db *pkg.DB, args []string, out io.Writer) error {
	start, end := bounds(args)

	iter := db.Range(start, end)
	for iter.HasNext() {
		entry := iter.Next()
		fmt.Fprintf(out, "%q => %s\n", entry.Key, formatResult(entry.Result))
	}
	fmt.Fprintf(out, "(%d entries)\n", iter.Len())

	return nil
}

func cmdCompact(db *pkg.DB, _ []string, out io.Writer) error {
	stats := db.Compact()
	fmt.Fprintf(out, "scanned %d, reclaimed %d keys (%d bytes) in %s\n",
		stats.Scanned, stats.Reclaimed, stats.ReclaimedBytes, stats.Duration)
	return nil
}

func cmdLen(db *pkg.DB, _ []string, out io.Writer) error {
	fmt.Fprintln(out, db.Len())
	return nil
}

func cmdStats(db *pkg.DB, _ []string, out io.Writer) error {
	s := db.Stats()
	fmt.Fprintf(out, "keys=%d live=%d tombstones=%d bytes=%d\n", s.Keys, s.Live, s.Tombstones, s.Bytes)
	return nil
}

func cmdExport(db *pkg.DB, args []string, out io.Writer) error {
	start, end := bounds(args)

	buf := bytes.Buffer{}
	n, err := db.Export(&buf, start, end)
	if err != nil {
		return errors.Wrap(err, "export range")
	}

	fmt.Fprint(out, hex.Dump(buf.Bytes()))
	fmt.Fprintf(out, "(%d records, %d bytes)\n", n, buf.Len())

	return nil
}

func cmdHelp(_ *pkg.DB, _ []string, out io.Writer) error {
	fmt.Fprintln(out, "commands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %s\n", c.usage)
	}
	return nil
}

func formatResult(res pkg.Result) string {
	switch res.Status {
	case pkg.Found:
		return fmt.Sprintf("%q", res.Value)
	case pkg.Tombstoned:
		return "(tombstone)"
	default:
		return "(absent)"
	}
}
