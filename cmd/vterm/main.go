// Command vterm reads a terminal byte stream on stdin, runs it through
// the emulator and writes the final screen as JSON.
//
// Usage: vterm [COLSxLINES] [output]
//
// The default geometry is 80x24 and the default output is stdout. When
// an output file is given it is written atomically.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hnimtadd/vterm"
	"github.com/hnimtadd/vterm/render/jsonrender"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "vterm:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	columns, lines := 80, 24
	output := ""

	if len(args) > 0 {
		if c, l, ok := parseGeometry(args[0]); ok {
			columns, lines = c, l
			args = args[1:]
		}
	}
	if len(args) > 0 {
		output = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}

	emulator := vterm.New(lines, columns, vterm.Options{
		LogFunc: func(message string) {
			fmt.Fprintln(os.Stderr, message)
		},
	})

	reader := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if ferr := emulator.Feed(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}
	emulator.Finish()

	snap := emulator.Snapshot()
	if output == "" {
		return jsonrender.Render(os.Stdout, snap)
	}
	return writeAtomic(output, snap)
}

// parseGeometry accepts COLSxLINES, e.g. 132x43.
func parseGeometry(arg string) (columns, lines int, ok bool) {
	c, l, found := strings.Cut(arg, "x")
	if !found {
		return 0, 0, false
	}
	columns, err := strconv.Atoi(c)
	if err != nil || columns < 1 {
		return 0, 0, false
	}
	lines, err = strconv.Atoi(l)
	if err != nil || lines < 1 {
		return 0, 0, false
	}
	return columns, lines, true
}

// writeAtomic renders into a temp file next to the target and renames
// it into place, so readers never observe a partial document.
func writeAtomic(path string, snap *vterm.Snapshot) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := jsonrender.Render(tmp, snap); err != nil {
		tmp.Close()
		return fmt.Errorf("render: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
