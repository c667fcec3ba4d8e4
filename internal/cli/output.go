package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/reoring/shapeyaml/node"
)

type paint func(string, ...any) string

// palette colors tree and lint output. Plain when the writer is not a terminal.
type palette struct {
	key   paint
	kind  paint
	value paint
	pos   paint
	err   paint
	warn  paint
	ok    paint
}

func plain(format string, a ...any) string { return fmt.Sprintf(format, a...) }

func newPalette(w io.Writer, mode string) palette {
	if !useColor(w, mode) {
		return palette{key: plain, kind: plain, value: plain, pos: plain, err: plain, warn: plain, ok: plain}
	}
	color.NoColor = false
	return palette{
		key:   color.RGB(196, 96, 16).SprintfFunc(),
		kind:  color.CyanString,
		value: color.RGB(128, 216, 236).SprintfFunc(),
		pos:   color.RGB(96, 96, 96).SprintfFunc(),
		err:   color.New(color.FgRed, color.Bold).SprintfFunc(),
		warn:  color.YellowString,
		ok:    color.GreenString,
	}
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p palette) kindOf(n *node.Node) string {
	return p.kind("%s", node.KindName(n))
}

func (p palette) position(n *node.Node) string {
	if n == nil || n.Line == 0 {
		return ""
	}
	return p.pos(" (%d:%d)", n.Line, n.Column)
}
