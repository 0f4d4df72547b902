package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   __ _ _ __ __ _ / _(_) ___ __ _  __| | ___  _ __ `, "#38bdf8"},
	{`  / _' | '__/ _' | |_| |/ __/ _' |/ _' |/ _ \| '__|`, "#22d3ee"},
	{` | (_| | | | (_| |  _| | (_| (_| | (_| | (_) | |   `, "#2dd4bf"},
	{`  \__, |_|  \__,_|_| |_|\___\__,_|\__,_|\___/|_|   `, "#34d399"},
	{`  |___/                                            `, "#a3e635"},
}

// PrintBanner writes the graficador banner to w, colored when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
