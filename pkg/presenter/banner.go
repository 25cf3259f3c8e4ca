package presenter

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ____  _____ __ `, "#818cf8"},
	{`  / __ \/ ___// / `, "#a78bfa"},
	{` / / / /\__ \/ /  `, "#c084fc"},
	{`/ /_/ /___/ / /___`, "#e879f9"},
	{`\____//____/_____/`, "#f472b6"},
}

// PrintBanner writes the shell banner to w only when w is a terminal.
func PrintBanner(w io.Writer) {
	if !IsTerminal(w) {
		return
	}
	p := termenv.NewOutput(w).EnvColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
