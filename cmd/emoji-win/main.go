// emoji-win - use Apple color emoji fonts on Windows
// Copyright (C) 2026  The emoji-win authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Emoji-win rewrites Apple's color emoji font so that Windows can use
// it in place of "Segoe UI Emoji".
//
// Usage:
//
//	emoji-win convert [-sizes list] [-family name] input.ttf output.ttf
//	emoji-win diagnose [-sizes list] font.ttf
//	emoji-win analyze font.ttf
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	emojiwin "github.com/jjjuk/emoji-win"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "convert":
		err = cmdConvert(args[1:])
	case "diagnose":
		err = cmdDiagnose(args[1:])
	case "analyze":
		err = cmdAnalyze(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "emoji-win:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
    emoji-win convert [-sizes list] [-family name] input.ttf output.ttf
    emoji-win diagnose [-sizes list] font.ttf
    emoji-win analyze font.ttf`)
}

func cmdConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	sizes := fs.String("sizes", "", "comma-separated strike sizes to retain")
	family := fs.String("family", "", "font family name to write")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("convert needs an input and an output file")
	}

	opt := &emojiwin.Options{}
	var err error
	opt.AcceptedSizes, err = parseSizes(*sizes)
	if err != nil {
		return err
	}
	if *family != "" {
		id := *emojiwin.SegoeUIEmoji
		id.Family = *family
		id.FullName = *family
		id.UniqueID = *family
		id.PostScript = strings.ReplaceAll(*family, " ", "")
		opt.Identity = &id
	}

	res, err := emojiwin.ConvertWithOptions(fs.Arg(0), fs.Arg(1), opt)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if res.Unchanged {
		fmt.Println("input already converted, copied unchanged")
		return nil
	}
	fmt.Printf("retained strikes: %v\n", res.RetainedStrikes)
	if len(res.DroppedStrikes) > 0 {
		fmt.Printf("dropped strikes:  %v\n", res.DroppedStrikes)
	}
	fmt.Printf("mapped %d code points (%d beyond the BMP)\n",
		res.BMPMappings+res.SupplementaryMappings, res.SupplementaryMappings)
	return nil
}

func cmdDiagnose(args []string) error {
	fs := flag.NewFlagSet("diagnose", flag.ExitOnError)
	sizes := fs.String("sizes", "", "comma-separated acceptable strike sizes")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("diagnose needs a font file")
	}

	opt := &emojiwin.Options{}
	var err error
	opt.AcceptedSizes, err = parseSizes(*sizes)
	if err != nil {
		return err
	}

	report, err := emojiwin.DiagnoseWithOptions(fs.Arg(0), opt)
	if err != nil {
		return err
	}

	pass, fail := "ok:  ", "FAIL:"
	if term.IsTerminal(int(os.Stdout.Fd())) {
		pass, fail = "✓", "✗"
	}
	for _, c := range report.Checks {
		mark := pass
		if !c.OK {
			mark = fail
		}
		fmt.Printf("%s %-28s %s\n", mark, c.Name, c.Detail)
	}
	if !report.OK() {
		return fmt.Errorf("%d checks failed", len(report.Failed()))
	}
	return nil
}

func cmdAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("analyze needs a font file")
	}

	summary, err := emojiwin.Analyze(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("family:      %s\n", summary.Family)
	fmt.Printf("unitsPerEm:  %d\n", summary.UnitsPerEm)
	fmt.Printf("code points: %d (%d beyond the BMP)\n",
		summary.BMPMappings+summary.SupplementaryMappings,
		summary.SupplementaryMappings)

	fmt.Println("\ntables:")
	for _, ts := range summary.Tables {
		fmt.Printf("    %-4s %8d bytes  checksum %08X\n",
			ts.Tag, ts.Length, ts.Checksum)
	}

	fmt.Println("\nstrikes:")
	for _, s := range summary.Strikes {
		note := ""
		if !s.Accepted {
			note = "  (not usable on Windows)"
		}
		fmt.Printf("    %3d px, %d bit, %d glyphs%s\n",
			s.PPEM, s.BitDepth, s.NumGlyphs, note)
		for _, img := range s.Images {
			desc := fmt.Sprintf("image format %d", img.ImageFormat)
			if img.Encoding != "" {
				desc = fmt.Sprintf("%s, %s %dx%d",
					desc, img.Encoding, img.Width, img.Height)
			}
			fmt.Printf("        %d glyphs: %s\n", img.NumGlyphs, desc)
		}
	}
	return nil
}

// parseSizes parses a comma-separated list of pixel sizes.  An empty
// string selects the default sizes.
func parseSizes(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var res []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid strike size %q", part)
		}
		res = append(res, n)
	}
	return res, nil
}
