// Command relite runs a pattern against a subject and prints the match.
//
// Usage:
//
//	relite [-i] [-decode] [-timeout d] [-caps n] pattern [subject]
//
// The subject comes from the argument, or from stdin when omitted. Exit
// status is 0 on a match, 1 on no match, 2 on a bad pattern or usage.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/d0lph1n98/relite"
	"github.com/d0lph1n98/relite/urlnorm"
)

func main() {
	ignoreCase := flag.Bool("i", false, "match case-insensitively")
	decode := flag.Bool("decode", false, "percent-decode the subject before matching")
	timeout := flag.Duration("timeout", 0, "abort the match after this long (0 = no limit)")
	capSlots := flag.Int("caps", 0, "capture slots to reserve (0 = auto)")
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "usage: relite [-i] [-decode] [-timeout d] [-caps n] pattern [subject]")
		os.Exit(2)
	}
	pattern := flag.Arg(0)

	var subject []byte
	if flag.NArg() == 2 {
		subject = []byte(flag.Arg(1))
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "relite: reading stdin: %v\n", err)
			os.Exit(2)
		}
		subject = data
	}
	if *decode {
		subject = urlnorm.Decode(subject)
	}

	matcher := relite.New()
	if *timeout > 0 {
		matcher.MatchTimeout = *timeout
	}
	var opt relite.Options
	if *ignoreCase {
		opt |= relite.IgnoreCase
	}

	var m *relite.Match
	var err error
	if *capSlots > 0 {
		caps := make([]relite.Capture, *capSlots)
		m, err = matcher.FindWithCaptures(pattern, subject, caps, opt)
	} else {
		m, err = matcher.Find(pattern, subject, opt)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "relite: %v\n", err)
		os.Exit(2)
	}
	if m == nil {
		fmt.Println("no match")
		os.Exit(1)
	}

	fmt.Printf("match at %d, length %d: %q\n", m.Index, m.Length, m.Bytes())
	for i, c := range m.Captures {
		if c.Length == 0 {
			continue
		}
		fmt.Printf("  group %d at %d: %q\n", i+1, c.Index, c.Bytes(subject))
	}
}
