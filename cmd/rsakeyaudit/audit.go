package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"

	"github.com/dreamware/rsakeyaudit/internal/batchgcd"
	"github.com/dreamware/rsakeyaudit/internal/bignum"
	"github.com/dreamware/rsakeyaudit/internal/metrics"
	"github.com/dreamware/rsakeyaudit/internal/modlist"
)

// runAudit implements the `audit` subcommand: pads the modulus list to a
// power of two, shards it across workers via internal/batchgcd, and prints
// every (index, divisor) match to stdout.
func runAudit(args []string, log zerolog.Logger, quiet, noColor bool) int {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	workers := fs.Int("workers", 0, "number of workers, power of two dividing the padded modulus count (default: auto)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "rsakeyaudit audit: expected a single modulus-list path argument")
		return 1
	}

	f, err := os.Open(rest[0])
	if err != nil {
		log.Error().Err(err).Msg("failed to open modulus list")
		return 1
	}
	defer f.Close()

	rawModuli, err := modlist.Read(f)
	if err != nil {
		log.Error().Err(err).Msg("failed to read modulus list")
		return 1
	}

	moduli := padToPowerOfTwo(rawModuli)

	k := *workers
	if k <= 0 {
		k = defaultWorkerCount(len(moduli))
	}

	run := metrics.NewRun("rsakeyaudit_audit")
	run.ModuliAudited.Add(float64(len(moduli)))

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions64(-1, progressbar.OptionSetDescription(fmt.Sprintf("auditing %d moduli across %d workers", len(moduli), k)))
	}

	matches, stats, err := batchgcd.Run(context.Background(), moduli, k)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		log.Error().Err(err).Msg("batch-GCD failed")
		return 1
	}
	run.MatchesFound.Add(float64(len(matches)))

	for i, s := range stats {
		log.Debug().
			Int("partition", i).
			Uint64("product_trees_built", s.ProductTreesBuilt).
			Uint64("remainder_trees_evaluated", s.RemainderTreesEvald).
			Uint64("matches_emitted", s.MatchesEmitted).
			Msg("partition stats")
	}

	useColor := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	printMatches(os.Stdout, matches, useColor)

	if !quiet {
		fmt.Fprintln(os.Stderr, run.Summary())
	}
	return 0
}

// padToPowerOfTwo right-pads byte-slice moduli with the multiplicative
// identity so the count reaches the next power of two, then
// converts everything to bignum.Int.
func padToPowerOfTwo(raw [][]byte) []*bignum.Int {
	n := len(raw)
	target := 1
	for target < n {
		target *= 2
	}

	moduli := make([]*bignum.Int, target)
	for i, b := range raw {
		moduli[i] = bignum.FromBytes(b)
	}
	for i := n; i < target; i++ {
		moduli[i] = bignum.One()
	}
	return moduli
}

// defaultWorkerCount picks the largest power of two, no greater than the
// number of CPUs, that evenly divides n.
func defaultWorkerCount(n int) int {
	k := 1
	for next := k * 2; next <= runtime.NumCPU() && n%next == 0; next *= 2 {
		k = next
	}
	return k
}

func printMatches(w *os.File, matches []batchgcd.Match, useColor bool) {
	for _, m := range matches {
		line := fmt.Sprintf("%d,%s", m.GlobalIndex, hex.EncodeToString(m.Divisor.Bytes()))
		if useColor {
			color.New(color.FgRed).Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}
}
