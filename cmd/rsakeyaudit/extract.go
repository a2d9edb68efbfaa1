package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"

	"github.com/dreamware/rsakeyaudit/internal/journal"
	"github.com/dreamware/rsakeyaudit/internal/metrics"
	"github.com/dreamware/rsakeyaudit/internal/modlist"
	"github.com/dreamware/rsakeyaudit/internal/modset"
	"github.com/dreamware/rsakeyaudit/internal/sshkey"
)

// runExtract implements the `extract` subcommand: I→A→B→C over every chunk
// in --keys-dir, writing the resulting unique moduli (hex form) to --out.
func runExtract(args []string, log zerolog.Logger, quiet bool) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	keysDir := fs.String("keys-dir", "", "directory of keys-NNNN.json[.xz] journal chunks")
	out := fs.String("out", "", "output path for the unique modulus list (hex form)")
	exact := fs.Bool("exact", false, "use an exact in-memory set instead of a Bloom filter")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *keysDir == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "rsakeyaudit extract: --keys-dir and --out are required")
		return 1
	}

	refs, err := journal.Discover(*keysDir)
	if err != nil {
		log.Error().Err(err).Msg("journal discovery failed")
		return 1
	}
	log.Info().Int("chunks", len(refs)).Msg("discovered journal chunks")

	var dedup modset.Deduplicator
	if *exact {
		dedup = modset.NewExactDedup(0)
	} else {
		dedup = modset.NewBloomDedup(modset.DefaultN, modset.DefaultFP)
	}
	filter := modset.NewFilter(dedup)

	run := metrics.NewRun("rsakeyaudit_extract")

	stream := journal.NewStream(refs)
	defer stream.Close()

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions64(-1, progressbar.OptionSetDescription("extracting"))
	}

	for {
		rec, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("journal stream failed")
			return 1
		}

		for _, line := range rec.Keys {
			run.KeysSeen.Inc()
			res := sshkey.Parse(line)
			switch res.Kind {
			case sshkey.KindRSA:
				run.RSAKeysParsed.Inc()
				if !filter.Add(res.Modulus) {
					run.DuplicateMods.Inc()
				}
			case sshkey.KindSkipped:
				run.NonRSASkipped.Inc()
			case sshkey.KindMalformed:
				run.MalformedKeys.Inc()
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Error().Err(err).Str("path", *out).Msg("failed to create output file")
		return 1
	}
	defer f.Close()

	if err := modlist.WriteHex(f, filter.Unique()); err != nil {
		log.Error().Err(err).Msg("failed to write modulus list")
		return 1
	}

	if !quiet {
		fmt.Fprintln(os.Stderr, run.Summary())
	}
	return 0
}
