package main

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jsign/contract-sizes/analysis"
	"github.com/jsign/contract-sizes/analysis/z31bytechunker"
	"github.com/jsign/contract-sizes/analysis/z32bytechunker"
	"github.com/jsign/contract-sizes/artifact"
	"github.com/jsign/contract-sizes/history"
	"github.com/jsign/contract-sizes/report"
	"github.com/urfave/cli/v2"
)

func contractSizes(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() > 0 {
		cfg.Contracts = ctx.Args().Slice()
	}
	return run(cfg, artifact.Dir{Root: cfg.Artifacts}, ctx.App.Writer)
}

// run sizes the contracts of src and prints them to out. With Diff set the
// sizes of the previous run are loaded first and replaced by the current ones.
func run(cfg Config, src artifact.Source, out io.Writer) error {
	var prev history.Snapshot
	if cfg.Diff {
		var err error
		if prev, err = history.Load(cfg.snapshotPath()); err != nil {
			return err
		}
		log.Debug("Loaded previous sizes", "path", cfg.snapshotPath(), "contracts", len(prev))
	}

	opts := report.Options{Contracts: cfg.Contracts, MinSize: cfg.MinSize}
	if cfg.Chunks {
		opts.Chunkers = []analysis.Chunker{z31bytechunker.New(), z32bytechunker.New()}
	}
	rep, err := report.Generate(src, opts, prev)
	if err != nil {
		return err
	}
	if len(rep.Skipped) > 0 {
		log.Warn("Some contracts were not sized", "count", len(rep.Skipped))
	}

	if cfg.Diff {
		if err := history.Save(cfg.snapshotPath(), rep.Snapshot); err != nil {
			return err
		}
		log.Debug("Saved sizes", "path", cfg.snapshotPath(), "contracts", len(rep.Snapshot))
	}

	if rep.Sized == 0 {
		fmt.Fprintln(out, "No contracts found")
		return nil
	}
	if len(rep.Entries) == 0 {
		fmt.Fprintf(out, "There are no contracts exceeding %d bytes\n", cfg.MinSize)
		return nil
	}
	newTable(cfg, opts.Chunkers, cfg.Diff).render(out, rep.Entries)
	return nil
}
