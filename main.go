package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	artifactsFlag = &cli.StringFlag{
		Name:  "artifacts",
		Usage: "Hardhat artifacts directory",
		Value: defaultConfig.Artifacts,
	}
	cacheFlag = &cli.StringFlag{
		Name:  "cache",
		Usage: "Directory the sizes of the previous run are kept in",
		Value: defaultConfig.Cache,
	}
	detailsFlag = &cli.BoolFlag{
		Name:  "details",
		Usage: "Print contribution of each source file into bytecode of a contract",
	}
	diffFlag = &cli.BoolFlag{
		Name:  "diff",
		Usage: "Print size difference with the previous run with this flag",
	}
	sizeFlag = &cli.IntFlag{
		Name:  "size",
		Usage: "Only print contracts whose code and init size reach this many bytes",
	}
	maxSizeFlag = &cli.IntFlag{
		Name:  "max-size",
		Usage: "Contract code size limit",
		Value: defaultConfig.MaxContractSize,
	}
	chunksFlag = &cli.BoolFlag{
		Name:  "chunks",
		Usage: "Print the verkle chunked size of the runtime code",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}

	configFlags = []cli.Flag{
		configFileFlag,
		artifactsFlag,
		cacheFlag,
		detailsFlag,
		diffFlag,
		sizeFlag,
		maxSizeFlag,
		chunksFlag,
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "contract-sizes",
		Usage:     "Prints size of contracts, including contribution of source files into bytecode of a contract",
		ArgsUsage: "[contracts...]",
		Flags:     append(configFlags, verbosityFlag),
		Before:    setupLogging,
		Action:    contractSizes,
		Commands: []*cli.Command{
			{
				Name:      "dumpconfig",
				Usage:     "Export configuration values in a TOML format",
				ArgsUsage: "<dumpfile (optional)>",
				Flags:     configFlags,
				Action:    dumpConfig,
			},
		},
	}
}

func setupLogging(ctx *cli.Context) error {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)), useColor)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
