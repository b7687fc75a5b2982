package main

import (
	"bufio"
	"os"
	"path/filepath"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

const snapshotFile = ".wr_contract_sizer_output.json"

// Config is the TOML configuration of the tool. Flags override it.
type Config struct {
	Artifacts string
	Cache     string
	Contracts []string `toml:",omitempty"`
	// MinSize hides contracts whose code and init size add up to less.
	MinSize int
	// MaxContractSize is the deployable code size limit sizes are colored against.
	MaxContractSize int
	Details         bool
	Diff            bool
	Chunks          bool
}

var defaultConfig = Config{
	Artifacts:       "artifacts",
	Cache:           "cache",
	MaxContractSize: 24576,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return errors.Newf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadConfig(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "opening config file")
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.Wrap(err, file)
	}
	return err
}

// makeConfig loads the config file, if any, and applies the command line on top.
func makeConfig(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, errors.Wrap(err, "invalid config file")
		}
	}
	if ctx.IsSet(artifactsFlag.Name) {
		cfg.Artifacts = ctx.String(artifactsFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Cache = ctx.String(cacheFlag.Name)
	}
	if ctx.IsSet(sizeFlag.Name) {
		cfg.MinSize = ctx.Int(sizeFlag.Name)
	}
	if ctx.IsSet(maxSizeFlag.Name) {
		cfg.MaxContractSize = ctx.Int(maxSizeFlag.Name)
	}
	if ctx.IsSet(detailsFlag.Name) {
		cfg.Details = ctx.Bool(detailsFlag.Name)
	}
	if ctx.IsSet(diffFlag.Name) {
		cfg.Diff = ctx.Bool(diffFlag.Name)
	}
	if ctx.IsSet(chunksFlag.Name) {
		cfg.Chunks = ctx.Bool(chunksFlag.Name)
	}
	if cfg.MinSize < 0 {
		return cfg, errors.Newf("invalid size filter %d", cfg.MinSize)
	}
	return cfg, nil
}

func (cfg Config) snapshotPath() string {
	return filepath.Join(cfg.Cache, snapshotFile)
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrap(err, "creating config dump")
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
