package cli

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kbmatrix/pkg/errors"
	"github.com/matzehuels/kbmatrix/pkg/pipeline"
)

// Config is the contents of a kbmatrix TOML config file.
//
//	[convert]
//	input = "data.json"
//	output = "output.jsonl"
//
//	[sort]
//	input = "output.jsonl"
//	output = "sorted_output.jsonl"
//
// Keys left out keep their defaults.
type Config struct {
	Convert StageConfig `toml:"convert"`
	Sort    StageConfig `toml:"sort"`
}

// StageConfig holds the paths of one stage.
type StageConfig struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// DefaultConfig returns the built-in paths.
func DefaultConfig() Config {
	return Config{
		Convert: StageConfig{
			Input:  pipeline.DefaultConvertInput,
			Output: pipeline.DefaultConvertOutput,
		},
		Sort: StageConfig{
			Input:  pipeline.DefaultSortInput,
			Output: pipeline.DefaultSortOutput,
		},
	}
}

// LoadConfig reads the config file at path on top of DefaultConfig.
// An empty path returns the defaults. A missing file, a syntax error or an
// unknown key is an ErrCodeInvalidConfig error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// options builds pipeline options from the stage config, overridden by a
// positional input argument and an explicitly set output flag.
func (s StageConfig) options(args []string, output string, outputSet bool) pipeline.Options {
	opts := pipeline.Options{Input: s.Input, Output: s.Output}
	if len(args) > 0 {
		opts.Input = args[0]
	}
	if outputSet {
		opts.Output = output
	}
	return opts
}
