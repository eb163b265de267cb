package verify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/nequiv/internal/bdd"
	"github.com/gnoswap-labs/nequiv/internal/equiv"
	"github.com/gnoswap-labs/nequiv/internal/netlist"
)

const DefaultConfigFile = ".nequiv.yaml"

// Config represents the content of a .nequiv.yaml file.
type Config struct {
	Name   string       `yaml:"name"`
	Parser ParserConfig `yaml:"parser"`
	Check  CheckConfig  `yaml:"check"`
	BDD    bdd.Config   `yaml:"bdd"`
}

type ParserConfig struct {
	Strict bool `yaml:"strict"`
}

type CheckConfig struct {
	Match           string `yaml:"match" validate:"oneof=name position"`
	Mismatch        string `yaml:"mismatch" validate:"oneof=collect fail-fast"`
	Counterexamples bool   `yaml:"counterexamples"`
	Workers         int    `yaml:"workers" validate:"gte=1,lte=256"`
}

func DefaultConfig() Config {
	return Config{
		Name: "nequiv",
		Check: CheckConfig{
			Match:           string(netlist.MatchByName),
			Mismatch:        string(equiv.CollectAll),
			Counterexamples: true,
			Workers:         1,
		},
		BDD: bdd.Config{
			NodeSize:  bdd.DefaultNodeSize,
			CacheSize: bdd.DefaultCacheSize,
		},
	}
}

// Options converts the configuration into checker options.
func (c Config) Options() equiv.Options {
	return equiv.Options{
		Match:           netlist.MatchMode(c.Check.Match),
		Mismatch:        equiv.MismatchPolicy(c.Check.Mismatch),
		Counterexamples: c.Check.Counterexamples,
		Workers:         c.Check.Workers,
		Parse:           netlist.ParseOptions{Strict: c.Parser.Strict},
		BDD:             c.BDD,
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfig reads the configuration at path. Keys absent from the file
// keep their default values, and a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, config.Validate()
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
