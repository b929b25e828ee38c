// Package config loads analysis configurations: which files to register
// under which nicknames, which locals and requests to set up, and which
// named expressions to evaluate.
//
//	files:
//	  jets: ${DATA_DIR:-data}/jets.sqlite
//	locals:
//	  lumi: 35.9
//	  signal: "jets:pt/pass - jets:pt/fake"
//	requests:
//	  - object_spec: jets:pt/response
//	    rebin_factor: 2
//	expressions:
//	  efficiency: efficiency(jets:pt/pass, jets:pt/all)
//	functions:
//	  extensions: true
package config

import (
	"sort"

	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/parser"
	"github.com/tfesenbecker/palisade/pkg/source"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Config is a parsed configuration document.
type Config struct {
	// BaseDir is the directory of the configuration file; relative file
	// paths were resolved against it.
	BaseDir string `yaml:"-"`

	Files       map[string]string      `yaml:"files"`
	Locals      map[string]interface{} `yaml:"locals"`
	Requests    []Request              `yaml:"requests"`
	Expressions map[string]string      `yaml:"expressions"`
	Functions   Functions              `yaml:"functions"`
	Log         Log                    `yaml:"log"`
}

// Request mirrors catalog.RequestSpec and source.RequestOptions.
type Request struct {
	ObjectSpec         string  `yaml:"object_spec"`
	FileNickname       string  `yaml:"file_nickname"`
	ObjectPath         string  `yaml:"object_path"`
	RebinFactor        int     `yaml:"rebin_factor"`
	ProfileErrorOption *string `yaml:"profile_error_option"`
	ForceRerequest     *bool   `yaml:"force_rerequest"`
}

// Functions selects optional function packs.
type Functions struct {
	Extensions bool `yaml:"extensions"`
}

// Log configures the command line logger.
type Log struct {
	Level string `yaml:"level"`
}

// Defaults returns an empty configuration.
func Defaults() *Config {
	return &Config{
		Files:       map[string]string{},
		Locals:      map[string]interface{}{},
		Expressions: map[string]string{},
		Log:         Log{Level: "info"},
	}
}

// Spec converts the request into a catalog request.
func (r Request) Spec() catalog.RequestSpec {
	var opts []source.RequestOption
	if r.RebinFactor > 0 {
		opts = append(opts, source.WithRebin(r.RebinFactor))
	}
	if r.ProfileErrorOption != nil {
		opts = append(opts, source.WithProfileErrorOption(*r.ProfileErrorOption))
	}
	if r.ForceRerequest != nil {
		opts = append(opts, source.WithForce(*r.ForceRerequest))
	}
	return catalog.RequestSpec{
		ObjectSpec: r.ObjectSpec,
		Nickname:   r.FileNickname,
		ObjectPath: r.ObjectPath,
		Options:    opts,
	}
}

// Validate checks the document without touching any file.
func (c *Config) Validate() error {
	for _, nick := range sortedKeys(c.Files) {
		if c.Files[nick] == "" {
			return types.ConfigError.New("files: %q has no path", nick)
		}
	}
	for i, r := range c.Requests {
		hasSpec := r.ObjectSpec != ""
		hasPair := r.FileNickname != "" && r.ObjectPath != ""
		if hasSpec == hasPair || (hasSpec && (r.FileNickname != "" || r.ObjectPath != "")) {
			return types.ConfigError.New("requests[%d]: need either object_spec or file_nickname and object_path", i)
		}
		if hasSpec {
			if _, _, err := catalog.SplitSpec(r.ObjectSpec); err != nil {
				return types.ConfigError.New("requests[%d]: %v", i, err)
			}
		}
		if r.RebinFactor < 0 {
			return types.ConfigError.New("requests[%d]: rebin_factor must not be negative", i)
		}
	}
	for _, name := range sortedKeys(c.Expressions) {
		if _, err := parser.Parse(c.Expressions[name]); err != nil {
			return types.ConfigError.New("expressions: %q: %v", name, err)
		}
	}
	return nil
}

// ExpressionNames returns the names of the configured expressions in
// sorted order.
func (c *Config) ExpressionNames() []string {
	return sortedKeys(c.Expressions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
