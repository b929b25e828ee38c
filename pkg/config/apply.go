package config

import (
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/ext"
	"github.com/tfesenbecker/palisade/pkg/functions"
)

// Target receives a configuration. *palisade.Input implements it.
type Target interface {
	AddFile(path, nickname string) error
	RegisterLocal(name string, value interface{}) error
	RegisterFunctions(defs []functions.Def, allowOverride bool) error
	Request(specs ...catalog.RequestSpec) error
}

// Apply registers the extension functions, files, locals and requests of
// the configuration, in that order. Names are processed in sorted order.
func (c *Config) Apply(t Target) error {
	if c.Functions.Extensions {
		if err := t.RegisterFunctions(ext.All(), true); err != nil {
			return err
		}
	}
	for _, nick := range sortedKeys(c.Files) {
		if err := t.AddFile(c.Files[nick], nick); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(c.Locals) {
		if err := t.RegisterLocal(name, c.Locals[name]); err != nil {
			return err
		}
	}
	if len(c.Requests) == 0 {
		return nil
	}
	specs := make([]catalog.RequestSpec, len(c.Requests))
	for i, r := range c.Requests {
		specs[i] = r.Spec()
	}
	return t.Request(specs...)
}
