// Package vfshell provides a command shell over an in-memory virtual
// filesystem loaded from an XML tree description.
package vfshell

import (
	"github.com/brettbedarf/vfshell/config"
	"github.com/brettbedarf/vfshell/server"
)

// New creates an Engine given your config.
func New(cfg *config.Config) *server.Engine {
	return server.New(cfg)
}
