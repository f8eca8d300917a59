package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-assetdoc/internal/config"
)

// Environment is everything a command touches outside its arguments:
// the streams, the clock stamped into generated documents, and the
// configuration. Tests build their own.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time

	// Config is resolved once per command: file, then env, then flags.
	Config *config.Config
	// ConfigName is what --config or ASSETDOC_CONFIG asked for, kept for hints.
	ConfigName string
}

// DefaultEnv wires the process streams and wall clock.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Now:    time.Now,
		Config: config.DefaultConfig(),
	}
}
