// Package cmd implements the opat command line application.
package cmd

import (
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Group is a named set of subcommands.
type Group struct {
	Name     string
	Commands []subcommands.Command
}

// Groups returns the opat subcommands.
func Groups(cfg Config, log logrus.FieldLogger) []Group {
	// as a CLI application, it has a very short lived lifecycle, so it is ok
	// for all the commands to share the configuration.
	in := inputs{cfg: &cfg, log: log}
	return []Group{
		{"tables", []subcommands.Command{
			&holdingsCmd{inputs: in},
			&pnlCmd{inputs: in},
			&navCmd{inputs: in},
		}},
		{"returns", []subcommands.Command{
			&statsCmd{returns: returns{inputs: in}},
			&chartCmd{returns: returns{inputs: in}},
		}},
		{"help", []subcommands.Command{
			&topicCmd{},
		}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, cfg Config, log logrus.FieldLogger) {
	for _, g := range Groups(cfg, log) {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Name)
		}
	}
}
