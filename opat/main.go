package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/opat/opat/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])

	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	log, err := cmd.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	groups := cmd.Groups(cfg, log)

	// exits if the shell is asking for a completion.
	completion(groups).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander, cfg, log)

	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !known(groups, sub) {
		if found, code := cmd.RunExtension(cfg, log, sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func known(groups []cmd.Group, name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, g := range groups {
		for _, c := range g.Commands {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}

// completion describes the command line for shell completion.
func completion(groups []cmd.Group) *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	for _, g := range groups {
		for _, c := range g.Commands {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			f.VisitAll(func(fl *flag.Flag) {
				sub.Flags[fl.Name] = predictor(fl)
			})
			root.Sub[c.Name()] = sub
		}
	}
	return root
}

func predictor(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch fl.Name {
	case "trades", "splits", "prices", "flows", "returns":
		return predict.Files("*.csv")
	case "prices-dir":
		return predict.Dirs("*")
	case "o":
		return predict.Files("*.json")
	case "p":
		return predict.Set{"week", "month", "quarter", "year"}
	}
	return predict.Something
}
