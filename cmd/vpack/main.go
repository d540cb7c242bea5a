// Package main provides the vpack command line tool.
//
// vpack converts YAML documents to value trees, validates mapper
// configuration files and runs documents through the reflective mapper:
//
//	vpack dump --format yaml doc.yaml
//	vpack --config mapper.toml check --resolved
//	vpack --config mapper.yaml roundtrip doc.yaml
package main

import (
	"fmt"
	"os"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

var log = logger.GetOrCreate("main")

var (
	// configFile points to the mapper configuration (.yaml, .yml or .toml)
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "The `filepath` of the mapper configuration file.",
	}
	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated values, " +
			"for example *:INFO,mapper:TRACE.",
		Value: "*:" + logger.LogInfo.String(),
	}
	resolved = cli.BoolFlag{
		Name:  "resolved",
		Usage: "Print the configuration with defaults applied.",
	}
	format = cli.StringFlag{
		Name:  "format",
		Usage: "Output `format`: text, yaml or go.",
		Value: formatText,
	}
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "vpack"
	app.Version = "v0.1.0"
	app.Usage = "Inspect value trees and exercise the reflective mapper"
	app.Flags = []cli.Flag{configFile, logLevel}
	app.Before = func(ctx *cli.Context) error {
		return logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	}
	app.Commands = []cli.Command{
		{
			Name:      "dump",
			Usage:     "parse a YAML document and print its value tree",
			ArgsUsage: "<file|->",
			Flags:     []cli.Flag{format},
			Action:    dump,
		},
		{
			Name:      "check",
			Usage:     "validate a mapper configuration file",
			ArgsUsage: "[file]",
			Flags:     []cli.Flag{resolved},
			Action:    check,
		},
		{
			Name:      "roundtrip",
			Usage:     "decode a YAML document into Go values and serialize it back",
			ArgsUsage: "<file|->",
			Action:    roundtrip,
		},
	}

	return app
}
