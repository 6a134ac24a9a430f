// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/iqlctlgo/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var (
	cfg config.Type

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// pathHas checks if the given executable exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}

// NewGlobalFlags builds the flag set shared by every query command.
// params[0] is the command name, used as the config file namespace.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.BoolFlag{
			Name:        "no-cache",
			Usage:       "bypass the persistent result cache for this invocation",
			HideDefault: true,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of cached results to retain",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("cache.limit", altsrc.StringSourcer(cfg.Source)),
			),
			Value: 1000,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
		&cli.IntFlag{
			Name:  "expire",
			Usage: "cached result time-to-live, in hours",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("cache.expire", altsrc.StringSourcer(cfg.Source)),
			),
			Value: 24,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
	}

	return
}

// NewHostFlag constructs the "host" flag: the Insight REST root URL,
// including the trailing slash. params[0] is the command name, params[1]
// the config file.
func NewHostFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "host",
		Aliases: []string{"H"},
		Usage:   "Insight API base URL",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("IQLCTL_HOST"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewEmailFlag constructs the "email" flag for the Basic auth account.
func NewEmailFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "email",
		Usage: "account email for Basic authentication",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("IQLCTL_EMAIL"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewTokenFlag constructs the "token" flag for the Basic auth API key.
// When it resolves empty and stdin is a terminal, the command prompts.
func NewTokenFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "token",
		Usage: "API key for Basic authentication",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("IQLCTL_TOKEN"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewSchemaFlag constructs the "schema-id" flag identifying the Insight
// object schema queries run against.
func NewSchemaFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "schema-id",
		Aliases: []string{"S"},
		Usage:   "Insight object schema id",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("IQLCTL_SCHEMA"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewAttrFlag constructs the "attr" flag naming the attribute whose value
// is extracted from matching objects.
func NewAttrFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "attr",
		Aliases: []string{"a"},
		Usage:   "attribute name to extract from matching objects",
	}
}

// NewTypeFlag constructs the "type" flag naming the object type the
// attribute lives on.
func NewTypeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"T"},
		Usage:   "object type name the attribute belongs to",
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
