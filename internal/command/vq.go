// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/iqlctlgo/internal/meta"
)

// VqCommandAction is the action handler for the "vq" subcommand. It runs
// the IQL search through the cache and prints the first matching attribute
// value. No match prints an empty line, mirroring the null the Insight API
// reports for absent attributes.
func VqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "vq") {
		return nil
	}

	iql, err := requireIQL(cmd)
	if err != nil {
		return err
	}
	attr, err := requireString(cmd, "attr")
	if err != nil {
		return err
	}
	typeName, err := requireString(cmd, "type")
	if err != nil {
		return err
	}
	schemaID, err := requireString(cmd, "schema-id")
	if err != nil {
		return err
	}

	svc, err := InitService(ctx, cmd)
	if err != nil {
		return err
	}

	value, err := svc.Value(ctx, iql, attr, typeName, schemaID)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

// VqCommandBuilder constructs the cli.Command for "vq".
func VqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "vq",
		Usage:     "value query - first attribute value matching an IQL search",
		UsageText: `iqlctl vq [options] <iql>`,
		Flags: []cli.Flag{
			NewAttrFlag(),
			NewTypeFlag(),
			NewHostFlag("vq", meta.Config.Source),
			NewEmailFlag("vq", meta.Config.Source),
			NewTokenFlag("vq", meta.Config.Source),
			NewSchemaFlag("vq", meta.Config.Source),
		},
		Action: VqCommandAction,
		Meta:   meta,
	}).Build()
}
