// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/staranto/iqlctlgo/internal/meta"
)

// LqCommandAction is the action handler for the "lq" subcommand. It runs
// the IQL search through the cache and prints every matching attribute
// value: joined with the separator for text output, as a list for
// json/yaml, or the untouched search document for raw.
func LqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "lq") {
		return nil
	}

	iql, err := requireIQL(cmd)
	if err != nil {
		return err
	}

	// raw is the whole search document, uncached, same as tq/aq. Attribute
	// extraction never runs so --attr/--type are not required here.
	if cmd.String("output") == "raw" {
		client, err := InitClient(ctx, cmd)
		if err != nil {
			return err
		}
		doc, err := client.SearchObjects(ctx, iql)
		if err != nil {
			return err
		}
		fmt.Println(doc.Raw)
		return nil
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

	values, err := svc.Values(ctx, iql, attr, typeName, schemaID)
	if err != nil {
		return err
	}

	switch cmd.String("output") {
	case "json":
		out, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("failed to marshal values: %w", err)
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yamlv2.Marshal(values)
		if err != nil {
			return fmt.Errorf("failed to marshal values: %w", err)
		}
		fmt.Print(string(out))
	default:
		fmt.Println(strings.Join(values, cmd.String("separator")))
	}

	return nil
}

// LqCommandBuilder constructs the cli.Command for "lq".
func LqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "lq",
		Usage:     "list query - all attribute values matching an IQL search",
		UsageText: `iqlctl lq [options] <iql>`,
		Flags: []cli.Flag{
			NewAttrFlag(),
			NewTypeFlag(),
			&cli.StringFlag{
				Name:  "separator",
				Usage: "joiner for text output",
				Value: ";",
			},
			NewHostFlag("lq", meta.Config.Source),
			NewEmailFlag("lq", meta.Config.Source),
			NewTokenFlag("lq", meta.Config.Source),
			NewSchemaFlag("lq", meta.Config.Source),
		},
		Action: LqCommandAction,
		Meta:   meta,
	}).Build()
}
