// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/iqlctlgo/internal/meta"
	"github.com/staranto/iqlctlgo/internal/output"
)

// AqCommandAction is the action handler for the "aq" subcommand. It lists
// the attributes of an object type, resolving the type name to its numeric
// ID first.
func AqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "aq") {
		return nil
	}

	schemaID, err := requireString(cmd, "schema-id")
	if err != nil {
		return err
	}
	typeName, err := requireString(cmd, "type")
	if err != nil {
		return err
	}

	client, err := InitClient(ctx, cmd)
	if err != nil {
		return err
	}

	typeID, ok, err := client.ObjectTypeID(ctx, typeName, schemaID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("object type %q not found in schema %s", typeName, schemaID)
	}

	doc, err := client.TypeAttributes(ctx, typeID)
	if err != nil {
		return err
	}

	if cmd.String("output") == "raw" {
		fmt.Println(doc.Raw)
		return nil
	}

	output.Spit(attrRows(doc), []string{"id", "name", "kind"}, cmd, os.Stdout)
	return nil
}

// attrRows flattens the attribute document into the row schema the output
// package renders. kind is Insight's defaultType name (Text, Integer, ...)
// when present.
func attrRows(doc gjson.Result) []map[string]interface{} {
	//nolint:prealloc
	var rows []map[string]interface{}
	for _, a := range doc.Array() {
		rows = append(rows, map[string]interface{}{
			"id":   a.Get("id").Int(),
			"name": a.Get("name").String(),
			"kind": a.Get("defaultType.name").String(),
		})
	}
	return rows
}

// AqCommandBuilder constructs the cli.Command for "aq".
func AqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "aq",
		Usage:     "attribute query - attributes of an object type",
		UsageText: `iqlctl aq [options]`,
		Flags: []cli.Flag{
			NewTypeFlag(),
			NewHostFlag("aq", meta.Config.Source),
			NewEmailFlag("aq", meta.Config.Source),
			NewTokenFlag("aq", meta.Config.Source),
			NewSchemaFlag("aq", meta.Config.Source),
		},
		Action: AqCommandAction,
		Meta:   meta,
	}).Build()
}
