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

// TqCommandAction is the action handler for the "tq" subcommand. It lists
// the object types of a schema, straight from the API (type lists are
// small and change rarely enough that a stale list is worse than a fetch).
func TqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "tq") {
		return nil
	}

	schemaID, err := requireString(cmd, "schema-id")
	if err != nil {
		return err
	}

	client, err := InitClient(ctx, cmd)
	if err != nil {
		return err
	}

	doc, err := client.ObjectTypes(ctx, schemaID)
	if err != nil {
		return err
	}

	if cmd.String("output") == "raw" {
		fmt.Println(doc.Raw)
		return nil
	}

	output.Spit(typeRows(doc), []string{"id", "name"}, cmd, os.Stdout)
	return nil
}

// typeRows flattens the object-type document into the row schema the
// output package renders.
func typeRows(doc gjson.Result) []map[string]interface{} {
	//nolint:prealloc
	var rows []map[string]interface{}
	for _, t := range doc.Array() {
		rows = append(rows, map[string]interface{}{
			"id":   t.Get("id").Int(),
			"name": t.Get("name").String(),
		})
	}
	return rows
}

// TqCommandBuilder constructs the cli.Command for "tq".
func TqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "tq",
		Usage:     "type query - object types of a schema",
		UsageText: `iqlctl tq [options]`,
		Flags: []cli.Flag{
			NewHostFlag("tq", meta.Config.Source),
			NewEmailFlag("tq", meta.Config.Source),
			NewTokenFlag("tq", meta.Config.Source),
			NewSchemaFlag("tq", meta.Config.Source),
		},
		Action: TqCommandAction,
		Meta:   meta,
	}).Build()
}
