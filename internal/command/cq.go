// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/iqlctlgo/internal/cache"
	"github.com/staranto/iqlctlgo/internal/meta"
	"github.com/staranto/iqlctlgo/internal/output"
)

// CqCommandAction is the action handler for the "cq" subcommand. It lists
// the persisted cache entries, or clears them with --flush.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "cq") {
		return nil
	}

	store, err := newStore(ctx, cmd)
	if err != nil {
		return err
	}
	c := cache.New[[]string](store)

	if cmd.Bool("flush") {
		if err := c.Flush(); err != nil {
			return fmt.Errorf("failed to flush cache: %w", err)
		}
		fmt.Fprintln(os.Stderr, "cache flushed")
		return nil
	}

	entries := c.Entries()

	//nolint:prealloc
	var rows []map[string]interface{}
	for _, e := range entries {
		rows = append(rows, map[string]interface{}{
			"key":      e.Key,
			"inserted": humanize.Time(e.InsertedAt),
			"values":   len(e.Value),
		})
	}

	output.Spit(rows, []string{"key", "inserted", "values"}, cmd, os.Stdout)
	return nil
}

// CqCommandBuilder constructs the cli.Command for "cq".
func CqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "cq",
		Usage:     "cache query - inspect or flush the result cache",
		UsageText: `iqlctl cq [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "flush",
				Usage:       "clear all cached results immediately",
				HideDefault: true,
			},
		},
		Action: CqCommandAction,
		Meta:   meta,
	}).Build()
}
