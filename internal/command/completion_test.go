// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/iqlctlgo/internal/meta"
)

func TestCompletionScripts_CoverAllCommands(t *testing.T) {
	for _, script := range []string{bashCompletionScript, zshCompletionScript} {
		for _, name := range []string{"vq", "lq", "tq", "aq", "cq", "completion"} {
			assert.Contains(t, script, name)
		}
		assert.Contains(t, script, "text json raw yaml")
	}
	assert.Contains(t, bashCompletionScript, "complete -F _iqlctl iqlctl")
	assert.Contains(t, zshCompletionScript, "#compdef iqlctl")
}

func TestShortCircuitTLDR(t *testing.T) {
	// An empty PATH guarantees the tldr binary is never found, so the
	// short-circuit decision is all that runs.
	t.Setenv("PATH", "")

	newApp := func(action func(context.Context, *cli.Command) error) *cli.Command {
		return &cli.Command{
			Name:   "iqlctl",
			Flags:  []cli.Flag{&cli.BoolFlag{Name: "tldr", HideDefault: true}},
			Action: action,
		}
	}

	var sawAction bool
	set := newApp(func(ctx context.Context, cmd *cli.Command) error {
		sawAction = true
		if ShortCircuitTLDR(ctx, cmd, "vq") {
			return nil
		}
		t.Fatal("expected --tldr to short-circuit")
		return nil
	})
	require.NoError(t, set.Run(context.Background(), []string{"iqlctl", "--tldr"}))
	assert.True(t, sawAction)

	unset := newApp(func(ctx context.Context, cmd *cli.Command) error {
		assert.False(t, ShortCircuitTLDR(ctx, cmd, "vq"))
		return nil
	})
	require.NoError(t, unset.Run(context.Background(), []string{"iqlctl"}))
}

func TestQueryCommandsCarryTLDRFlag(t *testing.T) {
	builders := map[string]*cli.Command{
		"vq": VqCommandBuilder(nil, meta.Meta{}),
		"lq": LqCommandBuilder(nil, meta.Meta{}),
		"tq": TqCommandBuilder(nil, meta.Meta{}),
		"aq": AqCommandBuilder(nil, meta.Meta{}),
		"cq": CqCommandBuilder(nil, meta.Meta{}),
	}

	for name, cmd := range builders {
		found := false
		for _, f := range cmd.Flags {
			for _, n := range f.Names() {
				if n == "tldr" {
					found = true
				}
			}
		}
		assert.True(t, found, "%s is missing --tldr", name)
	}
}
