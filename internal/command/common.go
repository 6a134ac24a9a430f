// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/iqlctlgo/internal/cache"
	"github.com/staranto/iqlctlgo/internal/config"
	"github.com/staranto/iqlctlgo/internal/insight"
	"github.com/staranto/iqlctlgo/internal/meta"
)

// cacheBlobName is the filename of the persisted cache blob.
const cacheBlobName = "iql.json"

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr iqlctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "iqlctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// InitClient resolves the three credentials and builds the Insight client.
// host and email must resolve from flag, env or config; a missing token is
// prompted for when stdin is a terminal.
func InitClient(ctx context.Context, cmd *cli.Command) (*insight.Client, error) {
	host := cmd.String("host")
	if host == "" {
		return nil, fmt.Errorf("no Insight host configured (--host, IQLCTL_HOST or config file)")
	}
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}

	email := cmd.String("email")
	if email == "" {
		return nil, fmt.Errorf("no account email configured (--email, IQLCTL_EMAIL or config file)")
	}

	token := cmd.String("token")
	if token == "" {
		var err error
		if token, err = promptToken(); err != nil {
			return nil, err
		}
	}

	log.Debugf("client: host=%s email=%s", host, email)

	return insight.NewClient(insight.Creds{
		BaseURL: host,
		Email:   email,
		APIKey:  token,
	}, nil), nil
}

// InitService builds the cached query service: client, persistence backend
// and cache tuning, all from flags and config.
func InitService(ctx context.Context, cmd *cli.Command) (*insight.Service, error) {
	client, err := InitClient(ctx, cmd)
	if err != nil {
		return nil, err
	}

	store, err := newStore(ctx, cmd)
	if err != nil {
		return nil, err
	}

	c := cache.New[[]string](store)
	if err := c.SetLimit(cmd.Int("limit")); err != nil {
		return nil, fmt.Errorf("invalid --limit: %w", err)
	}
	if err := c.SetExpire(time.Duration(cmd.Int("expire")) * time.Hour); err != nil {
		return nil, fmt.Errorf("invalid --expire: %w", err)
	}

	return insight.NewService(client, c), nil
}

// newStore picks the persistence backend. --no-cache swaps in a throwaway
// in-memory store; otherwise cache.backend in the config selects s3 or the
// default blob file.
func newStore(ctx context.Context, cmd *cli.Command) (cache.Store, error) {
	if cmd.Bool("no-cache") {
		log.Debug("cache bypassed for this invocation")
		return cache.NewMemStore(), nil
	}

	backend, _ := config.GetString("cache.backend", "file")
	switch backend {
	case "file":
		return cache.NewFileStore(cacheBlobName), nil
	case "s3":
		bucket, err := config.GetString("cache.s3.bucket")
		if err != nil {
			return nil, fmt.Errorf("cache.backend is s3 but cache.s3.bucket is not set")
		}
		key, _ := config.GetString("cache.s3.key", cacheBlobName)
		region, _ := config.GetString("cache.s3.region", "")
		return cache.NewS3Store(ctx, bucket, key, region)
	default:
		return nil, fmt.Errorf("unknown cache.backend: %s", backend)
	}
}

// promptToken reads the API key from the terminal without echo. A
// non-interactive stdin is an error; there is nothing to prompt.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no API token configured (--token, IQLCTL_TOKEN or config file)")
	}

	fmt.Fprint(os.Stderr, "Insight API token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// QueryCommandBuilder constructs a cli.Command for the query subcommands
// using a consistent pattern: metadata, credential + global flags, and the
// shared validator hook.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			tldrFlag,
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// requireIQL pulls the positional IQL search string, erroring when absent.
func requireIQL(cmd *cli.Command) (string, error) {
	iql := cmd.Args().First()
	if iql == "" {
		return "", fmt.Errorf("an IQL search string is required")
	}
	return iql, nil
}

// requireString errors when a flag that has no sensible default resolved
// empty.
func requireString(cmd *cli.Command, name string) (string, error) {
	v := cmd.String(name)
	if v == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return v, nil
}
