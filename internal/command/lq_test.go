// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/iqlctlgo/internal/meta"
)

func TestLqCommandAction_RawPrintsSearchDocument(t *testing.T) {
	const body = `{"objectEntries":[{"id":1,"label":"MBP-0042"}],"iqlSearchResult":true}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/iql/objects" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	app := LqCommandBuilder(nil, meta.Meta{Args: []string{"iqlctl", "lq"}})

	out := captureStdout(t, func() {
		err := app.Run(context.Background(), []string{
			"lq",
			"--host", srv.URL + "/",
			"--email", "bot@example.com",
			"--token", "sekrit",
			"--output", "raw",
			`Name = "MBP-0042"`,
		})
		require.NoError(t, err)
	})

	// The whole search document, not attribute values.
	assert.JSONEq(t, body, strings.TrimSpace(out))
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}
