// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package version holds the build version stamped at release time.
package version

// Version is overridden via -ldflags at build time.
var Version = "dev"
