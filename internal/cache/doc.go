// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides a memoizing, time-expiring, size-bounded cache
// whose state is persisted as a single blob through a pluggable Store.
// It exists to keep iqlctl inside the Insight API rate limit: repeated
// queries with identical arguments are answered from the cache instead of
// hitting the network.
package cache
