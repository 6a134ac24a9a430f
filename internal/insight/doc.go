// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package insight is a narrow client for the Jira Insight asset-management
// REST API. It covers exactly the three endpoints iqlctl needs: the IQL
// object search, the object-type list of a schema, and the attribute list
// of an object type. Retry and pagination are deliberately out of scope.
package insight
