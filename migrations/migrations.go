// Package migrations holds the storefront schema.
package migrations

import "embed"

// FS contains the numbered up/down SQL files.
//
//go:embed *.sql
var FS embed.FS
