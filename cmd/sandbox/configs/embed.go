// Package configs embeds the default sandbox configuration.
package configs

import "embed"

// FS holds simulation.yaml, characters.yaml and the scenes directory
//
//go:embed *.yaml scenes
var FS embed.FS
