// Package data embeds the transform manifest, rule sources and test
// fixtures.
package data

import (
	"embed"
)

// Manifest lists the built-in transforms.
//
//go:embed transforms.yaml
var Manifest []byte

// Rules holds the rule sources named by the manifest, under rules/.
//
//go:embed rules/*.txt
var Rules embed.FS

// Fixtures holds source/expected pairs per transform id, under fixtures/.
//
//go:embed fixtures/*.txt
var Fixtures embed.FS
