package videoshelf

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// the page stylesheet.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
