package qiscreen

import _ "embed"

// Version is the release of the library and the qiscreen binary.
//
//go:embed VERSION
var Version string
