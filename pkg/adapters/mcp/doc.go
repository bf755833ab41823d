// Package mcp exposes the qiscreen evaluators (breath, shields, release, guidance) as
// Model Context Protocol tools over stdio.
package mcp
