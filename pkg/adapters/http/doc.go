// Package http exposes a qiscreen Engine as a JSON API (chi router) with Server-Sent Events
// for session updates and bank reloads.
package http
