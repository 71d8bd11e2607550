// Package app wires the concrete stores, relay client, and conversation
// registry together from a Config, exposing the result to cmd/xmtpctl.
package app
