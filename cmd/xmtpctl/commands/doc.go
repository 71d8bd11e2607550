// Package commands implements the xmtpctl CLI: identity setup, bundle
// exchange, and sending/listing/streaming conversations against a relay.
package commands
