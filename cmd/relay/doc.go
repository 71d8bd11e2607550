// Package main runs the in-memory HTTP relay used during development and
// tests. It stores published envelopes per content topic and serves them
// back on query; it never sees plaintext or private key material.
//
// HTTP API
//
//	POST /query
//	    Body is a QueryRequest; returns a QueryResponse of matching
//	    envelopes newest-last.
//
//	POST /batch-query
//	    Body is {"requests": [QueryRequest, ...]}; returns one
//	    QueryResponse per request, in order.
//
//	POST /publish
//	    Body is {"envelopes": [Envelope, ...]}; stores each under its
//	    content topic.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - There is no native push transport over HTTP: clients subscribe by
//     polling /query on a timer, which relay.HTTPClient does for them.
//   - A lightweight access log records method, path, status and duration
//     for each request.
//   - The default listen address is :8080.
package main
