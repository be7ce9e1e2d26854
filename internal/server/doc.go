// Package server exposes a mandelfield Engine over a websocket.
//
// A client sends one JSON Request per text message. The server answers each
// request with one binary message holding the field as a P4 image, zstd
// compressed when the request asks for it, or with one text message holding
// an ErrorReply. A connection carries any number of requests in sequence.
package server
