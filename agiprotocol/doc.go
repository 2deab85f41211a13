// Package agiprotocol provides a Go implementation of the client side of the
// Asterisk Gateway Interface (AGI), the line-oriented text protocol a
// call-control server uses to hand a call session off to an external script.
//
// # Protocol Overview
//
// A session runs over one stream connection: the script's stdin/stdout for
// classic AGI, or a TCP or Unix socket for FastAGI. It has two phases.
// First the server streams a block of header lines describing the call,
// terminated by an empty line:
//
//	agi_request: agi://10.0.0.1/ivr.agi
//	agi_channel: SIP/100-00000001
//	agi_callerid: 100
//	agi_arg_1: hello
//
// Then the script issues one command per line and reads exactly one
// response line per command:
//
//	Request:  <command words> [arguments...]\n
//	Response: 200 result=<signed integer>[ <data>]\n
//
// # Basic Usage
//
// A classic AGI script opens its session on standard input and output:
//
//	sess, err := agiprotocol.OpenStdio(agiprotocol.DefaultConfig())
//
// Any other connection works the same way:
//
//	sess, err := agiprotocol.Open(conn, agiprotocol.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("call from", sess.Env().CallerID)
//
//	if _, err := sess.Answer(); err != nil {
//	    log.Fatal(err)
//	}
//	res, err := sess.Send(agiprotocol.NewStreamFileCommand("hello-world", "#", 0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("result", res.Code)
//
// # Lower-Level Entry Points
//
// The protocol engine is exposed as two entry points that the command
// helpers build on:
//
//   - AcquireEnvironment reads and parses the header block into an Environment.
//   - Channel.Send writes one command line and parses the response line.
//
// # FastAGI
//
// Server accepts FastAGI connections and runs a Handler for each one:
//
//	srv := &agiprotocol.Server{
//	    Addr: ":4573",
//	    Handler: agiprotocol.HandlerFunc(func(ctx context.Context, s *agiprotocol.Session) error {
//	        _, err := s.Verbose("hello from "+s.Env().Script(), 1)
//	        return err
//	    }),
//	}
//	log.Fatal(srv.ListenAndServe(ctx))
//
// # Thread Safety
//
// The protocol is strictly half-duplex with one command in flight. A Session
// is owned by one goroutine for the lifetime of the call; its Channel
// serializes concurrent Send calls but cannot pipeline them. Server runs each
// session on its own goroutine.
package agiprotocol
