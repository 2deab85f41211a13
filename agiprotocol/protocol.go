package agiprotocol

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Protocol constants.
const (
	// LineTerminator ends every header, command and response line.
	LineTerminator = '\n'

	// HeaderPrefix starts every header line sent by the server.
	HeaderPrefix = "agi_"

	// ArgPrefix starts the name of a numbered argument header (after HeaderPrefix).
	ArgPrefix = "arg_"

	// ResultPrefix starts every successful response line.
	ResultPrefix = "200 result="

	// MaxArgs is the number of argument slots a session can carry.
	MaxArgs = 127

	// HeaderTimeout bounds each wait for header data.
	HeaderTimeout = 1500 * time.Millisecond

	// DefaultHeaderBufferSize is the default capacity of the header block buffer.
	DefaultHeaderBufferSize = 8 << 10

	// MaxResponseLength bounds a single response line, terminator included.
	MaxResponseLength = 8 << 10

	// MaxCommandLength bounds a single formatted command line, terminator included.
	MaxCommandLength = 2048

	// FastAGIPort is the conventional FastAGI TCP port.
	FastAGIPort = 4573

	// FastAGIScheme is the URL scheme of FastAGI requests.
	FastAGIScheme = "agi"
)

// Common result codes.
const (
	ResultFailure = -1
	ResultSuccess = 1
)

// DefaultListenAddr returns the FastAGI listen address for a host.
func DefaultListenAddr(host string) string {
	return net.JoinHostPort(host, strconv.Itoa(FastAGIPort))
}

// ScriptFromRequest extracts the script name from an agi_request value.
//
// For FastAGI requests (agi://host[:port]/path?query) it returns the path
// without the leading slash and the decoded query. For classic AGI the
// request is the script path and is returned unchanged with nil values.
func ScriptFromRequest(request string) (string, url.Values) {
	if !strings.HasPrefix(request, FastAGIScheme+"://") {
		return request, nil
	}
	u, err := url.Parse(request)
	if err != nil {
		return request, nil
	}
	q, _ := url.ParseQuery(u.RawQuery)
	return strings.TrimPrefix(u.Path, "/"), q
}
