package agiprotocol

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Environment is the call session description sent by the server in the
// header block.
//
// An Environment is filled once by AcquireEnvironment or ParseEnvironment
// and is read-only afterwards. Every string field is a substring of the
// header block returned by Raw, so the block is held in memory exactly once.
type Environment struct {
	Request       string
	Channel       string
	Language      string
	Type          string
	UniqueID      string
	Version       string
	CallerID      string
	CallerIDName  string
	CallingPres   string
	CallingANI2   string
	CallingTON    string
	CallingTNS    string
	DNID          string
	RDNIS         string
	Context       string
	Extension     string
	AccountCode   string
	NetworkScript string

	Priority  string
	PriorityN int // integer value of Priority, 0 if unparsable

	Enhanced  string
	EnhancedN bool // true iff Enhanced is exactly "1.0"

	Network  string
	NetworkN bool // true iff Network is exactly "yes"

	ThreadID  string
	ThreadIDN int64 // integer value of ThreadID, 0 if unparsable

	// Args holds the numbered arguments: Args[i] is the value of arg_{i+1}.
	Args [MaxArgs]string

	raw string
}

// headerField binds a header name to an Environment field.
type headerField struct {
	get func(e *Environment) string
	set func(e *Environment, v string)
}

// headerFields maps header names (without the "agi_" prefix) to fields.
// Matching is exact and case-sensitive.
var headerFields = map[string]headerField{
	"request":        {func(e *Environment) string { return e.Request }, func(e *Environment, v string) { e.Request = v }},
	"channel":        {func(e *Environment) string { return e.Channel }, func(e *Environment, v string) { e.Channel = v }},
	"language":       {func(e *Environment) string { return e.Language }, func(e *Environment, v string) { e.Language = v }},
	"type":           {func(e *Environment) string { return e.Type }, func(e *Environment, v string) { e.Type = v }},
	"uniqueid":       {func(e *Environment) string { return e.UniqueID }, func(e *Environment, v string) { e.UniqueID = v }},
	"version":        {func(e *Environment) string { return e.Version }, func(e *Environment, v string) { e.Version = v }},
	"callerid":       {func(e *Environment) string { return e.CallerID }, func(e *Environment, v string) { e.CallerID = v }},
	"calleridname":   {func(e *Environment) string { return e.CallerIDName }, func(e *Environment, v string) { e.CallerIDName = v }},
	"callingpres":    {func(e *Environment) string { return e.CallingPres }, func(e *Environment, v string) { e.CallingPres = v }},
	"callingani2":    {func(e *Environment) string { return e.CallingANI2 }, func(e *Environment, v string) { e.CallingANI2 = v }},
	"callington":     {func(e *Environment) string { return e.CallingTON }, func(e *Environment, v string) { e.CallingTON = v }},
	"callingtns":     {func(e *Environment) string { return e.CallingTNS }, func(e *Environment, v string) { e.CallingTNS = v }},
	"dnid":           {func(e *Environment) string { return e.DNID }, func(e *Environment, v string) { e.DNID = v }},
	"rdnis":          {func(e *Environment) string { return e.RDNIS }, func(e *Environment, v string) { e.RDNIS = v }},
	"context":        {func(e *Environment) string { return e.Context }, func(e *Environment, v string) { e.Context = v }},
	"extension":      {func(e *Environment) string { return e.Extension }, func(e *Environment, v string) { e.Extension = v }},
	"accountcode":    {func(e *Environment) string { return e.AccountCode }, func(e *Environment, v string) { e.AccountCode = v }},
	"network_script": {func(e *Environment) string { return e.NetworkScript }, func(e *Environment, v string) { e.NetworkScript = v }},
	"priority": {func(e *Environment) string { return e.Priority }, func(e *Environment, v string) {
		e.Priority = v
		e.PriorityN = int(atoi(v))
	}},
	"enhanced": {func(e *Environment) string { return e.Enhanced }, func(e *Environment, v string) {
		e.Enhanced = v
		e.EnhancedN = v == "1.0"
	}},
	"network": {func(e *Environment) string { return e.Network }, func(e *Environment, v string) {
		e.Network = v
		e.NetworkN = v == "yes"
	}},
	"threadid": {func(e *Environment) string { return e.ThreadID }, func(e *Environment, v string) {
		e.ThreadID = v
		e.ThreadIDN = atoi(v)
	}},
}

// HeaderNames returns the known scalar header names, sorted.
func HeaderNames() []string {
	names := make([]string, 0, len(headerFields))
	for name := range headerFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// argIndex returns the zero-based slot for an argument number written as
// 1-3 ASCII digits: 1-9, 10-99 or 100-127. Leading zeros are not accepted.
func argIndex(digits string) (int, bool) {
	switch len(digits) {
	case 1:
		if c := digits[0]; c >= '1' && c <= '9' {
			return int(c - '1'), true
		}
	case 2:
		if c0, c1 := digits[0], digits[1]; c0 >= '1' && c0 <= '9' && isDigit(c1) {
			return int(c0-'0')*10 + int(c1-'0') - 1, true
		}
	case 3:
		c0, c1, c2 := digits[0], digits[1], digits[2]
		if c0 != '1' {
			break
		}
		if (c1 == '0' || c1 == '1') && isDigit(c2) || c1 == '2' && c2 >= '0' && c2 <= '7' {
			return 100 + int(c1-'0')*10 + int(c2-'0') - 1, true
		}
	}
	return 0, false
}

// set assigns one parsed header to the environment. Unknown names are
// ignored. Names of the form arg_N with N outside 1..127 or a malformed
// digit pattern fail with ErrKindInvalidArgumentIndex and leave e unchanged.
// It returns whether the name was recognized.
func (e *Environment) set(name, value string) (bool, error) {
	if f, ok := headerFields[name]; ok {
		f.set(e, value)
		return true, nil
	}
	if digits, ok := strings.CutPrefix(name, ArgPrefix); ok {
		i, ok := argIndex(digits)
		if !ok {
			return false, newInvalidArgumentIndexError(HeaderPrefix + name)
		}
		e.Args[i] = value
		return true, nil
	}
	return false, nil
}

// Lookup returns the value of a header by name, with or without the "agi_"
// prefix. Argument headers are looked up as arg_N.
func (e *Environment) Lookup(name string) (string, bool) {
	name = strings.TrimPrefix(name, HeaderPrefix)
	if f, ok := headerFields[name]; ok {
		return f.get(e), true
	}
	if digits, ok := strings.CutPrefix(name, ArgPrefix); ok {
		if i, ok := argIndex(digits); ok {
			return e.Args[i], true
		}
	}
	return "", false
}

// Arg returns the value of argument n (1-based), or "" if n is out of range.
func (e *Environment) Arg(n int) string {
	if n < 1 || n > MaxArgs {
		return ""
	}
	return e.Args[n-1]
}

// ArgCount returns the number of the highest argument slot that is set.
func (e *Environment) ArgCount() int {
	for i := MaxArgs; i > 0; i-- {
		if e.Args[i-1] != "" {
			return i
		}
	}
	return 0
}

// Argv returns the argument slots up to the highest one that is set.
func (e *Environment) Argv() []string {
	return e.Args[:e.ArgCount()]
}

// Script returns the script the server asked for: the path of a FastAGI
// request URL without its leading slash, or the request as sent.
func (e *Environment) Script() string {
	script, _ := ScriptFromRequest(e.Request)
	return script
}

// Query returns the decoded query of a FastAGI request URL.
func (e *Environment) Query() url.Values {
	_, q := ScriptFromRequest(e.Request)
	return q
}

// Raw returns the header block the environment was parsed from.
func (e *Environment) Raw() string { return e.raw }

// Fields returns the known scalar headers that are set, followed by the set
// argument slots, as name/value pairs in a stable order.
func (e *Environment) Fields() [][2]string {
	var out [][2]string
	for _, name := range HeaderNames() {
		if v := headerFields[name].get(e); v != "" {
			out = append(out, [2]string{name, v})
		}
	}
	for i, v := range e.Argv() {
		if v != "" {
			out = append(out, [2]string{ArgPrefix + strconv.Itoa(i+1), v})
		}
	}
	return out
}
