package command

import (
	"strconv"
	"strings"
	"unicode"
)

// QueryShortcut is the line typed as "?" in interactive mode.
const QueryShortcut = "query 29"

// RawMarker starts a raw request: "#<opcode> <arg>...".
const RawMarker = "#"

// ParseLine splits a command line into a name and arguments.
//
// The name ends at whitespace, a quote or '=' so "--power=1" style input
// works once the dashes are removed. Arguments are separated by whitespace,
// quotes or ':' so colors can be written as 4:193:49:28.
func ParseLine(line string) (string, []string, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "?") {
		line = QueryShortcut
	}

	start := strings.IndexFunc(line, func(r rune) bool { return !isNameDelim(r) })
	if start < 0 {
		return "", nil, newError(ErrTypeEmpty, "", "empty command line")
	}
	rest := line[start:]

	end := strings.IndexFunc(rest, isNameDelim)
	if end < 0 {
		return rest, nil, nil
	}
	name := rest[:end]
	// The delimiter that ended the name is consumed with it.
	args := strings.FieldsFunc(rest[end+1:], isArgDelim)
	return name, args, nil
}

func isNameDelim(r rune) bool {
	return unicode.IsSpace(r) || r == '"' || r == '\'' || r == '='
}

func isArgDelim(r rune) bool {
	return unicode.IsSpace(r) || r == '"' || r == '\'' || r == ':'
}

// ParseByte parses a decimal or 0x-prefixed hexadecimal number in 0..255.
func ParseByte(s string) (byte, error) {
	digits, base := s, 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		digits, base = s[2:], 16
	}
	v, err := strconv.ParseUint(digits, base, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseArgs(name string, args []string) ([]byte, error) {
	values := make([]byte, len(args))
	for i, arg := range args {
		v, err := ParseByte(arg)
		if err != nil {
			return nil, &Error{
				Type:    ErrTypeBadArgument,
				Command: name,
				Message: "argument " + strconv.Itoa(i+1) + " " + strconv.Quote(arg) + " is not a number in 0..255",
				Err:     err,
			}
		}
		values[i] = v
	}
	return values, nil
}
