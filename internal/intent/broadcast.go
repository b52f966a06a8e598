package intent

import (
	"fmt"
	"strconv"
	"strings"
)

// Typed extra flags understood by `am broadcast`.
var extraFlags = map[string]Kind{
	"--ef": KindFloat32,
	"--ed": KindFloat64,
	"--es": KindString,
	"--ei": KindInt32,
	"--el": KindInt64,
	"--ez": KindBool,
	"-e":   KindString,
}

var flagForKind = map[Kind]string{
	KindFloat32: "--ef",
	KindFloat64: "--ed",
	KindString:  "--es",
	KindInt32:   "--ei",
	KindInt64:   "--el",
	KindBool:    "--ez",
}

// am flags that take a value we have no use for.
var ignoredValueFlags = map[string]bool{
	"-n": true, "-p": true, "-d": true, "-t": true, "-c": true, "-f": true, "--user": true,
}

var ignoredBareFlags = map[string]bool{
	"--include-stopped-packages": true,
	"--exclude-stopped-packages": true,
	"--receiver-foreground":      true,
}

// ParseBroadcastLine splits line like a POSIX shell would (quotes and
// backslash escapes, no expansion) and parses the result with
// ParseBroadcastArgs.
func ParseBroadcastLine(line string) (Message, error) {
	args, err := splitWords(line)
	if err != nil {
		return Message{}, err
	}
	return ParseBroadcastArgs(args)
}

// ParseBroadcastArgs parses an `am broadcast` argument list, optionally
// prefixed by `adb [-s serial|-d|-e] shell am broadcast`.
func ParseBroadcastArgs(args []string) (Message, error) {
	i, err := skipLauncher(args)
	if err != nil {
		return Message{}, err
	}

	m := Message{Extras: Extras{}}
	for i < len(args) {
		flag := args[i]
		switch {
		case flag == "-a":
			if i+1 >= len(args) {
				return Message{}, fmt.Errorf("broadcast: %s requires a value", flag)
			}
			m.Action = args[i+1]
			i += 2
		case extraFlags[flag] != KindInvalid:
			if i+2 >= len(args) {
				return Message{}, fmt.Errorf("broadcast: %s requires a key and a value", flag)
			}
			key := args[i+1]
			e, err := parseExtra(extraFlags[flag], args[i+2])
			if err != nil {
				return Message{}, fmt.Errorf("broadcast: %s %s: %w", flag, key, err)
			}
			m.Extras[key] = e
			i += 3
		case ignoredValueFlags[flag]:
			if i+1 >= len(args) {
				return Message{}, fmt.Errorf("broadcast: %s requires a value", flag)
			}
			i += 2
		case ignoredBareFlags[flag]:
			i++
		default:
			return Message{}, fmt.Errorf("broadcast: unknown argument %q", flag)
		}
	}
	return m, nil
}

func skipLauncher(args []string) (int, error) {
	i := 0
	if i < len(args) && args[i] == "adb" {
		i++
	adbFlags:
		for i < len(args) {
			switch args[i] {
			case "-d", "-e":
				i++
			case "-s":
				if i+1 >= len(args) {
					return 0, fmt.Errorf("broadcast: adb -s requires a serial")
				}
				i += 2
			default:
				break adbFlags
			}
		}
		if i < len(args) && args[i] == "shell" {
			i++
		}
	}
	if i < len(args) && args[i] == "am" {
		i++
	}
	if i < len(args) && args[i] == "broadcast" {
		i++
	}
	return i, nil
}

func parseExtra(kind Kind, s string) (Extra, error) {
	switch kind {
	case KindFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Extra{}, err
		}
		return Float32(float32(v)), nil
	case KindFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Extra{}, err
		}
		return Float64(v), nil
	case KindString:
		return String(s), nil
	case KindInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Extra{}, err
		}
		return Int32(int32(v)), nil
	case KindInt64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Extra{}, err
		}
		return Int64(v), nil
	case KindBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return Extra{}, err
		}
		return Bool(v), nil
	default:
		return Extra{}, fmt.Errorf("unsupported kind %s", kind)
	}
}

// FormatBroadcastArgs renders m as an `am broadcast` argument list with the
// extras in sorted order.
func FormatBroadcastArgs(m Message) []string {
	out := []string{"am", "broadcast"}
	if m.Action != "" {
		out = append(out, "-a", m.Action)
	}
	for _, k := range m.Keys() {
		e := m.Extras[k]
		flag, ok := flagForKind[e.Kind()]
		if !ok {
			continue
		}
		out = append(out, flag, k, e.literal())
	}
	return out
}

// FormatBroadcastLine is FormatBroadcastArgs joined into a single line that
// ParseBroadcastLine reads back to the same message.
func FormatBroadcastLine(m Message) string {
	args := FormatBroadcastArgs(m)
	for i, a := range args {
		args[i] = quoteWord(a)
	}
	return strings.Join(args, " ")
}

func quoteWord(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func splitWords(line string) ([]string, error) {
	var (
		words  []string
		cur    strings.Builder
		inWord bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		case c == '\\':
			if i+1 >= len(line) {
				return nil, fmt.Errorf("broadcast: trailing backslash")
			}
			i++
			cur.WriteByte(line[i])
			inWord = true
		case c == '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("broadcast: unterminated single quote")
			}
			cur.WriteString(line[i+1 : i+1+end])
			i += end + 1
			inWord = true
		case c == '"':
			i++
			closed := false
			for ; i < len(line); i++ {
				if line[i] == '"' {
					closed = true
					break
				}
				if line[i] == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\') {
					i++
				}
				cur.WriteByte(line[i])
			}
			if !closed {
				return nil, fmt.Errorf("broadcast: unterminated double quote")
			}
			inWord = true
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
