package statusline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// formatSpec is the parsed form of "[align][0][width][.precision][verb]".
type formatSpec struct {
	align     byte
	zero      bool
	width     int
	precision int
	verb      byte
}

func parseSpec(text string) (formatSpec, error) {
	spec := formatSpec{precision: -1}
	i := 0
	if i < len(text) && (text[i] == '<' || text[i] == '>') {
		spec.align = text[i]
		i++
	}
	if i < len(text) && text[i] == '0' {
		spec.zero = true
		i++
	}
	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i > start {
		width, err := strconv.Atoi(text[start:i])
		if err != nil {
			return formatSpec{}, fmt.Errorf("width %q out of range", text[start:i])
		}
		spec.width = width
	}
	if i < len(text) && text[i] == '.' {
		i++
		start = i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == start {
			return formatSpec{}, errors.New("precision requires digits")
		}
		precision, err := strconv.Atoi(text[start:i])
		if err != nil {
			return formatSpec{}, fmt.Errorf("precision %q out of range", text[start:i])
		}
		spec.precision = precision
	}
	if i < len(text) {
		switch text[i] {
		case 'd', 'f', 's':
			spec.verb = text[i]
			i++
		default:
			return formatSpec{}, fmt.Errorf("unknown verb %q", text[i])
		}
	}
	if i != len(text) {
		return formatSpec{}, fmt.Errorf("unexpected %q in format spec", text[i:])
	}
	return spec, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func formatValue(value any, spec formatSpec) (string, error) {
	var (
		body    string
		numeric bool
	)
	switch spec.verb {
	case 'd':
		n, ok := asInteger(value)
		if !ok {
			return "", fmt.Errorf("verb d needs an integer, got %T", value)
		}
		body, numeric = n, true
	case 'f':
		f, ok := asFloat(value)
		if !ok {
			return "", fmt.Errorf("verb f needs a number, got %T", value)
		}
		precision := spec.precision
		if precision < 0 {
			precision = 6
		}
		body, numeric = strconv.FormatFloat(f, 'f', precision, 64), true
	case 's':
		body = truncate(asString(value), spec.precision)
	default:
		if n, ok := asInteger(value); ok {
			body, numeric = n, true
		} else if f, ok := value.(float64); ok {
			body, numeric = strconv.FormatFloat(f, 'f', spec.precision, 64), true
		} else if f, ok := value.(float32); ok {
			body, numeric = strconv.FormatFloat(float64(f), 'f', spec.precision, 32), true
		} else {
			body = truncate(asString(value), spec.precision)
		}
	}
	return pad(body, spec, numeric), nil
}

func pad(body string, spec formatSpec, numeric bool) string {
	missing := spec.width - runeLen(body)
	if missing <= 0 {
		return body
	}
	if spec.zero && numeric && spec.align == 0 {
		if strings.HasPrefix(body, "-") {
			return "-" + strings.Repeat("0", missing) + body[1:]
		}
		return strings.Repeat("0", missing) + body
	}
	align := spec.align
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	// An explicit align keeps the zero flag as the fill character.
	fillChar := " "
	if spec.zero {
		fillChar = "0"
	}
	fill := strings.Repeat(fillChar, missing)
	if align == '>' {
		return fill + body
	}
	return body + fill
}

func truncate(s string, precision int) string {
	if precision < 0 || runeLen(s) <= precision {
		return s
	}
	return string([]rune(s)[:precision])
}

func asInteger(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	default:
		return "", false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if n, ok := asInteger(value); ok {
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}
