package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify renders v in its top-level canonical form (spec §4.3 "Display
// semantics"): the form used by DISPLAY/DISPLAYINLINE and TOSTRING.
func Stringify(v Value) string { return stringify(v, false) }

func stringify(v Value, nested bool) string {
	switch x := v.(type) {
	case Integer:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return formatFloat(float64(x))
	case Boolean:
		if bool(x) {
			return "TRUE"
		}
		return "FALSE"
	case Null:
		if nested {
			return "NULL"
		}
		return ""
	case NaNValue:
		return "NAN"
	case String:
		if nested {
			return "\"" + string(x) + "\""
		}
		return string(x)
	case *List:
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			parts[i] = stringify(e, true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Procedure:
		return fmt.Sprintf("<procedure %s>", x.Name)
	case *Class:
		return fmt.Sprintf("<class %s>", x.Name)
	case *Instance:
		return fmt.Sprintf("<%s instance>", x.Class.Name)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatFloat chooses the shortest round-trip decimal and keeps a trailing
// ".0" so Float canonical forms are always distinguishable from Integer
// ones (spec §4.3, §9: "choose shortest round-trip and keep it stable").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
