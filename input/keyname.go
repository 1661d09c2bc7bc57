package input

import "strings"

// engineNames maps engine key names that differ from the browser's
// KeyboardEvent.key to the browser form.
var engineNames = map[string]string{
	"Space":        " ",
	"ShiftLeft":    "Shift",
	"ShiftRight":   "Shift",
	"ControlLeft":  "Control",
	"ControlRight": "Control",
	"AltLeft":      "Alt",
	"AltRight":     "Alt",
}

// KeyName turns an engine key name into the name a browser would report for
// it: a letter is lower case unless shift is held, "Digit1" is "1", "Space"
// is " ", and other names such as "ArrowUp" pass through.
func KeyName(engine string, shift bool) string {
	if isLetter(engine) {
		if shift {
			return strings.ToUpper(engine)
		}
		return strings.ToLower(engine)
	}
	if digit, ok := strings.CutPrefix(engine, "Digit"); ok && len(digit) == 1 {
		return digit
	}
	if name, ok := engineNames[engine]; ok {
		return name
	}
	return engine
}

// ReleaseNames lists the names to release when the engine key goes up. Shift
// may have changed while the key was held, so a letter releases both cases.
func ReleaseNames(engine string) []string {
	if isLetter(engine) {
		return []string{strings.ToLower(engine), strings.ToUpper(engine)}
	}
	return []string{KeyName(engine, false)}
}

func isLetter(name string) bool {
	if len(name) != 1 {
		return false
	}
	c := name[0] | 0x20
	return c >= 'a' && c <= 'z'
}
