package git

import (
	"fmt"
	"strings"
)

type Placeholder string

// Single value placeholders may appear anywhere inside an argument.
const (
	Directory Placeholder = "directory"
	File      Placeholder = "file"
	Ref       Placeholder = "ref"
	Head      Placeholder = "head"
	CommitID  Placeholder = "commit"
	Blob      Placeholder = "blob"
)

// List placeholders expand into zero or more arguments and must stand alone.
const (
	RevArgs  Placeholder = "revargs"
	FileArgs Placeholder = "fileargs"
	DiffArgs Placeholder = "diffargs"
	LogArgs  Placeholder = "logargs"
)

func (p Placeholder) Token() string {
	return "%(" + string(p) + ")"
}

type Scope int

const (
	// SubstituteAll replaces placeholders in every argument.
	SubstituteAll Scope = iota
	// SubstituteUntilDashDash stops replacing at a literal "--" argument.
	SubstituteUntilDashDash
	// SubstituteNone passes the template through unchanged.
	SubstituteNone
)

type Vars struct {
	Values map[Placeholder]string
	Lists  map[Placeholder][]string
}

// Format expands template into an argument vector. An argument made only of a
// single value placeholder is dropped when the value is empty.
func Format(template []string, vars Vars, scope Scope) ([]string, error) {
	argv := make([]string, 0, len(template))
	substitute := scope != SubstituteNone
	for _, arg := range template {
		if !substitute {
			argv = append(argv, arg)
			continue
		}
		if arg == "--" && scope == SubstituteUntilDashDash {
			substitute = false
			argv = append(argv, arg)
			continue
		}
		if name, ok := wholeToken(arg); ok {
			if list, ok := vars.Lists[name]; ok {
				argv = append(argv, list...)
				continue
			}
			if value, ok := vars.Values[name]; ok && value == "" {
				continue
			}
		}
		expanded, err := expand(arg, vars)
		if err != nil {
			return nil, err
		}
		argv = append(argv, expanded)
	}
	return argv, nil
}

func wholeToken(arg string) (Placeholder, bool) {
	if !strings.HasPrefix(arg, "%(") || !strings.HasSuffix(arg, ")") {
		return "", false
	}
	name := arg[2 : len(arg)-1]
	if strings.ContainsAny(name, "()%") {
		return "", false
	}
	return Placeholder(name), true
}

func expand(arg string, vars Vars) (string, error) {
	if !strings.Contains(arg, "%(") {
		return arg, nil
	}
	var b strings.Builder
	rest := arg
	for {
		start := strings.Index(rest, "%(")
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[start:], ')')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", arg)
		}
		name := Placeholder(rest[start+2 : start+end])
		b.WriteString(rest[:start])
		if value, ok := vars.Values[name]; ok {
			b.WriteString(value)
		} else if _, ok := vars.Lists[name]; ok {
			return "", fmt.Errorf("placeholder %s must be a whole argument", name.Token())
		} else {
			return "", fmt.Errorf("unknown placeholder %s", name.Token())
		}
		rest = rest[start+end+1:]
	}
}
