package hdl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModuleNotFound is returned when a header rewrite cannot find the module
// declaration it is supposed to rewrite.
var ErrModuleNotFound = errors.New("module declaration not found")

// RewriteHeader injects the identity parameters into the declaration of
// module name in HDL text that was not produced by Elaborate. The
// declaration must appear exactly once.
func RewriteHeader(text, name string, id Identity) (string, error) {
	lines := strings.Split(text, "\n")
	at := -1

	for i, l := range lines {
		if !declares(l, name) {
			continue
		}

		if at >= 0 {
			return "", fmt.Errorf("module %s is declared more than once", name)
		}

		at = i
	}

	if at < 0 {
		return "", fmt.Errorf("%w: module %s", ErrModuleNotFound, name)
	}

	injectParams(lines, at, name, id)

	return strings.Join(lines, "\n"), nil
}

func declares(line, name string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "module ")
	if !ok {
		return false
	}

	rest, ok = strings.CutPrefix(strings.TrimLeft(rest, " \t"), name)
	if !ok {
		return false
	}

	return rest == "" || !isIdentChar(rest[0])
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func injectParams(lines []string, at int, name string, id Identity) {
	line := lines[at]
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	rest := strings.TrimLeft(strings.TrimPrefix(strings.TrimSpace(line), "module "), " \t")
	tail := strings.TrimLeft(rest[len(name):], " \t")
	head := indent + "module " + name

	params := make([]string, 0, 3)
	for _, p := range id.Params() {
		params = append(params, indent+"    parameter "+p.Name+" = "+p.Value)
	}

	injected := strings.Join(params, ",\n")

	after, ok := strings.CutPrefix(tail, "#(")
	if !ok {
		lines[at] = head + " #(\n" + injected + "\n" + indent + ") " + tail
		return
	}

	after = strings.TrimLeft(after, " \t")
	if after == "" {
		if nextStartsParams(lines[at+1:]) {
			injected += ","
		}

		lines[at] = head + " #(\n" + injected
		return
	}

	if !strings.HasPrefix(after, ")") {
		injected += ","
	}

	lines[at] = head + " #(\n" + injected + "\n" + indent + "    " + after
}

func nextStartsParams(lines []string) bool {
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "//") {
			continue
		}

		return !strings.HasPrefix(l, ")")
	}

	return false
}
