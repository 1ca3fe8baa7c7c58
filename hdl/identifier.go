package hdl

import (
	"fmt"
	"regexp"
)

// InvalidIdentifierError reports a name that cannot be used as an HDL
// identifier.
type InvalidIdentifierError struct {
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%q is not a valid identifier: %s", e.Name, e.Reason)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

var reservedWords = map[string]bool{}

func init() {
	for _, w := range []string{
		"always", "always_comb", "always_ff", "always_latch", "and", "assign",
		"automatic", "begin", "bit", "buf", "byte", "case", "casex", "casez",
		"class", "const", "default", "defparam", "disable", "do", "else", "end",
		"endcase", "endclass", "endfunction", "endgenerate", "endinterface",
		"endmodule", "endpackage", "endtask", "enum", "for", "force", "forever",
		"fork", "function", "generate", "genvar", "if", "initial", "inout",
		"input", "int", "integer", "interface", "localparam", "logic",
		"longint", "module", "nand", "negedge", "nor", "not", "or", "output",
		"package", "parameter", "posedge", "reg", "repeat", "return", "shortint",
		"signed", "struct", "supply0", "supply1", "task", "time", "tri",
		"typedef", "union", "unsigned", "void", "wait", "while", "wire", "wor",
		"xnor", "xor",
	} {
		reservedWords[w] = true
	}
}

// ValidateIdentifier checks that a name can be used as a Verilog module,
// instance, or port name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return &InvalidIdentifierError{Name: name, Reason: "empty"}
	}

	if !identifierPattern.MatchString(name) {
		return &InvalidIdentifierError{
			Name:   name,
			Reason: "must start with a letter or underscore and contain only letters, digits, _ and $",
		}
	}

	if reservedWords[name] {
		return &InvalidIdentifierError{Name: name, Reason: "reserved word"}
	}

	return nil
}
