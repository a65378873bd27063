package buildplan

// Rule is a fixed compile/link/copy recipe, matched to source files by
// extension and bound to a manifest-declared Tool by id.
type Rule struct {
	ID      string
	FileIn  []string
	FileOut string
	Command string
	Args    []string
	Deps    []string
}

// Rules is the closed set of build rules CuteKit knows about. A manifest's
// tools table can only reuse these ids — there is no mechanism to register
// a new rule from a manifest.
var Rules = map[string]Rule{
	"cp": {ID: "cp", FileIn: []string{"*"}, FileOut: "*", Command: "$in $out"},
	"cc": {
		ID: "cc", FileIn: []string{"*.c"}, FileOut: "*.o",
		Command: "-c -o $out $in -MD -MF $out.d $flags $cincs $cdefs",
		Args:    []string{"-std=gnu2x", "-Wall", "-Wextra", "-Werror", "-fcolor-diagnostics"},
		Deps:    []string{"$out.d"},
	},
	"cxx": {
		ID: "cxx", FileIn: []string{"*.cpp", "*.cc", "*.cxx"}, FileOut: "*.o",
		Command: "-c -o $out $in -MD -MF $out.d $flags $cincs $cdefs",
		Args: []string{
			"-std=gnu++2b", "-Wall", "-Wextra", "-Werror",
			"-fcolor-diagnostics", "-fno-exceptions", "-fno-rtti",
		},
		Deps: []string{"$out.d"},
	},
	"as": {ID: "as", FileIn: []string{"*.s", "*.asm", "*.S"}, FileOut: "*.o", Command: "-o $out $in $flags"},
	"ar": {ID: "ar", FileIn: []string{"*.o"}, FileOut: "*.a", Command: "$flags $out $in"},
	"ld": {
		ID: "ld", FileIn: []string{"*.o", "*.a"}, FileOut: "*.out",
		Command: "-o $out $objs -Wl,--whole-archive $wholeLibs -Wl,--no-whole-archive $libs $flags",
	},
}

// RuleByFileIn finds the rule whose FileIn globs match the given filename's
// extension.
func RuleByFileIn(name string) (Rule, bool) {
	for _, r := range Rules {
		for _, pattern := range r.FileIn {
			if pattern == "*" {
				continue
			}
			if matchExt(name, pattern) {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func matchExt(name, pattern string) bool {
	ext := pattern[1:] // strip leading "*"
	return len(name) >= len(ext) && name[len(name)-len(ext):] == ext
}
