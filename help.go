package flagkit

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const helpWrapWidth = 72

// ModuleHelp renders help text for a module's key flags, one entry per
// flag in declaration order. Returns "" when the module has no key flags.
func (fv *FlagValues) ModuleHelp(module string) string {
	flags := fv.keyFlagsByModule[module]
	if len(flags) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", module)
	for _, f := range flags {
		b.WriteString(flagHelp(f))
	}
	return b.String()
}

// MainModuleHelp renders help for the flags declared by the program's main
// package, which caller attribution records under the module name "main".
func (fv *FlagValues) MainModuleHelp() string {
	return fv.ModuleHelp("main")
}

// Help renders help for every module with registered key flags, sorted by
// module name.
func (fv *FlagValues) Help() string {
	var b strings.Builder
	for _, module := range fv.Modules() {
		section := fv.ModuleHelp(module)
		if section == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section)
	}
	return b.String()
}

// flagHelp renders one flag entry:
//
//	  --name, -n: help text wrapped to a fixed
//	    width and indented
//	    (type; default: value)
func flagHelp(f *Flag) string {
	var b strings.Builder
	head := "--" + f.name
	if f.shortName != "" {
		head += ", -" + f.shortName
	}
	fmt.Fprintf(&b, "  %s:\n", head)

	for _, line := range strings.Split(wordwrap.WrapString(f.help, helpWrapWidth), "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}

	meta := f.FlagType()
	if f.hasDefault {
		meta += fmt.Sprintf("; default: %q", f.defUnparsed)
	}
	fmt.Fprintf(&b, "    (%s)\n", meta)
	return b.String()
}
