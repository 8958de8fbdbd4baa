package dispatch

import "sort"

// Subcommand identifies one of the extension-management actions.
type Subcommand int

const (
	Install Subcommand = iota + 1
	Uninstall
	List
	Link
	Unlink
	Enable
	Disable
)

var subcommandNames = map[Subcommand]string{
	Install:   "install",
	Uninstall: "uninstall",
	List:      "list",
	Link:      "link",
	Unlink:    "unlink",
	Enable:    "enable",
	Disable:   "disable",
}

// String returns the command-line name of s.
func (s Subcommand) String() string {
	if name, ok := subcommandNames[s]; ok {
		return name
	}
	return "unknown"
}

// Builds reports whether s runs the post-action build unless suppressed.
func (s Subcommand) Builds() bool {
	switch s {
	case Install, Uninstall, Link, Unlink:
		return true
	default:
		return false
	}
}

// ParseSubcommand returns the Subcommand with the given command-line name.
func ParseSubcommand(name string) (Subcommand, bool) {
	for s, n := range subcommandNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Names returns every subcommand name in sorted order.
func Names() []string {
	names := make([]string, 0, len(subcommandNames))
	for _, n := range subcommandNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
