package main

import (
	"os"
	"strings"

	"botnology/internal/cli"
)

func isProjectID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "proj-") && len(s) > len("proj-")
}

// rewriteProjectShortcutArgs turns `botnology <proj-id>` into `botnology projects select <proj-id>`.
// Persistent flags may come first, so it looks for the first positional token.
func rewriteProjectShortcutArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":     true,
		"--profile": true,
		"--config":  true,
		"--format":  true,
	}
	boolFlags := map[string]bool{
		"--pretty":  true,
		"--verbose": true,
		"-v":        true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "projects", "select")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isProjectID(argv[i+1]) {
				// Drop the separator so cobra still sees the subcommand.
				out := make([]string, 0, len(argv)+1)
				out = append(out, argv[:i]...)
				out = append(out, "projects", "select")
				return append(out, argv[i+1:]...)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isProjectID(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteProjectShortcutArgs(os.Args)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
