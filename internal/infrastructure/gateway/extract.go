package gateway

import (
	"fmt"
	"regexp"
	"strings"
)

// refusalPrefixes mark reply lines that are prose or apologies, not commands.
var refusalPrefixes = []string{
	"i ", "i'm", "i'd", "i cannot", "i can't", "sorry", "unfortunately",
	"sure", "here", "this ", "the ", "note:", "as an", "as a ", "you ",
	"it ", "to ", "please",
}

// firstWordPattern is what a shell invocation's leading token looks like:
// a lowercase binary name, a path, or a variable assignment.
var firstWordPattern = regexp.MustCompile(`^[a-z0-9._/~-]+$|^[A-Za-z_][A-Za-z0-9_]*=`)

// ExtractCommand pulls a single command line out of a free-text model reply.
// It takes the first line that looks like a shell invocation after stripping
// code fences and prompt decorations; if no such line exists it fails with
// ErrUnparsable. This is deliberately a standalone parser: it is the one
// place malformed model output must be tolerated.
func ExtractCommand(reply string) (string, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrUnparsable)
	}

	if block := codeBlock(reply); block != "" {
		reply = block
	}

	for _, line := range strings.Split(reply, "\n") {
		line = cleanLine(line)
		if looksLikeCommand(line) {
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: no command-like line in reply", ErrUnparsable)
}

// codeBlock returns the contents of the first fenced block, if any.
func codeBlock(reply string) string {
	start := strings.Index(reply, "```")
	if start == -1 {
		return ""
	}
	rest := reply[start+3:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	block := rest[:end]
	// drop the language tag line (```sh, ```bash)
	if idx := strings.Index(block, "\n"); idx != -1 {
		first := strings.TrimSpace(block[:idx])
		if first == "sh" || first == "bash" || first == "zsh" || first == "shell" {
			block = block[idx+1:]
		}
	}
	return strings.TrimSpace(block)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, "`", "")
	for _, prefix := range []string{"$ ", "# ", "> ", "command: ", "Command: "} {
		if strings.HasPrefix(line, prefix) {
			line = strings.TrimSpace(line[len(prefix):])
		}
	}
	return line
}

func looksLikeCommand(line string) bool {
	if line == "" {
		return false
	}
	lowered := strings.ToLower(line)
	for _, prefix := range refusalPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return false
		}
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	if !firstWordPattern.MatchString(fields[0]) {
		return false
	}
	// A single bare word ending in a period reads as a sentence fragment,
	// not an invocation, unless it is a path.
	if strings.HasSuffix(line, ".") && !strings.ContainsAny(line, "/-") {
		return false
	}
	return true
}
