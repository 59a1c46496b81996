package safety

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/haunted-sh/haunted/internal/domain"
)

// Rule is one data-driven matcher. Command is a regexp tried against the
// command-position token of each segment; Args optionally narrows the match
// to segments whose argument string also matches. Scope "command" instead
// matches Pattern against the whole normalized chain, for rules that span
// pipeline stages. Rules are data, not code, so each can be tested on its
// own and the set can be overridden from ~/.haunted/safety.yaml.
type Rule struct {
	Name    string `yaml:"name"`
	Tier    string `yaml:"tier"`
	Command string `yaml:"command,omitempty"`
	Args    string `yaml:"args,omitempty"`
	Scope   string `yaml:"scope,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules []Rule `yaml:"rules"`
}

type compiledRule struct {
	name    string
	tier    domain.RiskTier
	command *regexp.Regexp
	args    *regexp.Regexp
	whole   *regexp.Regexp
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		// fall back to defaults
		rules.Rules = defaultRules()
		return rules, nil
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	if len(rules.Rules) == 0 {
		rules.Rules = defaultRules()
	}
	return rules, nil
}

func compile(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		cr := compiledRule{name: rule.Name, tier: parseTier(rule.Tier)}
		var err error
		if rule.Scope == "command" {
			cr.whole, err = regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, cr)
			continue
		}
		cr.command, err = regexp.Compile(rule.Command)
		if err != nil {
			return nil, err
		}
		if rule.Args != "" {
			cr.args, err = regexp.Compile(rule.Args)
			if err != nil {
				return nil, err
			}
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

func parseTier(value string) domain.RiskTier {
	switch strings.ToLower(value) {
	case "destructive":
		return domain.RiskDestructive
	case "moderate":
		return domain.RiskModerate
	default:
		return domain.RiskSafe
	}
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(userHomeDir(), ".haunted", "safety.yaml")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return path
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func defaultRules() []Rule {
	return []Rule{
		// destructive: recursive delete, raw device writes, formatting,
		// privilege escalation chains
		{Name: "recursive-delete", Tier: "destructive", Command: `^rm$`, Args: `(^|\s)-[a-zA-Z]*[rR]`},
		{Name: "raw-device-write", Tier: "destructive", Command: `^dd$`},
		{Name: "filesystem-format", Tier: "destructive", Command: `^(mkfs(\.[a-z0-9]+)?|format)$`},
		{Name: "device-redirect", Tier: "destructive", Scope: "command", Pattern: `>\s*/dev/(sd[a-z]|nvme|disk|hd[a-z])`},
		{Name: "recursive-chmod", Tier: "destructive", Command: `^chmod$`, Args: `(^|\s)-[a-zA-Z]*R`},
		{Name: "recursive-chown", Tier: "destructive", Command: `^chown$`, Args: `(^|\s)-[a-zA-Z]*R`},
		{Name: "download-into-sudo", Tier: "destructive", Scope: "command", Pattern: `(curl|wget)[^|]*\|\s*sudo`},
		{Name: "package-remove", Tier: "destructive", Command: `^(apt|apt-get|yum|dnf)$`, Args: `^(remove|purge)(\s|$)`},
		{Name: "pip-uninstall", Tier: "destructive", Command: `^pip3?$`, Args: `^uninstall(\s|$)`},
		{Name: "truncate", Tier: "destructive", Command: `^truncate$`},

		// moderate: non-recursive delete, process termination, bulk
		// move/rename, container/image removal
		{Name: "delete", Tier: "moderate", Command: `^rm$`},
		{Name: "move", Tier: "moderate", Command: `^mv$`},
		{Name: "process-kill", Tier: "moderate", Command: `^(kill|pkill|killall)$`},
		{Name: "forced-copy", Tier: "moderate", Command: `^cp$`, Args: `(^|\s)-[a-zA-Z]*f`},
		{Name: "permissions", Tier: "moderate", Command: `^(chmod|chown)$`},
		{Name: "container-removal", Tier: "moderate", Command: `^(docker|podman)$`, Args: `^(rm|rmi)(\s|$)`},
	}
}
