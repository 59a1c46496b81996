// Package prompt builds the instruction payload for the completion service:
// lexical domain detection, worked example selection, and deterministic
// prompt composition.
package prompt

import "strings"

// Domain tags a request with the kind of shell work it implies.
type Domain string

const (
	DomainFile    Domain = "file"
	DomainProcess Domain = "process"
	DomainNetwork Domain = "network"
	DomainText    Domain = "text"
)

var domainKeywords = map[Domain][]string{
	DomainFile: {
		"find", "search", "locate", "list", "ls", "copy", "cp", "move", "mv",
		"rename", "delete", "remove", "file", "files", "directory", "folder",
		"path", "tree", "disk", "space", "size", "du", "df",
	},
	DomainProcess: {
		"process", "kill", "stop", "terminate", "ps", "top", "running",
		"background", "foreground", "job", "jobs", "bg", "fg", "cpu", "memory",
		"ram", "performance", "monitor",
	},
	DomainNetwork: {
		"download", "upload", "curl", "wget", "fetch", "http", "https",
		"ping", "network", "connection", "port", "netstat", "ip", "dns",
		"url", "api", "request",
	},
	DomainText: {
		"grep", "search", "filter", "sed", "awk", "replace", "substitute",
		"cut", "sort", "uniq", "unique", "count", "wc", "lines", "words",
		"pattern", "match", "pipe", "extract",
	},
}

// order keeps categorization output deterministic.
var domainOrder = []Domain{DomainFile, DomainProcess, DomainNetwork, DomainText}

// Categorize maps request text to zero or more domains based on keyword
// membership. Multiple domains firing at once is intentional so the builder
// can blend example sets; no match at all is a valid outcome.
func Categorize(text string) []Domain {
	lowered := strings.ToLower(text)
	var domains []Domain
	for _, d := range domainOrder {
		for _, kw := range domainKeywords[d] {
			if strings.Contains(lowered, kw) {
				domains = append(domains, d)
				break
			}
		}
	}
	return domains
}
