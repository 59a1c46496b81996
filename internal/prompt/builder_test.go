package prompt

import (
	"strings"
	"testing"

	"github.com/haunted-sh/haunted/internal/domain"
)

func TestBuildIsDeterministic(t *testing.T) {
	in := BuildInput{
		Request:    "list all python files",
		Domains:    []Domain{DomainFile},
		Rejections: []string{"ls *.py"},
	}
	if Build(in) != Build(in) {
		t.Fatal("identical input produced different prompts")
	}
}

func TestBuildSectionOrder(t *testing.T) {
	out := Build(BuildInput{
		Request:    "find big files",
		Domains:    []Domain{DomainFile},
		Overrides:  []domain.Mapping{{Request: "open projects", Command: "cd ~/projects"}},
		Learned:    []domain.Mapping{{Request: "find big files fast", Command: "find . -size +100M 2>/dev/null"}},
		Rejections: []string{"du -a /"},
		Blacklist:  []string{"rm -rf /"},
	})

	markers := []string{
		"shell command interpreter",
		"User-defined mappings",
		"Examples (follow these patterns):",
		"Learned patterns",
		"REJECTED COMMANDS",
		"BLACKLIST",
		"Now interpret this command:",
		"User: find big files",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(out, marker)
		if idx == -1 {
			t.Fatalf("prompt missing section %q", marker)
		}
		if idx < last {
			t.Fatalf("section %q out of order", marker)
		}
		last = idx
	}
}

func TestBuildNoDomainUsesGenericExamples(t *testing.T) {
	out := Build(BuildInput{Request: "do the usual"})
	if !strings.Contains(out, "Examples (follow these patterns):") {
		t.Fatal("example section silently dropped")
	}
	if !strings.Contains(out, "df -h") {
		t.Fatal("generic examples missing")
	}
}

func TestBuildDomainExamplesIncluded(t *testing.T) {
	out := Build(BuildInput{
		Request: "list all python files",
		Domains: []Domain{DomainFile},
	})
	if !strings.Contains(out, `find . -name "*.py" 2>/dev/null`) {
		t.Fatal("file domain examples missing")
	}
	if strings.Contains(out, "ps aux") {
		t.Fatal("unrelated domain examples leaked in")
	}
}

func TestBuildExactOverrideSkipsExamples(t *testing.T) {
	out := Build(BuildInput{
		Request:   "open projects",
		Domains:   []Domain{DomainFile},
		Overrides: []domain.Mapping{{Request: "open projects", Command: "cd ~/projects"}},
	})
	if strings.Contains(out, "Examples (follow these patterns):") {
		t.Fatal("exact override should short-circuit example inclusion")
	}
	if !strings.Contains(out, "cd ~/projects") {
		t.Fatal("override mapping missing")
	}
}

func TestBuildRejectionLimit(t *testing.T) {
	out := Build(BuildInput{
		Request:    "clean up",
		Rejections: []string{"a", "b", "c", "d", "e"},
	})
	if strings.Contains(out, "- REJECTED: d") {
		t.Fatalf("rejection list not capped at %d", domain.PromptRejectionLimit)
	}
	for _, want := range []string{"- REJECTED: a", "- REJECTED: b", "- REJECTED: c"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing rejection entry %q", want)
		}
	}
}
