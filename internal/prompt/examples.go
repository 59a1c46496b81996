package prompt

// Example is one worked (request, command) pair demonstrating correct
// quoting, flags, and error suppression for a domain.
type Example struct {
	Request string
	Command string
}

var domainExamples = map[Domain][]Example{
	DomainFile: {
		{Request: "list all python files", Command: `find . -name "*.py" 2>/dev/null`},
		{Request: "find files larger than 100MB", Command: "find . -type f -size +100M 2>/dev/null"},
		{Request: "show me python files I edited this week", Command: `find . -type f -name "*.py" -mtime -7 2>/dev/null`},
		{Request: "copy all text files to backup folder", Command: "cp *.txt backup/ 2>/dev/null"},
		{Request: "show directory sizes", Command: "du -sh */ 2>/dev/null"},
	},
	DomainProcess: {
		{Request: "show all running processes", Command: "ps aux"},
		{Request: "find python processes", Command: "ps aux | grep python"},
		{Request: "kill process 1234", Command: "kill 1234"},
		{Request: "show top cpu consuming processes", Command: "top -o cpu -n 10"},
		{Request: "list background jobs", Command: "jobs"},
	},
	DomainNetwork: {
		{Request: "download file from url", Command: "curl -O https://example.com/file.zip"},
		{Request: "fetch webpage content", Command: "curl -s https://example.com"},
		{Request: "ping google", Command: "ping -c 4 google.com"},
		{Request: "check open ports", Command: "netstat -an | grep LISTEN"},
		{Request: "test api endpoint", Command: "curl -X GET https://api.example.com/data"},
	},
	DomainText: {
		{Request: "search for error in logs", Command: `grep -i "error" *.log 2>/dev/null`},
		{Request: "replace old with new in file", Command: "sed -i '' 's/old/new/g' file.txt"},
		{Request: "count lines in file", Command: "wc -l file.txt"},
		{Request: "sort and remove duplicates", Command: "sort file.txt | uniq"},
		{Request: "extract first column", Command: "cut -d',' -f1 data.csv"},
	},
}

// genericExamples back the prompt when no domain fires. The builder must
// never emit an empty example section.
var genericExamples = []Example{
	{Request: "show disk usage", Command: "df -h"},
	{Request: "create a directory called test", Command: "mkdir test"},
	{Request: "where am I", Command: "pwd"},
	{Request: "show git status", Command: "git status"},
}

// ExamplesFor returns up to perDomain worked examples per detected domain,
// falling back to the generic set when no domain was detected.
func ExamplesFor(domains []Domain, perDomain int) []Example {
	if perDomain <= 0 {
		perDomain = len(genericExamples)
	}
	if len(domains) == 0 {
		if perDomain < len(genericExamples) {
			return genericExamples[:perDomain]
		}
		return genericExamples
	}
	var out []Example
	for _, d := range domainOrder {
		if !containsDomain(domains, d) {
			continue
		}
		set := domainExamples[d]
		if perDomain < len(set) {
			set = set[:perDomain]
		}
		out = append(out, set...)
	}
	return out
}

func containsDomain(domains []Domain, d Domain) bool {
	for _, candidate := range domains {
		if candidate == d {
			return true
		}
	}
	return false
}
