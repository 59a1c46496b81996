package domain

// Config mirrors ~/.haunted/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Model               ModelSettings     `yaml:"model"`
	History             HistorySettings   `yaml:"history"`
	Safety              SafetySettings    `yaml:"safety"`
	Knowledge           KnowledgeSettings `yaml:"knowledge"`
	Execution           ExecutionSettings `yaml:"execution"`
}

// ModelSettings points at the local completion service.
type ModelSettings struct {
	Endpoint       string `yaml:"endpoint"`
	Name           string `yaml:"name"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// HistorySettings configures the persistence layer.
type HistorySettings struct {
	Enabled         bool   `yaml:"enabled"`
	Path            string `yaml:"path"`
	SuggestionLimit int    `yaml:"suggestion_limit"`
}

// SafetySettings defines risk classification behavior.
type SafetySettings struct {
	RulesFile string `yaml:"rules_file"`
	Blacklist string `yaml:"blacklist_file"`
}

// KnowledgeSettings locates the user override mappings.
type KnowledgeSettings struct {
	Path string `yaml:"path"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell           string `yaml:"shell"`
	AutoExecuteSafe bool   `yaml:"auto_execute_safe"`
}
