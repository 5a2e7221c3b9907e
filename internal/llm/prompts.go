package llm

import _ "embed"

// DefaultPromptVersion is the extraction prompt served by the API.
const DefaultPromptVersion = "fmla_v1"

var (
	//go:embed prompts/fmla_extract_v1.txt
	promptFMLAV1 string
)

// PromptTemplate returns the prompt template text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "fmla_v1":
		return promptFMLAV1, true
	default:
		return promptFMLAV1, false
	}
}
