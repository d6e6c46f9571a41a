package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the
	// built-in default or an error when no default exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswer is the question answering template.
	// It is a text/template with {{.Context}} and {{.Question}} fields.
	PromptAnswer = "answer"
)

// DefaultAnswerPrompt is the built-in question answering template.
const DefaultAnswerPrompt = `Use the following pieces of context to answer the question at the end. 
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context: {{.Context}}

Question: {{.Question}}

Answer:`
