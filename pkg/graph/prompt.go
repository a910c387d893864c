package graph

import "fmt"

const classifyPromptTemplate = `
Classify this customer query into exactly one category:

- rag_only: questions about return policies, windows, or general information
- tool_only: requests to calculate a refund amount with all details provided
- both: questions that need policy information AND a refund calculation

Query: "%s"

Respond with only the category name (rag_only, tool_only, or both):
`

func buildClassifyPrompt(query string) string {
	return fmt.Sprintf(classifyPromptTemplate, query)
}
