package retrieval

import "fmt"

const rewritePromptTemplate = `
Analyze this customer query and extract the key terms for policy search:
Query: "%s"

Focus on:
1. Item category (electronics, apparel, books, home)
2. Policy type (return window, restocking fee, warranty)
3. Key conditions (opened, sealed, damaged)

Respond with only the most relevant keywords separated by commas:
`

func buildRewritePrompt(query string) string {
	return fmt.Sprintf(rewritePromptTemplate, query)
}
