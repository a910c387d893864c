package extraction

import "fmt"

const extractionPromptTemplate = `
Extract information from this customer query. Return "unknown" for anything not provided:

Query: "%s"

Extract these exact fields:
1. purchase_price: the number only, without a $ sign. Examples: 300, 120.50
2. days_since_delivery: converted to days. "yesterday"=1, "last week"=7, "12 days ago"=12
3. opened: "opened" if the item was opened or used, "sealed" if new or unopened, "unknown" if unclear
4. category: "electronics", "apparel", "books", "home", or "unknown"

Respond with JSON only:
{"purchase_price": "unknown", "days_since_delivery": "unknown", "opened": "unknown", "category": "unknown"}
`

func buildExtractionPrompt(query string) string {
	return fmt.Sprintf(extractionPromptTemplate, query)
}
