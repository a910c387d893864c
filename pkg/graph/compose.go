package graph

import (
	"fmt"
	"strings"

	"returns-assistant-be/pkg/catalog"
	"returns-assistant-be/pkg/extraction"
)

const (
	noRefundFragment = "Unfortunately, no refund is available due to being past the return window."
	followUpFragment = "What type of item are you looking to return?"
	genericFallback  = "I can help you with returns and refund calculations. What would you like to know?"

	componentsPrefix = "\n\nWhat I used: "
	refundComponent  = "refund calculator"
)

var clarifyingQuestions = map[string]string{
	extraction.FieldPurchasePrice:     "What was the original purchase price?",
	extraction.FieldDaysSinceDelivery: "How many days ago was it delivered?",
	extraction.FieldOpened:            "Was the item opened or is it still sealed?",
	extraction.FieldCategory:          "What type of item is this? (electronics, apparel, books, or home goods)",
}

var (
	timeframeCues = []string{"days", "week", "month", "past", "ago", "since"}
	itemMentions  = []string{"phone", "laptop", "headphone", "jacket", "shirt", "blender", "book"}
)

// Composition is the user-facing outcome of GenerateResponse.
type Composition struct {
	Answer     string
	Citations  []string
	Components []string
}

// Compose builds the answer from the state. It is deterministic.
func Compose(s State) Composition {
	if len(s.MissingParams) > 0 && s.Intent.wantsRefund() {
		return Composition{
			Answer:     clarifyingQuestion(s.MissingParams[0]),
			Citations:  []string{},
			Components: []string{},
		}
	}

	var fragments []string
	components := []string{}
	citations := []string{}

	if len(s.RAGResults) > 0 && s.Intent.wantsPolicy() {
		top := s.RAGResults[0].Policy
		citations = append(citations, fmt.Sprintf("%s (ID: %s)", top.Title, top.ID))
		components = append(components, fmt.Sprintf("policy '%s'", top.Title))

		if s.Intent == IntentRAGOnly {
			fragments = append(fragments, top.Content)
		} else {
			fragments = append(fragments, "According to our policy: "+top.Content)
		}
	}

	if s.ToolResult != nil {
		components = append(components, refundComponent)

		if s.ToolResult.RefundAmount > 0 {
			fragments = append(fragments, fmt.Sprintf("Your refund would be $%.2f", s.ToolResult.RefundAmount))
			if len(s.ToolResult.AppliedRules) > 0 {
				fragments = append(fragments, "Applied rules: "+strings.Join(s.ToolResult.AppliedRules, ", "))
			}
		} else {
			fragments = append(fragments, noRefundFragment)
		}
	}

	if s.Intent == IntentBoth && s.ToolResult == nil && needsItemFollowUp(s.UserQuery) {
		fragments = append(fragments, followUpFragment)
	}

	answer := genericFallback
	if len(fragments) > 0 {
		answer = joinFragments(fragments)
	}
	if len(components) > 0 {
		answer += componentsPrefix + strings.Join(components, " + ")
	}

	return Composition{Answer: answer, Citations: citations, Components: components}
}

func clarifyingQuestion(field string) string {
	if q, ok := clarifyingQuestions[field]; ok {
		return q
	}
	return "I need to know: " + strings.ReplaceAll(field, "_", " ")
}

func needsItemFollowUp(query string) bool {
	lower := strings.ToLower(query)
	return catalog.ContainsAny(lower, timeframeCues) && !catalog.ContainsAny(lower, itemMentions)
}

// joinFragments joins with ". " and always closes with a period. Fragments
// are not normalized, so a fragment ending in "." yields "..".
func joinFragments(fragments []string) string {
	return strings.Join(fragments, ". ") + "."
}
