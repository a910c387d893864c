package graph

// Next is the transition function of the graph. It is pure: the successor
// depends only on the current node and state.
func Next(current Node, s State) Node {
	switch current {
	case NodeClassifyIntent:
		return routeAfterIntent(s)
	case NodePerformRAGSearch:
		return routeAfterRAG(s)
	case NodeExtractParameters:
		return routeAfterExtraction(s)
	case NodeComputeRefund:
		return NodeGenerateResponse
	case NodeGenerateResponse, NodeEnd:
		return NodeEnd
	}
	return NodeEnd
}

func routeAfterIntent(s State) Node {
	switch s.Intent {
	case IntentRAGOnly, IntentBoth:
		return NodePerformRAGSearch
	case IntentToolOnly:
		return NodeExtractParameters
	}
	return NodeGenerateResponse
}

func routeAfterRAG(s State) Node {
	if s.Intent == IntentBoth {
		return NodeExtractParameters
	}
	return NodeGenerateResponse
}

func routeAfterExtraction(s State) Node {
	if len(s.MissingParams) > 0 {
		return NodeGenerateResponse
	}
	return NodeComputeRefund
}
