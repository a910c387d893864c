package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"returns-assistant-be/internal/dto"
	"returns-assistant-be/pkg/refund"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAnswer(w io.Writer, query string, res *dto.AskResponse) {
	fmt.Fprintf(w, "%s %s\n", bold("Query:"), query)
	fmt.Fprintf(w, "%s %s  %s\n", bold("Intent:"), cyan(res.Intent), gray(strings.Join(res.Path, " > ")))
	if res.ExtractionSource != "" {
		fmt.Fprintf(w, "%s %s\n", bold("Extraction:"), res.ExtractionSource)
	}
	if res.RewrittenQuery != "" {
		fmt.Fprintf(w, "%s %s\n", bold("Rewritten:"), res.RewrittenQuery)
	}
	if len(res.MissingParams) > 0 {
		fmt.Fprintf(w, "%s %s\n", bold("Missing:"), yellow(strings.Join(res.MissingParams, ", ")))
	}

	fmt.Fprintln(w, bold("Answer:"))
	for _, line := range strings.Split(res.FinalAnswer, "\n") {
		fmt.Fprintf(w, "  %s\n", green(line))
	}

	for _, c := range res.Citations {
		fmt.Fprintf(w, "%s %s\n", bold("Source:"), c)
	}
}

func printRefund(w io.Writer, res refund.Result) {
	amount := fmt.Sprintf("$%.2f", res.RefundAmount)
	if res.RefundAmount > 0 {
		amount = green(amount)
	} else {
		amount = yellow(amount)
	}
	fmt.Fprintf(w, "%s %s\n", bold("Refund:"), amount)
	for _, r := range res.AppliedRules {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	for _, n := range res.Notes {
		fmt.Fprintf(w, "  %s\n", gray(n))
	}
}

func printHits(w io.Writer, res *dto.SearchResponse) {
	if res.RewrittenQuery != "" {
		fmt.Fprintf(w, "%s %s\n", bold("Rewritten:"), res.RewrittenQuery)
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(w, yellow("No matching policies"))
		return
	}
	for i, h := range res.Results {
		fmt.Fprintf(w, "%d. %s %s %s\n", i+1, bold(h.Title), gray("("+h.Id+")"), cyan(fmt.Sprintf("score=%d", h.Score)))
		fmt.Fprintf(w, "   %s\n", h.Content)
	}
}
