package analysis

import (
	"fmt"
	"strings"
)

// buildPipelinePrompt asks the model for a {"collection", "pipeline"}
// description answering the user's question. The schema, the stage grammar
// and the live index list are spelled out so the model has no reason to
// invent fields or stages; whatever it still invents is caught by Validate.
func buildPipelinePrompt(today string, indexes [][]string, question string) string {
	var b strings.Builder

	b.WriteString("Consider that the current date is " + today + ".\n")
	b.WriteString("You are a financial analysis agent. Given a question about the ")
	b.WriteString("\"transactions\" or \"categories\" collection, build a valid MongoDB ")
	b.WriteString("aggregation pipeline. Always follow the instructions below:\n\n")

	b.WriteString("- Fields of the *transactions* collection:\n")
	b.WriteString("    - amount: number (positive for income, negative for expenses)\n")
	b.WriteString("    - date: datetime, ALWAYS at midnight (YYYY-MM-DDT00:00:00)\n")
	b.WriteString("    - kind: string ('income' or 'expense')\n")
	b.WriteString("    - category: string\n")
	b.WriteString("    - establishment: string\n\n")

	b.WriteString("- Fields of the *categories* collection:\n")
	b.WriteString("    - name: the category identifier\n")
	b.WriteString("    - description: detailed category description\n\n")

	b.WriteString("- ALWAYS query with an aggregation pipeline (an array of stages).\n")
	b.WriteString("- Use only these stages: $match (always first, if used), $group, $count, $sort, $limit (always last, if used), $project.\n")
	b.WriteString("- Example, total spend per category between two dates:\n")
	b.WriteString(`  [
    {"$match": {"date": {"$gte": "2025-05-01T00:00:00", "$lte": "2025-05-31T00:00:00"}}},
    {"$group": {"_id": "$category", "total": {"$sum": "$amount"}}},
    {"$sort": {"total": -1}},
    {"$limit": 5}
  ]` + "\n")
	b.WriteString("- Example, total balance for 2024:\n")
	b.WriteString(`  [
    {"$match": {"date": {"$gte": "2024-01-01T00:00:00", "$lte": "2024-12-31T00:00:00"}}},
    {"$group": {"_id": null, "balance": {"$sum": "$amount"}}}
  ]` + "\n\n")

	b.WriteString("- Write every date bound as an ISO string with zero time, as in the examples.\n")
	if len(indexes) > 0 {
		b.WriteString(fmt.Sprintf("- The indexes on this collection are: %v\n", indexes))
	}
	b.WriteString("- Expenses are negative, income positive. For a balance, just sum amount. When sorting, income goes descending and expenses ascending.\n")
	b.WriteString("- When a question about top categories or establishments does not say income, assume it is about expenses.\n")
	b.WriteString("- Never use fields that do not exist.\n")
	b.WriteString("- Never explain. Answer with only a JSON object in this exact shape:\n")
	b.WriteString(`{"collection": "CollectionName", "pipeline": [...]}` + "\n\n")

	b.WriteString("User question: " + question + "\n")

	return b.String()
}

// buildSummaryPrompt asks the model to phrase the aggregation results as a
// short answer for the user.
func buildSummaryPrompt(today, question, resultsJSON string) string {
	var b strings.Builder

	b.WriteString("Consider that the current date is " + today + ".\n\n")
	b.WriteString("Question: " + question + "\n\n")
	b.WriteString("Query result (JSON):\n" + resultsJSON + "\n\n")

	b.WriteString("Write a concise answer in plain text. Rules:\n")
	b.WriteString("- Always format money as Brazilian currency: R$ 1.234,56 or -R$ 1.234,56.\n")
	b.WriteString("- When the answer concerns only expenses, report absolute values.\n")
	b.WriteString("- Use one line for a single value; use short '- ' bullet lines for lists.\n")
	b.WriteString("- Include the year when it helps comprehension.\n")
	b.WriteString("- If there are no results, say there is no data for that period.\n")
	b.WriteString("- No emojis, no extra explanations, only the answer.\n")

	return b.String()
}

// buildChartDecisionPrompt asks whether a chart would help explain the
// results. The model answers with a bare true or false.
func buildChartDecisionPrompt(question, resultsJSON string) string {
	var b strings.Builder

	b.WriteString("You evaluate whether a chart would help the user understand the data.\n\n")
	b.WriteString("User question:\n" + question + "\n\n")
	b.WriteString("Query result (JSON):\n" + resultsJSON + "\n\n")
	b.WriteString("A chart should be generated only when it aids visualization ")
	b.WriteString("(lists, changes over time, categories, proportions).\n")
	b.WriteString("Answer with only \"true\" or \"false\".\n")

	return b.String()
}

// buildChartSpecPrompt asks for a Plotly-style figure as bare JSON.
func buildChartSpecPrompt(question, resultsJSON string) string {
	var b strings.Builder

	b.WriteString("User question: " + question + "\n\n")
	b.WriteString("Aggregated query result (JSON):\n" + resultsJSON + "\n\n")
	b.WriteString("Pick the most suitable chart type (bar, line, scatter, pie, ...) and ")
	b.WriteString("build a JSON object describing a Plotly figure with this minimal structure:\n")
	b.WriteString(`{
  "data": [
    {"type": "<chart_type>", "x": [...], "y": [...], "name": "Series name"}
  ],
  "layout": {
    "title": "<chart title>",
    "xaxis": {"title": "<x axis name>"},
    "yaxis": {"title": "<y axis name>"}
  }
}` + "\n")
	b.WriteString("When the data concerns only expenses, use absolute values.\n")
	b.WriteString("Answer with only the JSON object, nothing else.\n")

	return b.String()
}
