package assistant

import (
	"strings"

	"github.com/dvloznov/financebot/internal/domain"
)

// interpretSystemRole teaches the model the message grammar for recording a
// transaction. Amounts stay textual; parsing them is this side's job.
const interpretSystemRole = `You are a personal-finance assistant interpreting user messages.
Messages describe personal income or expenses and may contain an amount, an establishment, a category, a date and a description.
Rules:
- A "+" sign or words like "received", "salary", "deposit" mean income. Anything else is an expense.
- Amounts may come with or without "R$", with or without thousands dots, with cents after a comma. Valid examples: 30, 30,00, 30,80, R$30, R$ 1.234,56.
- If the message has a single number, that number IS the amount. The amount is mandatory.
- If the word "category" appears, the message names the category for the establishment. Otherwise the remaining words are the establishment and no category is given.
- A date, when present, comes as day/month[/year] and must be converted. When absent, leave the date empty.
- Answer with only a JSON object in this exact shape:
{"kind": "income"|"expense", "amount": "<amount exactly as written>", "establishment": "...", "category": "" , "description": "", "date": "YYYY-MM-DD"}
Use "" for any field the message does not state.`

func buildInterpretPrompt(today, text string) string {
	var b strings.Builder
	b.WriteString("Message: \"" + text + "\"\n")
	b.WriteString("Today is " + today + ".\n")
	b.WriteString("Answer with only the JSON in the described shape.\n")
	return b.String()
}

const categoryMatchSystemRole = `You decide whether an establishment fits one of the existing spending categories.
Answer with only one of these JSON shapes:
{"foundCategory": true, "categoryName": "<name of the category>"}
{"foundCategory": false, "categoryName": null}`

func buildCategoryMatchPrompt(establishment string, categories []domain.Category) string {
	var b strings.Builder
	b.WriteString("Establishment: " + establishment + "\n")
	b.WriteString("Existing categories:\n")
	for _, c := range categories {
		b.WriteString("- " + c.Name + ": " + c.Description + "\n")
	}
	return b.String()
}

const categoryCreateSystemRole = `You propose a new spending category for an establishment.
Answer with only one of these JSON shapes:
{"addCategory": true, "categoryName": "<name>", "categoryDescription": "<short description>"}
{"addCategory": false, "categoryName": null, "categoryDescription": null}`

func buildCategoryCreatePrompt(establishment string) string {
	return "Establishment: " + establishment + "\n"
}

const categoryDescriptionSystemRole = "You write short descriptions for personal spending categories."

func buildCategoryDescriptionPrompt(name, establishment string) string {
	var b strings.Builder
	b.WriteString("Write a short description for the category '" + name + "'.\n")
	b.WriteString("The establishment that triggered it is '" + establishment + "'; ")
	b.WriteString("take it into account only if it is meaningful.\n")
	b.WriteString("Answer with only the description text.\n")
	return b.String()
}

// buildIntentPrompt asks which of the four flows the message belongs to.
// The model answers with one bare token.
func buildIntentPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a finance assistant. Read the user message and answer with the single word naming its intent:\n\n")
	b.WriteString("- \"analysis\": the user asks about or requests analysis of their financial data (questions, reports, summaries, messages with '?').\n")
	b.WriteString("- \"record\": the user states a new financial movement (an expense, an income, a numeric amount to note down).\n")
	b.WriteString("- \"report_error\": the user reports a failure, mistake or unexpected behavior.\n")
	b.WriteString("- \"unknown\": anything else.\n\n")
	b.WriteString("Examples:\n")
	b.WriteString("- \"What did I spend this month?\" -> analysis\n")
	b.WriteString("- \"Received 100 from Ana\" -> record\n")
	b.WriteString("- \"20 abc\" -> record\n")
	b.WriteString("- \"That should have been recognized as a transaction\" -> report_error\n")
	b.WriteString("- \"Good morning\" -> unknown\n\n")
	b.WriteString("User message:\n\"" + text + "\"\n\n")
	b.WriteString("Answer with only one of: analysis, record, report_error, unknown.\n")
	return b.String()
}

const errorClassifySystemRole = `You interpret technical error messages and user problem reports.
For each message, answer with only a JSON object containing:
- "description": a brief, clear explanation of the problem.
- "classification": a one-word classification of the error.
Example: {"description": "Could not connect to the MongoDB cluster.", "classification": "technical"}`

func buildErrorClassifyPrompt(message string) string {
	return "Problem to interpret:\n" + message + "\n"
}
