package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/llm"
)

// defaultRecencyWindowDays bounds how far back the recency tier looks for an
// earlier categorization of the same establishment.
const defaultRecencyWindowDays = 30

// CategoryResolver assigns a category to an establishment through three
// tiers, cheapest first: a recent transaction at the same establishment, a
// semantic match against the existing categories, and finally a
// model-proposed new category. The model declining to propose one is a
// normal outcome, not a failure; the transaction stays uncategorized.
type CategoryResolver struct {
	transactions TransactionStore
	categories   CategoryStore
	completer    llm.Completer
	windowDays   int
	now          func() time.Time
	log          zerolog.Logger
}

// NewCategoryResolver wires the resolver with the default recency window.
func NewCategoryResolver(transactions TransactionStore, categories CategoryStore, completer llm.Completer, log zerolog.Logger) *CategoryResolver {
	return &CategoryResolver{
		transactions: transactions,
		categories:   categories,
		completer:    completer,
		windowDays:   defaultRecencyWindowDays,
		now:          time.Now,
		log:          log,
	}
}

type categoryMatch struct {
	FoundCategory bool   `json:"foundCategory"`
	CategoryName  string `json:"categoryName"`
}

type categoryProposal struct {
	AddCategory         bool   `json:"addCategory"`
	CategoryName        string `json:"categoryName"`
	CategoryDescription string `json:"categoryDescription"`
}

// Resolve returns the category for the establishment, or "" when no tier
// produced one. The tiers run strictly in order and each later tier runs
// only when the previous one found nothing.
func (r *CategoryResolver) Resolve(ctx context.Context, establishment string) (string, error) {
	establishment = strings.ToLower(strings.TrimSpace(establishment))

	since := r.now().AddDate(0, 0, -r.windowDays)
	name, err := r.transactions.LatestCategoryForEstablishment(ctx, establishment, since)
	if err != nil {
		return "", fmt.Errorf("Resolve: recency lookup: %w", err)
	}
	if name != "" {
		r.log.Debug().Str("establishment", establishment).Str("category", name).Msg("Category resolved from recent transaction")
		return name, nil
	}

	name, err = r.matchExisting(ctx, establishment)
	if err != nil {
		return "", err
	}
	if name != "" {
		r.log.Debug().Str("establishment", establishment).Str("category", name).Msg("Category resolved by semantic match")
		return name, nil
	}

	return r.propose(ctx, establishment)
}

// matchExisting asks the model whether the establishment fits one of the
// known categories. "" means no fit.
func (r *CategoryResolver) matchExisting(ctx context.Context, establishment string) (string, error) {
	categories, err := r.categories.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("Resolve: listing categories: %w", err)
	}
	if len(categories) == 0 {
		return "", nil
	}

	raw, err := r.completer.Complete(ctx, llm.Request{
		System: categoryMatchSystemRole,
		Prompt: buildCategoryMatchPrompt(establishment, categories),
	})
	if err != nil {
		return "", fmt.Errorf("Resolve: category match call: %w", err)
	}

	var match categoryMatch
	if err := llm.DecodeStrict(raw, &match); err != nil {
		return "", &GeneratorContractError{Response: raw, Err: err}
	}
	if !match.FoundCategory {
		return "", nil
	}
	if match.CategoryName == "" {
		return "", &GeneratorContractError{Response: raw, Err: fmt.Errorf("foundCategory without a categoryName")}
	}
	return match.CategoryName, nil
}

// propose asks the model for a brand-new category and persists it. A
// declined proposal leaves the transaction uncategorized.
func (r *CategoryResolver) propose(ctx context.Context, establishment string) (string, error) {
	raw, err := r.completer.Complete(ctx, llm.Request{
		System: categoryCreateSystemRole,
		Prompt: buildCategoryCreatePrompt(establishment),
	})
	if err != nil {
		return "", fmt.Errorf("Resolve: category proposal call: %w", err)
	}

	var proposal categoryProposal
	if err := llm.DecodeStrict(raw, &proposal); err != nil {
		return "", &GeneratorContractError{Response: raw, Err: err}
	}
	if !proposal.AddCategory {
		r.log.Debug().Str("establishment", establishment).Msg("Model declined to propose a category")
		return "", nil
	}
	if proposal.CategoryName == "" {
		return "", &GeneratorContractError{Response: raw, Err: fmt.Errorf("addCategory without a categoryName")}
	}

	stored, err := r.categories.CreateCategoryIfAbsent(ctx, domain.Category{
		Name:        proposal.CategoryName,
		Description: proposal.CategoryDescription,
	})
	if err != nil {
		return "", fmt.Errorf("Resolve: creating category %q: %w", proposal.CategoryName, err)
	}

	r.log.Info().Str("category", stored.Name).Msg("Created new category")
	return stored.Name, nil
}

// EnsureNamed handles a user-named category: it bypasses the tiers, reuses
// the existing category when there is one and otherwise creates it with a
// model-written description.
func (r *CategoryResolver) EnsureNamed(ctx context.Context, name, establishment string) (string, error) {
	existing, err := r.categories.FindCategoryByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("EnsureNamed: %w", err)
	}
	if existing != nil {
		return existing.Name, nil
	}

	description, err := r.completer.Complete(ctx, llm.Request{
		System: categoryDescriptionSystemRole,
		Prompt: buildCategoryDescriptionPrompt(name, establishment),
	})
	if err != nil {
		return "", fmt.Errorf("EnsureNamed: description call: %w", err)
	}

	stored, err := r.categories.CreateCategoryIfAbsent(ctx, domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return "", fmt.Errorf("EnsureNamed: creating category %q: %w", name, err)
	}
	return stored.Name, nil
}
