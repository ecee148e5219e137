package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/financebot/internal/domain"
	"github.com/dvloznov/financebot/internal/llm"
	"github.com/dvloznov/financebot/internal/logger"
)

// fakeTransactionStore serves a canned recency lookup and records inserts.
type fakeTransactionStore struct {
	recentCategory string
	recentErr      error

	insertErr error
	inserted  []*domain.Transaction

	lookupEstablishment string
	lookupSince         time.Time
}

func (f *fakeTransactionStore) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, tx)
	return nil
}

func (f *fakeTransactionStore) LatestCategoryForEstablishment(ctx context.Context, establishment string, since time.Time) (string, error) {
	f.lookupEstablishment = establishment
	f.lookupSince = since
	return f.recentCategory, f.recentErr
}

// fakeCategoryStore serves canned categories and records creations.
type fakeCategoryStore struct {
	categories []domain.Category
	byName     map[string]*domain.Category
	createErr  error
	created    []domain.Category
}

func (f *fakeCategoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryStore) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return f.byName[name], nil
}

func (f *fakeCategoryStore) CreateCategoryIfAbsent(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, category)
	return &category, nil
}

// scriptedCompleter returns canned responses in order.
type scriptedCompleter struct {
	t         *testing.T
	responses []string
	calls     int
}

func (s *scriptedCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	if len(s.responses) == 0 {
		s.t.Fatalf("unexpected model call #%d: %q", s.calls, req.Prompt)
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func newTestResolver(txs *fakeTransactionStore, cats *fakeCategoryStore, completer llm.Completer) *CategoryResolver {
	return NewCategoryResolver(txs, cats, completer, logger.NewWithWriter(nil))
}

func TestResolve_RecentTransactionShortCircuits(t *testing.T) {
	txs := &fakeTransactionStore{recentCategory: "food"}
	completer := &scriptedCompleter{t: t} // any model call fails the test

	got, err := newTestResolver(txs, &fakeCategoryStore{}, completer).Resolve(context.Background(), "  Padaria Do Zé ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "food" {
		t.Errorf("Resolve() = %q, want food", got)
	}
	if txs.lookupEstablishment != "padaria do zé" {
		t.Errorf("lookup establishment = %q, want lowercased trimmed", txs.lookupEstablishment)
	}
}

func TestResolve_RecencyWindow(t *testing.T) {
	txs := &fakeTransactionStore{recentCategory: "food"}
	r := newTestResolver(txs, &fakeCategoryStore{}, &scriptedCompleter{t: t})
	fixed := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	if _, err := r.Resolve(context.Background(), "padaria"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := fixed.AddDate(0, 0, -30)
	if !txs.lookupSince.Equal(want) {
		t.Errorf("lookup since = %v, want %v", txs.lookupSince, want)
	}
}

func TestResolve_SemanticMatch(t *testing.T) {
	cats := &fakeCategoryStore{categories: []domain.Category{
		{Name: "food", Description: "meals and groceries"},
		{Name: "transport", Description: "rides, fuel, parking"},
	}}
	completer := &scriptedCompleter{t: t, responses: []string{
		`{"foundCategory": true, "categoryName": "food"}`,
	}}

	got, err := newTestResolver(&fakeTransactionStore{}, cats, completer).Resolve(context.Background(), "ifood")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "food" {
		t.Errorf("Resolve() = %q, want food", got)
	}
	if len(cats.created) != 0 {
		t.Error("a semantic match must not create a category")
	}
}

func TestResolve_MalformedMatchIsContractViolation(t *testing.T) {
	cats := &fakeCategoryStore{categories: []domain.Category{{Name: "food"}}}
	completer := &scriptedCompleter{t: t, responses: []string{
		"```json\n{\"foundCategory\": true, \"categoryName\": \"food\"}\n```",
	}}

	_, err := newTestResolver(&fakeTransactionStore{}, cats, completer).Resolve(context.Background(), "ifood")

	var contract *GeneratorContractError
	if !errors.As(err, &contract) {
		t.Fatalf("Resolve() error = %v, want GeneratorContractError", err)
	}
}

func TestResolve_CreatesProposedCategory(t *testing.T) {
	cats := &fakeCategoryStore{categories: []domain.Category{{Name: "food"}}}
	completer := &scriptedCompleter{t: t, responses: []string{
		`{"foundCategory": false, "categoryName": null}`,
		`{"addCategory": true, "categoryName": "pets", "categoryDescription": "pet shops and vet care"}`,
	}}

	got, err := newTestResolver(&fakeTransactionStore{}, cats, completer).Resolve(context.Background(), "petz")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "pets" {
		t.Errorf("Resolve() = %q, want pets", got)
	}
	if len(cats.created) != 1 || cats.created[0].Name != "pets" {
		t.Fatalf("created = %v, want the proposed category", cats.created)
	}
	if cats.created[0].Description != "pet shops and vet care" {
		t.Errorf("created description = %q", cats.created[0].Description)
	}
}

func TestResolve_DeclinedProposalMeansUncategorized(t *testing.T) {
	cats := &fakeCategoryStore{categories: []domain.Category{{Name: "food"}}}
	completer := &scriptedCompleter{t: t, responses: []string{
		`{"foundCategory": false, "categoryName": null}`,
		`{"addCategory": false, "categoryName": null, "categoryDescription": null}`,
	}}

	got, err := newTestResolver(&fakeTransactionStore{}, cats, completer).Resolve(context.Background(), "xyz")
	if err != nil {
		t.Fatalf("a declined proposal is not an error, got %v", err)
	}
	if got != "" {
		t.Errorf("Resolve() = %q, want empty", got)
	}
	if len(cats.created) != 0 {
		t.Error("nothing may be created for a declined proposal")
	}
}

func TestResolve_NoCategoriesSkipsMatchTier(t *testing.T) {
	// With an empty category list there is nothing to match against; the
	// resolver goes straight to proposing.
	completer := &scriptedCompleter{t: t, responses: []string{
		`{"addCategory": true, "categoryName": "food", "categoryDescription": "meals"}`,
	}}

	got, err := newTestResolver(&fakeTransactionStore{}, &fakeCategoryStore{}, completer).Resolve(context.Background(), "padaria")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "food" {
		t.Errorf("Resolve() = %q, want food", got)
	}
}

func TestEnsureNamed_ExistingCategoryNeedsNoModel(t *testing.T) {
	cats := &fakeCategoryStore{byName: map[string]*domain.Category{
		"food": {Name: "food", Description: "meals"},
	}}

	got, err := newTestResolver(&fakeTransactionStore{}, cats, &scriptedCompleter{t: t}).EnsureNamed(context.Background(), "food", "padaria")
	if err != nil {
		t.Fatalf("EnsureNamed() error = %v", err)
	}
	if got != "food" {
		t.Errorf("EnsureNamed() = %q, want food", got)
	}
}

func TestEnsureNamed_CreatesWithGeneratedDescription(t *testing.T) {
	cats := &fakeCategoryStore{}
	completer := &scriptedCompleter{t: t, responses: []string{
		"Subscriptions to streaming and online services.\n",
	}}

	got, err := newTestResolver(&fakeTransactionStore{}, cats, completer).EnsureNamed(context.Background(), "subscriptions", "netflix")
	if err != nil {
		t.Fatalf("EnsureNamed() error = %v", err)
	}
	if got != "subscriptions" {
		t.Errorf("EnsureNamed() = %q", got)
	}
	if len(cats.created) != 1 {
		t.Fatal("category was not created")
	}
	if cats.created[0].Description != "Subscriptions to streaming and online services." {
		t.Errorf("description = %q, want trimmed model text", cats.created[0].Description)
	}
}
