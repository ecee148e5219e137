package analysis

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDates_OperatorObject(t *testing.T) {
	stages := []Stage{
		{Kind: StageMatch, Spec: map[string]any{
			"date": map[string]any{
				"$gte": "2025-05-01T00:00:00",
				"$lte": "2025-05-31",
			},
			"kind": "expense",
		}},
		{Kind: StageGroup, Spec: map[string]any{"_id": "$category"}},
	}

	out, err := NormalizeDates(stages)
	if err != nil {
		t.Fatalf("NormalizeDates() error = %v", err)
	}

	bound, ok := out[0].Spec.(map[string]any)["date"].(map[string]any)
	if !ok {
		t.Fatalf("date bound is %T, want map", out[0].Spec.(map[string]any)["date"])
	}

	gte, ok := bound["$gte"].(time.Time)
	if !ok {
		t.Fatalf("$gte is %T, want time.Time", bound["$gte"])
	}
	want := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	if !gte.Equal(want) {
		t.Errorf("$gte = %v, want %v", gte, want)
	}

	lte, ok := bound["$lte"].(time.Time)
	if !ok {
		t.Fatalf("$lte is %T, want time.Time", bound["$lte"])
	}
	if lte.Hour() != 0 || lte.Minute() != 0 || lte.Second() != 0 {
		t.Errorf("$lte = %v, want midnight", lte)
	}

	// Non-date parts of the filter stay put.
	if out[0].Spec.(map[string]any)["kind"] != "expense" {
		t.Error("non-date filter field was altered")
	}
}

func TestNormalizeDates_ScalarString(t *testing.T) {
	stages := []Stage{
		{Kind: StageMatch, Spec: map[string]any{"date": "2024-12-25"}},
	}

	out, err := NormalizeDates(stages)
	if err != nil {
		t.Fatalf("NormalizeDates() error = %v", err)
	}

	got, ok := out[0].Spec.(map[string]any)["date"].(time.Time)
	if !ok {
		t.Fatalf("date is %T, want time.Time", out[0].Spec.(map[string]any)["date"])
	}
	want := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("date = %v, want %v", got, want)
	}
}

func TestNormalizeDates_TruncatesTimeOfDay(t *testing.T) {
	stages := []Stage{
		{Kind: StageMatch, Spec: map[string]any{"date": "2025-03-10T17:45:12"}},
	}

	out, err := NormalizeDates(stages)
	if err != nil {
		t.Fatalf("NormalizeDates() error = %v", err)
	}

	got := out[0].Spec.(map[string]any)["date"].(time.Time)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("date = %v, want %v", got, want)
	}
}

func TestNormalizeDates_Malformed(t *testing.T) {
	stages := []Stage{
		{Kind: StageMatch, Spec: map[string]any{"date": map[string]any{"$gte": "last tuesday"}}},
	}

	_, err := NormalizeDates(stages)
	var malformed *MalformedDateError
	if !errors.As(err, &malformed) {
		t.Fatalf("NormalizeDates() error = %v, want MalformedDateError", err)
	}
	if malformed.Value != "last tuesday" {
		t.Errorf("MalformedDateError.Value = %q, want the offending string", malformed.Value)
	}
}

func TestNormalizeDates_DoesNotMutateInput(t *testing.T) {
	spec := map[string]any{"date": "2024-01-01"}
	stages := []Stage{{Kind: StageMatch, Spec: spec}}

	if _, err := NormalizeDates(stages); err != nil {
		t.Fatalf("NormalizeDates() error = %v", err)
	}

	if _, stillString := spec["date"].(string); !stillString {
		t.Error("input filter map was mutated")
	}
}

func TestNormalizeDates_IgnoresOtherStages(t *testing.T) {
	stages := []Stage{
		{Kind: StageGroup, Spec: map[string]any{"_id": "$date"}},
		{Kind: StageLimit, Spec: float64(5)},
	}

	out, err := NormalizeDates(stages)
	if err != nil {
		t.Fatalf("NormalizeDates() error = %v", err)
	}
	if out[0].Spec.(map[string]any)["_id"] != "$date" {
		t.Error("group stage was altered")
	}
}
