package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

func sampleRecord(id string, createdAt time.Time) *models.OptimizationRecord {
	return &models.OptimizationRecord{
		ID:                 id,
		UserPrompt:         "prove the theorem",
		FullPrompt:         "Follow these instructions.\n\nFormat as steps.",
		TargetModel:        "gpt-4",
		EffectivenessScore: 4.55,
		Rationale:          "chosen ordering",
		Components: []models.PromptComponent{
			{Type: models.ComponentInstruction, Content: "Follow these instructions.", Position: 1},
			{Type: models.ComponentOutputFormat, Content: "Format as steps.", Position: 2},
		},
		CreatedAt: createdAt,
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.History()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := sampleRecord("pr_round", created)

	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByID(ctx, "pr_round")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.ID != record.ID || got.UserPrompt != record.UserPrompt ||
		got.FullPrompt != record.FullPrompt || got.TargetModel != record.TargetModel ||
		got.Rationale != record.Rationale {
		t.Errorf("record fields did not round-trip: %+v", got)
	}
	if got.EffectivenessScore != 4.55 {
		t.Errorf("expected score 4.55, got %v", got.EffectivenessScore)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, got.CreatedAt)
	}
	if len(got.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(got.Components))
	}
	if got.Components[0].Type != models.ComponentInstruction || got.Components[0].Position != 1 {
		t.Errorf("unexpected first component: %+v", got.Components[0])
	}
	if got.Components[1].Content != "Format as steps." {
		t.Errorf("unexpected second component: %+v", got.Components[1])
	}
}

func TestHistoryGetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.History().GetByID(context.Background(), "pr_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.History()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := sampleRecord(fmt.Sprintf("pr_%d", i), base.Add(time.Duration(i)*time.Hour))
		if i == 2 {
			record.TargetModel = "claude"
		}
		if err := repo.Save(ctx, record); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	records, total, err := repo.List(ctx, ports.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != "pr_2" || records[2].ID != "pr_0" {
		t.Errorf("expected newest first, got %s..%s", records[0].ID, records[2].ID)
	}
	if records[0].Components != nil {
		t.Error("listed records should not carry components")
	}
}

func TestHistoryList_ModelFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.History()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	gpt := sampleRecord("pr_gpt", base)
	claude := sampleRecord("pr_claude", base.Add(time.Hour))
	claude.TargetModel = "claude"

	for _, record := range []*models.OptimizationRecord{gpt, claude} {
		if err := repo.Save(ctx, record); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	records, total, err := repo.List(ctx, ports.HistoryFilter{Model: "claude"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("expected exactly one claude record, got total=%d len=%d", total, len(records))
	}
	if records[0].ID != "pr_claude" {
		t.Errorf("expected pr_claude, got %s", records[0].ID)
	}
}

func TestHistoryList_LimitAndOffset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.History()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		record := sampleRecord(fmt.Sprintf("pr_%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := repo.Save(ctx, record); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	records, total, err := repo.List(ctx, ports.HistoryFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "pr_3" || records[1].ID != "pr_2" {
		t.Errorf("unexpected page: %s, %s", records[0].ID, records[1].ID)
	}
}

func TestHistorySave_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.History()

	record := sampleRecord("pr_dup", time.Now().UTC())
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, record); err == nil {
		t.Error("expected primary key violation on duplicate id")
	}
}
