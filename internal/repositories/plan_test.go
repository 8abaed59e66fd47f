package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func testPlan(input string) models.PlaylistPlan {
	return models.PlaylistPlan{
		Input:          input,
		PlaylistName:   "Rainy Window",
		Description:    "Soft songs for grey afternoons.",
		SearchFunction: "search_songs_by_tag",
		SearchQuery:    "rain",
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "plans")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestPlanRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		record, err := repo.Create(testPlan("rainy day songs"))
		if err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}
		if record.ID == "" {
			t.Error("plan ID should be set after creation")
		}
		if record.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence)
		}
		if record.CreatedAt.IsZero() {
			t.Error("created_at should be set")
		}
	})

	t.Run("Create accepts empty generated fields", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		plan := testPlan("x")
		plan.PlaylistName = ""
		plan.Description = ""
		record, err := repo.Create(plan)
		if err != nil {
			t.Fatalf("expected empty name to be stored, got %v", err)
		}

		got, err := repo.Get(record.ID)
		if err != nil {
			t.Fatalf("failed to get plan: %v", err)
		}
		if got.Plan.PlaylistName != "" || got.Plan.Description != "" {
			t.Errorf("expected empty generated fields, got %+v", got.Plan)
		}
	})

	t.Run("Create rejects plans without a search function", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		plan := testPlan("x")
		plan.SearchFunction = ""
		if _, err := repo.Create(plan); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		record, err := repo.Create(testPlan("rainy day songs"))
		if err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}

		got, err := repo.Get(record.ID)
		if err != nil {
			t.Fatalf("failed to get plan: %v", err)
		}
		if got.Plan != record.Plan {
			t.Errorf("expected %+v, got %+v", record.Plan, got.Plan)
		}
		if got.Sequence != record.Sequence {
			t.Errorf("expected sequence %d, got %d", record.Sequence, got.Sequence)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %v", err)
		}
		if _, err := repo.GetBySequence(9); !errors.Is(err, shared.ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %v", err)
		}
	})

	t.Run("GetBySequence", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		for _, in := range []string{"one", "two"} {
			if _, err := repo.Create(testPlan(in)); err != nil {
				t.Fatalf("failed to create plan: %v", err)
			}
		}

		got, err := repo.GetBySequence(2)
		if err != nil {
			t.Fatalf("failed to get plan: %v", err)
		}
		if got.Plan.Input != "two" {
			t.Errorf("expected input two, got %s", got.Plan.Input)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		for _, in := range []string{"one", "two", "three"} {
			if _, err := repo.Create(testPlan(in)); err != nil {
				t.Fatalf("failed to create plan: %v", err)
			}
		}

		all, err := repo.List(0)
		if err != nil {
			t.Fatalf("failed to list plans: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 plans, got %d", len(all))
		}
		if all[0].Plan.Input != "three" || all[2].Plan.Input != "one" {
			t.Errorf("expected newest first, got %s..%s", all[0].Plan.Input, all[2].Plan.Input)
		}

		limited, err := repo.List(2)
		if err != nil {
			t.Fatalf("failed to list plans: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 plans, got %d", len(limited))
		}
	})

	t.Run("List empty", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		plans, err := repo.List(10)
		if err != nil {
			t.Fatalf("failed to list plans: %v", err)
		}
		if len(plans) != 0 {
			t.Errorf("expected no plans, got %d", len(plans))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewPlanRepository(setupTestDB(t))

		record, err := repo.Create(testPlan("x"))
		if err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}
		if err := repo.Delete(record.ID); err != nil {
			t.Fatalf("failed to delete plan: %v", err)
		}
		if _, err := repo.Get(record.ID); !errors.Is(err, shared.ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound after delete, got %v", err)
		}
		if err := repo.Delete(record.ID); !errors.Is(err, shared.ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound on second delete, got %v", err)
		}
	})
}
