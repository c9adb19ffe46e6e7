package services

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestExpense_CreateAndGet(t *testing.T) {
	env := setupTestEnv(t)

	created, err := env.expenses.Create("Beli spidol", 15000, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Judul != "Beli spidol" || created.Nominal != 15000 {
		t.Errorf("unexpected expense %+v", created)
	}
	if created.FotoPath != nil {
		t.Error("expected no receipt path")
	}

	got, err := env.expenses.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected id %s, got %s", created.ID, got.ID)
	}
}

func TestExpense_GetUnknown(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := env.expenses.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExpense_ListPeriodFilter(t *testing.T) {
	env := setupTestEnv(t)

	mustCreate := func(judul string, tanggal time.Time) {
		t.Helper()
		if _, err := env.expenses.Create(judul, 1000, tanggal, nil); err != nil {
			t.Fatalf("Create %s failed: %v", judul, err)
		}
	}
	mustCreate("maret-a", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	mustCreate("maret-b", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	mustCreate("april", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	all, err := env.expenses.List(0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(all))
	}

	march, err := env.expenses.List(3, 2025)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("expected 2 March expenses, got %d", len(march))
	}
	// Newest spend date first.
	if march[0].Judul != "maret-b" || march[1].Judul != "maret-a" {
		t.Errorf("unexpected order: %s, %s", march[0].Judul, march[1].Judul)
	}
}

func TestExpense_UpdatePartial(t *testing.T) {
	env := setupTestEnv(t)

	created, err := env.expenses.Create("Beli spidol", 15000, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	nominal := int64(20000)
	updated, err := env.expenses.Update(created.ID, nil, &nominal, nil, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Nominal != 20000 {
		t.Errorf("expected nominal 20000, got %d", updated.Nominal)
	}
	if updated.Judul != "Beli spidol" {
		t.Errorf("expected judul untouched, got %q", updated.Judul)
	}
}

func TestExpense_ReceiptLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	receipt := &Receipt{Filename: "nota.jpg", Data: strings.NewReader("fake-jpeg-bytes")}
	created, err := env.expenses.Create("Konsumsi rapat", 50000, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), receipt)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.FotoPath == nil {
		t.Fatal("expected receipt path to be set")
	}
	if _, err := os.Stat(*created.FotoPath); err != nil {
		t.Fatalf("expected receipt file on disk: %v", err)
	}

	if err := env.expenses.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(*created.FotoPath); !os.IsNotExist(err) {
		t.Errorf("expected receipt file removed, stat err = %v", err)
	}
	if _, err := env.expenses.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestExpense_DeleteUnknown(t *testing.T) {
	env := setupTestEnv(t)

	if err := env.expenses.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
