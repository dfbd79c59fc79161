package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

type fakeCatalog struct {
	rows      []models.Component
	deleted   bool
	insertErr error
}

func (f *fakeCatalog) CreateBatch(_ context.Context, rows []models.Component) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeCatalog) DeleteAll(context.Context) error {
	f.deleted = true
	return nil
}

type fakeBuilds struct {
	deleted bool
}

func (f *fakeBuilds) DeleteAll(context.Context) error {
	f.deleted = true
	return nil
}

func testImporter(t *testing.T, dataDir string, catalog *fakeCatalog) *Importer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "importer-test", Output: os.Stderr})
	imp, err := New(config.ImportConfig{
		DataDir:   dataDir,
		INRToEUR:  "0.011",
		BatchSize: 2,
	}, catalog, &fakeBuilds{}, logg)
	if err != nil {
		t.Fatalf("build importer: %v", err)
	}
	return imp
}

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestRunImportsKnownBrandsAndConvertsPrices(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "CPU.csv", "id,name,price\n"+
		"1,AMD Ryzen 5 5600X,₹15000\n"+
		"2,Intel Core i5-12400F,\"₹13,500\"\n"+
		"3,Mystery CPU 3000,₹9999\n"+
		"4,AMD Laptop APU 5700U,₹8000\n")

	catalog := &fakeCatalog{}
	imp := testImporter(t, dir, catalog)

	summary, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if summary.Imported != 2 {
		t.Fatalf("expected 2 imported rows, got %d", summary.Imported)
	}
	if summary.Skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", summary.Skipped)
	}
	if len(catalog.rows) != 2 {
		t.Fatalf("expected 2 persisted rows, got %d", len(catalog.rows))
	}

	first := catalog.rows[0]
	if first.Manufacturer != "AMD" {
		t.Fatalf("expected AMD manufacturer, got %s", first.Manufacturer)
	}
	if first.Category != enums.ComponentCategoryCPU {
		t.Fatalf("expected cpu category, got %s", first.Category)
	}
	// 15000 INR * 0.011 = 165.00 EUR
	if first.Price.StringFixed(2) != "165.00" {
		t.Fatalf("expected converted price 165.00, got %s", first.Price.StringFixed(2))
	}
	if first.Currency != enums.CurrencyEUR {
		t.Fatalf("expected EUR currency, got %s", first.Currency)
	}

	second := catalog.rows[1]
	if second.Price.StringFixed(2) != "148.50" {
		t.Fatalf("expected converted price 148.50, got %s", second.Price.StringFixed(2))
	}
}

func TestRunUsesShortLayoutForCaseFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "cabinates.csv", "name,price\n"+
		"Corsair 4000D Airflow,₹7500\n")

	catalog := &fakeCatalog{}
	imp := testImporter(t, dir, catalog)

	summary, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("expected 1 imported row, got %d", summary.Imported)
	}
	if catalog.rows[0].Category != enums.ComponentCategoryCase {
		t.Fatalf("expected case category, got %s", catalog.rows[0].Category)
	}
}

func TestRunSkipsUnparsablePrices(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "GPU.csv", "id,name,price\n"+
		"1,NVIDIA RTX 3060,not-a-price\n"+
		"2,Gigabyte RTX 4070,₹60000\n")

	catalog := &fakeCatalog{}
	imp := testImporter(t, dir, catalog)

	summary, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("expected 1 imported row, got %d", summary.Imported)
	}
	if summary.Skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", summary.Skipped)
	}
}

func TestRunMissingFilesAreNotFatal(t *testing.T) {
	catalog := &fakeCatalog{}
	imp := testImporter(t, t.TempDir(), catalog)

	summary, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if summary.Imported != 0 {
		t.Fatalf("expected nothing imported, got %d", summary.Imported)
	}
}

func TestClearDeletesBuildsBeforeComponents(t *testing.T) {
	catalog := &fakeCatalog{}
	builds := &fakeBuilds{}
	logg := logger.New(logger.Options{ServiceName: "importer-test", Output: os.Stderr})
	imp, err := New(config.ImportConfig{DataDir: t.TempDir(), INRToEUR: "0.011", BatchSize: 10}, catalog, builds, logg)
	if err != nil {
		t.Fatalf("build importer: %v", err)
	}

	if err := imp.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !builds.deleted {
		t.Fatal("expected builds to be deleted")
	}
	if !catalog.deleted {
		t.Fatal("expected components to be deleted")
	}
}

func TestDetectManufacturer(t *testing.T) {
	cases := map[string]string{
		"AMD Ryzen 7 5800X":                 "AMD",
		"western digital Blue 1TB":          "Western Digital",
		"Ant Esports ICE-200TG":             "Ant Esports",
		"Totally Unknown Part":              "",
		"ASRock B550M Steel Legend":         "ASRock",
		"Samsung 970 EVO Plus NVMe 1TB SSD": "Samsung",
	}
	for name, want := range cases {
		if got := detectManufacturer(name); got != want {
			t.Fatalf("detectManufacturer(%q) = %q, want %q", name, got, want)
		}
	}
}
