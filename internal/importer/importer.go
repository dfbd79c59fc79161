package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db/models"
	"github.com/buildforge/buildforge-backend/pkg/enums"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

// sourceFile binds a vendor CSV file to its catalog category and column layout.
// The short layout carries name,price in the first two columns; the long
// layout carries them in columns two and three.
type sourceFile struct {
	filename    string
	category    enums.ComponentCategory
	shortLayout bool
}

var sourceFiles = []sourceFile{
	{filename: "CPU.csv", category: enums.ComponentCategoryCPU},
	{filename: "GPU.csv", category: enums.ComponentCategoryGPU},
	{filename: "MotherBoard.csv", category: enums.ComponentCategoryMotherboard},
	{filename: "RAM.csv", category: enums.ComponentCategoryRAM},
	{filename: "StorageSSD.csv", category: enums.ComponentCategoryStorage, shortLayout: true},
	{filename: "PowerSupply.csv", category: enums.ComponentCategoryPowerSupply, shortLayout: true},
	{filename: "cabinates.csv", category: enums.ComponentCategoryCase, shortLayout: true},
}

type componentWriter interface {
	CreateBatch(ctx context.Context, rows []models.Component) error
	DeleteAll(ctx context.Context) error
}

type buildCleaner interface {
	DeleteAll(ctx context.Context) error
}

// Summary reports the outcome of one import run.
type Summary struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer loads vendor CSV catalogs into the components table.
type Importer struct {
	cfg      config.ImportConfig
	catalog  componentWriter
	builds   buildCleaner
	logg     *logger.Logger
	inrToEUR decimal.Decimal
}

// New constructs an importer. The INR rate string comes from configuration so
// stale rates can be corrected without a release.
func New(cfg config.ImportConfig, catalog componentWriter, builds buildCleaner, logg *logger.Logger) (*Importer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("component writer required")
	}
	if builds == nil {
		return nil, fmt.Errorf("build cleaner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	rate, err := decimal.NewFromString(cfg.INRToEUR)
	if err != nil {
		return nil, fmt.Errorf("invalid INR to EUR rate %q: %w", cfg.INRToEUR, err)
	}
	return &Importer{cfg: cfg, catalog: catalog, builds: builds, logg: logg, inrToEUR: rate}, nil
}

// Run imports every known CSV file under the configured data directory.
// Unparsable rows and rows without a known brand are skipped, never fatal.
func (i *Importer) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	for _, src := range sourceFiles {
		path := filepath.Join(i.cfg.DataDir, src.filename)
		fileCtx := i.logg.WithFields(ctx, map[string]any{"file": src.filename, "category": string(src.category)})

		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				i.logg.Warn(fileCtx, "source file not found, skipping")
				continue
			}
			return summary, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("open %s", path))
		}

		i.logg.Info(fileCtx, "importing catalog file")
		if err := i.importFile(fileCtx, f, src, summary); err != nil {
			_ = f.Close()
			return summary, err
		}
		_ = f.Close()
	}

	i.logg.Info(i.logg.WithFields(ctx, map[string]any{
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
	}), "catalog import completed")

	return summary, nil
}

func (i *Importer) importFile(ctx context.Context, f io.Reader, src sourceFile, summary *Summary) error {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read csv header")
	}

	batch := make([]models.Component, 0, i.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := i.catalog.CreateBatch(ctx, batch); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert components")
		}
		summary.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Failed++
			i.logg.Error(ctx, "unreadable csv row", err)
			continue
		}

		component, ok := i.parseRow(ctx, record, src)
		if !ok {
			summary.Skipped++
			continue
		}

		batch = append(batch, *component)
		if len(batch) >= i.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

func (i *Importer) parseRow(ctx context.Context, record []string, src sourceFile) (*models.Component, bool) {
	nameIdx, priceIdx := 1, 2
	if src.shortLayout {
		nameIdx, priceIdx = 0, 1
	}
	if len(record) <= priceIdx {
		return nil, false
	}

	name := strings.TrimSpace(record[nameIdx])
	if name == "" {
		return nil, false
	}

	lower := strings.ToLower(name)
	if strings.Contains(lower, "laptop") || strings.Contains(lower, "notebook") {
		return nil, false
	}

	manufacturer := detectManufacturer(name)
	if manufacturer == "" {
		return nil, false
	}

	priceRaw := strings.TrimSpace(record[priceIdx])
	priceRaw = strings.ReplaceAll(priceRaw, "₹", "")
	priceRaw = strings.ReplaceAll(priceRaw, ",", "")
	priceINR, err := decimal.NewFromString(priceRaw)
	if err != nil {
		i.logg.Warn(i.logg.WithFields(ctx, map[string]any{"name": name, "price": record[priceIdx]}), "unparsable price, skipping row")
		return nil, false
	}

	return &models.Component{
		Name:         name,
		Category:     src.category,
		Manufacturer: manufacturer,
		Price:        priceINR.Mul(i.inrToEUR).Round(2),
		Currency:     enums.CurrencyEUR,
	}, true
}

// Clear removes all builds, join rows, and catalog rows.
func (i *Importer) Clear(ctx context.Context) error {
	if err := i.builds.DeleteAll(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete builds")
	}
	i.logg.Info(ctx, "builds and join rows deleted")

	if err := i.catalog.DeleteAll(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete components")
	}
	i.logg.Info(ctx, "components deleted")

	return nil
}
