// Package reports genera el reporte de existencias de la planta: los saldos
// derivados del log a una fecha de corte, cuenta por cuenta, en PDF.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Envasadora-api/internal/application/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/entity"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

// StockReportRow una línea del reporte: el saldo de una cuenta, valorizado
// al precio de lista del producto.
type StockReportRow struct {
	ProductSKU   string
	ProductName  string
	LocationName string
	LocationType ledger.LocationType
	State        ledger.State
	Quantity     int64
	Value        decimal.Decimal
}

// StockReport el reporte armado, listo para render.
type StockReport struct {
	PlantName   string
	AsOf        time.Time
	GeneratedAt time.Time
	Rows        []StockReportRow
	TotalValue  decimal.Decimal
	// Negatives cuentas con saldo negativo a la fecha de corte; van en el
	// reporte porque el operador debe verlas, no esconderse.
	Negatives []StockReportRow
}

// StockReportPDFGenerator puerto de render del reporte.
type StockReportPDFGenerator interface {
	GenerateStockReport(ctx context.Context, report *StockReport) ([]byte, error)
}

// StockReportUseCase arma el reporte de existencias a una fecha de corte.
type StockReportUseCase struct {
	log       repository.MovementLogRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	pdfGen    StockReportPDFGenerator
	plantName string
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(
	log repository.MovementLogRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	pdfGen StockReportPDFGenerator,
	plantName string,
) *StockReportUseCase {
	return &StockReportUseCase{log: log, products: products, locations: locations, pdfGen: pdfGen, plantName: plantName}
}

// Generate deriva los saldos a la fecha de corte (asOf vacío = hoy) y los
// rinde en PDF. Devuelve el nombre de archivo sugerido y los bytes.
func (uc *StockReportUseCase) Generate(ctx context.Context, asOf string) (string, []byte, error) {
	cutoff := time.Now()
	if asOf != "" {
		t, err := appledger.ParseDate(asOf)
		if err != nil {
			return "", nil, err
		}
		cutoff = t
	}

	entries, err := uc.log.Query(ctx, repository.MovementFilter{To: &cutoff})
	if err != nil {
		return "", nil, err
	}
	set := ledger.Fold(entries)

	names, types, err := uc.locationCatalog(ctx)
	if err != nil {
		return "", nil, err
	}
	products, err := uc.productCatalog(ctx)
	if err != nil {
		return "", nil, err
	}

	report := &StockReport{
		PlantName:   uc.plantName,
		AsOf:        cutoff,
		GeneratedAt: time.Now(),
	}
	for _, ab := range set.Accounts() {
		row := toReportRow(ab, products, names, types)
		report.Rows = append(report.Rows, row)
		report.TotalValue = report.TotalValue.Add(row.Value)
		if ab.Quantity < 0 {
			report.Negatives = append(report.Negatives, row)
		}
	}

	pdf, err := uc.pdfGen.GenerateStockReport(ctx, report)
	if err != nil {
		return "", nil, err
	}
	filename := ReportFilename(uc.plantName, cutoff)
	return filename, pdf, nil
}

func toReportRow(ab ledger.AccountBalance, products map[string]*entity.Product, names map[string]string, types map[string]ledger.LocationType) StockReportRow {
	row := StockReportRow{
		ProductSKU:   ab.ProductID,
		ProductName:  ab.ProductID,
		LocationName: ab.Account.LocationID,
		LocationType: types[ab.Account.LocationID],
		State:        ab.Account.State,
		Quantity:     ab.Quantity,
	}
	if p, ok := products[ab.ProductID]; ok {
		row.ProductSKU = p.SKU
		row.ProductName = p.Name
		row.Value = p.Price.Mul(decimal.NewFromInt(ab.Quantity))
	}
	if name, ok := names[ab.Account.LocationID]; ok {
		row.LocationName = name
	}
	return row
}

func (uc *StockReportUseCase) locationCatalog(ctx context.Context) (map[string]string, map[string]ledger.LocationType, error) {
	list, err := uc.locations.List(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(list))
	types := make(map[string]ledger.LocationType, len(list))
	for _, l := range list {
		names[l.ID] = l.Name
		types[l.ID] = l.Type
	}
	return names, types, nil
}

func (uc *StockReportUseCase) productCatalog(ctx context.Context) (map[string]*entity.Product, error) {
	byID := make(map[string]*entity.Product)
	const page = 200
	for offset := 0; ; offset += page {
		list, err := uc.products.List(ctx, page, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			byID[p.ID] = p
		}
		if len(list) < page {
			return byID, nil
		}
	}
}

// ReportFilename arma un nombre de archivo seguro a partir del nombre de la
// planta y la fecha de corte: sin tildes, sin espacios, minúsculas.
// Ej: "Envasadora Río Claro" -> "existencias-envasadora-rio-claro-2025-01-31.pdf"
func ReportFilename(plantName string, asOf time.Time) string {
	slug := Slugify(plantName)
	if slug == "" {
		slug = "planta"
	}
	return fmt.Sprintf("existencias-%s-%s.pdf", slug, asOf.Format("2006-01-02"))
}
