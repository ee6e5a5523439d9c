package report

import (
	"fmt"
	"strings"

	"wc-analyzer/internal/models"

	"github.com/xuri/excelize/v2"
)

// WriteExcel writes the workbook: a Summary sheet with the scalar aggregates
// and a Products sheet with every analysis row.
func WriteExcel(rep *models.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	const productsSheet = "Products"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(productsSheet); err != nil {
		return err
	}

	s := rep.Summary
	summaryRows := [][]interface{}{
		{"Analysis date", rep.AnalysisDate.Format("2006-01-02 15:04:05")},
		{"Period", rep.Period},
		{"Total products", s.TotalProducts},
		{"Without sales", s.ProductsNoSales},
		{"Without visits", s.ProductsNoVisits},
		{"Without visits, high stock", s.ProductsNoVisitsStock},
		{"Bestsellers by volume", s.BestsellersVolume},
		{"Top revenue products", s.TopRevenueProducts},
		{"Total revenue", s.TotalRevenue},
		{"Units sold", s.TotalUnitsSold},
		{"Total visits", s.TotalVisits},
		{"Average conversion rate (%)", s.AvgConversionRate},
		{"Average ticket", s.AvgTicket},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		return err
	}

	for i := range rep.Products {
		p := &rep.Products[i]
		var conversionCell interface{}
		if p.ConversionRate != nil {
			conversionCell = *p.ConversionRate
		}
		row := []interface{}{
			p.ProductID, p.Name, p.SKU, p.RegularPrice, p.SalePrice, p.Stock,
			strings.Join(p.Categories, "|"), p.DateCreated, p.Visits, p.Quantity,
			p.Revenue, p.OrderCount, p.AvgSalePrice, p.RotationPerDay,
			p.RevenuePerDay, p.VisitsPerDay, conversionCell, p.PriceDiff,
			p.MarginPct, p.StockValue, p.VolumeCategory, p.RevenueCategory,
			p.VisitsCategory, p.NoVisits, p.NoVisitsHighStock,
			p.HighVisitsNoSales, p.LowConversion, p.HighConversion,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
