package http

import (
	"bytes"
	"fmt"

	"github.com/wyfcoding/storefront/internal/demand/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Summary"
	sheetProducts   = "Products"
	sheetCategories = "Categories"
)

// buildWorkbook 把需求报告写成三张表：概览、商品销量、分类销量
func buildWorkbook(r *domain.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	summary := [][]any{
		{"Window start", r.Stats.WindowStart.Format("2006-01-02 15:04:05 MST")},
		{"Time frame", r.Stats.TimeFrame},
		{"Total orders", r.Stats.TotalOrders},
		{"Total items", r.Stats.TotalItems},
		{"Revenue", r.Stats.Revenue.InexactFloat64()},
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetProducts); err != nil {
		return nil, err
	}
	products := [][]any{{"Product", "Product ID", "Units sold"}}
	for _, p := range domain.TopProducts(toCounts(r.Products), -1) {
		products = append(products, []any{p.Name, productID(r.Products, p.Name), p.Count})
	}
	if err := writeRows(f, sheetProducts, products); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetCategories); err != nil {
		return nil, err
	}
	categories := [][]any{{"Category", "Units sold", "Top products"}}
	for _, c := range r.Categories {
		top := domain.TopProducts(c.Breakdown, domain.TopProductsInAlert)
		names := ""
		for i, p := range top {
			if i > 0 {
				names += ", "
			}
			names += fmt.Sprintf("%s (%d)", p.Name, p.Count)
		}
		categories = append(categories, []any{c.Category, c.Count, names})
	}
	if err := writeRows(f, sheetCategories, categories); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toCounts(products []domain.ProductSales) []domain.ProductCount {
	out := make([]domain.ProductCount, len(products))
	for i, p := range products {
		out[i] = domain.ProductCount{Name: p.Name, Count: p.Count}
	}
	return out
}

func productID(products []domain.ProductSales, name string) string {
	for _, p := range products {
		if p.Name == name {
			return p.ProductID
		}
	}
	return ""
}
