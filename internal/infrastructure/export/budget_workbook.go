package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// XLSXContentType is the media type of the generated workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet   = "Summary"
	breakdownSheet = "Breakdown"
	amountFormat   = "#,##0.00"
)

var (
	summaryHeader   = []interface{}{"Source", "PS", "MOOE", "CO", "Total"}
	breakdownHeader = []interface{}{"Source", "Category", "Item", "Amount"}
)

// BudgetWorkbook renders a proposal budget as an xlsx workbook with a
// per-source summary sheet and an itemized breakdown sheet
type BudgetWorkbook struct {
	logger *zap.Logger
}

// NewBudgetWorkbook creates the exporter
func NewBudgetWorkbook(logger *zap.Logger) *BudgetWorkbook {
	return &BudgetWorkbook{logger: logger}
}

// ContentType implements port.BudgetExporter
func (w *BudgetWorkbook) ContentType() string {
	return XLSXContentType
}

// Export builds the workbook for p
func (w *BudgetWorkbook) Export(ctx context.Context, p *entity.Proposal) ([]byte, error) {
	sources := p.BudgetSources()

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := file.NewSheet(breakdownSheet); err != nil {
		return nil, fmt.Errorf("failed to create breakdown sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	format := amountFormat
	amountStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	if err := w.fillSummary(file, p, sources, headerStyle, amountStyle); err != nil {
		return nil, err
	}
	if err := w.fillBreakdown(file, sources, headerStyle, amountStyle); err != nil {
		return nil, err
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Budget workbook exported",
		zap.Int64("proposal_id", p.ID),
		zap.Int("sources", len(sources)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (w *BudgetWorkbook) fillSummary(file *excelize.File, p *entity.Proposal, sources []budget.Source, headerStyle, amountStyle int) error {
	if err := file.SetCellValue(summarySheet, "A1", p.ProjectTitle); err != nil {
		return fmt.Errorf("failed to set title: %w", err)
	}
	if err := file.SetSheetRow(summarySheet, "A3", &summaryHeader); err != nil {
		return fmt.Errorf("failed to set summary header: %w", err)
	}
	if err := file.SetCellStyle(summarySheet, "A3", "E3", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}

	row := 4
	for _, s := range sources {
		values := []interface{}{s.Source, money(s.PS), money(s.MOOE), money(s.CO), money(s.Total)}
		if err := file.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("failed to set summary row %d: %w", row, err)
		}
		row++
	}

	totals := []interface{}{"Total",
		money(sum(sources, budget.CategoryPS)),
		money(sum(sources, budget.CategoryMOOE)),
		money(sum(sources, budget.CategoryCO)),
		money(budget.Total(sources)),
	}
	if err := file.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return fmt.Errorf("failed to set total row: %w", err)
	}
	if err := file.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle); err != nil {
		return fmt.Errorf("failed to style total row: %w", err)
	}
	if err := file.SetCellStyle(summarySheet, "B4", fmt.Sprintf("E%d", row), amountStyle); err != nil {
		return fmt.Errorf("failed to style summary amounts: %w", err)
	}
	return file.SetColWidth(summarySheet, "A", "A", 28)
}

func (w *BudgetWorkbook) fillBreakdown(file *excelize.File, sources []budget.Source, headerStyle, amountStyle int) error {
	if err := file.SetSheetRow(breakdownSheet, "A1", &breakdownHeader); err != nil {
		return fmt.Errorf("failed to set breakdown header: %w", err)
	}
	if err := file.SetCellStyle(breakdownSheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style breakdown header: %w", err)
	}

	row := 2
	for _, s := range sources {
		for _, li := range s.LineItems() {
			values := []interface{}{li.Source, budget.Category(li.Category).Label(), li.Item, money(li.Amount.Decimal)}
			if err := file.SetSheetRow(breakdownSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return fmt.Errorf("failed to set breakdown row %d: %w", row, err)
			}
			row++
		}
	}
	if row > 2 {
		if err := file.SetCellStyle(breakdownSheet, "D2", fmt.Sprintf("D%d", row-1), amountStyle); err != nil {
			return fmt.Errorf("failed to style breakdown amounts: %w", err)
		}
	}
	return file.SetColWidth(breakdownSheet, "C", "C", 40)
}

func sum(sources []budget.Source, c budget.Category) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sources {
		total = total.Add(s.Subtotal(c))
	}
	return total
}

// money rounds to centavos for the numeric cell value
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

var _ port.BudgetExporter = (*BudgetWorkbook)(nil)
