package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"

	"github.com/xuri/excelize/v2"
)

// ExportService renders spreadsheets of members and dues.
type ExportService interface {
	ExportMembers(ctx context.Context, organizationID int64, w io.Writer) error
	ExportDues(ctx context.Context, organizationID int64, month, year int, w io.Writer) error
}

type exportService struct {
	memberRepo repositories.MemberRepository
	duesRepo   repositories.DuesRepository
	db         *sql.DB
}

// NewExportService creates a new instance of ExportService.
func NewExportService(memberRepo repositories.MemberRepository, duesRepo repositories.DuesRepository, db *sql.DB) ExportService {
	return &exportService{memberRepo: memberRepo, duesRepo: duesRepo, db: db}
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func setCell(f *excelize.File, sheetName string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell %d,%d: %w", col, row, err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// writeSheet fills a single-sheet workbook with a header row and data rows, then writes it to w.
func writeSheet(w io.Writer, sheetName string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, header := range headers {
		if err := setCell(f, sheetName, i+1, 1, header); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			if err := setCell(f, sheetName, c+1, r+2, value); err != nil {
				return err
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

// ExportMembers writes every member of the organization, ordered by name.
func (s *exportService) ExportMembers(ctx context.Context, organizationID int64, w io.Writer) error {
	members, err := s.memberRepo.GetAllMembers(ctx, s.db, organizationID)
	if err != nil {
		return fmt.Errorf("error loading members for export: %w", err)
	}

	headers := []string{"Nº", "Nome", "CPF", "RG", "Telefone", "WhatsApp", "Cidade", "Estado",
		"Estado Civil", "Profissão", "Data de Entrada", "Situação"}
	rows := make([][]interface{}, 0, len(members))
	for _, m := range members {
		rows = append(rows, []interface{}{
			m.Number, m.Name, m.CPF, deref(m.RG, ""), deref(m.Phone, ""), deref(m.WhatsApp, ""),
			deref(m.City, ""), deref(m.State, ""), deref(m.MaritalStatus, ""), deref(m.Occupation, ""),
			deref(m.JoinDate, ""), m.Status,
		})
	}
	return writeSheet(w, "Sócios", headers, rows)
}

// ExportDues writes the period's records, ordered by member name.
func (s *exportService) ExportDues(ctx context.Context, organizationID int64, month, year int, w io.Writer) error {
	if !validPeriod(month, year) {
		return ErrInvalidPeriod
	}
	records, err := s.duesRepo.GetDues(ctx, s.db, organizationID, models.DuesFilter{Month: month, Year: year})
	if err != nil {
		return fmt.Errorf("error loading dues for export: %w", err)
	}

	headers := []string{"Nº Sócio", "Nome", "Mês", "Ano", "Valor", "Status", "Data Pagamento", "Nº Recibo"}
	rows := make([][]interface{}, 0, len(records))
	for _, d := range records {
		rows = append(rows, []interface{}{
			d.MemberNumber, d.MemberName, d.Month, d.Year, "R$ " + d.Amount.StringFixed(2), d.Status,
			deref(d.PaymentDate, "-"), deref(d.ReceiptNumber, "-"),
		})
	}
	return writeSheet(w, "Mensalidades", headers, rows)
}
