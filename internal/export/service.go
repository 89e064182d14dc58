// Package export produces bookkeeping exports of a user's invoices.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type InvoiceLister interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

type Service struct {
	invoices InvoiceLister
}

func NewService(invoices InvoiceLister) *Service {
	return &Service{invoices: invoices}
}

// Report is the set of invoices in an export with their totals.
type Report struct {
	From, To *time.Time
	Invoices []*invoice.Invoice
	Hours    int
	Total    decimal.Decimal
	ByStatus map[invoice.Status]decimal.Decimal
}

// Export collects the acting identity's invoices issued between from and to,
// both inclusive and both optional.
func (s *Service) Export(ctx context.Context, from, to *time.Time) (*Report, error) {
	invoices, err := s.invoices.List(ctx, invoice.ListFilter{IssuedFrom: from, IssuedTo: to})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	report := &Report{
		From:     from,
		To:       to,
		Invoices: invoices,
		Total:    decimal.Zero,
		ByStatus: make(map[invoice.Status]decimal.Decimal, len(invoice.Statuses)),
	}

	for _, st := range invoice.Statuses {
		report.ByStatus[st] = decimal.Zero
	}

	for _, inv := range invoices {
		report.Total = report.Total.Add(inv.Total)
		report.ByStatus[inv.Status] = report.ByStatus[inv.Status].Add(inv.Total)

		for _, it := range inv.Items {
			report.Hours += it.HoursWorked
		}
	}

	return report, nil
}

// Summary renders the report as plain text, one invoice per line followed
// by totals.
func (r *Report) Summary() string {
	var sb strings.Builder

	sb.WriteString("Invoices " + r.period() + "\n\n")

	for _, inv := range r.Invoices {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s € | %s\n",
			inv.IssueDate.Format(time.DateOnly), inv.Number, inv.ReceiverName, inv.Total.StringFixed(2), inv.Status)
	}

	if len(r.Invoices) == 0 {
		sb.WriteString("No invoices.\n")
	}

	fmt.Fprintf(&sb, "\nHours billed: %d\n", r.Hours)

	for _, st := range invoice.Statuses {
		fmt.Fprintf(&sb, "%-8s %s €\n", st+":", r.ByStatus[st].StringFixed(2))
	}

	fmt.Fprintf(&sb, "%-8s %s €\n", "Total:", r.Total.StringFixed(2))

	return sb.String()
}

func (r *Report) period() string {
	switch {
	case r.From != nil && r.To != nil:
		return r.From.Format(time.DateOnly) + " to " + r.To.Format(time.DateOnly)
	case r.From != nil:
		return "from " + r.From.Format(time.DateOnly)
	case r.To != nil:
		return "until " + r.To.Format(time.DateOnly)
	}

	return "(all time)"
}

var csvHeader = []string{
	"invoice_number", "issue_date", "due_date", "status", "receiver_name", "receiver_contact",
	"item_description", "item_date", "hours_worked", "hourly_rate", "subtotal", "invoice_total",
}

// WriteCSV writes one line per invoice item. Invoice columns repeat on every
// item line.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, inv := range r.Invoices {
		for _, it := range inv.Items {
			itemDate := ""
			if it.Date != nil {
				itemDate = it.Date.Format(time.DateOnly)
			}

			if err := cw.Write([]string{
				inv.Number,
				inv.IssueDate.Format(time.DateOnly),
				inv.DueDate.Format(time.DateOnly),
				string(inv.Status),
				inv.ReceiverName,
				inv.ReceiverContact,
				it.Description,
				itemDate,
				strconv.Itoa(it.HoursWorked),
				it.HourlyRate.StringFixed(2),
				it.Subtotal.StringFixed(2),
				inv.Total.StringFixed(2),
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteArchive writes a zip holding invoices.csv and summary.txt.
func (r *Report) WriteArchive(w io.Writer) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create("invoices.csv")
	if err != nil {
		return fmt.Errorf("creating invoices.csv: %w", err)
	}

	if err := r.WriteCSV(f); err != nil {
		return fmt.Errorf("writing invoices.csv: %w", err)
	}

	f, err = zw.Create("summary.txt")
	if err != nil {
		return fmt.Errorf("creating summary.txt: %w", err)
	}

	if _, err := io.WriteString(f, r.Summary()); err != nil {
		return fmt.Errorf("writing summary.txt: %w", err)
	}

	return zw.Close()
}
