package parking

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kerbside/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

const reportEntryLimit = 50

// WaitLogReport renders the most recent closed queueing episodes as a
// PDF for the admin dashboard.
func (h *Handlers) WaitLogReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.Store.ClosedWaitLogs(ctx, reportEntryLimit)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Wait Log Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format(utils.TimestampLayout)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 8, "Category", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Event", "1", 0, "", false, 0, "")
	pdf.CellFormat(45, 8, "Check-in", "1", 0, "", false, 0, "")
	pdf.CellFormat(45, 8, "Check-out", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Wait (min)", "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, e := range entries {
		checkOut := ""
		if e.CheckOut != nil {
			checkOut = e.CheckOut.Format(utils.TimestampLayout)
		}
		waitTime := ""
		if e.WaitTime != nil {
			waitTime = fmt.Sprintf("%d", *e.WaitTime)
		}
		pdf.CellFormat(30, 8, e.Category, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, e.EventType, "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 8, e.CheckIn.Format(utils.TimestampLayout), "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 8, checkOut, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, waitTime, "1", 1, "", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="waitlog-report.pdf"`)
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
	}
}
