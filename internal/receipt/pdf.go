package receipt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Barathimeena/AirRoute-Hub/internal/pricing"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Render draws r as a single page A4 PDF with a boarding QR code
func Render(r Record, conv *pricing.Converter) ([]byte, error) {
	qr, err := qrcode.Encode(r.QRPayload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(v float64) string {
		// core fonts have no rupee glyph
		return strings.Replace(conv.Format(v, r.Currency), "₹", "INR ", 1)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "AIRROUTE HUB BOARDING RECEIPT")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Transaction %s  |  Booking %s  |  %s", r.TransactionID, r.BookingID, r.Date.Format("02 Jan 2006 15:04"))))
	pdf.Ln(10)

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 150, 30, 45, 45, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(90, 8, tr(value), "", 1, "L", false, 0, "")
	}
	row("Passenger", r.Passenger)
	row("Email", r.Email)
	row("Flight", strings.TrimSpace(r.FlightID+" "+r.Airline))
	row("Route", r.Route)
	row("Schedule", r.Schedule)
	row("Gate", r.Gate)
	row("Seats", strings.Join(r.Seats, ", "))
	row("Passengers", fmt.Sprintf("%d", r.PassengerCount))
	if len(r.Catering) > 0 {
		row("Catering", strings.Join(r.Catering, ", "))
	}
	payment := string(r.PaymentMethod)
	if r.CardLast4 != "" {
		payment += " ending " + r.CardLast4
	}
	row("Payment", payment)

	pdf.Ln(6)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)
	amount := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(130, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, value, "", 1, "R", false, 0, "")
	}
	amount("Subtotal", money(r.Subtotal), false)
	amount("Discount", "-"+money(r.Discount), false)
	amount("Taxes", money(r.Taxes), false)
	amount("Total", money(r.Total), true)
	amount("Status", r.Status, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
