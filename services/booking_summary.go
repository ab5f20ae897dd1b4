package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/weddingbook/marketplace-api/models"
)

// BookingReference is the human readable booking code printed on summaries
func BookingReference(bookingID uint) string {
	return fmt.Sprintf("WB-%06d", bookingID)
}

// Summary renders the single page PDF summary of a booking visible to viewer
func (s *BookingService) Summary(ctx context.Context, viewer Identity, bookingID uint) (*models.Booking, []byte, error) {
	booking, err := s.GetForViewer(ctx, viewer, bookingID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := RenderBookingSummary(booking)
	if err != nil {
		return nil, nil, StorageError("render booking summary", err)
	}
	return booking, doc, nil
}

// RenderBookingSummary draws the booking details with a QR code carrying its reference
func RenderBookingSummary(booking *models.Booking) ([]byte, error) {
	reference := BookingReference(booking.ID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "WEDDING BOOKING SUMMARY")
	pdf.Ln(18)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 55, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	summaryLine(pdf, "Reference", reference)
	summaryLine(pdf, "Status", string(booking.Status))
	summaryLine(pdf, "Wedding date", booking.WeddingDate.Format("2 January 2006"))
	summaryLine(pdf, "Venue", booking.Venue)
	summaryLine(pdf, "Guests", fmt.Sprintf("%d", booking.GuestCount))

	qr, err := qrcode.Encode(reference, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 145, yStart+5, 45, 0, false, opts, 0, "")

	pdf.SetY(yStart + 63)
	sectionTitle(pdf, "PACKAGE")
	pdf.SetFont("Helvetica", "", 12)
	if pkg := booking.Package; pkg != nil {
		name := pkg.CompanyName
		if name == "" {
			name = DefaultPackageName
		}
		summaryLine(pdf, "Package", name)
		summaryLine(pdf, "Amount", fmt.Sprintf("%.2f", pkg.PackageAmount))
		if pkg.Contact.Email != "" {
			summaryLine(pdf, "Contact", pkg.Contact.Email)
		}
		if pkg.Contact.Phone != "" {
			summaryLine(pdf, "Phone", pkg.Contact.Phone)
		}
	} else {
		summaryLine(pdf, "Package", DefaultPackageName)
	}
	pdf.Ln(4)

	sectionTitle(pdf, "PARTIES")
	pdf.SetFont("Helvetica", "", 12)
	if booking.User != nil {
		summaryLine(pdf, "Booked by", fmt.Sprintf("%s <%s>", booking.User.Name, booking.User.Email))
	}
	if booking.Provider != nil {
		summaryLine(pdf, "Provider", fmt.Sprintf("%s <%s>", booking.Provider.Name, booking.Provider.Email))
	} else if booking.Package != nil && booking.Package.Owner != nil {
		summaryLine(pdf, "Provider", fmt.Sprintf("%s <%s>", booking.Package.Owner.Name, booking.Package.Owner.Email))
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, "Present this reference when contacting your provider.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(0, 8, fmt.Sprintf("%s: %s", label, value))
	pdf.Ln(6)
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}
