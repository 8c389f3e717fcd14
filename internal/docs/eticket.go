package docs

import (
	"bytes"
	"fmt"
	"strings"

	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ETicketData carries everything the ticket prints. The caller resolves the
// booking's trip, route and bus before rendering.
type ETicketData struct {
	Booking models.Booking
	Trip    models.Trip
	Route   models.Route
	Bus     models.Bus
	User    models.User
}

// BuildETicket renders a one-page PDF ticket and returns the bytes plus a
// filesystem-safe filename.
func BuildETicket(d ETicketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	passenger := strings.TrimSpace(d.User.FirstName + " " + d.User.LastName)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger    : %s", safe(passenger, "-")),
		fmt.Sprintf("Phone        : %s", safe(d.User.Phone, "-")),
		fmt.Sprintf("Route        : %s (%s -> %s)", safe(d.Route.RouteNumber, "-"), safe(d.Route.StartLocation, "-"), safe(d.Route.EndLocation, "-")),
		fmt.Sprintf("Segment      : %s -> %s", safe(d.Booking.FromStop, "-"), safe(d.Booking.ToStop, "-")),
		fmt.Sprintf("Departure    : %s", utils.FormatDateTime(d.Trip.DepartureDate)),
		fmt.Sprintf("Bus          : %s", safe(d.Bus.RegistrationNumber, "-")),
		fmt.Sprintf("Seats        : %s", safe(strings.Join(d.Booking.SeatNumbers, ", "), "-")),
		fmt.Sprintf("Total Fare   : LKR %s", utils.FormatMoney(d.Booking.TotalFare)),
		fmt.Sprintf("Status       : %s", safe(d.Booking.Status, "-")),
		fmt.Sprintf("Booking Code : #%d", d.Booking.ID),
		fmt.Sprintf("Ticket Code  : TCK-%d-%s", d.Booking.ID, safeFilenamePart(strings.Join(d.Booking.SeatNumbers, "-"))),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket when boarding. Valid only for the segment and seats listed above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", d.Booking.ID, safeFilenamePart(passenger))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
