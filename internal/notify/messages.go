package notify

import (
	"fmt"
	"strings"

	"busbooking/internal/domain/models"
	"busbooking/internal/utils"
)

// BookingConfirmation builds the mail sent after a successful booking.
func BookingConfirmation(user models.User, booking models.Booking, route models.Route, bus models.Bus) Message {
	seats := strings.Join(booking.SeatNumbers, ", ")
	fare := utils.FormatMoney(booking.TotalFare)

	html := fmt.Sprintf(`
		<h2>Your Booking Details</h2>
		<p>Dear %s %s,</p>
		<p>Your booking has been successfully confirmed. Here are the details:</p>
		<p><strong>Trip:</strong> %s (Bus: %s)</p>
		<p><strong>From Stop:</strong> %s</p>
		<p><strong>To Stop:</strong> %s</p>
		<p><strong>Seat Numbers:</strong> %s</p>
		<p><strong>Total Fare:</strong> %s LKR</p>
		<p>Thank you for choosing our service!</p>
		<p>Best regards,<br>Bus Booking Team</p>
	`, user.FirstName, user.LastName, route.RouteNumber, bus.RegistrationNumber,
		booking.FromStop, booking.ToStop, seats, fare)

	text := fmt.Sprintf(
		"Dear %s %s,\n\nYour booking has been confirmed.\n\nTrip: %s (Bus: %s)\nFrom Stop: %s\nTo Stop: %s\nSeat Numbers: %s\nTotal Fare: %s LKR\n\nBest regards,\nBus Booking Team",
		user.FirstName, user.LastName, route.RouteNumber, bus.RegistrationNumber,
		booking.FromStop, booking.ToStop, seats, fare)

	return Message{To: user.Email, Subject: "Booking Confirmation", HTML: html, Text: text}
}

// BookingUpdated builds the mail sent after a booking edit.
func BookingUpdated(user models.User, booking models.Booking, route models.Route, bus models.Bus) Message {
	seats := strings.Join(booking.SeatNumbers, ", ")
	fare := utils.FormatMoney(booking.TotalFare)

	html := fmt.Sprintf(`
		<h2>Your Booking Has Been Updated</h2>
		<p>Dear %s %s,</p>
		<p>Your booking has been successfully updated. Here are the updated details:</p>
		<p><strong>Trip:</strong> %s (Bus: %s)</p>
		<p><strong>From Stop:</strong> %s</p>
		<p><strong>To Stop:</strong> %s</p>
		<p><strong>Seat Numbers:</strong> %s</p>
		<p><strong>Total Fare:</strong> %s LKR</p>
		<p>Best regards,<br>Bus Booking Team</p>
	`, user.FirstName, user.LastName, route.RouteNumber, bus.RegistrationNumber,
		booking.FromStop, booking.ToStop, seats, fare)

	text := fmt.Sprintf(
		"Dear %s %s,\n\nYour booking has been updated.\n\nTrip: %s (Bus: %s)\nFrom Stop: %s\nTo Stop: %s\nSeat Numbers: %s\nTotal Fare: %s LKR\n\nBest regards,\nBus Booking Team",
		user.FirstName, user.LastName, route.RouteNumber, bus.RegistrationNumber,
		booking.FromStop, booking.ToStop, seats, fare)

	return Message{To: user.Email, Subject: "Booking Update Confirmation", HTML: html, Text: text}
}

// TripCancelled builds the mail sent to holders of bookings on a trip that
// is being cancelled or deleted.
func TripCancelled(user models.User, trip models.Trip, route models.Route) Message {
	html := fmt.Sprintf(`
		<h2>Your trip has been cancelled</h2>
		<p>Dear %s %s,</p>
		<p>We regret to inform you that your booked trip on route %s has been cancelled. Below are the details:</p>
		<p><strong>Departure:</strong> %s</p>
		<p><strong>Arrival:</strong> %s</p>
		<p>If you have already paid, your payment has been refunded.</p>
		<p>We apologize for the inconvenience.</p>
		<p>Best regards,<br>System Administration</p>
	`, user.FirstName, user.LastName, route.RouteNumber,
		utils.FormatDateTime(trip.DepartureDate), utils.FormatDateTime(trip.ArrivalDate))

	text := fmt.Sprintf(
		"Dear %s %s,\n\nYour booked trip on route %s has been cancelled.\nDeparture: %s\nArrival: %s\n\nIf you have already paid, your payment has been refunded.\n\nBest regards,\nSystem Administration",
		user.FirstName, user.LastName, route.RouteNumber,
		utils.FormatDateTime(trip.DepartureDate), utils.FormatDateTime(trip.ArrivalDate))

	return Message{To: user.Email, Subject: fmt.Sprintf("Your trip %d has been cancelled", trip.ID), HTML: html, Text: text}
}

// AccountCredentials builds the mail sent when an administrator provisions
// an account. The temporary password only ever exists in this message.
func AccountCredentials(user models.User, password string) Message {
	html := fmt.Sprintf(`
		<h2>Your Account Has Been Created</h2>
		<p>Dear %s %s,</p>
		<p>An account has been created for you. Use the credentials below to log in:</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Temporary Password:</strong> %s</p>
		<p>Please change your password after your first login.</p>
		<p>Best regards,<br>System Administration</p>
	`, user.FirstName, user.LastName, user.Email, password)

	text := fmt.Sprintf(
		"Dear %s %s,\n\nAn account has been created for you.\n\nEmail: %s\nTemporary Password: %s\n\nPlease change your password after your first login.\n\nBest regards,\nSystem Administration",
		user.FirstName, user.LastName, user.Email, password)

	return Message{To: user.Email, Subject: "Your Account Credentials", HTML: html, Text: text}
}
