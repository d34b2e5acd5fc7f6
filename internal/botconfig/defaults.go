package botconfig

import "github.com/google/uuid"

// DefaultAppointmentGreeting opens the appointment workflow.
const DefaultAppointmentGreeting = "Hello! 👋 I can help you book an appointment at our clinic.\nWhat's your full name?"

// DefaultThemeColor is the widget accent color when none is chosen.
const DefaultThemeColor = "#3B82F6"

// DefaultOpeningMessages returns the greeting batch the builder pre-seeds.
func DefaultOpeningMessages() []OpeningMessage {
	return []OpeningMessage{
		{ID: uuid.NewString(), Text: "Welcome to [Company Name]", ShowAvatar: true},
		{ID: uuid.NewString(), Text: "Hope you are having a great day, how can I help you?", ShowAvatar: true},
		{ID: uuid.NewString(), Text: "Would you like to get booked in with one of our dentists?", ShowAvatar: true},
	}
}

// DefaultMenuOptions returns the fixed top-level workflow options.
func DefaultMenuOptions() []MenuOption {
	return []MenuOption{
		{ID: uuid.NewString(), Text: "Request an appointment", Type: OptionAppointment},
		{ID: uuid.NewString(), Text: "Learn about treatments", Type: OptionTreatment},
		{ID: uuid.NewString(), Text: "Request a callback", Type: OptionCallback},
	}
}

// DefaultTreatments returns the catalog the builder pre-seeds.
func DefaultTreatments() []Treatment {
	return []Treatment{
		{ID: uuid.NewString(), Name: "Teeth Whitening", Description: "Professional teeth whitening treatments for a brighter smile"},
		{ID: uuid.NewString(), Name: "Invisalign", Description: "Clear aligners for straightening teeth discreetly"},
		{ID: uuid.NewString(), Name: "Dental Implants", Description: "Permanent tooth replacement solutions"},
		{ID: uuid.NewString(), Name: "General Checkup", Description: "Comprehensive dental examination and cleaning"},
	}
}

// AppointmentFields is the fixed appointment collection schema. Order is
// contractual: fullName, contact, phone, preferredDate, preferredTime.
func AppointmentFields() []Field {
	return []Field{
		{Name: "fullName", Type: "text", Label: "Full Name", Required: true},
		{Name: "contact", Type: "email", Label: "Email Address", Required: true},
		{Name: "phone", Type: "tel", Label: "Phone Number", Required: true},
		{Name: "preferredDate", Type: "date", Label: "Preferred Date", Required: true},
		{Name: "preferredTime", Type: "time", Label: "Preferred Time", Required: true},
	}
}

// CallbackFields is the fixed callback collection schema. Order is
// contractual: name, phone, reason, timing.
func CallbackFields() []Field {
	return []Field{
		{Name: "name", Type: "text", Label: "Full Name", Required: true},
		{Name: "phone", Type: "tel", Label: "Phone Number", Required: true},
		{Name: "reason", Type: "text", Label: "Reason for Callback", Required: true},
		{Name: "timing", Type: "text", Label: "Preferred Time", Required: true},
	}
}
