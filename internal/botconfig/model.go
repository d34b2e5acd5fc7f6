// Package botconfig defines the bot definition the builder form produces.
// The simulator treats a Config as read-only for the lifetime of a session.
package botconfig

import (
	"strings"

	"github.com/google/uuid"
)

// Option types understood by the workflow engine.
const (
	OptionAppointment  = "appointment"
	OptionTreatment    = "treatment"
	OptionCallback     = "callback"
	OptionBrochure     = "brochure"
	OptionConsultation = "consultation"
	OptionDone         = "done"
)

// OpeningMessage is one entry of the greeting batch.
type OpeningMessage struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	ShowAvatar bool   `json:"showAvatar"`
}

// MenuOption is a selectable top-level (or sub) option.
type MenuOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// Treatment is one entry of the treatment catalog.
type Treatment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BrochureURL string `json:"brochureUrl,omitempty"`
}

// Field is one named input of a workflow schema.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Config is the full bot definition.
type Config struct {
	BotID               string           `json:"botId"`
	Name                string           `json:"name"`
	CompanyName         string           `json:"companyName"`
	OpeningMessages     []OpeningMessage `json:"openingMessages"`
	AppointmentOptions  []MenuOption     `json:"appointmentOptions"`
	AppointmentGreeting string           `json:"appointmentGreeting"`
	TreatmentOptions    []Treatment      `json:"treatmentOptions"`
	PrivacyPolicyURL    string           `json:"privacyPolicyUrl,omitempty"`
	CompanyOwnerEmail   string           `json:"companyOwnerEmail,omitempty"`
	CompanyPhone        string           `json:"companyPhone,omitempty"`
	CompanyWebsite      string           `json:"companyWebsite,omitempty"`
	ThemeColor          string           `json:"themeColor,omitempty"`
}

// Normalize fills defaults and applies the builder's pre-save transforms:
// company-name interpolation in opening messages, blank treatments dropped,
// missing identifiers assigned. Returns the receiver for chaining.
func (c *Config) Normalize() *Config {
	if c.BotID == "" {
		c.BotID = uuid.NewString()
	}
	if c.Name == "" {
		c.Name = "Bot"
	}
	if c.CompanyName == "" {
		c.CompanyName = "Your Company"
	}
	if len(c.OpeningMessages) == 0 {
		c.OpeningMessages = DefaultOpeningMessages()
	}
	for i := range c.OpeningMessages {
		if c.OpeningMessages[i].ID == "" {
			c.OpeningMessages[i].ID = uuid.NewString()
		}
		c.OpeningMessages[i].Text = strings.ReplaceAll(
			c.OpeningMessages[i].Text, "[Company Name]", c.CompanyName)
	}
	if len(c.AppointmentOptions) == 0 {
		c.AppointmentOptions = DefaultMenuOptions()
	}
	for i := range c.AppointmentOptions {
		if c.AppointmentOptions[i].ID == "" {
			c.AppointmentOptions[i].ID = uuid.NewString()
		}
	}
	if c.AppointmentGreeting == "" {
		c.AppointmentGreeting = DefaultAppointmentGreeting
	}
	if len(c.TreatmentOptions) == 0 {
		c.TreatmentOptions = DefaultTreatments()
	}
	kept := c.TreatmentOptions[:0]
	for _, opt := range c.TreatmentOptions {
		if strings.TrimSpace(opt.Name) == "" {
			continue
		}
		if opt.ID == "" {
			opt.ID = uuid.NewString()
		}
		kept = append(kept, opt)
	}
	c.TreatmentOptions = kept
	if c.ThemeColor == "" {
		c.ThemeColor = DefaultThemeColor
	}
	return c
}

// TreatmentByID looks up a treatment in the catalog.
func (c *Config) TreatmentByID(id string) (Treatment, bool) {
	for _, t := range c.TreatmentOptions {
		if t.ID == id {
			return t, true
		}
	}
	return Treatment{}, false
}

// MenuOptionByID looks up a top-level option.
func (c *Config) MenuOptionByID(id string) (MenuOption, bool) {
	for _, o := range c.AppointmentOptions {
		if o.ID == id {
			return o, true
		}
	}
	return MenuOption{}, false
}
