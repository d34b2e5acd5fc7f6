// Package dispatch delivers completed workflow data to the external
// automation webhooks (n8n). Delivery is best-effort and at-most-once.
package dispatch

// Treatment identifies the catalog entry a brochure request is about.
type Treatment struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	BrochureURL    string `json:"brochureUrl"`
	HasBrochureURL bool   `json:"hasBrochureUrl"`
}

// Customer carries the contact details a workflow collected.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Company identifies the business the bot belongs to.
type Company struct {
	Name       string `json:"name"`
	OwnerEmail string `json:"ownerEmail"`
	Phone      string `json:"phone"`
	Website    string `json:"website"`
}

// CallbackDetails describe the requested callback.
type CallbackDetails struct {
	Reason        string `json:"reason"`
	PreferredTime string `json:"preferredTime"`
	Urgency       string `json:"urgency"`
	Status        string `json:"status"`
}

// BrochureRequest is the treatment-enquiry webhook payload. The receiving
// automation still reads the flattened duplicates, so the gateway fills
// them from the nested fields before sending.
type BrochureRequest struct {
	BotID     string    `json:"botId"`
	BotName   string    `json:"botName"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Treatment Treatment `json:"treatment"`
	Customer  Customer  `json:"customer"`
	Company   Company   `json:"company"`

	// Legacy fields for compatibility
	UserEmail         string `json:"userEmail"`
	CompanyOwnerEmail string `json:"companyOwnerEmail"`
	CompanyName       string `json:"companyName"`
	CompanyPhone      string `json:"companyPhone"`
	CompanyWebsite    string `json:"companyWebsite"`
	CustomerName      string `json:"customerName"`
	CustomerPhone     string `json:"customerPhone"`
	CustomerMessage   string `json:"customerMessage"`
	HasBrochureURL    bool   `json:"hasBrochureUrl"`
}

func (r *BrochureRequest) flatten() {
	r.Type = "brochure_request"
	r.Treatment.HasBrochureURL = r.Treatment.BrochureURL != ""
	r.UserEmail = r.Customer.Email
	r.CompanyOwnerEmail = r.Company.OwnerEmail
	r.CompanyName = r.Company.Name
	r.CompanyPhone = r.Company.Phone
	r.CompanyWebsite = r.Company.Website
	r.CustomerName = r.Customer.Name
	r.CustomerPhone = r.Customer.Phone
	r.CustomerMessage = r.Customer.Message
	r.HasBrochureURL = r.Treatment.HasBrochureURL
}

// CallbackRequest is the callback webhook payload.
type CallbackRequest struct {
	BotID     string          `json:"botId"`
	BotName   string          `json:"botName"`
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Customer  Customer        `json:"customer"`
	Callback  CallbackDetails `json:"callback"`
	Company   Company         `json:"company"`

	// Legacy fields for compatibility
	CustomerName      string `json:"customerName"`
	CustomerPhone     string `json:"customerPhone"`
	CustomerEmail     string `json:"customerEmail"`
	CallbackReason    string `json:"callbackReason"`
	PreferredTime     string `json:"preferredTime"`
	CompanyOwnerEmail string `json:"companyOwnerEmail"`
	CompanyName       string `json:"companyName"`
	CompanyPhone      string `json:"companyPhone"`
	CompanyWebsite    string `json:"companyWebsite"`
	CustomerMessage   string `json:"customerMessage"`
	Urgency           string `json:"urgency"`
}

func (r *CallbackRequest) flatten() {
	r.Type = "callback_request"
	if r.Callback.Urgency == "" {
		r.Callback.Urgency = "Normal"
	}
	if r.Callback.Status == "" {
		r.Callback.Status = "pending"
	}
	if r.Customer.Message == "" {
		r.Customer.Message = "Callback requested for: " + r.Callback.Reason
	}
	r.CustomerName = r.Customer.Name
	r.CustomerPhone = r.Customer.Phone
	r.CustomerEmail = r.Customer.Email
	r.CallbackReason = r.Callback.Reason
	r.PreferredTime = r.Callback.PreferredTime
	r.CompanyOwnerEmail = r.Company.OwnerEmail
	r.CompanyName = r.Company.Name
	r.CompanyPhone = r.Company.Phone
	r.CompanyWebsite = r.Company.Website
	r.CustomerMessage = r.Customer.Message
	r.Urgency = r.Callback.Urgency
}

// AppointmentRequest is the appointment-booking webhook payload. The
// booking automation expects the raw form answers keyed by field name.
type AppointmentRequest struct {
	BotID         string            `json:"botId"`
	Type          string            `json:"type"`
	UserSelection string            `json:"userSelection"`
	Timestamp     string            `json:"timestamp"`
	FormData      map[string]string `json:"formData"`
}

// AIQuestion is the ai-agent webhook payload for treatment free-text chat.
type AIQuestion struct {
	BotID             string    `json:"botId"`
	Type              string    `json:"type"`
	Treatment         Treatment `json:"treatment"`
	UserMessage       string    `json:"userMessage"`
	CompanyOwnerEmail string    `json:"companyOwnerEmail"`
	CompanyName       string    `json:"companyName"`
}

// aiReply is the only webhook response body the gateway interprets.
type aiReply struct {
	Message string `json:"message"`
}
