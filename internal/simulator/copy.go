package simulator

// Scripted conversational copy. The greeting for the appointment workflow
// is configurable per bot; everything below is standardized across bots.
const (
	treatmentGreeting = "Hi! I'm here to answer questions about our dental treatments. What treatment are you interested in learning more about?"

	treatmentFollowUp = "Would you like me to send you a detailed brochure via email or help you schedule a free consultation with our dentist?"

	treatmentDetailsPrompt = "Please share your name and preferred contact method so we can follow up with information tailored to your needs."

	treatmentSubOptionsPrompt = "Please select an option:"

	brochureHandoff = "Thank you! We'll send the details shortly. If you'd like a call from our team, just type 'callback.'"

	brochureDispatchFailure = "I've saved your details. There was a temporary issue sending the brochure, but our team will contact you shortly."

	callbackGreeting = "You'd like a callback from our team—happy to arrange that! Could you please provide your name and the best phone number to reach you?"

	callbackFollowUp = "Thank you! Is there a specific reason you'd like us to call or a particular question you have?"

	callbackTiming = "What time works best for your callback? (e.g., morning, afternoon, or a specific time)"

	callbackConfirmation = "We've scheduled your callback for [chosen time]. One of our team members will be in touch. Thank you for reaching out!"

	callbackNudgePrompt = "Type \"callback\" if you'd like us to call you back:"

	callbackNudgeMiss = "I didn't quite catch that. Type \"callback\" if you'd like us to call you back, or feel free to ask any other questions!"

	callbackDone = "Great! Feel free to reach out anytime if you have questions. Have a wonderful day!"

	confirmationSuccess = "✅ I've reserved your appointment for [chosen date/time].\nYou'll receive a confirmation email shortly.\nWould you also like directions to our clinic?"

	// confirmationUnavailable is defined by the product but never emitted:
	// the rehearsal always takes the success path. Kept for the day an
	// availability check exists.
	confirmationUnavailable = "❌ That time isn't available.\nThe next slots are: [options]. Which one works for you?"

	askEmail = "What's the best way to reach you? Please share your email address."

	ackContact = "Perfect! I've got your contact info."

	askPhoneAppointment = "I'll also need your phone number for appointment reminders."

	askPhoneFollowUp = "I'll also need your phone number for follow-up."

	askDateIntro = "Great! Now let's find you the perfect appointment time."

	askDate = "What date works best for you?"

	askTime = "What time would you prefer on that day?"

	askCallbackPhone = "What's the best phone number to reach you?"
)

// thanksName greets a visitor by the name they just gave.
func thanksName(name string) string {
	return "Thanks " + name + "! 😊"
}

func dateAck(date string) string {
	return date + " sounds good! 📅"
}

func checkingAvailability(date, timeOfDay string) string {
	return "Perfect! Let me check availability for " + date + " at " + timeOfDay + "..."
}

func consultationHandoff(treatment string) string {
	return "Great! I'll help you schedule a consultation for " + treatment + ". Let me switch you to our appointment booking system."
}

func prefilledCallbackIntro(phone string) string {
	return "Perfect! I'll have our team call you at " + phone + ". Is there a specific reason you'd like us to call or a particular question you have?"
}

func reasonAck(reason string) string {
	return "Got it! " + reason + " is a great reason to call."
}

func timingAck(timing string) string {
	return "Excellent! We've scheduled your callback for " + timing + "."
}

func callbackDispatchFailure(phone string) string {
	return "I've saved your callback request. There was a temporary issue sending it, but our team will contact you shortly at " + phone + "."
}

func aiReplyDefault(treatment string) string {
	return "Thanks for your question about " + treatment + "! Is there anything else you'd like to know?"
}

func aiReplyFallback(treatment string) string {
	return "Thanks for your question about " + treatment + "! I'm having trouble processing that right now, but our team will be happy to help you with any questions. Is there anything else you'd like to know?"
}

func aiReplyRehearsal(treatment string) string {
	return "Thanks for your question about " + treatment + "! In test mode, I can't process complex questions, but our team will be happy to help you with any questions. Is there anything else you'd like to know?"
}

// privacyNotice links the configured privacy policy, styled to the theme.
func privacyNotice(url, themeColor string) string {
	return `We take privacy and your data very seriously and do not share it. See our <a href="` + url +
		`" target="_blank" style="color: ` + themeColor + `; text-decoration: underline;">privacy policy</a>`
}
