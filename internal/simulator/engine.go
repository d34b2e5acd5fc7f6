package simulator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flossly/bot-builder/internal/botconfig"
	"github.com/flossly/bot-builder/internal/dispatch"
)

// Start begins (or begins again) the rehearsal: clears everything and
// replays the opening choreography. Safe to call at any time.
func (s *Session) Start() {
	s.interrupt()
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	gen := s.resetLocked()
	s.started = true
	s.mu.Unlock()

	s.metrics.ObserveSessionStart()
	s.logger.Debug("simulator: session started", "session_id", s.ID, "bot_id", s.cfg.BotID)
	s.scheduleOpening(gen)
}

// Restart is Start with the previous run's transcript discarded. It exists
// for readability at call sites; the behaviour is identical.
func (s *Session) Restart() {
	s.Start()
}

// Exit tears the rehearsal down. The session keeps nothing; a later Start
// begins from scratch.
func (s *Session) Exit() {
	s.interrupt()
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	s.resetLocked()
	s.started = false
	s.mu.Unlock()
	s.logger.Debug("simulator: session exited", "session_id", s.ID)
}

// interrupt aborts any in-flight handler or scheduled continuation so a
// reset does not queue behind a sleeping run.
func (s *Session) interrupt() {
	s.mu.Lock()
	if s.cancelRun != nil {
		s.cancelRun()
	}
	s.mu.Unlock()
	s.sched.StopAll()
}

// resetLocked invalidates the old generation and zeroes all transient
// state. Callers hold mu; returns the new generation.
func (s *Session) resetLocked() uint64 {
	s.generation++
	s.runCtx, s.cancelRun = context.WithCancel(context.Background())
	s.workflow = WorkflowNone
	s.selectedTreatment = nil
	s.selectedTreatmentOption = ""
	s.appointment.Reset()
	s.callback.Reset()
	s.timeline.Reset()
	s.setModeLocked(ModeNone)
	return s.generation
}

// scheduleOpening plays the configured opening batch: each message gets a
// typing window, staggered, with the option list revealed shortly after
// the last one lands.
func (s *Session) scheduleOpening(gen uint64) {
	msgs := s.cfg.OpeningMessages
	if len(msgs) == 0 {
		s.sched.ScheduleAfter(s.pacing.OptionsReveal, func() {
			s.guarded(gen, func() {
				s.setModeLocked(ModeOptions)
			})
		})
		return
	}
	for i := range msgs {
		msg := msgs[i]
		last := i == len(msgs)-1
		offset := time.Duration(i) * s.pacing.OpeningStagger
		s.sched.ScheduleAfter(offset, func() {
			if !s.sameGen(gen) {
				return
			}
			s.timeline.SetTyping(true)
			s.sched.ScheduleAfter(s.pacing.Typing, func() {
				if !s.sameGen(gen) {
					return
				}
				s.timeline.SetTyping(false)
				s.timeline.AppendBot(msg.Text, msg.ShowAvatar, nil)
				if last {
					s.sched.ScheduleAfter(s.pacing.OptionsReveal, func() {
						s.guarded(gen, func() {
							s.setModeLocked(ModeOptions)
						})
					})
				}
			})
		})
	}
}

// SelectOption handles a click on a menu option, either from the main
// option list or from an inline option row attached to a bot message.
// Unknown ids and stale clicks (the control is no longer showing) are
// dropped quietly; in a live widget those are ordinary races, not faults.
func (s *Session) SelectOption(optionID string) {
	s.touch()
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	opt, fromMenu := s.findOptionLocked(optionID)
	if opt == nil {
		s.mu.Unlock()
		s.logger.Debug("simulator: unknown option", "session_id", s.ID, "option_id", optionID)
		return
	}
	if fromMenu && s.mode != ModeOptions {
		s.mu.Unlock()
		return
	}
	gen, ctx := s.generation, s.runCtx
	s.setModeLocked(ModeNone)
	s.mu.Unlock()

	s.timeline.AppendUser(opt.Text)

	switch opt.Type {
	case botconfig.OptionAppointment:
		s.enterAppointment(ctx, gen)
	case botconfig.OptionTreatment:
		s.enterTreatmentList(ctx, gen)
	case botconfig.OptionCallback:
		s.startCallback(ctx, gen)
	case botconfig.OptionBrochure:
		s.chooseBrochure(ctx, gen)
	case botconfig.OptionConsultation:
		s.chooseConsultation(ctx, gen)
	case botconfig.OptionDone:
		s.finishCallbackThread(ctx, gen)
	default:
		s.logger.Warn("simulator: option type not handled", "session_id", s.ID, "type", string(opt.Type))
	}
}

// findOptionLocked resolves an option id against the configured main menu
// first, then against inline option rows in the transcript, newest first.
func (s *Session) findOptionLocked(id string) (*botconfig.MenuOption, bool) {
	if opt, ok := s.cfg.MenuOptionByID(id); ok {
		return &opt, true
	}
	entries := s.timeline.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		for j := range entries[i].Options {
			if entries[i].Options[j].ID == id {
				return &entries[i].Options[j], false
			}
		}
	}
	return nil, false
}

// enterAppointment greets and opens the stepped appointment form at the
// first field. Also the landing point for the consultation sub-option and
// the "book" intent inside treatment chat.
func (s *Session) enterAppointment(ctx context.Context, gen uint64) {
	s.guarded(gen, func() {
		s.workflow = WorkflowAppointment
	})
	if !s.sayBot(ctx, gen, s.cfg.AppointmentGreeting) {
		return
	}
	if !s.wait(ctx, s.pacing.Typing) {
		return
	}
	s.openAppointmentField(gen, 0)
}

func (s *Session) openAppointmentField(gen uint64, index int) {
	s.guarded(gen, func() {
		s.appointment.Open(index)
		s.setModeLocked(ModeAppointmentForm)
	})
}

func (s *Session) openCallbackField(gen uint64, index int) {
	s.guarded(gen, func() {
		s.callback.Open(index)
		s.setModeLocked(ModeCallbackForm)
	})
}

// enterTreatmentList greets and shows the configured treatment picker.
func (s *Session) enterTreatmentList(ctx context.Context, gen uint64) {
	s.guarded(gen, func() {
		s.workflow = WorkflowTreatment
	})
	if !s.sayBot(ctx, gen, treatmentGreeting) {
		return
	}
	if !s.wait(ctx, s.pacing.Typing) {
		return
	}
	s.guarded(gen, func() {
		s.setModeLocked(ModeTreatmentList)
	})
}

// SelectTreatment handles a pick from the treatment list: echoes the
// choice, describes the treatment, then offers the brochure/consultation
// sub-options inline.
func (s *Session) SelectTreatment(treatmentID string) {
	s.touch()
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.started || s.mode != ModeTreatmentList {
		s.mu.Unlock()
		return
	}
	tr, ok := s.cfg.TreatmentByID(treatmentID)
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("simulator: unknown treatment", "session_id", s.ID, "treatment_id", treatmentID)
		return
	}
	s.selectedTreatment = &tr
	gen, ctx := s.generation, s.runCtx
	s.setModeLocked(ModeNone)
	s.mu.Unlock()

	s.timeline.AppendUser(tr.Name)
	if !s.sayBot(ctx, gen, tr.Description+". "+treatmentFollowUp) {
		return
	}
	if !s.wait(ctx, s.pacing.Typing) {
		return
	}
	s.guarded(gen, func() {
		s.timeline.AppendBot(treatmentSubOptionsPrompt, true, treatmentSubOptions())
	})
}

func treatmentSubOptions() []botconfig.MenuOption {
	return []botconfig.MenuOption{
		{ID: "brochure", Text: "Send me the brochure", Type: botconfig.OptionBrochure},
		{ID: "consultation", Text: "Schedule a consultation", Type: botconfig.OptionConsultation},
	}
}

// chooseBrochure starts contact collection so the brochure has somewhere
// to go. The form is the appointment form reused with the treatment
// workflow flag set, which reroutes the phone step into brochure dispatch.
func (s *Session) chooseBrochure(ctx context.Context, gen uint64) {
	ok := s.guarded(gen, func() {
		s.workflow = WorkflowTreatment
		s.selectedTreatmentOption = "brochure"
	})
	if !ok {
		return
	}
	if !s.sayBot(ctx, gen, treatmentDetailsPrompt) {
		return
	}
	if !s.wait(ctx, s.pacing.Processing) {
		return
	}
	s.openAppointmentField(gen, 0)
}

// chooseConsultation hands the treatment thread over to booking.
func (s *Session) chooseConsultation(ctx context.Context, gen uint64) {
	ok := s.guarded(gen, func() {
		s.selectedTreatmentOption = "consultation"
		s.workflow = WorkflowAppointment
	})
	if !ok {
		return
	}
	name := s.treatmentName()
	if !s.sayBot(ctx, gen, consultationHandoff(name)) {
		return
	}
	s.enterAppointment(ctx, gen)
}

func (s *Session) treatmentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedTreatment != nil {
		return s.selectedTreatment.Name
	}
	return ""
}

// finishCallbackThread closes the nudge thread and returns to the menu.
func (s *Session) finishCallbackThread(ctx context.Context, gen uint64) {
	if !s.sayBot(ctx, gen, callbackDone) {
		return
	}
	if !s.wait(ctx, s.pacing.Processing) {
		return
	}
	s.guarded(gen, func() {
		s.setModeLocked(ModeOptions)
	})
}

// startCallback opens the callback workflow. When the visitor already gave
// name, email and phone in an appointment run, those answers carry over
// and the flow skips straight to the reason question.
func (s *Session) startCallback(ctx context.Context, gen uint64) {
	var (
		name  string
		email string
		phone string
	)
	ok := s.guarded(gen, func() {
		s.workflow = WorkflowCallback
		name = s.appointment.Value("fullName")
		email = s.appointment.Value("contact")
		phone = s.appointment.Value("phone")
	})
	if !ok {
		return
	}

	if name != "" && email != "" && phone != "" {
		if !s.sayBot(ctx, gen, prefilledCallbackIntro(phone)) {
			return
		}
		s.guarded(gen, func() {
			s.callback.Reset()
			s.callback.Seed([][2]string{
				{"name", name},
				{"phone", phone},
				{"email", email},
			})
		})
		s.openCallbackField(gen, 2)
		return
	}

	if !s.sayBot(ctx, gen, callbackGreeting) {
		return
	}
	s.openCallbackField(gen, 0)
}

// SubmitField handles a stepped-form answer. Empty input is a silent
// no-op; answers to a field that is not the active one are dropped.
func (s *Session) SubmitField(fieldName, value string) {
	s.touch()
	if strings.TrimSpace(value) == "" {
		return
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	var (
		col      *Collector
		callback bool
	)
	switch s.mode {
	case ModeAppointmentForm:
		col = s.appointment
	case ModeCallbackForm:
		col = s.callback
		callback = true
	default:
		s.mu.Unlock()
		return
	}
	active, ok := col.Active()
	if !ok || active.Name != fieldName {
		s.mu.Unlock()
		return
	}
	col.Record(fieldName, value)
	col.Close()
	gen, ctx := s.generation, s.runCtx
	s.setModeLocked(ModeNone)
	s.mu.Unlock()

	s.timeline.AppendUser(value)
	if callback {
		s.callbackFieldReply(ctx, gen, fieldName, value)
	} else {
		s.appointmentFieldReply(ctx, gen, fieldName, value)
	}
}

func (s *Session) appointmentFieldReply(ctx context.Context, gen uint64, field, value string) {
	switch field {
	case "fullName":
		if !s.sayBot(ctx, gen, thanksName(value)) {
			return
		}
		if !s.sayBot(ctx, gen, askEmail) {
			return
		}
		s.openAppointmentField(gen, 1)
	case "contact":
		if !s.sayBot(ctx, gen, ackContact) {
			return
		}
		if s.cfg.PrivacyPolicyURL != "" {
			if !s.sayBot(ctx, gen, privacyNotice(s.cfg.PrivacyPolicyURL, s.cfg.ThemeColor)) {
				return
			}
		}
		prompt := askPhoneAppointment
		if s.Workflow() == WorkflowTreatment {
			prompt = askPhoneFollowUp
		}
		if !s.sayBot(ctx, gen, prompt) {
			return
		}
		s.openAppointmentField(gen, 2)
	case "phone":
		if s.Workflow() == WorkflowTreatment {
			s.finalizeBrochure(ctx, gen)
			return
		}
		if !s.sayBot(ctx, gen, askDateIntro) {
			return
		}
		if !s.sayBot(ctx, gen, askDate) {
			return
		}
		s.openAppointmentField(gen, 3)
	case "preferredDate":
		if !s.sayBot(ctx, gen, dateAck(value)) {
			return
		}
		if !s.sayBot(ctx, gen, askTime) {
			return
		}
		s.openAppointmentField(gen, 4)
	case "preferredTime":
		s.finalizeAppointment(ctx, gen, value)
	default:
		s.logger.Warn("simulator: unexpected appointment field", "session_id", s.ID, "field", field)
	}
}

func (s *Session) callbackFieldReply(ctx context.Context, gen uint64, field, value string) {
	switch field {
	case "name":
		if !s.sayBot(ctx, gen, thanksName(value)) {
			return
		}
		if !s.sayBot(ctx, gen, askCallbackPhone) {
			return
		}
		s.openCallbackField(gen, 1)
	case "phone":
		if !s.sayBot(ctx, gen, ackContact) {
			return
		}
		if !s.sayBot(ctx, gen, callbackFollowUp) {
			return
		}
		s.openCallbackField(gen, 2)
	case "reason":
		if !s.sayBot(ctx, gen, reasonAck(value)) {
			return
		}
		if !s.sayBot(ctx, gen, callbackTiming) {
			return
		}
		s.openCallbackField(gen, 3)
	case "timing":
		s.finalizeCallback(ctx, gen, value)
	default:
		s.logger.Warn("simulator: unexpected callback field", "session_id", s.ID, "field", field)
	}
}

// finalizeAppointment plays the simulated availability check and confirms
// the requested slot. The rehearsal does not post the booking anywhere;
// handing the collected form to a real scheduler is the embedder's side.
func (s *Session) finalizeAppointment(ctx context.Context, gen uint64, timeValue string) {
	date := s.valueOf(s.appointment, "preferredDate")
	if !s.sayBot(ctx, gen, checkingAvailability(date, timeValue)) {
		return
	}
	if !s.wait(ctx, s.pacing.Availability) {
		return
	}
	confirmation := strings.ReplaceAll(confirmationSuccess, "[chosen date/time]", date+" at "+timeValue)
	if !s.sayBot(ctx, gen, confirmation) {
		return
	}
	s.metrics.ObserveWorkflowCompleted(string(WorkflowAppointment))
	s.logger.Info("simulator: appointment flow completed", "session_id", s.ID, "bot_id", s.cfg.BotID)
	if !s.wait(ctx, s.pacing.Processing) {
		return
	}
	s.guarded(gen, func() {
		s.setModeLocked(ModeOptions)
	})
}

// finalizeBrochure posts the brochure request and then nudges the visitor
// toward a callback. Dispatch failure changes the copy, not the flow.
func (s *Session) finalizeBrochure(ctx context.Context, gen uint64) {
	if !s.sayBot(ctx, gen, brochureHandoff) {
		return
	}

	req := s.brochureRequest()
	if err := s.gateway.SendBrochure(ctx, req); err != nil && !errors.Is(err, dispatch.ErrSuppressed) {
		s.logger.Error("simulator: brochure dispatch failed", "session_id", s.ID, "error", err)
		if !s.sayBot(ctx, gen, brochureDispatchFailure) {
			return
		}
	}
	s.metrics.ObserveWorkflowCompleted(string(WorkflowTreatment))

	if !s.wait(ctx, s.pacing.Processing) {
		return
	}
	s.guarded(gen, func() {
		s.timeline.AppendBot(callbackNudgePrompt, true, nil)
		s.setModeLocked(ModeCallbackPrompt)
	})
}

// finalizeCallback confirms the chosen window and posts the request.
func (s *Session) finalizeCallback(ctx context.Context, gen uint64, timing string) {
	if !s.sayBot(ctx, gen, timingAck(timing)) {
		return
	}
	confirmation := strings.ReplaceAll(callbackConfirmation, "[chosen time]", timing)
	if !s.sayBot(ctx, gen, confirmation) {
		return
	}

	req := s.callbackRequest(timing)
	if err := s.gateway.SendCallback(ctx, req); err != nil && !errors.Is(err, dispatch.ErrSuppressed) {
		s.logger.Error("simulator: callback dispatch failed", "session_id", s.ID, "error", err)
		if !s.sayBot(ctx, gen, callbackDispatchFailure(req.Customer.Phone)) {
			return
		}
	}
	s.metrics.ObserveWorkflowCompleted(string(WorkflowCallback))

	if !s.wait(ctx, s.pacing.Processing) {
		return
	}
	s.guarded(gen, func() {
		s.setModeLocked(ModeOptions)
	})
}

// SubmitCallbackPrompt handles the free-text nudge after a brochure send.
// Anything that reads as a callback request starts the workflow with the
// prefill rule applied; anything else gets a gentle miss and the menu.
func (s *Session) SubmitCallbackPrompt(text string) {
	s.touch()
	if strings.TrimSpace(text) == "" {
		return
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.started || s.mode != ModeCallbackPrompt {
		s.mu.Unlock()
		return
	}
	gen, ctx := s.generation, s.runCtx
	s.setModeLocked(ModeNone)
	s.mu.Unlock()

	if wantsCallback(text) {
		s.startCallback(ctx, gen)
		return
	}
	if !s.sayBot(ctx, gen, callbackNudgeMiss) {
		return
	}
	if !s.wait(ctx, s.pacing.Processing) {
		return
	}
	s.guarded(gen, func() {
		s.setModeLocked(ModeOptions)
	})
}

// OpenTreatmentChat enables the free-text question box for the selected
// treatment. The box is opt-in; nothing in the scripted flow opens it on
// its own.
func (s *Session) OpenTreatmentChat() {
	s.touch()
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.workflow != WorkflowTreatment || s.selectedTreatment == nil {
		return
	}
	s.setModeLocked(ModeTreatmentChat)
}

// SubmitTreatmentChat handles a free-text question about the selected
// treatment. Booking and callback intents divert into their workflows;
// everything else goes to the ai-agent endpoint, with canned copy when
// the call is suppressed, empty or failing.
func (s *Session) SubmitTreatmentChat(text string) {
	s.touch()
	if strings.TrimSpace(text) == "" {
		return
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.started || s.mode != ModeTreatmentChat {
		s.mu.Unlock()
		return
	}
	gen, ctx := s.generation, s.runCtx
	treatment := s.selectedTreatment
	s.mu.Unlock()

	s.timeline.AppendUser(text)

	switch classifyFreeText(text) {
	case IntentBooking:
		s.mu.Lock()
		s.setModeLocked(ModeNone)
		s.mu.Unlock()
		if !s.sayBot(ctx, gen, consultationHandoff(treatment.Name)) {
			return
		}
		s.enterAppointment(ctx, gen)
		return
	case IntentCallback:
		s.mu.Lock()
		s.setModeLocked(ModeNone)
		s.mu.Unlock()
		s.startCallback(ctx, gen)
		return
	}

	question := dispatch.AIQuestion{
		BotID: s.cfg.BotID,
		Treatment: dispatch.Treatment{
			ID:          treatment.ID,
			Name:        treatment.Name,
			Description: treatment.Description,
			BrochureURL: treatment.BrochureURL,
		},
		UserMessage:       text,
		CompanyOwnerEmail: s.cfg.CompanyOwnerEmail,
		CompanyName:       s.cfg.CompanyName,
	}
	askCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	reply, err := s.gateway.AskAI(askCtx, question)
	cancel()

	var msg string
	switch {
	case errors.Is(err, dispatch.ErrSuppressed):
		msg = aiReplyRehearsal(treatment.Name)
	case err != nil:
		s.logger.Error("simulator: ai reply failed", "session_id", s.ID, "error", err)
		msg = aiReplyFallback(treatment.Name)
	case strings.TrimSpace(reply) == "":
		msg = aiReplyDefault(treatment.Name)
	default:
		msg = reply
	}

	if !s.wait(ctx, s.pacing.AIReply) {
		return
	}
	s.sayBot(ctx, gen, msg)
}

func (s *Session) valueOf(col *Collector, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return col.Value(key)
}

func (s *Session) brochureRequest() dispatch.BrochureRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tr dispatch.Treatment
	if s.selectedTreatment != nil {
		tr = dispatch.Treatment{
			ID:             s.selectedTreatment.ID,
			Name:           s.selectedTreatment.Name,
			Description:    s.selectedTreatment.Description,
			BrochureURL:    s.selectedTreatment.BrochureURL,
			HasBrochureURL: s.selectedTreatment.BrochureURL != "",
		}
	}
	return dispatch.BrochureRequest{
		BotID:     s.cfg.BotID,
		BotName:   s.cfg.Name,
		Treatment: tr,
		Customer: dispatch.Customer{
			Name:    s.appointment.Value("fullName"),
			Email:   s.appointment.Value("contact"),
			Phone:   s.appointment.Value("phone"),
			Message: "Requested brochure for " + tr.Name + " treatment",
		},
		Company: dispatch.Company{
			Name:       s.cfg.CompanyName,
			OwnerEmail: s.cfg.CompanyOwnerEmail,
			Phone:      s.cfg.CompanyPhone,
			Website:    s.cfg.CompanyWebsite,
		},
	}
}

func (s *Session) callbackRequest(timing string) dispatch.CallbackRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dispatch.CallbackRequest{
		BotID:   s.cfg.BotID,
		BotName: s.cfg.Name,
		Customer: dispatch.Customer{
			Name:  s.callback.Value("name"),
			Email: s.callback.Value("email"),
			Phone: s.callback.Value("phone"),
		},
		Callback: dispatch.CallbackDetails{
			Reason:        s.callback.Value("reason"),
			PreferredTime: timing,
		},
		Company: dispatch.Company{
			Name:       s.cfg.CompanyName,
			OwnerEmail: s.cfg.CompanyOwnerEmail,
			Phone:      s.cfg.CompanyPhone,
			Website:    s.cfg.CompanyWebsite,
		},
	}
}
