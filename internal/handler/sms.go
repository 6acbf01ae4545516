package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kabylesystem/xrpl-hackaton/internal/relay"

	"go.uber.org/zap"
)

// handleTimeout bounds one inbound message end to end, including the
// validation wait on up to two ledger submissions.
const handleTimeout = 3 * time.Minute

// emptyTwiML tells a Twilio-compatible gateway not to auto-reply; the
// broadcaster sends its own replies through the Messages API.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// SMSHandler receives inbound message webhooks and hands them to the
// broadcaster.
type SMSHandler struct {
	broadcaster *relay.Broadcaster
	log         *zap.SugaredLogger
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(broadcaster *relay.Broadcaster, logger *zap.Logger) *SMSHandler {
	return &SMSHandler{
		broadcaster: broadcaster,
		log:         logger.Named("handler").Sugar(),
	}
}

// Receive handles POST /sms/receive
// @Summary      Receive inbound SMS
// @Description  Webhook for a Twilio-compatible gateway. Classifies the message, submits transactions when asked, and replies to the sender out of band.
// @Tags         sms
// @Accept       x-www-form-urlencoded
// @Produce      xml
// @Param        From  formData  string  true  "Sender phone number"
// @Param        Body  formData  string  true  "Message body"
// @Success      200  {string}  string  "Empty TwiML response"
// @Router       /sms/receive [post]
func (h *SMSHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	if from == "" || body == "" {
		http.Error(w, "From and Body are required", http.StatusBadRequest)
		return
	}

	// The gateway webhook has its own timeout; acknowledge right away
	// and finish the ledger work in the background.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		if err := h.broadcaster.Handle(ctx, from, body); err != nil {
			h.log.Warnw("message handling ended with failure", "from", from, "err", err)
		}
	}()

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(emptyTwiML))
}

// Healthz handles GET /healthz
// @Summary      Health check
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *SMSHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
