package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"sala-quiz-service/internal/app"
	"sala-quiz-service/internal/domain"
	"sala-quiz-service/internal/outcome"
	"sala-quiz-service/internal/session"
	"github.com/gorilla/websocket"
)

// WSHandler hosts one quiz attempt per WebSocket connection. The kiosk
// browser is a thin shell: it sends discrete events and renders the state
// snapshots and side-effect intents it gets back.
type WSHandler struct {
	service     *app.KioskService
	defaultRoom string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.KioskService, defaultRoom string) *WSHandler {
	return &WSHandler{
		service:     service,
		defaultRoom: defaultRoom,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startedPayload struct {
	Room  string `json:"room"`
	Total int    `json:"total"`
}

// questionView deliberately omits the correct index; it is revealed only in
// the answerResult after the question locks.
type questionView struct {
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	Text        string   `json:"text"`
	Description string   `json:"description,omitempty"`
	Options     []string `json:"options"`
}

type answerResult struct {
	CorrectIndex int  `json:"correctIndex"`
	Chosen       int  `json:"chosen"`
	Correct      bool `json:"correct"`
	TotalPoints  int  `json:"totalPoints"`
	CorrectCount int  `json:"correctCount"`
}

type finishedPayload struct {
	Status       string `json:"status"`
	Points       int    `json:"points"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	ScorePercent int    `json:"scorePercent"`
	Retry        bool   `json:"retry"`
}

// ServeWS upgrades the kiosk connection and runs the attempt loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("sala")
	if room == "" {
		room = h.defaultRoom
	}
	kiosk := r.URL.Query().Get("kiosk")
	if kiosk == "" {
		http.Error(w, "missing kiosk session key", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	attempt, err := h.service.Start(r.Context(), room, kiosk)
	if err != nil {
		// Load failures are fatal to starting a session.
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-closeSignals:
		}
	}

	signals := make(chan struct{}, 1)
	monitor, monitorDone := h.startMonitor(attempt, signals, push)

	snap := attempt.Snapshot()
	push(outboundMessage[any]{Type: "started", Payload: startedPayload{Room: room, Total: snap.Total}})
	push(outboundMessage[any]{Type: "question", Payload: viewOf(snap)})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			h.handleAnswer(attempt, payload.Option, push)
		case "advance":
			h.handleAdvance(attempt, push)
		case "focus_lost":
			select {
			case signals <- struct{}{}:
			default:
			}
		case "reset":
			// Fresh attempt, fresh draw; the old session is abandoned.
			monitor.Stop()
			<-monitorDone
			next, err := h.service.Start(r.Context(), room, kiosk)
			if err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			attempt = next
			monitor, monitorDone = h.startMonitor(attempt, signals, push)
			snap := attempt.Snapshot()
			push(outboundMessage[any]{Type: "started", Payload: startedPayload{Room: room, Total: snap.Total}})
			push(outboundMessage[any]{Type: "question", Payload: viewOf(snap)})
		default:
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	monitor.Stop()
	<-monitorDone
	close(send)
	<-writerDone
}

func (h *WSHandler) startMonitor(attempt *app.Attempt, signals <-chan struct{}, push func(outboundMessage[any])) (*session.Monitor, <-chan struct{}) {
	monitor := session.NewMonitor(attempt, signals, func(snap session.Snapshot, effects []session.Effect) {
		for _, effect := range effects {
			push(outboundMessage[any]{Type: "effect", Payload: effect})
		}
		push(outboundMessage[any]{Type: "finished", Payload: finishedOf(snap, attempt.Outcome())})
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run()
	}()
	return monitor, done
}

func (h *WSHandler) handleAnswer(attempt *app.Attempt, option int, push func(outboundMessage[any])) {
	snap, effects, err := attempt.Dispatch(session.AnswerChosen{Option: option})
	if err != nil {
		// A locked or finished session ignores repeat answers outright.
		if errors.Is(err, domain.ErrSessionLocked) || errors.Is(err, domain.ErrSessionFinished) {
			return
		}
		push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	question := snap.Question
	push(outboundMessage[any]{Type: "answerResult", Payload: answerResult{
		CorrectIndex: question.CorrectIndex,
		Chosen:       snap.Selected,
		Correct:      snap.Selected == question.CorrectIndex,
		TotalPoints:  snap.Points,
		CorrectCount: snap.Correct,
	}})
	for _, effect := range effects {
		push(outboundMessage[any]{Type: "effect", Payload: effect})
	}
}

func (h *WSHandler) handleAdvance(attempt *app.Attempt, push func(outboundMessage[any])) {
	snap, effects, err := attempt.Dispatch(session.AdvanceRequested{})
	if err != nil {
		if errors.Is(err, domain.ErrNoSelection) {
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "Selecciona una respuesta para continuar."}})
			return
		}
		if errors.Is(err, domain.ErrSessionFinished) {
			return
		}
		push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	if snap.Phase.Terminal() {
		for _, effect := range effects {
			push(outboundMessage[any]{Type: "effect", Payload: effect})
		}
		push(outboundMessage[any]{Type: "finished", Payload: finishedOf(snap, attempt.Outcome())})
		return
	}
	push(outboundMessage[any]{Type: "question", Payload: viewOf(snap)})
}

func viewOf(snap session.Snapshot) questionView {
	view := questionView{
		Index: snap.Index,
		Total: snap.Total,
	}
	if snap.Question != nil {
		view.Text = snap.Question.Text
		view.Description = snap.Question.Description
		view.Options = snap.Question.Options
	}
	return view
}

func finishedOf(snap session.Snapshot, out *outcome.Outcome) finishedPayload {
	payload := finishedPayload{
		Status:  string(snap.Phase),
		Points:  snap.Points,
		Correct: snap.Correct,
		Total:   snap.Total,
	}
	if out != nil {
		payload.ScorePercent = out.Result.ScorePercent
		payload.Retry = out.Retry
	}
	return payload
}
