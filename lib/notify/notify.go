package notify

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"hiring-flow-backend/lib/smtp"
)

// События для подсистемы уведомлений. Сбой доставки никогда не откатывает
// переход состояния, породивший событие.

type EventType string

const (
	EventRequisitionStepAdvanced EventType = "requisitionStepAdvanced"
	EventRequisitionApproved     EventType = "requisitionApproved"
	EventRequisitionRejected     EventType = "requisitionRejected"
	EventRequisitionClosed       EventType = "requisitionClosed"
	EventCandidateSelected       EventType = "candidateSelected"
	EventCandidateRejected       EventType = "candidateRejected"
)

var eventSubject = map[EventType]string{
	EventRequisitionStepAdvanced: "Заявка ожидает вашего согласования",
	EventRequisitionApproved:     "Заявка согласована",
	EventRequisitionRejected:     "Заявка отклонена",
	EventRequisitionClosed:       "Заявка закрыта",
	EventCandidateSelected:       "Кандидат выбран для найма",
	EventCandidateRejected:       "Кандидат отклонен",
}

// Event несет денормализованный контекст, достаточный для человекочитаемого сообщения
type Event struct {
	Type            EventType
	SpaceID         string
	RequisitionID   string
	RequisitionCode string
	PositionName    string
	BrandName       string
	StoreName       string
	CandidateID     string
	CandidateName   string
	Reason          string
	RecipientEmail  string
	RecipientName   string
}

type Provider interface {
	Emit(event Event)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		sender: smtp.Instance,
	}
}

type impl struct {
	sender smtp.Provider
}

func (i impl) Emit(event Event) {
	// доставка в фоне, состояние ядра от нее не зависит
	go i.send(event)
}

func (i impl) send(event Event) {
	logger := log.
		WithField("space_id", event.SpaceID).
		WithField("event_type", event.Type).
		WithField("requisition_id", event.RequisitionID)
	if event.RecipientEmail == "" {
		logger.Debug("событие без получателя, доставка пропущена")
		return
	}
	subject, ok := eventSubject[event.Type]
	if !ok {
		subject = string(event.Type)
	}
	message := buildMessage(event)
	err := i.sender.SendEMail(event.RecipientEmail, message, subject)
	if err != nil {
		logger.WithError(err).Error("Ошибка доставки уведомления")
	}
}

func buildMessage(event Event) string {
	message := fmt.Sprintf("Заявка %s, должность: %s, бренд: %s", event.RequisitionCode, event.PositionName, event.BrandName)
	if event.StoreName != "" {
		message += fmt.Sprintf(", магазин: %s", event.StoreName)
	}
	if event.CandidateName != "" {
		message += fmt.Sprintf("\nКандидат: %s", event.CandidateName)
	}
	if event.Reason != "" {
		message += fmt.Sprintf("\nПричина: %s", event.Reason)
	}
	return message
}
