package models

import "hiring-flow-backend/models/errs"

type RqStatus string

const (
	RqStatusDraft           RqStatus = "draft"
	RqStatusPendingApproval RqStatus = "pending_approval"
	RqStatusApproved        RqStatus = "approved"
	RqStatusPublished       RqStatus = "published"
	RqStatusClosed          RqStatus = "closed"
	RqStatusCancelled       RqStatus = "cancelled"
)

var rqStatusHumanName = map[RqStatus]string{
	RqStatusDraft:           "Черновик",
	RqStatusPendingApproval: "На согласовании",
	RqStatusApproved:        "Согласована",
	RqStatusPublished:       "Опубликована",
	RqStatusClosed:          "Закрыта",
	RqStatusCancelled:       "Отменена",
}

func (s RqStatus) ToHuman() string {
	if human, exist := rqStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RqStatus) Validate() error {
	if _, exist := rqStatusHumanName[s]; !exist {
		return errs.Newf(errs.KindValidation, "неизвестный статус заявки: %v", s)
	}
	return nil
}

// допустимые переходы статуса заявки, терминальные статусы переходов не имеют
var rqStatusTransitions = map[RqStatus][]RqStatus{
	RqStatusDraft:           {RqStatusPendingApproval, RqStatusCancelled},
	RqStatusPendingApproval: {RqStatusApproved, RqStatusCancelled},
	RqStatusApproved:        {RqStatusPublished, RqStatusCancelled},
	RqStatusPublished:       {RqStatusClosed},
}

func (s RqStatus) IsAllowChange(newStatus RqStatus) bool {
	for _, allowed := range rqStatusTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// AllowAct - разрешено ли действие согласующего в текущем статусе заявки
func (s RqStatus) AllowAct() bool {
	return s == RqStatusPendingApproval
}

func (s RqStatus) IsTerminal() bool {
	return s == RqStatusClosed || s == RqStatusCancelled
}

type RqApprovalStatus string

const (
	RqApprovalPending      RqApprovalStatus = "pending"
	RqApprovalApproved     RqApprovalStatus = "approved"
	RqApprovalRejected     RqApprovalStatus = "rejected"
	RqApprovalAutoApproved RqApprovalStatus = "auto_approved"
)

var rqApprovalHumanName = map[RqApprovalStatus]string{
	RqApprovalPending:      "Ожидает согласования",
	RqApprovalApproved:     "Согласована",
	RqApprovalRejected:     "Отклонена",
	RqApprovalAutoApproved: "Автосогласована, согласующие не требуются",
}

func (s RqApprovalStatus) ToHuman() string {
	if human, exist := rqApprovalHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RqApprovalStatus) IsApproved() bool {
	return s == RqApprovalApproved || s == RqApprovalAutoApproved
}

type ApprovalStepStatus string

const (
	AStepAwaiting ApprovalStepStatus = "awaiting"
	AStepApproved ApprovalStepStatus = "approved"
	AStepRejected ApprovalStepStatus = "rejected"
)

var aStepHumanName = map[ApprovalStepStatus]string{
	AStepAwaiting: "Ожидает решения",
	AStepApproved: "Согласован",
	AStepRejected: "Отклонен",
}

func (s ApprovalStepStatus) ToHuman() string {
	if human, exist := aStepHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal - терминальный этап неизменяем
func (s ApprovalStepStatus) IsTerminal() bool {
	return s == AStepApproved || s == AStepRejected
}

type ApproverKind string

const (
	ApproverSpecificUser  ApproverKind = "specific_user"
	ApproverRoleInUnit    ApproverKind = "role_in_unit"
	ApproverAuthorManager ApproverKind = "author_manager"
)

func (k ApproverKind) Validate() error {
	switch k {
	case ApproverSpecificUser, ApproverRoleInUnit, ApproverAuthorManager:
		return nil
	}
	return errs.Newf(errs.KindValidation, "неизвестное правило выбора согласующего: %v", k)
}

type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "approve"
	DecisionReject  ApprovalDecision = "reject"
)

func (d ApprovalDecision) Validate() error {
	if d != DecisionApprove && d != DecisionReject {
		return errs.Newf(errs.KindValidation, "неизвестное решение согласующего: %v", d)
	}
	return nil
}

// действия в истории согласования
type HistoryAction string

const (
	HActionSubmitted    HistoryAction = "submitted"
	HActionApproved     HistoryAction = "approved"
	HActionRejected     HistoryAction = "rejected"
	HActionAutoApproved HistoryAction = "auto_approved"
	HActionPublished    HistoryAction = "published"
	HActionClosed       HistoryAction = "closed"
	HActionCancelled    HistoryAction = "cancelled"
	HActionReresolved   HistoryAction = "reresolved"
)

type ClosureReason string

const (
	ClosureHeadcountFilled ClosureReason = "headcount_filled"
	ClosureManual          ClosureReason = "manual"
)
