package models

import "hiring-flow-backend/models/errs"

type ApplicationStatus string

const (
	ApplicationStatusInvited   ApplicationStatus = "invited"
	ApplicationStatusCompleted ApplicationStatus = "completed"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusSelected  ApplicationStatus = "selected"
)

var applicationStatusHumanName = map[ApplicationStatus]string{
	ApplicationStatusInvited:   "Приглашен",
	ApplicationStatusCompleted: "Анкета заполнена",
	ApplicationStatusApproved:  "Одобрен",
	ApplicationStatusRejected:  "Отклонен",
	ApplicationStatusSelected:  "Выбран для найма",
}

func (s ApplicationStatus) ToHuman() string {
	if human, exist := applicationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

var applicationStatusTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusInvited:   {ApplicationStatusCompleted, ApplicationStatusRejected},
	ApplicationStatusCompleted: {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved:  {ApplicationStatusSelected, ApplicationStatusRejected},
	ApplicationStatusSelected:  {ApplicationStatusRejected},
}

func (s ApplicationStatus) IsAllowChange(newStatus ApplicationStatus) bool {
	for _, allowed := range applicationStatusTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

type SelectionStatus string

const (
	SelectionStatusNone     SelectionStatus = "none"
	SelectionStatusSelected SelectionStatus = "selected"
	SelectionStatusRejected SelectionStatus = "rejected"
)

var selectionStatusHumanName = map[SelectionStatus]string{
	SelectionStatusNone:     "Не выбран",
	SelectionStatusSelected: "Выбран для найма",
	SelectionStatusRejected: "Выбор отменен",
}

func (s SelectionStatus) ToHuman() string {
	if human, exist := selectionStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type HiredStatus string

const (
	HiredStatusNone     HiredStatus = ""
	HiredStatusHired    HiredStatus = "hired"
	HiredStatusNotHired HiredStatus = "not_hired"
)

func (s HiredStatus) ToHuman() string {
	switch s {
	case HiredStatusHired:
		return "Принят"
	case HiredStatusNotHired:
		return "Не принят"
	}
	return "Решение не принято"
}

// IsConfirmed - решение о найме принимается один раз
func (s HiredStatus) IsConfirmed() bool {
	return s != HiredStatusNone
}

// действия в истории кандидата
type SelectionAction string

const (
	SActionApplied          SelectionAction = "applied"
	SActionCompleted        SelectionAction = "completed"
	SActionApproved         SelectionAction = "approved"
	SActionRejected         SelectionAction = "rejected"
	SActionSelected         SelectionAction = "selected"
	SActionSelectedOverride SelectionAction = "selected_override"
	SActionHired            SelectionAction = "hired"
	SActionNotHired         SelectionAction = "not_hired"
)

func (a SelectionAction) Validate() error {
	switch a {
	case SActionApplied, SActionCompleted, SActionApproved, SActionRejected,
		SActionSelected, SActionSelectedOverride, SActionHired, SActionNotHired:
		return nil
	}
	return errs.Newf(errs.KindValidation, "неизвестное действие: %v", a)
}
