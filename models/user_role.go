package models

type UserRole string

const (
	SpaceAdminRole UserRole = "SPACE_ADMIN_ROLE"
	SpaceUserRole  UserRole = "SPACE_USER_ROLE"
)

var roleHumanName = map[UserRole]string{
	SpaceAdminRole: "Администратор",
	SpaceUserRole:  "Пользователь",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

// IsSpaceAdmin - администратор может согласовать любой текущий этап, действие фиксируется в истории от его имени
func (r UserRole) IsSpaceAdmin() bool {
	return r == SpaceAdminRole
}

const SystemUser = "Система"

type UserStatus string

const (
	SpaceWorkingStatus    UserStatus = "WORKING"
	SpaceOnVacationStatus UserStatus = "VACATION"
	SpaceDismissedStatus  UserStatus = "DISMISSED"
)

var userStatusHumanName = map[UserStatus]string{
	SpaceWorkingStatus:    "Работает",
	SpaceOnVacationStatus: "В отпуске",
	SpaceDismissedStatus:  "Уволен",
}

func (s UserStatus) ToHuman() string {
	if human, exist := userStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsEligibleApprover - уволенный сотрудник не может быть назначен согласующим
func (s UserStatus) IsEligibleApprover() bool {
	return s != SpaceDismissedStatus
}
