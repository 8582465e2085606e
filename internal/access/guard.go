// Package access решает, кто перед нами: владелец, активный админ
// или посторонний. Проверка выполняется на КАЖДОМ шаге диалога,
// а не только на входе — сессия может пережить отключение админа.
package access

import "context"

// Role — результат авторизации.
type Role int

const (
	// RoleDenied — посторонний: сессию чистим, данные не показываем.
	RoleDenied Role = iota
	// RoleAdmin — активный админ из таблицы admins.
	RoleAdmin
	// RoleOwner — владелец, задан статически в конфиге.
	RoleOwner
)

// AdminChecker отвечает, активен ли админ с данным telegram id.
type AdminChecker interface {
	IsActive(ctx context.Context, tgUserID int64) (bool, error)
}

// Guard сверяет личность с владельцем и списком админов.
type Guard struct {
	ownerID int64
	admins  AdminChecker
}

// NewGuard создаёт охранника. ownerID сравнивается дословно.
func NewGuard(ownerID int64, admins AdminChecker) *Guard {
	return &Guard{ownerID: ownerID, admins: admins}
}

// Authorize возвращает роль пользователя. Ошибка означает сбой
// хранилища при проверке админа — вызывающий просит повторить позже,
// доступ при этом не даётся.
func (g *Guard) Authorize(ctx context.Context, tgUserID int64) (Role, error) {
	if tgUserID == g.ownerID {
		return RoleOwner, nil
	}
	active, err := g.admins.IsActive(ctx, tgUserID)
	if err != nil {
		return RoleDenied, err
	}
	if active {
		return RoleAdmin, nil
	}
	return RoleDenied, nil
}

// IsOwner — быстрая проверка «это владелец?» для веток меню,
// доступных только ему.
func (g *Guard) IsOwner(tgUserID int64) bool {
	return tgUserID == g.ownerID
}
