// flow_admin.go — управление админами. Доступно только владельцу;
// роль проверяется ещё раз на каждом шаге.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/access"
	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
)

func (b *Bot) flowAdmins(ctx context.Context, chatID, userID int64, role access.Role, text string, sess dialog.Session) {
	if role != access.RoleOwner {
		b.finishToMenu(chatID, userID, "Эта кнопка только для владельца.")
		return
	}

	switch sess.State {
	case dialog.StateAdminsMenu:
		switch text {
		case BtnAdminAdd:
			sess.State = dialog.StateAdminsAddID
			b.sessions.Put(userID, sess)
			b.send(chatID, "Telegram ID нового админа (число):", cancelKeyboard())
		case BtnAdminDisable:
			sess.State = dialog.StateAdminsDisableID
			b.sessions.Put(userID, sess)
			b.send(chatID, "Telegram ID админа, которого отключаем:", cancelKeyboard())
		case BtnAdminList:
			b.showAdminList(ctx, chatID, userID, sess)
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите действие кнопкой.", adminMenuKeyboard())
		}

	case dialog.StateAdminsAddID:
		id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil || id <= 0 {
			b.send(chatID, "Введите числовой Telegram ID, например 123456789.", cancelKeyboard())
			return
		}
		sess.Form.AdminTgID = id
		sess.State = dialog.StateAdminsAddName
		b.sessions.Put(userID, sess)
		b.send(chatID, "Имя админа (как показывать в списках):", cancelKeyboard())

	case dialog.StateAdminsAddName:
		if err := b.svc.Admins.Save(ctx, sess.Form.AdminTgID, text); err != nil {
			log.WithError(err).Error("Не удалось сохранить админа")
			b.send(chatID, "Не получилось сохранить, введите имя ещё раз.", cancelKeyboard())
			return
		}
		b.backToAdminMenu(chatID, userID, sess,
			fmt.Sprintf("Админ «%s» (ID %d) добавлен ✅", strings.TrimSpace(text), sess.Form.AdminTgID))

	case dialog.StateAdminsDisableID:
		id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil || id <= 0 {
			b.send(chatID, "Введите числовой Telegram ID.", cancelKeyboard())
			return
		}
		if id == b.cfg.OwnerTgUserID {
			b.send(chatID, "Владельца отключить нельзя.", cancelKeyboard())
			return
		}
		err = b.svc.Admins.Disable(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			b.backToAdminMenu(chatID, userID, sess, fmt.Sprintf("Админ с ID %d не найден.", id))
			return
		}
		if err != nil {
			log.WithError(err).Error("Не удалось отключить админа")
			b.backToAdminMenu(chatID, userID, sess, "Не получилось отключить, попробуйте позже.")
			return
		}
		b.backToAdminMenu(chatID, userID, sess, fmt.Sprintf("Админ с ID %d отключён ⛔", id))
	}
}

func (b *Bot) showAdminList(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	active, inactive, err := b.svc.Admins.List(ctx)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить админов")
		b.backToAdminMenu(chatID, userID, sess, "Не удалось загрузить список.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Активные:\n")
	if len(active) == 0 {
		sb.WriteString("— никого\n")
	}
	for _, a := range active {
		fmt.Fprintf(&sb, "• %s (ID %d)\n", a.Name, a.TgUserID)
	}
	if len(inactive) > 0 {
		sb.WriteString("\nОтключённые:\n")
		for _, a := range inactive {
			fmt.Fprintf(&sb, "• %s (ID %d)\n", a.Name, a.TgUserID)
		}
	}
	b.backToAdminMenu(chatID, userID, sess, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) backToAdminMenu(chatID, userID int64, sess dialog.Session, text string) {
	sess.State = dialog.StateAdminsMenu
	b.sessions.Put(userID, sess)
	b.send(chatID, text, adminMenuKeyboard())
}
