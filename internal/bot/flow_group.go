// flow_group.go — группы: создание, карточка, тренер, скрытие.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/dialog"
)

func (b *Bot) flowGroup(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateGroupMenu:
		switch text {
		case BtnGroupCreate:
			sess.State = dialog.StateGroupAddName
			b.sessions.Put(userID, sess)
			b.send(chatID, "Название группы:", cancelKeyboard())
		case BtnGroupList:
			b.showGroupList(ctx, chatID, userID, sess)
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите действие кнопкой.", groupsMenuKeyboard())
		}

	case dialog.StateGroupAddName:
		name := strings.TrimSpace(text)
		if name == "" {
			b.send(chatID, "Введите название текстом.", cancelKeyboard())
			return
		}
		sess.Form.GroupName = name
		sess.State = dialog.StateGroupAddCapacity
		b.sessions.Put(userID, sess)
		b.send(chatID, "Вместимость (число мест), либо «Пропустить».", skipKeyboard())

	case dialog.StateGroupAddCapacity:
		capacity := 0
		if text != BtnSkip {
			n, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || n <= 0 {
				b.send(chatID, "Введите число больше нуля или нажмите «Пропустить».", skipKeyboard())
				return
			}
			capacity = n
		}
		sess.Form.Capacity = capacity
		sess.State = dialog.StateGroupAddRoom
		b.sessions.Put(userID, sess)
		b.send(chatID, "Зал/помещение, либо «Пропустить».", skipKeyboard())

	case dialog.StateGroupAddRoom:
		room := ""
		if text != BtnSkip {
			room = strings.TrimSpace(text)
		}
		id, err := b.svc.Groups.Create(ctx, sess.Form.GroupName, sess.Form.Capacity, nil, room)
		if err != nil {
			log.WithError(err).Error("Не удалось создать группу")
			b.finishToMenu(chatID, userID, "Не получилось создать группу, попробуйте позже.")
			return
		}
		sess.Form.GroupID = id
		b.showGroupCard(ctx, chatID, userID, sess, "Группа «"+sess.Form.GroupName+"» создана ✅")

	case dialog.StateGroupListPick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		sess.Form.GroupID = opt.ID
		sess.Options = nil
		b.showGroupCard(ctx, chatID, userID, sess, "")

	case dialog.StateGroupCard:
		switch text {
		case BtnGroupRename:
			sess.State = dialog.StateGroupRename
			b.sessions.Put(userID, sess)
			b.send(chatID, "Новое название для «"+sess.Form.GroupName+"»:", cancelKeyboard())
		case BtnGroupAssign:
			b.askGroupTrainer(ctx, chatID, userID, sess)
		case BtnGroupUnassign:
			if err := b.svc.Groups.RemoveTrainer(ctx, sess.Form.GroupID); err != nil {
				log.WithError(err).Error("Не удалось убрать тренера")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showGroupCard(ctx, chatID, userID, sess, "Тренер убран из группы.")
		case BtnGroupSchedule:
			sess.State = dialog.StateScheduleMenu
			b.sessions.Put(userID, sess)
			b.send(chatID, "Расписание группы «"+sess.Form.GroupName+"»:", scheduleMenuKeyboard())
		case BtnGroupHide:
			if err := b.svc.Groups.SetActive(ctx, sess.Form.GroupID, false); err != nil {
				log.WithError(err).Error("Не удалось скрыть группу")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showGroupCard(ctx, chatID, userID, sess, "Группа скрыта.")
		case BtnGroupActivate:
			if err := b.svc.Groups.SetActive(ctx, sess.Form.GroupID, true); err != nil {
				log.WithError(err).Error("Не удалось активировать группу")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showGroupCard(ctx, chatID, userID, sess, "Группа снова активна ✅")
		case BtnBack:
			sess.State = dialog.StateGroupMenu
			b.sessions.Put(userID, sess)
			b.send(chatID, "Группы: что делаем?", groupsMenuKeyboard())
		default:
			b.send(chatID, "Выберите действие кнопкой.", nil)
		}

	case dialog.StateGroupRename:
		name := strings.TrimSpace(text)
		if name == "" {
			b.send(chatID, "Введите название текстом.", cancelKeyboard())
			return
		}
		if err := b.svc.Groups.Rename(ctx, sess.Form.GroupID, name); err != nil {
			log.WithError(err).Error("Не удалось переименовать группу")
			b.send(chatID, "Не получилось переименовать, попробуйте ещё раз.", cancelKeyboard())
			return
		}
		b.showGroupCard(ctx, chatID, userID, sess, "Группа переименована ✅")

	case dialog.StateGroupAssign:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите тренера кнопкой из списка.", nil)
			return
		}
		if err := b.svc.Groups.AssignTrainer(ctx, sess.Form.GroupID, opt.ID); err != nil {
			log.WithError(err).Error("Не удалось назначить тренера")
			b.send(chatID, "Не получилось назначить тренера.", nil)
			return
		}
		sess.Options = nil
		b.showGroupCard(ctx, chatID, userID, sess, "Тренер «"+opt.Label+"» назначен ✅")
	}
}

func (b *Bot) showGroupList(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	list, err := b.svc.Groups.List(ctx, false)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить группы")
		b.finishToMenu(chatID, userID, "Не удалось загрузить группы.")
		return
	}
	if len(list) == 0 {
		b.send(chatID, "Групп пока нет — создайте первую.", groupsMenuKeyboard())
		return
	}
	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(list))
	for _, g := range list {
		label := g.Name
		if !g.IsActive {
			label += " (скрыта)"
		}
		sess.Options = append(sess.Options, dialog.Option{ID: g.ID, Label: label})
		labels = append(labels, label)
	}
	sess.State = dialog.StateGroupListPick
	b.sessions.Put(userID, sess)
	b.send(chatID, "Выберите группу:", optionsKeyboard(labels))
}

func (b *Bot) showGroupCard(ctx context.Context, chatID, userID int64, sess dialog.Session, note string) {
	g, err := b.svc.Groups.GetByID(ctx, sess.Form.GroupID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить группу")
		b.finishToMenu(chatID, userID, "Не удалось загрузить группу.")
		return
	}
	sess.Form.GroupName = g.Name

	var sb strings.Builder
	if note != "" {
		sb.WriteString(note + "\n\n")
	}
	fmt.Fprintf(&sb, "👥 %s", g.Name)
	if !g.IsActive {
		sb.WriteString(" (скрыта)")
	}
	sb.WriteByte('\n')
	if g.Capacity > 0 {
		fmt.Fprintf(&sb, "Вместимость: %d\n", g.Capacity)
	}
	if g.Room != "" {
		sb.WriteString("Зал: " + g.Room + "\n")
	}
	if g.TrainerID != nil {
		t, err := b.svc.Trainers.GetByID(ctx, *g.TrainerID)
		if err != nil {
			log.WithError(err).Error("Не удалось загрузить тренера группы")
		} else {
			sb.WriteString("Тренер: " + t.FullName + "\n")
		}
	} else {
		sb.WriteString("Тренер не назначен.\n")
	}

	slots, err := b.svc.Groups.ListSlots(ctx, g.ID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить расписание")
	} else if len(slots) > 0 {
		sb.WriteString("Расписание:\n")
		for _, sl := range slots {
			sb.WriteString("• " + slotLabel(sl) + "\n")
		}
	}

	sess.State = dialog.StateGroupCard
	b.sessions.Put(userID, sess)
	b.send(chatID, strings.TrimRight(sb.String(), "\n"), groupCardKeyboard(g.IsActive))
}

func (b *Bot) askGroupTrainer(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	list, err := b.svc.Trainers.List(ctx, true)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить тренеров")
		b.finishToMenu(chatID, userID, "Не удалось загрузить тренеров.")
		return
	}
	if len(list) == 0 {
		b.showGroupCard(ctx, chatID, userID, sess, "Активных тренеров нет — сначала добавьте тренера.")
		return
	}
	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(list))
	for _, t := range list {
		sess.Options = append(sess.Options, dialog.Option{ID: t.ID, Label: t.FullName})
		labels = append(labels, t.FullName)
	}
	sess.State = dialog.StateGroupAssign
	b.sessions.Put(userID, sess)
	b.send(chatID, "Кого назначить тренером?", optionsKeyboard(labels))
}
