// flow_trainer.go — тренеры: добавление, карточка, привязка групп.
package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
)

func (b *Bot) flowTrainer(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateTrainerMenu:
		switch text {
		case BtnTrainerAdd:
			sess.State = dialog.StateTrainerAddName
			b.sessions.Put(userID, sess)
			b.send(chatID, "ФИО тренера:", cancelKeyboard())
		case BtnTrainerList:
			b.showTrainerList(ctx, chatID, userID, sess)
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите действие кнопкой.", trainersMenuKeyboard())
		}

	case dialog.StateTrainerAddName:
		name := strings.TrimSpace(text)
		if name == "" {
			b.send(chatID, "Введите ФИО текстом.", cancelKeyboard())
			return
		}
		sess.Form.TrainerName = name
		sess.State = dialog.StateTrainerAddPhone
		b.sessions.Put(userID, sess)
		b.send(chatID, "Телефон тренера, либо «Пропустить».", skipKeyboard())

	case dialog.StateTrainerAddPhone:
		if text != BtnSkip {
			phone := common.NormalizePhone(text)
			if phone == "" {
				b.send(chatID, "Не похоже на телефон, попробуйте ещё раз или нажмите «Пропустить».", skipKeyboard())
				return
			}
			sess.Form.Phone = phone
		}
		sess.State = dialog.StateTrainerAddTg
		b.sessions.Put(userID, sess)
		b.send(chatID, "Ник в Telegram, либо «Пропустить».", skipKeyboard())

	case dialog.StateTrainerAddTg:
		var username string
		if text != BtnSkip {
			username = common.NormalizeUsername(text)
			if username == "" {
				b.send(chatID, "Не похоже на ник, попробуйте ещё раз или нажмите «Пропустить».", skipKeyboard())
				return
			}
		}
		id, err := b.svc.Trainers.Create(ctx, sess.Form.TrainerName, sess.Form.Phone, username)
		if err != nil {
			log.WithError(err).Error("Не удалось создать тренера")
			b.finishToMenu(chatID, userID, "Не получилось сохранить тренера, попробуйте позже.")
			return
		}
		sess.Form.TrainerID = id
		b.showTrainerCard(ctx, chatID, userID, sess, "Тренер «"+sess.Form.TrainerName+"» добавлен ✅")

	case dialog.StateTrainerListPick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите тренера кнопкой из списка.", nil)
			return
		}
		sess.Form.TrainerID = opt.ID
		sess.Form.TrainerName = opt.Label
		sess.Options = nil
		b.showTrainerCard(ctx, chatID, userID, sess, "")

	case dialog.StateTrainerCard:
		switch text {
		case BtnTrainerRename:
			sess.State = dialog.StateTrainerRename
			b.sessions.Put(userID, sess)
			b.send(chatID, "Новое ФИО для «"+sess.Form.TrainerName+"»:", cancelKeyboard())
		case BtnTrainerAttach:
			b.askTrainerGroup(ctx, chatID, userID, sess, dialog.StateTrainerAttach,
				"Какую группу привязать?", false)
		case BtnTrainerDetach:
			b.askTrainerGroup(ctx, chatID, userID, sess, dialog.StateTrainerDetach,
				"Какую группу отвязать?", true)
		case BtnTrainerHide:
			if err := b.svc.Trainers.SetActive(ctx, sess.Form.TrainerID, false); err != nil {
				log.WithError(err).Error("Не удалось скрыть тренера")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showTrainerCard(ctx, chatID, userID, sess, "Тренер скрыт.")
		case BtnTrainerActivate:
			if err := b.svc.Trainers.SetActive(ctx, sess.Form.TrainerID, true); err != nil {
				log.WithError(err).Error("Не удалось активировать тренера")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showTrainerCard(ctx, chatID, userID, sess, "Тренер снова активен ✅")
		case BtnBack:
			sess.State = dialog.StateTrainerMenu
			b.sessions.Put(userID, sess)
			b.send(chatID, "Тренеры: что делаем?", trainersMenuKeyboard())
		default:
			b.send(chatID, "Выберите действие кнопкой.", nil)
		}

	case dialog.StateTrainerRename:
		name := strings.TrimSpace(text)
		if name == "" {
			b.send(chatID, "Введите ФИО текстом.", cancelKeyboard())
			return
		}
		if err := b.svc.Trainers.Rename(ctx, sess.Form.TrainerID, name); err != nil {
			log.WithError(err).Error("Не удалось переименовать тренера")
			b.send(chatID, "Не получилось переименовать, попробуйте ещё раз.", cancelKeyboard())
			return
		}
		sess.Form.TrainerName = name
		b.showTrainerCard(ctx, chatID, userID, sess, "Тренер переименован ✅")

	case dialog.StateTrainerAttach:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		if err := b.svc.Groups.AssignTrainer(ctx, opt.ID, sess.Form.TrainerID); err != nil {
			log.WithError(err).Error("Не удалось привязать группу")
			b.send(chatID, "Не получилось привязать группу.", nil)
			return
		}
		sess.Options = nil
		b.showTrainerCard(ctx, chatID, userID, sess, "Группа «"+opt.Label+"» привязана ✅")

	case dialog.StateTrainerDetach:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		if err := b.svc.Groups.RemoveTrainer(ctx, opt.ID); err != nil {
			log.WithError(err).Error("Не удалось отвязать группу")
			b.send(chatID, "Не получилось отвязать группу.", nil)
			return
		}
		sess.Options = nil
		b.showTrainerCard(ctx, chatID, userID, sess, "Группа «"+opt.Label+"» отвязана.")
	}
}

func (b *Bot) showTrainerList(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	list, err := b.svc.Trainers.List(ctx, false)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить тренеров")
		b.finishToMenu(chatID, userID, "Не удалось загрузить тренеров.")
		return
	}
	if len(list) == 0 {
		b.send(chatID, "Тренеров пока нет — добавьте первого.", trainersMenuKeyboard())
		return
	}
	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(list))
	for _, t := range list {
		label := t.FullName
		if !t.IsActive {
			label += " (скрыт)"
		}
		sess.Options = append(sess.Options, dialog.Option{ID: t.ID, Label: label})
		labels = append(labels, label)
	}
	sess.State = dialog.StateTrainerListPick
	b.sessions.Put(userID, sess)
	b.send(chatID, "Выберите тренера:", optionsKeyboard(labels))
}

func (b *Bot) showTrainerCard(ctx context.Context, chatID, userID int64, sess dialog.Session, note string) {
	t, err := b.svc.Trainers.GetByID(ctx, sess.Form.TrainerID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить тренера")
		b.finishToMenu(chatID, userID, "Не удалось загрузить тренера.")
		return
	}
	sess.Form.TrainerName = t.FullName

	var sb strings.Builder
	if note != "" {
		sb.WriteString(note + "\n\n")
	}
	fmt.Fprintf(&sb, "🧑‍🏫 %s", t.FullName)
	if !t.IsActive {
		sb.WriteString(" (скрыт)")
	}
	sb.WriteByte('\n')
	if t.Phone != "" {
		sb.WriteString("Телефон: " + t.Phone + "\n")
	}

	gs, err := b.svc.Groups.ListByTrainer(ctx, t.ID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить группы тренера")
	} else if len(gs) == 0 {
		sb.WriteString("Группы не привязаны.")
	} else {
		sb.WriteString("Группы:\n")
		for _, g := range gs {
			sb.WriteString("• " + g.Name + "\n")
		}
	}

	sess.State = dialog.StateTrainerCard
	b.sessions.Put(userID, sess)
	b.send(chatID, strings.TrimRight(sb.String(), "\n"), trainerCardKeyboard(t.IsActive))
}

// askTrainerGroup предлагает группы на выбор; onlyOwn — только уже
// привязанные к тренеру (для отвязки).
func (b *Bot) askTrainerGroup(ctx context.Context, chatID, userID int64, sess dialog.Session, next dialog.State, prompt string, onlyOwn bool) {
	var (
		opts   []dialog.Option
		labels []string
	)
	if onlyOwn {
		gs, err := b.svc.Groups.ListByTrainer(ctx, sess.Form.TrainerID)
		if err != nil {
			log.WithError(err).Error("Не удалось загрузить группы тренера")
			b.finishToMenu(chatID, userID, "Не удалось загрузить группы.")
			return
		}
		for _, g := range gs {
			opts = append(opts, dialog.Option{ID: g.ID, Label: g.Name})
			labels = append(labels, g.Name)
		}
	} else {
		var err error
		opts, labels, err = b.groupOptions(ctx)
		if err != nil {
			b.finishToMenu(chatID, userID, "Не удалось загрузить группы.")
			return
		}
	}
	if len(labels) == 0 {
		b.showTrainerCard(ctx, chatID, userID, sess, "Подходящих групп нет.")
		return
	}
	sess.Options = opts
	sess.State = next
	b.sessions.Put(userID, sess)
	b.send(chatID, prompt, optionsKeyboard(labels))
}
