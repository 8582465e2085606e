// flow_schedule.go — расписание группы: добавление, правка, удаление слотов.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/groups"
)

const defaultSlotDurationMin = 60

func slotLabel(sl groups.ScheduleSlot) string {
	label := fmt.Sprintf("%s %s (%d мин)", groups.WeekdayLabel(sl.Weekday), sl.StartTime, sl.DurationMin)
	if !sl.IsActive {
		label += " ⛔️"
	}
	return label
}

func (b *Bot) flowSchedule(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateScheduleMenu:
		switch text {
		case BtnScheduleAdd:
			labels := make([]string, 0, 7)
			for wd := 1; wd <= 7; wd++ {
				labels = append(labels, groups.WeekdayLabel(wd))
			}
			sess.State = dialog.StateScheduleWeekday
			b.sessions.Put(userID, sess)
			b.send(chatID, "День недели?", weekdayKeyboard(labels))
		case BtnScheduleEdit:
			b.askSlotPick(ctx, chatID, userID, sess, dialog.StateScheduleEditPick, "Какое занятие изменить?")
		case BtnScheduleDelete:
			b.askSlotPick(ctx, chatID, userID, sess, dialog.StateScheduleDeletePick, "Какое занятие удалить?")
		case BtnBack:
			b.showGroupCard(ctx, chatID, userID, sess, "")
		default:
			b.send(chatID, "Выберите действие кнопкой.", scheduleMenuKeyboard())
		}

	case dialog.StateScheduleWeekday:
		wd, ok := groups.ParseWeekday(text)
		if !ok {
			b.send(chatID, "Выберите день недели кнопкой.", nil)
			return
		}
		sess.Form.Weekday = wd
		sess.State = dialog.StateScheduleTime
		b.sessions.Put(userID, sess)
		b.send(chatID, "Время начала (ЧЧ:ММ):", cancelKeyboard())

	case dialog.StateScheduleTime:
		t, err := common.ParseTimeHHMM(text)
		if err != nil {
			b.send(chatID, "Не понял время, формат ЧЧ:ММ, например 18:30.", cancelKeyboard())
			return
		}
		sess.Form.StartTime = t
		sess.State = dialog.StateScheduleDuration
		b.sessions.Put(userID, sess)
		b.send(chatID, fmt.Sprintf("Длительность в минутах, либо «Пропустить» (%d).", defaultSlotDurationMin), skipKeyboard())

	case dialog.StateScheduleDuration:
		dur := defaultSlotDurationMin
		if text != BtnSkip {
			n, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || n <= 0 {
				b.send(chatID, "Введите число минут больше нуля или нажмите «Пропустить».", skipKeyboard())
				return
			}
			dur = n
		}
		_, err := b.svc.Groups.AddSlot(ctx, sess.Form.GroupID, sess.Form.Weekday, sess.Form.StartTime, dur)
		if errors.Is(err, common.ErrScheduleSlotExists) {
			b.backToScheduleMenu(chatID, userID, sess, "Такое занятие уже есть в расписании.")
			return
		}
		if err != nil {
			log.WithError(err).Error("Не удалось добавить занятие")
			b.backToScheduleMenu(chatID, userID, sess, "Не получилось добавить занятие, попробуйте позже.")
			return
		}
		b.backToScheduleMenu(chatID, userID, sess, fmt.Sprintf("Занятие %s %s добавлено ✅",
			groups.WeekdayLabel(sess.Form.Weekday), sess.Form.StartTime))

	case dialog.StateScheduleEditPick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите занятие кнопкой из списка.", nil)
			return
		}
		sess.Form.SlotID = opt.ID
		sess.Options = nil
		b.showSlotEdit(ctx, chatID, userID, sess, "")

	case dialog.StateScheduleEditField:
		switch text {
		case BtnScheduleTime:
			sess.Form.EditField = "time"
			sess.State = dialog.StateScheduleEditValue
			b.sessions.Put(userID, sess)
			b.send(chatID, "Новое время начала (ЧЧ:ММ):", cancelKeyboard())
		case BtnScheduleDuration:
			sess.Form.EditField = "duration"
			sess.State = dialog.StateScheduleEditValue
			b.sessions.Put(userID, sess)
			b.send(chatID, "Новая длительность в минутах:", cancelKeyboard())
		case BtnScheduleDisable:
			if err := b.svc.Groups.SetSlotActive(ctx, sess.Form.SlotID, false); err != nil {
				log.WithError(err).Error("Не удалось отключить занятие")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showSlotEdit(ctx, chatID, userID, sess, "Занятие отключено.")
		case BtnScheduleEnable:
			if err := b.svc.Groups.SetSlotActive(ctx, sess.Form.SlotID, true); err != nil {
				log.WithError(err).Error("Не удалось включить занятие")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", nil)
				return
			}
			b.showSlotEdit(ctx, chatID, userID, sess, "Занятие снова в расписании ✅")
		case BtnBack:
			b.backToScheduleMenu(chatID, userID, sess, "Расписание группы «"+sess.Form.GroupName+"»:")
		default:
			b.send(chatID, "Выберите действие кнопкой.", nil)
		}

	case dialog.StateScheduleEditValue:
		switch sess.Form.EditField {
		case "time":
			t, err := common.ParseTimeHHMM(text)
			if err != nil {
				b.send(chatID, "Не понял время, формат ЧЧ:ММ.", cancelKeyboard())
				return
			}
			if err := b.svc.Groups.UpdateSlotTime(ctx, sess.Form.SlotID, t); err != nil {
				if errors.Is(err, common.ErrScheduleSlotExists) {
					b.send(chatID, "На это время у группы уже есть занятие, выберите другое.", cancelKeyboard())
					return
				}
				log.WithError(err).Error("Не удалось изменить время занятия")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", cancelKeyboard())
				return
			}
		case "duration":
			n, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || n <= 0 {
				b.send(chatID, "Введите число минут больше нуля.", cancelKeyboard())
				return
			}
			if err := b.svc.Groups.UpdateSlotDuration(ctx, sess.Form.SlotID, n); err != nil {
				log.WithError(err).Error("Не удалось изменить длительность")
				b.send(chatID, "Не получилось, попробуйте ещё раз.", cancelKeyboard())
				return
			}
		}
		sess.Form.EditField = ""
		b.showSlotEdit(ctx, chatID, userID, sess, "Занятие обновлено ✅")

	case dialog.StateScheduleDeletePick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите занятие кнопкой из списка.", nil)
			return
		}
		sess.Form.SlotID = opt.ID
		sess.Options = nil
		sess.State = dialog.StateScheduleDeleteOK
		b.sessions.Put(userID, sess)
		b.send(chatID, "Удалить занятие «"+opt.Label+"»? Прошлые посещения сохранятся.", scheduleDeleteConfirmKeyboard())

	case dialog.StateScheduleDeleteOK:
		if text != BtnScheduleDeleteOK {
			b.send(chatID, "Нажмите «✅ Да удалить» или «❌ Отмена».", scheduleDeleteConfirmKeyboard())
			return
		}
		if err := b.svc.Groups.DeleteSlot(ctx, sess.Form.SlotID); err != nil {
			log.WithError(err).Error("Не удалось удалить занятие")
			b.backToScheduleMenu(chatID, userID, sess, "Не получилось удалить занятие.")
			return
		}
		b.backToScheduleMenu(chatID, userID, sess, "Занятие удалено 🗑")
	}
}

func (b *Bot) askSlotPick(ctx context.Context, chatID, userID int64, sess dialog.Session, next dialog.State, prompt string) {
	slots, err := b.svc.Groups.ListSlots(ctx, sess.Form.GroupID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить расписание")
		b.backToScheduleMenu(chatID, userID, sess, "Не удалось загрузить расписание.")
		return
	}
	if len(slots) == 0 {
		b.backToScheduleMenu(chatID, userID, sess, "У группы пока нет расписания.")
		return
	}
	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(slots))
	for _, sl := range slots {
		label := slotLabel(sl)
		sess.Options = append(sess.Options, dialog.Option{ID: sl.ID, Label: label})
		labels = append(labels, label)
	}
	sess.State = next
	b.sessions.Put(userID, sess)
	b.send(chatID, prompt, optionsKeyboard(labels))
}

func (b *Bot) showSlotEdit(ctx context.Context, chatID, userID int64, sess dialog.Session, note string) {
	slots, err := b.svc.Groups.ListSlots(ctx, sess.Form.GroupID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить расписание")
		b.backToScheduleMenu(chatID, userID, sess, "Не удалось загрузить расписание.")
		return
	}
	var slot *groups.ScheduleSlot
	for i := range slots {
		if slots[i].ID == sess.Form.SlotID {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		b.backToScheduleMenu(chatID, userID, sess, "Занятие не найдено.")
		return
	}
	text := slotLabel(*slot)
	if note != "" {
		text = note + "\n" + text
	}
	sess.State = dialog.StateScheduleEditField
	b.sessions.Put(userID, sess)
	b.send(chatID, text, scheduleEditKeyboard(slot.IsActive))
}

func (b *Bot) backToScheduleMenu(chatID, userID int64, sess dialog.Session, text string) {
	sess.Options = nil
	sess.State = dialog.StateScheduleMenu
	b.sessions.Put(userID, sess)
	b.send(chatID, text, scheduleMenuKeyboard())
}
