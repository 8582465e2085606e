package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyboardHasButton(kb tgbotapi.ReplyKeyboardMarkup, label string) bool {
	for _, row := range kb.Keyboard {
		for _, b := range row {
			if b.Text == label {
				return true
			}
		}
	}
	return false
}

func TestMainMenuKeyboardOwnerRow(t *testing.T) {
	admin := mainMenuKeyboard(true)
	plain := mainMenuKeyboard(false)

	assert.Len(t, admin.Keyboard, len(plain.Keyboard)+1)
	assert.True(t, keyboardHasButton(admin, BtnAdmins))
	assert.False(t, keyboardHasButton(plain, BtnAdmins))
}

func TestListRows(t *testing.T) {
	rows := listRows([]string{"Йога", "Бокс"}, BtnBack)
	require.Len(t, rows, 3)
	assert.Equal(t, "Йога", rows[0][0].Text)
	assert.Equal(t, "Бокс", rows[1][0].Text)
	assert.Equal(t, BtnBack, rows[2][0].Text)
}

func TestNewClientPhoneKeyboardRequestsContact(t *testing.T) {
	kb := newClientPhoneKeyboard()

	var found bool
	for _, row := range kb.Keyboard {
		for _, b := range row {
			if b.RequestContact {
				found = true
			}
		}
	}
	assert.True(t, found, "ожидалась кнопка запроса контакта")
}

// Кнопки внутри диалогов не должны повторять пункты главного меню:
// главное меню разбирается раньше состояния сессии, и совпадающая
// подпись выдёргивает пользователя из текущего процесса.
func TestFlowButtonsDoNotShadowMainMenu(t *testing.T) {
	mainMenu := map[string]bool{
		BtnNewClient: true, BtnFindClient: true, BtnBook: true,
		BtnAttendance: true, BtnPayment: true, BtnPass: true,
		BtnExpenses: true, BtnReports: true, BtnTrainers: true,
		BtnGroups: true, BtnAdmins: true,
	}
	inFlow := []string{
		BtnCardBook, BtnCardAttendance, BtnCardPayment, BtnCardPass,
		BtnPassIssue, BtnPassExtend, BtnPassPayNow, BtnPassBackToMenu,
		BtnReportRevenue, BtnReportExpenses, BtnReportProfit,
		BtnReportAttendance, BtnReportPasses, BtnReportSingles,
		BtnReportDefers, BtnReportExcel,
		BtnExpenseAdd, BtnExpenseList, BtnExpenseCategories, BtnExpenseRepeat,
		BtnTrainerAdd, BtnTrainerList, BtnGroupCreate, BtnGroupList,
	}
	for _, label := range inFlow {
		assert.False(t, mainMenu[label], "кнопка %q совпадает с пунктом главного меню", label)
	}
}

func TestPaymentMethodKeyboardDeferToggle(t *testing.T) {
	assert.True(t, keyboardHasButton(paymentMethodKeyboard(true), BtnMethodDefer))
	assert.False(t, keyboardHasButton(paymentMethodKeyboard(false), BtnMethodDefer))
}
