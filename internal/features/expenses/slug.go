package expenses

import (
	"strings"
	"unicode"
)

// Таблица транслитерации кириллицы для машинных кодов категорий.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// CategoryCode выводит машинный код из названия категории:
// транслитерация, нижний регистр, всё, кроме букв и цифр, — в «_»,
// повторы подчёркиваний схлопываются, края обрезаются.
// «Аренда зала» → «arenda_zala».
func CategoryCode(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case translit[r] != "" || r == 'ъ' || r == 'ь':
			b.WriteString(translit[r])
		case r >= 'a' && r <= 'z' || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	code := b.String()
	for strings.Contains(code, "__") {
		code = strings.ReplaceAll(code, "__", "_")
	}
	code = strings.Trim(code, "_")
	if code == "" {
		code = "category"
	}
	return code
}
