// Package dialog — session.go: таблица диалоговых сессий.
// Сессия живёт в памяти процесса и не переживает перезапуск —
// брошенный на середине диалог безопасно начать заново.
package dialog

import (
	"sync"
	"time"
)

// Session — состояние диалога одного пользователя.
type Session struct {
	State     State
	Form      Form
	Options   []Option // варианты выбора, построенные для текущего вопроса
	UpdatedAt time.Time
}

// PickOption находит вариант по подписи среди построенных для текущего
// вопроса. Ввод, не совпадающий ни с одной подписью, отклоняется —
// это защита от устаревшего выбора после изменения данных.
func (s *Session) PickOption(label string) (Option, bool) {
	for _, opt := range s.Options {
		if opt.Label == label {
			return opt, true
		}
	}
	return Option{}, false
}

// Store — таблица сессий, ключ — telegram user id.
// Разные пользователи обрабатываются параллельно, поэтому доступ под мьютексом.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
}

// NewStore создаёт таблицу сессий с заданным временем жизни.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
	}
}

// Get возвращает копию сессии пользователя.
// Если сессии нет или она протухла — пустая сессия в StateIdle.
func (s *Store) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || time.Since(sess.UpdatedAt) > s.ttl {
		return Session{State: StateIdle}
	}
	return *sess
}

// Put сохраняет сессию пользователя и обновляет отметку активности.
func (s *Store) Put(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = time.Now()
	stored := sess
	s.sessions[userID] = &stored
}

// Begin начинает новый процесс: прежняя анкета безусловно выбрасывается.
// Возвращает свежую сессию в заданном состоянии.
func (s *Store) Begin(userID int64, state State) Session {
	sess := Session{State: state}
	s.Put(userID, sess)
	return sess
}

// Clear удаляет сессию (отмена, завершение, отказ в доступе).
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Sweep удаляет протухшие сессии и возвращает их количество.
// Вызывается планировщиком, чтобы память не копилась от брошенных диалогов.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len возвращает число живых сессий (для логов планировщика).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
