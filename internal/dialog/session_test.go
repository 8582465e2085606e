package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreGetReturnsIdleForUnknownUser(t *testing.T) {
	s := NewStore(time.Minute)
	sess := s.Get(42)
	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Options)
}

func TestStorePutAndGet(t *testing.T) {
	s := NewStore(time.Minute)

	sess := Session{State: StateClientName}
	sess.Form.Phone = "+79001234567"
	s.Put(7, sess)

	got := s.Get(7)
	assert.Equal(t, StateClientName, got.State)
	assert.Equal(t, "+79001234567", got.Form.Phone)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(7, Session{State: StateClientName})

	got := s.Get(7)
	got.Form.Phone = "изменено локально"

	assert.Empty(t, s.Get(7).Form.Phone)
}

func TestStoreBeginDropsOldForm(t *testing.T) {
	s := NewStore(time.Minute)

	old := Session{State: StatePaymentAmount}
	old.Form.Amount = 5000
	s.Put(7, old)

	fresh := s.Begin(7, StateClientPhone)
	assert.Equal(t, StateClientPhone, fresh.State)
	assert.Zero(t, fresh.Form.Amount)
	assert.Zero(t, s.Get(7).Form.Amount)
}

func TestStoreExpiredSessionIsIdle(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	s.Put(7, Session{State: StateClientName})

	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, StateIdle, s.Get(7).State)
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	s.Put(1, Session{State: StateClientName})
	s.Put(2, Session{State: StateBookingKind})

	time.Sleep(30 * time.Millisecond)
	s.Put(3, Session{State: StatePassMenu})

	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, StatePassMenu, s.Get(3).State)
}

func TestStoreClear(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(7, Session{State: StateClientName})
	s.Clear(7)
	assert.Equal(t, StateIdle, s.Get(7).State)
	assert.Equal(t, 0, s.Len())
}

func TestPickOption(t *testing.T) {
	sess := Session{Options: []Option{
		{ID: 1, Label: "Йога"},
		{ID: 2, Label: "Пилатес"},
	}}

	opt, ok := sess.PickOption("Пилатес")
	assert.True(t, ok)
	assert.Equal(t, int64(2), opt.ID)

	_, ok = sess.PickOption("Бокс")
	assert.False(t, ok)
}

func TestStateFlow(t *testing.T) {
	assert.Equal(t, "client", StateClientPhone.Flow())
	assert.Equal(t, "passext", StatePassExtPick.Flow())
	assert.Equal(t, "", StateIdle.Flow())
}
