package dispatch

import (
	"testing"

	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/intent"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSchedules(f *fixture) {
	f.store.schedules = []db.Schedule{
		{ID: 1, Task: "rapat kemarin", Time: "2026-01-12 14:00:00", UserID: usr, IsReminded: true},
		{ID: 2, Task: "meeting", Time: "2026-01-13 14:00:00", UserID: usr},
		{ID: 3, Task: "olahraga", Time: "2026-01-14 06:00:00", UserID: usr},
		{ID: 4, Task: "punya orang lain", Time: "2026-01-13 15:00:00", UserID: 7},
	}
	f.store.nextID = 4
}

func TestHandleCreate(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	f.ext.create = intent.Create{Items: []intent.Item{
		{Task: "meeting", Time: "2026-01-13 14:00:00"},
		{Task: "olahraga", Time: "2026-01-14 17:00:00"},
	}}

	reply := f.handle(t, "ingetin meeting jam 2 sama olahraga besok jam 5")

	assert.Equal(t, "Oke noted, udah aku catet ya!"+
		"\n\n📝: meeting\n⏰: HARI INI pukul 14:00"+
		"\n\n📝: olahraga\n⏰: BESOK pukul 17:00", reply)
	assert.Equal(t, []string{"create"}, f.ext.calls)
	require.Len(t, f.store.schedules, 2)
	assert.Equal(t, usr, f.store.schedules[1].UserID)
	assert.False(t, f.store.schedules[1].IsReminded)
}

func TestHandleCreateStoreFailure(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	f.ext.create = intent.Create{Items: []intent.Item{{Task: "meeting", Time: "2026-01-13 14:00:00"}}}
	f.store.err = errors.New("connection refused")

	assert.Equal(t, txtFailedSaveSchedule, f.handle(t, "ingetin meeting jam 2"))
}

func TestHandleDelete(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.del = intent.Delete{ID: 3}

	reply := f.handle(t, "hapus olahraga besok")

	assert.Equal(t, "✅ Jadwal berhasil dihapus!\n\n📝: olahraga\n⏰: BESOK pukul 06:00", reply)
	assert.Equal(t, []string{"create", "delete"}, f.ext.calls)
	_, err := f.store.GetScheduleByID(noCtx, 3)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestHandleDeleteOnlyOffersUpcomingOwnSchedules(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.answer = "ok"

	f.handle(t, "hapus")

	require.Len(t, f.ext.schedules, 2)
	assert.EqualValues(t, 2, f.ext.schedules[0].ID)
	assert.EqualValues(t, 3, f.ext.schedules[1].ID)
}

func TestHandleDeleteForeignSchedule(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.del = intent.Delete{ID: 4}

	assert.Equal(t, txtScheduleNotFound, f.handle(t, "hapus punya orang lain"))
	_, err := f.store.GetScheduleByID(noCtx, 4)
	assert.NoError(t, err)
}

func TestHandleDeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.del = intent.NeedsConfirmation{For: intent.VerbDelete, Details: "Jadwal mana yang mau dihapus?"}

	reply := f.handle(t, "hapus jadwal")

	assert.Equal(t, "❓ Permintaan Hapus Tidak Jelas\n\nJadwal mana yang mau dihapus?\n\nTolong kasih info yang lebih jelas ya, kak!", reply)
	assert.Len(t, f.store.schedules, 4)
	assert.Equal(t, []string{"create", "delete"}, f.ext.calls)
}

func TestHandleEdit(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.edit = intent.Edit{ID: 2, NewTime: "2026-01-13 16:00:00"}

	reply := f.handle(t, "undur meeting jadi jam 4")

	assert.Equal(t, "✏️ Jadwal berhasil diubah!\n\n"+
		"SEBELUM:\n📝: meeting\n⏰: HARI INI pukul 14:00\n\n"+
		"SESUDAH:\n📝: meeting\n⏰: HARI INI pukul 16:00", reply)
	assert.Equal(t, []string{"create", "delete", "edit"}, f.ext.calls)

	s, err := f.store.GetScheduleByID(noCtx, 2)
	require.NoError(t, err)
	assert.Equal(t, "meeting", s.Task)
	assert.Equal(t, "2026-01-13 16:00:00", s.Time)
}

func TestHandleEditNeedsConfirmation(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.edit = intent.NeedsConfirmation{For: intent.VerbEdit, Details: "Mau diubah jadi apa?"}

	reply := f.handle(t, "ubah meeting")

	assert.Contains(t, reply, "❓ Permintaan Ubah Tidak Jelas")
	s, _ := f.store.GetScheduleByID(noCtx, 2)
	assert.Equal(t, "2026-01-13 14:00:00", s.Time)
}

func TestHandleEditMissingSchedule(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.edit = intent.Edit{ID: 99, NewTask: "x"}

	assert.Equal(t, txtScheduleNotFound, f.handle(t, "ubah sesuatu"))
}

func TestHandleFallsThroughToAnswer(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	seedSchedules(f)
	f.ext.answer = "Hari ini ada meeting jam 14:00 kak!"

	reply := f.handle(t, "hari ini ada apa?")

	assert.Equal(t, "Hari ini ada meeting jam 14:00 kak!", reply)
	assert.Equal(t, []string{"create", "delete", "edit", "answer"}, f.ext.calls)
	assert.Len(t, f.ext.schedules, 2)
}

func TestHandleAnswerFailure(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	f.ext.answerErr = errors.New("service down")

	assert.Equal(t, txtCannotAnswer, f.handle(t, "besok ada apa?"))
}

func TestHandleListFailure(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	f.store.err = errors.New("connection refused")

	assert.Equal(t, txtFailedFetch, f.handle(t, "hapus meeting"))
	assert.Equal(t, []string{"create"}, f.ext.calls)
}

func TestHandleReplyFailure(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)
	f.ext.answer = "halo"
	f.notifier.err = errors.New("blocked by user")

	assert.Error(t, f.d.Handle(noCtx, Message{UserID: usr, Text: "halo"}))
}

func TestListSchedules(t *testing.T) {
	f := newFixture(t, intent.DomainSchedule)

	require.NoError(t, f.d.ListSchedules(noCtx, usr))
	assert.Equal(t, txtNoSchedules, f.notifier.last())

	seedSchedules(f)
	require.NoError(t, f.d.ListSchedules(noCtx, usr))
	assert.Equal(t, "📅 Jadwal kamu:\n\n"+
		"1. [HARI INI pukul 14:00] meeting\n"+
		"2. [BESOK pukul 06:00] olahraga", f.notifier.last())
	assert.Empty(t, f.ext.calls)
}
