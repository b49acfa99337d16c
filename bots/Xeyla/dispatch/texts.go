package dispatch

const (
	txtCreated              = "Oke noted, udah aku catet ya!"
	txtFailedSaveSchedule   = "❌ Gagal menyimpan jadwal, coba lagi ya!"
	txtScheduleNotFound     = "❌ Jadwal tidak ditemukan!"
	txtFailedDelete         = "❌ Gagal menghapus jadwal, coba lagi ya!"
	txtFailedEdit           = "❌ Gagal mengubah jadwal, coba lagi ya!"
	txtFailedFetch          = "❌ Gagal mengambil data, coba lagi ya!"
	txtFailedRecord         = "❌ Gagal mencatat transaksi, coba lagi ya!"
	txtFailedReport         = "❌ Gagal membuat laporan, coba lagi ya!"
	txtCannotAnswer         = "Maaf kak, aku lagi nggak bisa jawab sekarang. Coba lagi bentar ya!"
	txtNoSchedules          = "📭 Belum ada jadwal nih, kak."
	txtYourSchedules        = "📅 Jadwal kamu:\n\n"
	txtFinanceNotUnderstood = "🤔 Aku belum paham maksudnya. Coba tulis misalnya \"makan siang 25rb\" atau \"saldo aku berapa?\""
	txtNoExpensesToday      = "Tidak ada pengeluaran hari ini!"
	txtNoIncomeToday        = "Tidak ada pemasukan hari ini!"
	txtExpensesToday        = "💸 PENGELUARAN HARI INI\n\n"
	txtIncomeToday          = "💰 PEMASUKAN HARI INI\n\n"
	txtRecentTransactions   = "\n\n🧾 Transaksi terakhir:\n"

	fmtCreatedItem     = "\n\n📝: %s\n⏰: %s"
	fmtWhen            = "%s pukul %s"
	fmtDeleted         = "✅ Jadwal berhasil dihapus!\n\n📝: %s\n⏰: %s"
	fmtEdited          = "✏️ Jadwal berhasil diubah!\n\nSEBELUM:\n📝: %s\n⏰: %s\n\nSESUDAH:\n📝: %s\n⏰: %s"
	fmtUnclearDelete   = "❓ Permintaan Hapus Tidak Jelas\n\n%s\n\nTolong kasih info yang lebih jelas ya, kak!"
	fmtUnclearEdit     = "❓ Permintaan Ubah Tidak Jelas\n\n%s\n\nTolong kasih info yang lebih jelas ya, kak!"
	fmtUnclearRecord   = "❓ Transaksi Belum Jelas\n\n%s\n\nTolong kasih info yang lebih jelas ya, kak!"
	fmtRecordedExpense = "💸 Pengeluaran Tercatat!\n\n💰 Jumlah: %s\n🏷️ Kategori: %s\n📝 Keterangan: %s"
	fmtRecordedIncome  = "💰 Pemasukan Tercatat!\n\n💰 Jumlah: %s\n🏷️ Kategori: %s\n📝 Keterangan: %s"
	fmtBalance         = "💰 RINGKASAN SALDO\n\n📈 Total Pemasukan: %s\n📉 Total Pengeluaran: %s\n━━━━━━━━━━━━\n💵 Saldo: %s"
	fmtTransactionLine = "%d. %s (%s) - %s\n"
	fmtTotal           = "\nTotal: %s"
	fmtSummary         = "📊 RINGKASAN KEUANGAN\n\nKeseluruhan:\n📈 Pemasukan: %s\n📉 Pengeluaran: %s\n💵 Saldo: %s\n\nHari ini (%s):\n📈 Pemasukan: %s\n📉 Pengeluaran: %s\n💵 Selisih: %s"
	fmtNoReportData    = "📭 Belum ada transaksi di %s, jadi laporannya belum bisa dibuat."
)

const recentTransactions = 5
