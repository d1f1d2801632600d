package domain

// MessageID keys a localizable user-facing string. Mutations reference IDs,
// never literal text, so the rendering layer can swap catalogs.
type MessageID string

const (
	MsgGenericSuccess        MessageID = "generic_success"
	MsgGenericFailure        MessageID = "generic_failure"
	MsgLoginFailed           MessageID = "login_failed"
	MsgRegisterFailed        MessageID = "register_failed"
	MsgOTPInvalid            MessageID = "otp_invalid"
	MsgArticleSaveFailed     MessageID = "article_save_failed"
	MsgArticleDeleteFailed   MessageID = "article_delete_failed"
	MsgCommunitySaveFailed   MessageID = "community_save_failed"
	MsgCommunityJoinFailed   MessageID = "community_join_failed"
	MsgCommunityLeaveFailed  MessageID = "community_leave_failed"
	MsgCommunityDeleteFailed MessageID = "community_delete_failed"
	MsgCommunityNotFound     MessageID = "community_not_found"
	MsgPostSaveFailed        MessageID = "post_save_failed"
	MsgPostDeleteFailed      MessageID = "post_delete_failed"
	MsgPostLikeFailed        MessageID = "post_like_failed"
	MsgCommentSaveFailed     MessageID = "comment_save_failed"
	MsgCommentDeleteFailed   MessageID = "comment_delete_failed"
	MsgPredictionFailed      MessageID = "prediction_failed"
	MsgProfileUpdateFailed   MessageID = "profile_update_failed"
	MsgAccountDeleteFailed   MessageID = "account_delete_failed"
)

// MessageCatalog resolves a MessageID into display text.
type MessageCatalog interface {
	Lookup(id MessageID) string
}

// IndonesianCatalog is the default catalog, matching the messages the Orza
// API and web client ship with.
type IndonesianCatalog struct{}

var indonesianMessages = map[MessageID]string{
	MsgGenericSuccess:        "Berhasil",
	MsgGenericFailure:        "Terjadi kesalahan, silakan coba lagi",
	MsgLoginFailed:           "Gagal masuk, periksa email dan kata sandi Anda",
	MsgRegisterFailed:        "Pendaftaran gagal, silakan coba lagi",
	MsgOTPInvalid:            "Kode OTP harus terdiri dari 6 digit",
	MsgArticleSaveFailed:     "Gagal menyimpan artikel",
	MsgArticleDeleteFailed:   "Gagal menghapus artikel",
	MsgCommunitySaveFailed:   "Gagal menyimpan komunitas",
	MsgCommunityJoinFailed:   "Gagal bergabung dengan komunitas",
	MsgCommunityLeaveFailed:  "Gagal keluar dari komunitas",
	MsgCommunityDeleteFailed: "Gagal menghapus komunitas",
	MsgCommunityNotFound:     "Komunitas tidak ditemukan",
	MsgPostSaveFailed:        "Gagal menyimpan postingan",
	MsgPostDeleteFailed:      "Gagal menghapus postingan",
	MsgPostLikeFailed:        "Gagal menyukai postingan",
	MsgCommentSaveFailed:     "Gagal menyimpan komentar",
	MsgCommentDeleteFailed:   "Gagal menghapus komentar",
	MsgPredictionFailed:      "Gagal memproses prediksi",
	MsgProfileUpdateFailed:   "Gagal memperbarui profil",
	MsgAccountDeleteFailed:   "Gagal menghapus akun",
}

func (IndonesianCatalog) Lookup(id MessageID) string {
	if msg, ok := indonesianMessages[id]; ok {
		return msg
	}
	return indonesianMessages[MsgGenericFailure]
}
