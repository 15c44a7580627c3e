package service

import "github.com/dtroode/hypecard-server/internal/model"

// CanCreate reports whether user may create another video given how many
// records they already own.
func CanCreate(user model.User, existing int) error {
	if user.IsPro || existing == 0 {
		return nil
	}
	return model.NewErrForbidden(model.MsgFreeTierLimit)
}

// CanDelete requires Pro status first and ownership second.
func CanDelete(user model.User, record model.VideoRecord) error {
	if !user.IsPro {
		return model.NewErrForbidden(model.MsgDeleteRequiresPro)
	}
	if record.UserID != user.ID {
		return model.NewErrForbidden(model.MsgDeleteNotOwner)
	}
	return nil
}

// CanView allows every existing record: cards are shared by id.
func CanView(model.VideoRecord) bool {
	return true
}
