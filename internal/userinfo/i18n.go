package userinfo

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var english = map[string]string{
	"Direct_Message":             "Direct Message",
	"Edit":                       "Edit",
	"Make_Admin":                 "Make Admin",
	"Remove_Admin":               "Remove Admin",
	"Delete":                     "Delete",
	"Deleted":                    "Deleted!",
	"Activate":                   "Activate",
	"Deactivate":                 "Deactivate",
	"Are_you_sure":               "Are you sure?",
	"Cancel":                     "Cancel",
	"Ok":                         "Ok",
	"Reason":                     "Reason",
	"User_has_been_deleted":      "User has been deleted",
	"User_is_now_an_admin":       "User is now an admin",
	"User_is_no_longer_an_admin": "User is no longer an admin",
	"User_has_been_activated":    "User has been activated",
	"User_has_been_deactivated":  "User has been deactivated",
	"User_not_found":             "User not found",
	"Yes_deactivate_it":          "Yes, deactivate it!",
	"Delete_User_Warning_Delete": "Deleting a user will delete all messages from that user as well. This cannot be undone.",
	"Delete_User_Warning_Unlink": "Deleting a user will remove the user name from all their messages. This cannot be undone.",
	"Delete_User_Warning_Keep":   "The user will be deleted, but their messages will remain visible. This cannot be undone.",
	"Owner_Change_Warning":       "A new owner will be assigned automatically to these rooms: %s",
	"Rooms_Removed_Warning":      "The following rooms will be removed: %s",
	"Last_Owner_Warning":         "This user is the last owner of some rooms.",
	"Loading":                    "Loading...",
}

// Translator renders message keys for one locale. Unknown keys render as themselves.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator accepts a BCP 47 tag or an Accept-Language header value.
func NewTranslator(locale string) *Translator {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range english {
		builder.SetString(language.English, key, msg)
	}

	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		tag = parsed
	} else if tags, _, err := language.ParseAcceptLanguage(locale); err == nil && len(tags) > 0 {
		tag = tags[0]
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

func (t *Translator) T(key string, args ...interface{}) string {
	return t.printer.Sprintf(message.Key(key, key), args...)
}

func (t *Translator) Language() language.Tag {
	return t.tag
}
