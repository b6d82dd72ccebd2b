// Package locale holds the user-facing message catalog for the validation
// engine. Messages are keyed by a closed enum and resolved per locale with
// an English fallback, so a missing translation can never surface as an
// empty error string.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locale identifies a supported message language.
type Locale string

const (
	English Locale = "en"
	Korean  Locale = "ko"
	Swahili Locale = "sw"
)

// DefaultLocale is the fallback for unknown or missing locale tags.
const DefaultLocale = English

var supported = []language.Tag{
	language.English, // first entry is the matcher fallback
	language.Korean,
	language.Make("sw"),
}

var matcher = language.NewMatcher(supported)

// Match negotiates a supported Locale from a BCP 47 tag such as "ko-KR"
// or "sw-TZ". Unparseable or unsupported tags resolve to English.
func Match(tag string) Locale {
	if tag == "" {
		return DefaultLocale
	}

	desired, err := language.Parse(tag)
	if err != nil {
		return DefaultLocale
	}

	_, index, _ := matcher.Match(desired)
	switch index {
	case 1:
		return Korean
	case 2:
		return Swahili
	default:
		return English
	}
}

// Key identifies a single message in the catalog.
type Key string

const (
	// Email
	KeyEmailRequired     Key = "email_required"
	KeyEmailTooLong      Key = "email_too_long"
	KeyEmailFormat       Key = "email_format"
	KeyEmailDomain       Key = "email_domain"
	KeyEmailDisposable   Key = "email_disposable"
	KeyEmailEducational  Key = "email_educational"

	// Password
	KeyPasswordRequired   Key = "password_required"
	KeyPasswordTooShort   Key = "password_too_short"
	KeyPasswordTooLong    Key = "password_too_long"
	KeyPasswordUppercase  Key = "password_uppercase"
	KeyPasswordLowercase  Key = "password_lowercase"
	KeyPasswordNumber     Key = "password_number"
	KeyPasswordSpecial    Key = "password_special"
	KeyPasswordRepeats    Key = "password_repeats"
	KeyPasswordCommon     Key = "password_common"
	KeyPasswordUserInfo   Key = "password_user_info"
	KeyPasswordKeyboard   Key = "password_keyboard"
	KeyPasswordMismatch   Key = "password_mismatch"

	// Generic fields
	KeyFieldRequired   Key = "field_required"
	KeyMinLength       Key = "min_length"
	KeyMaxLength       Key = "max_length"
	KeyMinValue        Key = "min_value"
	KeyMaxValue        Key = "max_value"
	KeyPattern         Key = "pattern"
	KeyInvalidURL      Key = "invalid_url"
	KeyInvalidPhone    Key = "invalid_phone"
	KeyInvalidDate     Key = "invalid_date"
	KeyDateTooEarly    Key = "date_too_early"
	KeyDateTooLate     Key = "date_too_late"
	KeyInvalidNumber   Key = "invalid_number"
	KeyInvalidInteger  Key = "invalid_integer"
	KeyInvalidUsername Key = "invalid_username"
	KeyFileTooLarge    Key = "file_too_large"
	KeyFileType        Key = "file_type"
	KeyInvalidAmount   Key = "invalid_amount"
	KeyInvalidStage    Key = "invalid_stage"
	KeyInvalidMission  Key = "invalid_mission"
)

// catalog maps every key to its per-locale templates. English is mandatory
// for every key; TestEveryKeyHasEnglish enforces that.
var catalog = map[Key]map[Locale]string{
	KeyEmailRequired: {
		English: "Email address is required",
		Korean:  "이메일을 입력해 주세요",
		Swahili: "Tafadhali andika barua pepe",
	},
	KeyEmailTooLong: {
		English: "Email address is too long",
		Korean:  "이메일 주소가 너무 깁니다",
		Swahili: "Anwani ya barua pepe ni ndefu mno",
	},
	KeyEmailFormat: {
		English: "Please enter a valid email address",
		Korean:  "올바른 이메일 주소를 입력해 주세요",
		Swahili: "Anwani ya barua pepe si sahihi",
	},
	KeyEmailDomain: {
		English: "Email domain is not valid",
		Korean:  "이메일 도메인이 올바르지 않습니다",
		Swahili: "Kikoa cha barua pepe si sahihi",
	},
	KeyEmailDisposable: {
		English: "Disposable email addresses are not allowed",
		Korean:  "일회용 이메일 주소는 사용할 수 없습니다",
		Swahili: "Barua pepe za muda hazikubaliki",
	},
	KeyEmailEducational: {
		English: "An educational institution email address is required",
		Korean:  "교육기관 이메일 주소가 필요합니다",
		Swahili: "Barua pepe ya taasisi ya elimu inahitajika",
	},
	KeyPasswordRequired: {
		English: "Password is required",
		Korean:  "비밀번호를 입력해 주세요",
		Swahili: "Tafadhali andika nenosiri",
	},
	KeyPasswordTooShort: {
		English: "Password must be at least %d characters",
		Korean:  "비밀번호는 최소 %d자 이상이어야 합니다",
		Swahili: "Nenosiri lazima liwe na angalau herufi %d",
	},
	KeyPasswordTooLong: {
		English: "Password must be at most %d characters",
		Korean:  "비밀번호는 %d자를 초과할 수 없습니다",
		Swahili: "Nenosiri lisizidi herufi %d",
	},
	KeyPasswordUppercase: {
		English: "Password must contain at least one uppercase letter",
		Korean:  "대문자를 하나 이상 포함해야 합니다",
		Swahili: "Ongeza angalau herufi kubwa moja",
	},
	KeyPasswordLowercase: {
		English: "Password must contain at least one lowercase letter",
		Korean:  "소문자를 하나 이상 포함해야 합니다",
		Swahili: "Ongeza angalau herufi ndogo moja",
	},
	KeyPasswordNumber: {
		English: "Password must contain at least one number",
		Korean:  "숫자를 하나 이상 포함해야 합니다",
		Swahili: "Ongeza angalau namba moja",
	},
	KeyPasswordSpecial: {
		English: "Password must contain at least one special character",
		Korean:  "특수문자를 하나 이상 포함해야 합니다",
		Swahili: "Ongeza angalau alama maalum moja",
	},
	KeyPasswordRepeats: {
		English: "Password must not repeat the same character %d or more times in a row",
		Korean:  "같은 문자를 %d번 이상 연속해서 사용할 수 없습니다",
		Swahili: "Usirudie herufi ileile mara %d au zaidi",
	},
	KeyPasswordCommon: {
		English: "This password is too common",
		Korean:  "너무 흔한 비밀번호입니다",
		Swahili: "Nenosiri hili ni la kawaida mno",
	},
	KeyPasswordUserInfo: {
		English: "Password must not contain your personal information",
		Korean:  "비밀번호에 개인 정보를 포함할 수 없습니다",
		Swahili: "Nenosiri lisiwe na taarifa zako binafsi",
	},
	KeyPasswordKeyboard: {
		English: "Password must not contain keyboard patterns",
		Korean:  "키보드 패턴은 사용할 수 없습니다",
		Swahili: "Mpangilio wa kibodi haukubaliki",
	},
	KeyPasswordMismatch: {
		English: "Passwords do not match",
		Korean:  "비밀번호가 일치하지 않습니다",
		Swahili: "Manenosiri hayalingani",
	},
	KeyFieldRequired: {
		English: "This field is required",
		Korean:  "필수 입력 항목입니다",
		Swahili: "Sehemu hii inahitajika",
	},
	KeyMinLength: {
		English: "Must be at least %d characters",
		Korean:  "최소 %d자 이상 입력해 주세요",
		Swahili: "Andika angalau herufi %d",
	},
	KeyMaxLength: {
		English: "Must be at most %d characters",
		Korean:  "최대 %d자까지 입력할 수 있습니다",
		Swahili: "Usizidi herufi %d",
	},
	KeyMinValue: {
		English: "Must be at least %v",
		Korean:  "%v 이상이어야 합니다",
		Swahili: "Thamani iwe angalau %v",
	},
	KeyMaxValue: {
		English: "Must be at most %v",
		Korean:  "%v 이하여야 합니다",
		Swahili: "Thamani isizidi %v",
	},
	KeyPattern: {
		English: "Invalid format",
		Korean:  "형식이 올바르지 않습니다",
		Swahili: "Muundo si sahihi",
	},
	KeyInvalidURL: {
		English: "Please enter a valid URL",
		Korean:  "올바른 URL을 입력해 주세요",
		Swahili: "URL si sahihi",
	},
	KeyInvalidPhone: {
		English: "Please enter a valid phone number",
		Korean:  "올바른 전화번호를 입력해 주세요",
		Swahili: "Namba ya simu si sahihi",
	},
	KeyInvalidDate: {
		English: "Please enter a valid date",
		Korean:  "올바른 날짜를 입력해 주세요",
		Swahili: "Tarehe si sahihi",
	},
	KeyDateTooEarly: {
		English: "Date must be on or after %s",
		Korean:  "%s 이후 날짜여야 합니다",
		Swahili: "Tarehe iwe baada ya %s",
	},
	KeyDateTooLate: {
		English: "Date must be on or before %s",
		Korean:  "%s 이전 날짜여야 합니다",
		Swahili: "Tarehe iwe kabla ya %s",
	},
	KeyInvalidNumber: {
		English: "Please enter a valid number",
		Korean:  "숫자를 입력해 주세요",
		Swahili: "Andika namba",
	},
	KeyInvalidInteger: {
		English: "Please enter a whole number",
		Korean:  "정수를 입력해 주세요",
		Swahili: "Andika namba kamili",
	},
	KeyInvalidUsername: {
		English: "Username must start with a letter and be 3-20 characters (letters, numbers, underscores)",
		Korean:  "사용자 이름은 영문자로 시작하는 3~20자여야 합니다",
		Swahili: "Jina la mtumiaji lianze na herufi, liwe na herufi 3 hadi 20",
	},
	KeyFileTooLarge: {
		English: "File size must not exceed %s",
		Korean:  "파일 크기는 %s를 초과할 수 없습니다",
		Swahili: "Ukubwa wa faili usizidi %s",
	},
	KeyFileType: {
		English: "File type is not allowed",
		Korean:  "허용되지 않는 파일 형식입니다",
		Swahili: "Aina ya faili haikubaliki",
	},
	KeyInvalidAmount: {
		English: "Amount must be greater than zero",
		Korean:  "0보다 큰 금액을 입력해 주세요",
		Swahili: "Kiasi lazima kiwe zaidi ya sifuri",
	},
	KeyInvalidStage: {
		English: "Stage number must be between %d and %d",
		Korean:  "스테이지 번호는 %d에서 %d 사이여야 합니다",
		Swahili: "Namba ya hatua iwe kati ya %d na %d",
	},
	KeyInvalidMission: {
		English: "Invalid mission ID format",
		Korean:  "올바른 미션 ID 형식이 아닙니다",
		Swahili: "Muundo wa kitambulisho cha misheni si sahihi",
	},
}

// T resolves key in the given locale and formats it with args. Unknown
// keys return the key itself so a catalog gap is visible, not silent.
func T(loc Locale, key Key, args ...interface{}) string {
	templates, ok := catalog[key]
	if !ok {
		return string(key)
	}

	template, ok := templates[loc]
	if !ok {
		template = templates[English]
	}

	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// Keys returns every message key in the catalog. Used by tests to verify
// catalog completeness.
func Keys() []Key {
	keys := make([]Key, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	return keys
}
