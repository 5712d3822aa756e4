package locale

import (
	"unicode"

	"golang.org/x/text/language"
)

type Key string

const (
	KeySafeReply          Key = "safe_reply"
	KeyOutOfScope         Key = "out_of_scope"
	KeyCatalogUnavailable Key = "catalog_unavailable"
	KeyNoProducts         Key = "no_products"
	KeyProviderFailure    Key = "provider_failure"
	// KeyLimitedStock takes the product name and the units left.
	KeyLimitedStock Key = "limited_stock"
)

var supported = []language.Tag{
	language.English,
	language.Hebrew,
	language.Arabic,
	language.Russian,
}

var defaultMessages = map[Key]map[language.Tag]string{
	KeySafeReply: {
		language.English: "I can't talk about that topic. Let's chat about something else!",
		language.Hebrew:  "אני לא יכול לדבר על הנושא הזה. בוא נדבר על משהו אחר!",
		language.Arabic:  "لا يمكنني التحدث عن هذا الموضوع. دعنا نتحدث عن شيء آخر!",
		language.Russian: "Я не могу говорить на эту тему. Давай поговорим о чём-нибудь другом!",
	},
	KeyOutOfScope: {
		language.English: "I can only help with questions about our products. What are you looking for today?",
		language.Hebrew:  "אני יכול לעזור רק בשאלות על המוצרים שלנו. מה אתם מחפשים היום?",
		language.Arabic:  "يمكنني المساعدة فقط في الأسئلة المتعلقة بمنتجاتنا. ما الذي تبحث عنه اليوم؟",
		language.Russian: "Я могу помочь только с вопросами о наших товарах. Что вы ищете сегодня?",
	},
	KeyCatalogUnavailable: {
		language.English: "Our product list is unavailable at the moment. Please try again in a few minutes.",
		language.Hebrew:  "רשימת המוצרים אינה זמינה כרגע. נסו שוב בעוד כמה דקות.",
		language.Arabic:  "قائمة المنتجات غير متاحة حاليًا. يرجى المحاولة مرة أخرى بعد بضع دقائق.",
		language.Russian: "Список товаров сейчас недоступен. Попробуйте ещё раз через несколько минут.",
	},
	KeyNoProducts: {
		language.English: "Sorry, there are no products available right now.",
		language.Hebrew:  "מצטערים, אין מוצרים זמינים כרגע.",
		language.Arabic:  "عذرًا، لا توجد منتجات متاحة حاليًا.",
		language.Russian: "Извините, сейчас нет доступных товаров.",
	},
	KeyProviderFailure: {
		language.English: "Sorry, I couldn't answer right now. Please try again.",
		language.Hebrew:  "סליחה, לא הצלחתי לענות כרגע. נסו שוב.",
		language.Arabic:  "عذرًا، لم أتمكن من الرد الآن. حاول مرة أخرى.",
		language.Russian: "Извините, я не смог ответить. Попробуйте ещё раз.",
	},
	KeyLimitedStock: {
		language.English: "Limited stock: only %[2]d of %[1]s left!",
		language.Hebrew:  "מלאי מוגבל: נשארו רק %[2]d יחידות של %[1]s!",
		language.Arabic:  "كمية محدودة: تبقى %[2]d فقط من %[1]s!",
		language.Russian: "Ограниченный запас: осталось всего %[2]d шт. %[1]s!",
	},
}

// Localizer picks fixed replies in the language a prompt was written in.
type Localizer struct {
	fallback language.Tag
	matcher  language.Matcher
	messages map[Key]map[language.Tag]string
}

// NewLocalizer builds a Localizer whose fallback is defaultLang when it is supported, English otherwise.
func NewLocalizer(defaultLang string) *Localizer {
	messages := make(map[Key]map[language.Tag]string, len(defaultMessages))
	for key, translations := range defaultMessages {
		messages[key] = make(map[language.Tag]string, len(translations))
		for tag, text := range translations {
			messages[key][tag] = text
		}
	}

	l := &Localizer{
		fallback: language.English,
		matcher:  language.NewMatcher(supported),
		messages: messages,
	}
	if tag, err := language.Parse(defaultLang); err == nil {
		l.fallback = l.match(tag, language.English)
	}
	return l
}

// Override replaces the text of key for lang. Unsupported languages are ignored.
func (l *Localizer) Override(key Key, lang, text string) bool {
	tag, err := language.Parse(lang)
	if err != nil || text == "" {
		return false
	}
	matched := l.match(tag, language.Und)
	if matched == language.Und {
		return false
	}
	if l.messages[key] == nil {
		l.messages[key] = make(map[language.Tag]string)
	}
	l.messages[key][matched] = text
	return true
}

// Detect guesses the language of text from the dominant script of its letters. Text
// without letters yields the fallback language.
func (l *Localizer) Detect(text string) language.Tag {
	var hebrew, arabic, cyrillic, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hebrew, r):
			hebrew++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	best, tag := 0, l.fallback
	for _, candidate := range []struct {
		count int
		tag   language.Tag
	}{
		{latin, language.English},
		{hebrew, language.Hebrew},
		{arabic, language.Arabic},
		{cyrillic, language.Russian},
	} {
		if candidate.count > best {
			best, tag = candidate.count, candidate.tag
		}
	}
	return tag
}

// Message returns the translation of key closest to tag, falling back to the default
// language and then to English.
func (l *Localizer) Message(key Key, tag language.Tag) string {
	translations := l.messages[key]
	if text, ok := translations[l.match(tag, l.fallback)]; ok {
		return text
	}
	if text, ok := translations[l.fallback]; ok {
		return text
	}
	return translations[language.English]
}

// MessageFor localises key for the language text is written in.
func (l *Localizer) MessageFor(key Key, text string) string {
	return l.Message(key, l.Detect(text))
}

func (l *Localizer) Fallback() language.Tag {
	return l.fallback
}

func (l *Localizer) match(tag language.Tag, otherwise language.Tag) language.Tag {
	_, index, confidence := l.matcher.Match(tag)
	if confidence == language.No {
		return otherwise
	}
	return supported[index]
}
