package survey

import "fmt"

// Rating tier cutoffs follow the Net Promoter convention: 8 and 9 are
// promoters, 5 through 7 passives, 4 and below detractors.
const (
	promoterMin = 8
	passiveMin  = 5
)

// MinRating and MaxRating bound the accepted callback values.
const (
	MinRating = 1
	MaxRating = 9
)

// QuestionText renders the survey question addressed to the user.
func QuestionText(displayName string) string {
	return fmt.Sprintf(
		"%s, kompaniyamizni do'stlaringiz yoki tanishlaringizga tavsiya qilish ehtimolingiz qanchalik yuqori?\n\n"+
			"%s, насколько вероятно, что вы порекомендуете нашу компанию своим друзьям или знакомым?",
		displayName, displayName)
}

// ThankYouText renders the tiered acknowledgment for a submitted rating.
func ThankYouText(rating int, displayName string) string {
	switch {
	case rating >= promoterMin:
		return fmt.Sprintf(
			"%s, %d ball uchun katta rahmat! Qimmatli vaqtingizni ajratib fikringizni bildirganingiz uchun tashakkur. "+
				"Sizga yanada yaxshi tajriba taqdim etish uchun doim harakatdamiz! 💙\n\n"+
				"%s, огромное спасибо за оценку %d! Благодарим вас за то, что нашли время поделиться своим мнением. "+
				"Мы всегда стремимся предоставить вам лучший сервис! 💙",
			displayName, rating, displayName, rating)
	case rating >= passiveMin:
		return fmt.Sprintf(
			"%s, %d ball uchun rahmat! Sizning bahoingiz biz uchun juda muhim va xizmatlarimizni yanada yaxshilashga yordam beradi.\n\n"+
				"%s, спасибо за оценку %d! Ваша оценка очень важна для нас и помогает нам становиться лучше.",
			displayName, rating, displayName, rating)
	default:
		return fmt.Sprintf(
			"%s, %d ball uchun rahmat, fikringiz biz uchun muhim. Kamchiliklarimiz ustida albatta ishlaymiz.\n\n"+
				"%s, спасибо за оценку %d, ваше мнение важно для нас. Мы обязательно поработаем над нашими недостатками.",
			displayName, rating, displayName, rating)
	}
}

// AlreadyVotedText renders the notice shown to a user who has a recorded vote.
func AlreadyVotedText(displayName string) string {
	return fmt.Sprintf(
		"%s, siz allaqachon ovoz bergansiz. Fikringiz uchun yana bir bor rahmat!\n\n"+
			"%s, вы уже проголосовали. Ещё раз спасибо за ваше мнение!",
		displayName, displayName)
}

// CallbackConfirmText is the short toast shown while the rating is processed.
func CallbackConfirmText(rating int) string {
	return fmt.Sprintf("Bahoyingiz qabul qilindi: %d ✅", rating)
}

// CallbackRejectText is the toast shown on a stale rating callback.
func CallbackRejectText() string {
	return "Siz allaqachon ovoz bergansiz / Вы уже проголосовали"
}
