package telegram

// User-facing texts.
const (
	msgHelp           = "<b>Vocab Quest</b>\n\n" +
		"Играйте в словарные игры, получайте опыт и повышайте уровень.\n\n" +
		"/progress — уровень, опыт и достижения\n" +
		"/mistakes — слова, в которых вы ошибались\n" +
		"/clear — очистить список ошибок\n" +
		"/help — эта справка"
	msgUnknownCommand = "Неизвестная команда. Наберите /help, чтобы увидеть список команд."
	msgNotLinked      = "Ваш Telegram не привязан к аккаунту Vocab Quest. Привяжите его в настройках профиля."
	msgNoProgress     = "Вы ещё не сыграли ни одной игры. Самое время начать!"
	msgNoMistakes     = "🎉 Список ошибок пуст. Так держать!"
	msgClearPrompt    = "Удалить все слова из списка ошибок? Это действие нельзя отменить."
	msgClearCancelled = "Очистка отменена."
	msgClearDone      = "🧹 Удалено слов: %d."
	msgMarkedLearned  = "Отмечено как выученное"
	msgAlreadyRemoved = "Слово уже удалено"
	msgInternalError  = "Что‑то пошло не так. Попробуйте позже."
)

const mistakesShown = 10
