package entities

// User is the learner account owned by the external identity service.
// Only the Telegram link is read here.
type User struct {
	ID         int64
	TelegramID *int64
	Username   string
}
