package chat

import "time"

// Chat is one request/response exchange. Records are created on a
// successful exchange and read-only after that.
type Chat struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Message            string    `json:"message"`
	Response           string    `json:"response"`
	TranslatedResponse string    `json:"translatedResponse,omitempty"`
	CreatedAt          time.Time `json:"timestamp"`
}
