package model

import "time"

// URLMap - одна запись соответствия короткого кода длинному URL.
type URLMap struct {
	ID           string    `json:"id"`
	ShortCode    string    `json:"shortURL"`
	LongURL      string    `json:"longURL"`
	AliasCode    *string   `json:"aliasURL"`
	VisitorCount int64     `json:"visitorCount"`
	IsActive     bool      `json:"isActive"`
	RequestLimit int64     `json:"requestLimit"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// QuotaExhausted сообщает, что лимит переходов задан и уже выбран.
func (m *URLMap) QuotaExhausted() bool {
	return m.RequestLimit > 0 && m.VisitorCount >= m.RequestLimit
}

type CreateURLRequest struct {
	LongURL      string `json:"longUrl" binding:"required"`
	AliasURL     string `json:"aliasURL"`
	RequestLimit *int64 `json:"requestLimit"`
}

type CreateURLResponse struct {
	ShortURL string `json:"shortUrl"`
	URL      string `json:"url"`
}

type UpdateURLRequest struct {
	ShortURL     string `json:"-"`
	RequestLimit *int64 `json:"requestLimit"`
	Alias        string `json:"alias"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
