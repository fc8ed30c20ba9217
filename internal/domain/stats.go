package domain

// ChatStats - агрегированная статистика для админки
type ChatStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalMessages   int64 `json:"total_messages"`
	MessagesLast24h int64 `json:"messages_last_24h"`
	FileMessages    int64 `json:"file_messages"`
	OnlineCount     int   `json:"online_count"`
}
