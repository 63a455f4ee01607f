package health

import "time"

const (
	serviceName    = "TechCorp Solutions RAG Chatbot"
	serviceVersion = "1.0.0"
)

type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}
