package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"sage-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST"`

	// Embedding provider (OpenAI-compatible /embeddings endpoint)
	EmbeddingBaseURL       string        `env:"EMBEDDING_BASE_URL" env-default:"http://localhost:8080/v1"`
	EmbeddingAPIKey        string        `env:"EMBEDDING_API_KEY" env-default:""`
	EmbeddingModel         string        `env:"EMBEDDING_MODEL" env-default:"all-MiniLM-L6-v2"`
	EmbeddingTimeout       time.Duration `env:"EMBEDDING_TIMEOUT" env-default:"30s"`
	EmbeddingWarmupOnStart bool          `env:"EMBEDDING_WARMUP_ON_START" env-default:"true"`

	// Scoring
	DefaultThreshold float64 `env:"DEFAULT_THRESHOLD" env-default:"0.75"`

	// Kafka Producer (answer.checked events)
	KafkaEventsEnabled bool     `env:"KAFKA_EVENTS_ENABLED" env-default:"false"`
	KafkaBrokers       []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic   string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"answer-events"`
	KafkaBatchSize     int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout  int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks  int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression   string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`
}
