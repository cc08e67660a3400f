package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (case/document store)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fern"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Comparison rules
	RulesFilePath string `env:"RULES_FILE_PATH" env-default:"rules/comparison.csv"`

	// Matching thresholds. The fuzzy threshold governs field-name resolution,
	// the semantic/lexical thresholds govern value comparison; they are
	// deliberately separate knobs.
	FuzzyFieldMatchThreshold float64 `env:"FUZZY_FIELD_MATCH_THRESHOLD" env-default:"0.70"`
	SemanticMatchThreshold   float64 `env:"SEMANTIC_MATCH_THRESHOLD" env-default:"0.85"`
	LexicalMatchThreshold    float64 `env:"LEXICAL_MATCH_THRESHOLD" env-default:"0.80"`

	// Embedding service. When the URL is empty the comparator runs with the
	// lexical fallback strategy only.
	EmbeddingServiceURL     string        `env:"EMBEDDING_SERVICE_URL" env-default:""`
	EmbeddingServiceModel   string        `env:"EMBEDDING_SERVICE_MODEL" env-default:"all-MiniLM-L6-v2"`
	EmbeddingServiceTimeout time.Duration `env:"EMBEDDING_SERVICE_TIMEOUT" env-default:"10s"`

	// Vision-language model used for document extraction
	VLMBaseURL     string        `env:"VLM_BASE_URL" env-default:""`
	VLMModel       string        `env:"VLM_MODEL" env-default:"gemini-1.5-pro-002"`
	VLMAPIKey      string        `env:"VLM_API_KEY" env-default:""`
	VLMTimeout     time.Duration `env:"VLM_TIMEOUT" env-default:"60s"`
	VLMTemperature float64       `env:"VLM_TEMPERATURE" env-default:"0.1"`
	VLMMaxTokens   int           `env:"VLM_MAX_OUTPUT_TOKENS" env-default:"8192"`

	// Kafka Producer settings
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"case-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled      bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingOTLPEndpoint string `env:"TRACING_OTLP_ENDPOINT" env-default:"localhost:4317"`
	// "grpc", "http", or "console" (spans are discarded, no collector needed)
	TracingOTLPProtocol string `env:"TRACING_OTLP_PROTOCOL" env-default:"grpc"`
	TracingInsecure     bool   `env:"TRACING_INSECURE" env-default:"true"`
}
