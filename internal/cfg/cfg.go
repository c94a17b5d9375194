package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Http     *HTTPConfig
	Qdrant   *QdrantCfg
	Redis    *RedisCfg
	Minio    *MinIOCfg
	Kafka    *KafkaCfg
	Embedder *EmbedderCfg
	Scraper  *ScraperCfg
	Catalog  *CatalogCfg
	TryOn    *TryOnCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type QdrantCfg struct {
	Host           string
	Port           int
	ApiKey         string
	CollectionName string // имя коллекции в Qdrant
	UseTLS         bool
	VectorSize     uint64
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ResultTTL   time.Duration // TTL кэшированных результатов поиска
}

type MinIOCfg struct {
	Endpoint     string
	BucketName   string
	RootUser     string
	RootPassword string
	UseSSL       bool
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// EmbedderCfg описывает подключение к сервису эмбеддингов (image/text encoder).
type EmbedderCfg struct {
	Addr           string
	MaxBatch       int
	MaxConcurrent  int
	MaxRetries     int
	RequestTimeout time.Duration
	RetryBase      time.Duration
	RetryMax       time.Duration
}

// ScraperCfg — общие настройки адаптеров источников.
type ScraperCfg struct {
	UserAgent       string
	PageSize        int
	MaxPages        int // потолок страниц для HTML-источников
	RequestTimeout  time.Duration
	CategoryWorkers int // параллельные категории внутри одного адаптера
	SourceWorkers   int // параллельные адаптеры при скрейпе всех источников
}

// CatalogCfg — настройки хранилища нормализованного каталога.
// Backend: "file" (каталог на диске) или "s3" (бакет MinIO).
type CatalogCfg struct {
	Backend string
	Dir     string
}

type TryOnCfg struct {
	Addr           string
	RequestTimeout time.Duration
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embedder, err := loadEmbedderCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	scraper, err := loadScraperCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	tryon, err := loadTryOnCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:     http,
		Qdrant:   qdrant,
		Redis:    redis,
		Minio:    minio,
		Kafka:    kafka,
		Embedder: embedder,
		Scraper:  scraper,
		Catalog:  catalog,
		TryOn:    tryon,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadQdrantCfg(log logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultVectorSize     = "512"
		defaultCollection     = "fashion_items"
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", defaultVectorSize)
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil {
		log.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	return &QdrantCfg{
		Host:           getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:           port,
		ApiKey:         getEnv("QDRANT__SERVICE__API_KEY"),
		CollectionName: getEnvOrDefault("COLLECTION_NAME", defaultCollection),
		UseTLS:         useTLS,
		VectorSize:     vectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr        = "localhost:6379"
		defaultDB          = 0
		defaultMaxRetries  = 3
		defaultDialTimeout = 5 * time.Second
		defaultTimeout     = 3 * time.Second
		defaultResultTTL   = 5 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	timeout, err := parseDurationEnv("REDIS_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_TIMEOUT")
		return nil, err
	}

	resultTTL, err := parseDurationEnv("RESULT_TTL", defaultResultTTL)
	if err != nil {
		log.Errorf(err, "invalid RESULT_TTL")
		return nil, err
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ResultTTL:   resultTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "catalog"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		Endpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:   getEnvOrDefault("BUCKET_NAME", defaultBucket),
		RootUser:     getEnv("MINIO_ROOT_USER"),
		RootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		UseSSL:       useSSL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultTopic             = "catalog.refreshed"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadEmbedderCfg() (*EmbedderCfg, error) {
	const (
		defaultHost           = "embedder"
		defaultPort           = "8000"
		defaultMaxBatch       = 32
		defaultMaxConcurrent  = 8
		defaultMaxRetries     = 3
		defaultRequestTimeout = 60 * time.Second
		defaultRetryBase      = 1 * time.Second
		defaultRetryMax       = 30 * time.Second
	)

	maxBatch, err := parseIntEnv("EMBEDDER_MAX_BATCH", defaultMaxBatch)
	if err != nil {
		return nil, e.Wrap("EMBEDDER_MAX_BATCH", err)
	}

	maxConcurrent, err := parseIntEnv("EMBEDDER_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		return nil, e.Wrap("EMBEDDER_MAX_CONCURRENT", err)
	}

	maxRetries, err := parseIntEnv("EMBEDDER_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("EMBEDDER_MAX_RETRIES", err)
	}

	requestTimeout, err := parseDurationEnv("EMBEDDER_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, e.Wrap("EMBEDDER_REQUEST_TIMEOUT", err)
	}

	host := getEnvOrDefault("EMBEDDER_HOST", defaultHost)
	port := getEnvOrDefault("EMBEDDER_PORT", defaultPort)

	return &EmbedderCfg{
		Addr:           "http://" + host + ":" + port,
		MaxBatch:       maxBatch,
		MaxConcurrent:  maxConcurrent,
		MaxRetries:     maxRetries,
		RequestTimeout: requestTimeout,
		RetryBase:      defaultRetryBase,
		RetryMax:       defaultRetryMax,
	}, nil
}

func loadScraperCfg() (*ScraperCfg, error) {
	const (
		defaultUserAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
		defaultPageSize        = 100
		defaultMaxPages        = 10
		defaultRequestTimeout  = 30 * time.Second
		defaultCategoryWorkers = 4
		defaultSourceWorkers   = 3
	)

	pageSize, err := parseIntEnv("SCRAPER_PAGE_SIZE", defaultPageSize)
	if err != nil {
		return nil, e.Wrap("SCRAPER_PAGE_SIZE", err)
	}

	maxPages, err := parseIntEnv("SCRAPER_MAX_PAGES", defaultMaxPages)
	if err != nil {
		return nil, e.Wrap("SCRAPER_MAX_PAGES", err)
	}

	requestTimeout, err := parseDurationEnv("SCRAPER_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, e.Wrap("SCRAPER_REQUEST_TIMEOUT", err)
	}

	categoryWorkers, err := parseIntEnv("SCRAPER_CATEGORY_WORKERS", defaultCategoryWorkers)
	if err != nil {
		return nil, e.Wrap("SCRAPER_CATEGORY_WORKERS", err)
	}

	sourceWorkers, err := parseIntEnv("SCRAPER_SOURCE_WORKERS", defaultSourceWorkers)
	if err != nil {
		return nil, e.Wrap("SCRAPER_SOURCE_WORKERS", err)
	}

	return &ScraperCfg{
		UserAgent:       getEnvOrDefault("SCRAPER_USER_AGENT", defaultUserAgent),
		PageSize:        pageSize,
		MaxPages:        maxPages,
		RequestTimeout:  requestTimeout,
		CategoryWorkers: categoryWorkers,
		SourceWorkers:   sourceWorkers,
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const (
		defaultBackend = "file"
		defaultDir     = "data/catalog"
	)

	backend := getEnvOrDefault("CATALOG_BACKEND", defaultBackend)
	if backend != "file" && backend != "s3" {
		return nil, e.Wrap("CATALOG_BACKEND", e.ErrIncorrectEnvVariable)
	}

	return &CatalogCfg{
		Backend: backend,
		Dir:     getEnvOrDefault("CATALOG_DIR", defaultDir),
	}, nil
}

func loadTryOnCfg() (*TryOnCfg, error) {
	const (
		defaultHost           = "tryon"
		defaultPort           = "8100"
		defaultRequestTimeout = 120 * time.Second
	)

	requestTimeout, err := parseDurationEnv("TRYON_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, e.Wrap("TRYON_REQUEST_TIMEOUT", err)
	}

	host := getEnvOrDefault("TRYON_HOST", defaultHost)
	port := getEnvOrDefault("TRYON_PORT", defaultPort)

	return &TryOnCfg{
		Addr:           "http://" + host + ":" + port,
		RequestTimeout: requestTimeout,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
